package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/utils"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var seedInventory = []models.InventoryItem{
	{Name: "Lemon Juice", Category: "beverage", Unit: "ml", CurrentStock: dec("20000"), MinStockLevel: dec("3000"), MaxStockLevel: dec("40000"), CostPerUnit: dec("0.08")},
	{Name: "Sugar Syrup", Category: "beverage", Unit: "ml", CurrentStock: dec("10000"), MinStockLevel: dec("1500"), MaxStockLevel: dec("20000"), CostPerUnit: dec("0.03")},
	{Name: "Cups 12oz", Category: "packaging", Unit: "pcs", CurrentStock: dec("500"), MinStockLevel: dec("100"), MaxStockLevel: dec("1000"), CostPerUnit: dec("2.50")},
	{Name: "Cups 16oz", Category: "packaging", Unit: "pcs", CurrentStock: dec("500"), MinStockLevel: dec("100"), MaxStockLevel: dec("1000"), CostPerUnit: dec("3.00")},
	{Name: "Waffle Batter", Category: "food", Unit: "g", CurrentStock: dec("15000"), MinStockLevel: dec("2000"), MaxStockLevel: dec("30000"), CostPerUnit: dec("0.05")},
	{Name: "Potatoes", Category: "food", Unit: "g", CurrentStock: dec("25000"), MinStockLevel: dec("5000"), MaxStockLevel: dec("50000"), CostPerUnit: dec("0.06")},
	{Name: "Soft Serve Mix", Category: "dairy", Unit: "ml", CurrentStock: dec("12000"), MinStockLevel: dec("2000"), MaxStockLevel: dec("24000"), CostPerUnit: dec("0.10")},
	{Name: "Cones", Category: "packaging", Unit: "pcs", CurrentStock: dec("300"), MinStockLevel: dec("50"), MaxStockLevel: dec("600"), CostPerUnit: dec("4.00")},
}

type recipeLine struct {
	item string
	qty  string
}

type seedSize struct {
	label  string
	price  string
	recipe []recipeLine
}

type seedProduct struct {
	name, category, flavor, description string
	sizes                               []seedSize
	toppings                            map[string]string
}

var lemonadeSizes = []seedSize{
	{"Small", "50.00", []recipeLine{{"Lemon Juice", "60"}, {"Sugar Syrup", "30"}, {"Cups 12oz", "1"}}},
	{"Large", "70.00", []recipeLine{{"Lemon Juice", "90"}, {"Sugar Syrup", "45"}, {"Cups 16oz", "1"}}},
}

var seedProducts = []seedProduct{
	{"Lemonade", pos.CategoryLemonade, "Classic", "Freshly squeezed lemonade", lemonadeSizes, map[string]string{"Pearl": "10.00", "Nata": "10.00"}},
	{"Lemonade", pos.CategoryLemonade, "Strawberry", "Lemonade with strawberry syrup", lemonadeSizes, map[string]string{"Pearl": "10.00", "Nata": "10.00"}},
	{"Waffle", pos.CategoryWaffle, "Plain", "Crispy waffle", []seedSize{
		{"Regular", "45.00", []recipeLine{{"Waffle Batter", "120"}}},
	}, map[string]string{"Chocolate": "15.00", "Cheese": "15.00"}},
	{"Fries", pos.CategoryFries, "", "Potato fries", []seedSize{
		{"Regular", "55.00", []recipeLine{{"Potatoes", "150"}}},
		{"Large", "85.50", []recipeLine{{"Potatoes", "250"}}},
	}, map[string]string{"Cheese Powder": "5.00", "BBQ Powder": "5.00"}},
	{"Soft Ice Cream", pos.CategorySoftIceCream, "Vanilla", "Soft serve on a cone", []seedSize{
		{"Cone", "25.00", []recipeLine{{"Soft Serve Mix", "90"}, {"Cones", "1"}}},
	}, map[string]string{"Sprinkles": "5.00"}},
}

// toppingOrder keeps seeded topping order stable.
var toppingOrder = []string{"Pearl", "Nata", "Chocolate", "Cheese", "Cheese Powder", "BBQ Powder", "Sprinkles"}

// SeedCatalog loads the starter inventory and products. It does nothing when
// products already exist and returns how many products were created.
func SeedCatalog(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]uint)
		for _, item := range seedInventory {
			item := item
			if err := tx.Where(models.InventoryItem{Name: item.Name}).FirstOrCreate(&item).Error; err != nil {
				return fmt.Errorf("seed inventory %s: %w", item.Name, err)
			}
			ids[item.Name] = item.ID
		}

		for _, sp := range seedProducts {
			product := pos.Product{
				Name:        sp.name,
				Category:    sp.category,
				Flavor:      sp.flavor,
				Description: sp.description,
				Status:      pos.ProductActive,
			}
			for _, size := range sp.sizes {
				s := pos.Size{Label: size.label, Price: dec(size.price)}
				for _, r := range size.recipe {
					s.Ingredients = append(s.Ingredients, pos.Ingredient{InventoryItemID: ids[r.item], Quantity: dec(r.qty)})
				}
				product.Sizes = append(product.Sizes, s)
			}
			for _, name := range toppingOrder {
				if price, ok := sp.toppings[name]; ok {
					product.Toppings = append(product.Toppings, pos.Topping{Name: name, Price: dec(price)})
				}
			}

			record := models.ProductFromCatalog(product)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", sp.name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	utils.InfoLogger.Infof("Seeded %d products and %d inventory items", created, len(seedInventory))
	return created, nil
}
