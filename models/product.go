package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/stall-pos/pos"
)

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Category    string           `gorm:"type:varchar(50);not null;index" json:"category"`
	Flavor      string           `gorm:"type:varchar(100)" json:"flavor"`
	Description string           `gorm:"type:text" json:"description"`
	Status      string           `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Sizes       []ProductSize    `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"sizes"`
	Toppings    []ProductTopping `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"toppings"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductSize is a priced size of a product together with its recipe.
type ProductSize struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ProductID   uint             `gorm:"not null;index" json:"product_id"`
	Label       string           `gorm:"column:size;type:varchar(50);not null" json:"size"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	Position    int              `gorm:"not null;default:0" json:"-"`
	Ingredients []SizeIngredient `gorm:"foreignKey:ProductSizeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"recipe"`
}

// SizeIngredient links a size to the inventory it consumes per unit sold.
type SizeIngredient struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductSizeID   uint            `gorm:"not null;index" json:"-"`
	InventoryItemID uint            `gorm:"not null;index" json:"inventory_item_id"`
	InventoryItem   *InventoryItem  `gorm:"foreignKey:InventoryItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"inventory_item,omitempty"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Unit            string          `gorm:"type:varchar(20)" json:"unit"`
}

type ProductTopping struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"-"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Position  int             `gorm:"not null;default:0" json:"-"`
}

// ToCatalog converts a product with preloaded sizes, toppings and ingredients.
func (p Product) ToCatalog() pos.Product {
	out := pos.Product{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Flavor:      p.Flavor,
		Description: p.Description,
		Status:      pos.ProductStatus(p.Status),
		Sizes:       make([]pos.Size, len(p.Sizes)),
		Toppings:    make([]pos.Topping, len(p.Toppings)),
	}
	for i, s := range p.Sizes {
		size := pos.Size{Label: s.Label, Price: s.Price, Ingredients: make([]pos.Ingredient, len(s.Ingredients))}
		for j, ing := range s.Ingredients {
			name := ""
			if ing.InventoryItem != nil {
				name = ing.InventoryItem.Name
			}
			size.Ingredients[j] = pos.Ingredient{
				InventoryItemID: ing.InventoryItemID,
				Name:            name,
				Quantity:        ing.Quantity,
				Unit:            ing.Unit,
			}
		}
		out.Sizes[i] = size
	}
	for i, t := range p.Toppings {
		out.Toppings[i] = pos.Topping{Name: t.Name, Price: t.Price}
	}
	return out
}

// ProductFromCatalog builds a storable product. IDs of children are left zero.
func ProductFromCatalog(c pos.Product) Product {
	p := Product{
		ID:          c.ID,
		Name:        c.Name,
		Category:    c.Category,
		Flavor:      c.Flavor,
		Description: c.Description,
		Status:      string(c.Status),
	}
	if p.Status == "" {
		p.Status = string(pos.ProductActive)
	}
	for i, s := range c.Sizes {
		size := ProductSize{Label: s.Label, Price: s.Price, Position: i}
		for _, ing := range s.Ingredients {
			size.Ingredients = append(size.Ingredients, SizeIngredient{
				InventoryItemID: ing.InventoryItemID,
				Quantity:        ing.Quantity,
				Unit:            ing.Unit,
			})
		}
		p.Sizes = append(p.Sizes, size)
	}
	for i, t := range c.Toppings {
		p.Toppings = append(p.Toppings, ProductTopping{Name: t.Name, Price: t.Price, Position: i})
	}
	return p
}
