package pos

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product categories sold by the stall.
const (
	CategoryLemonade     = "lemonade"
	CategoryWaffle       = "waffle"
	CategoryFries        = "fries"
	CategorySoftIceCream = "soft-ice-cream"
	CategoryOthers       = "others"
)

// Categories lists every category accepted by the catalog.
var Categories = []string{
	CategoryLemonade,
	CategoryWaffle,
	CategoryFries,
	CategorySoftIceCream,
	CategoryOthers,
}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// Ingredient links a size to the inventory it consumes.
type Ingredient struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit,omitempty"`
}

type Size struct {
	Label       string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Ingredients []Ingredient    `json:"ingredients,omitempty"`
}

type Topping struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Product is a read-only catalog entry as seen by the order-building flow.
type Product struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Flavor      string        `json:"flavor,omitempty"`
	Description string        `json:"description,omitempty"`
	Sizes       []Size        `json:"sizes"`
	Toppings    []Topping     `json:"toppings"`
	Status      ProductStatus `json:"status"`
}

// IsActive reports whether the product can be sold.
func (p Product) IsActive() bool {
	return p.Status == ProductActive
}

// FindSize returns the size with the given label.
func (p Product) FindSize(label string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.Label == label {
			return s, true
		}
	}
	return Size{}, false
}

// FindTopping returns the topping offered by the product with the given name.
func (p Product) FindTopping(name string) (Topping, bool) {
	for _, t := range p.Toppings {
		if t.Name == name {
			return t, true
		}
	}
	return Topping{}, false
}

// StartingPrice is the price of the first size, shown as "From ..." on the POS grid.
func (p Product) StartingPrice() decimal.Decimal {
	if len(p.Sizes) == 0 {
		return decimal.Zero
	}
	return p.Sizes[0].Price
}

// FilterProducts keeps products matching category ("" or "all" for any) and a
// case-insensitive query over name, flavor and description.
func FilterProducts(products []Product, category, query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Flavor), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
