package pos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is one configured product variant in the cart.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Flavor    string          `json:"flavor,omitempty"`
	Size      string          `json:"size"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Toppings  []Topping       `json:"toppings"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ToppingNames returns the topping names in selection order.
func (li LineItem) ToppingNames() []string {
	names := make([]string, len(li.Toppings))
	for i, t := range li.Toppings {
		names[i] = t.Name
	}
	return names
}

// NewLineItem prices a variant of product. The size and toppings are resolved
// against the product so catalog prices always win over caller supplied ones.
func NewLineItem(product Product, size Size, toppings []Topping, quantity int) (LineItem, error) {
	if !product.IsActive() {
		return LineItem{}, fmt.Errorf("%w: product %q is not active", ErrInvalidInput, product.Name)
	}

	catalogSize, ok := product.FindSize(size.Label)
	if !ok {
		return LineItem{}, fmt.Errorf("%w: size %q is not offered for %q", ErrInvalidInput, size.Label, product.Name)
	}

	selected := make([]Topping, 0, len(toppings))
	seen := make(map[string]bool, len(toppings))
	for _, t := range toppings {
		if seen[t.Name] {
			continue
		}
		catalogTopping, ok := product.FindTopping(t.Name)
		if !ok {
			return LineItem{}, fmt.Errorf("%w: topping %q is not offered for %q", ErrInvalidInput, t.Name, product.Name)
		}
		seen[t.Name] = true
		selected = append(selected, catalogTopping)
	}

	unit, err := ComputeUnitPrice(&catalogSize, selected)
	if err != nil {
		return LineItem{}, err
	}
	subtotal, err := ComputeLineSubtotal(unit, quantity)
	if err != nil {
		return LineItem{}, err
	}

	return LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Flavor:    product.Flavor,
		Size:      catalogSize.Label,
		UnitPrice: unit,
		Quantity:  quantity,
		Toppings:  selected,
		Subtotal:  subtotal,
	}, nil
}

// Cart is the ordered list of line items of one POS session. It is not safe
// for concurrent use; Session serialises access.
type Cart struct {
	items []LineItem
}

// AddItem validates the variant and appends it to the cart.
func (c *Cart) AddItem(product Product, size Size, toppings []Topping, quantity int) (LineItem, error) {
	item, err := NewLineItem(product, size, toppings, quantity)
	if err != nil {
		return LineItem{}, err
	}
	c.items = append(c.items, item)
	return item, nil
}

// RemoveItem drops the line at index.
func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: index %d, cart has %d items", ErrIndexOutOfRange, index, len(c.items))
	}
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) Total() decimal.Decimal {
	return ComputeCartTotal(c.items)
}
