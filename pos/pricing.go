package pos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComputeUnitPrice returns size.Price plus the price of every topping.
func ComputeUnitPrice(size *Size, toppings []Topping) (decimal.Decimal, error) {
	if size == nil {
		return decimal.Zero, fmt.Errorf("%w: size is required", ErrInvalidInput)
	}
	if size.Price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: size %q has negative price", ErrInvalidInput, size.Label)
	}

	unit := size.Price
	for _, t := range toppings {
		if t.Price.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: topping %q has negative price", ErrInvalidInput, t.Name)
		}
		unit = unit.Add(t.Price)
	}
	return unit, nil
}

// ComputeLineSubtotal returns unitPrice * quantity. Quantity must be at least 1.
func ComputeLineSubtotal(unitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, quantity)
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// ComputeCartTotal sums the subtotal of every line. An empty cart totals zero.
func ComputeCartTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}
