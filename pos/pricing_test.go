package pos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lemonade() Product {
	return Product{
		ID:       1,
		Name:     "Lemonade",
		Category: CategoryLemonade,
		Flavor:   "Classic",
		Sizes: []Size{
			{Label: "Small", Price: d("50.00")},
			{Label: "Medium", Price: d("65.00")},
			{Label: "Large", Price: d("80.00")},
		},
		Toppings: []Topping{
			{Name: "Pearl", Price: d("10.00")},
			{Name: "Nata", Price: d("12.50")},
		},
		Status: ProductActive,
	}
}

func fries() Product {
	return Product{
		ID:       2,
		Name:     "Fries",
		Category: CategoryFries,
		Sizes: []Size{
			{Label: "Regular", Price: d("55.00")},
			{Label: "Large", Price: d("85.50")},
		},
		Status: ProductActive,
	}
}

func TestComputeUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		size     Size
		toppings []Topping
		want     string
	}{
		{name: "no toppings", size: Size{Label: "Small", Price: d("50.00")}, want: "50.00"},
		{name: "one topping", size: Size{Label: "Small", Price: d("50.00")}, toppings: []Topping{{Name: "Pearl", Price: d("10.00")}}, want: "60.00"},
		{name: "two toppings", size: Size{Label: "Large", Price: d("80.00")}, toppings: []Topping{{Name: "Pearl", Price: d("10.00")}, {Name: "Nata", Price: d("12.50")}}, want: "102.50"},
		{name: "free size", size: Size{Label: "Taste", Price: decimal.Zero}, toppings: []Topping{{Name: "Pearl", Price: d("0.10")}, {Name: "Nata", Price: d("0.20")}}, want: "0.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := tt.size
			got, err := ComputeUnitPrice(&size, tt.toppings)
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)

			want := tt.size.Price
			for _, tp := range tt.toppings {
				want = want.Add(tp.Price)
			}
			assert.True(t, want.Equal(got))
		})
	}
}

func TestComputeUnitPrice_InvalidInput(t *testing.T) {
	_, err := ComputeUnitPrice(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ComputeUnitPrice(&Size{Label: "Small", Price: d("-1")}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ComputeUnitPrice(&Size{Label: "Small", Price: d("10")}, []Topping{{Name: "Bad", Price: d("-0.01")}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeLineSubtotal(t *testing.T) {
	for _, q := range []int{1, 2, 3, 7, 100} {
		got, err := ComputeLineSubtotal(d("60.00"), q)
		require.NoError(t, err)
		assert.True(t, d("60.00").Mul(decimal.NewFromInt(int64(q))).Equal(got))
	}

	_, err := ComputeLineSubtotal(d("60.00"), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ComputeLineSubtotal(d("60.00"), -3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSmallWithPearlTimesTwo(t *testing.T) {
	small := Size{Label: "Small", Price: d("50.00")}
	unit, err := ComputeUnitPrice(&small, []Topping{{Name: "Pearl", Price: d("10.00")}})
	require.NoError(t, err)
	assert.Equal(t, "60.00", unit.StringFixed(2))

	subtotal, err := ComputeLineSubtotal(unit, 2)
	require.NoError(t, err)
	assert.Equal(t, "120.00", subtotal.StringFixed(2))
}

func TestComputeCartTotal(t *testing.T) {
	assert.True(t, ComputeCartTotal(nil).IsZero())
	assert.True(t, ComputeCartTotal([]LineItem{}).IsZero())

	items := []LineItem{
		{Name: "Lemonade", Subtotal: d("120.00")},
		{Name: "Fries", Subtotal: d("85.50")},
	}
	assert.Equal(t, "205.50", ComputeCartTotal(items).StringFixed(2))
}

func TestComputeCartTotal_NoFloatDrift(t *testing.T) {
	items := make([]LineItem, 10)
	for i := range items {
		items[i] = LineItem{Subtotal: d("0.10")}
	}
	assert.True(t, d("1.00").Equal(ComputeCartTotal(items)))
}
