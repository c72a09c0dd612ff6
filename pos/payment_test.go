package pos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChange(t *testing.T) {
	total := d("205.50")
	for _, paid := range []string{"205.50", "250", "1000", "100"} {
		change := ComputeChange(total, Cash{AmountPaid: d(paid)})
		assert.True(t, d(paid).Sub(total).Equal(change), paid)
	}
}

func TestValidatePayment_Cash(t *testing.T) {
	paid, change, err := ValidatePayment(d("205.50"), Cash{AmountPaid: d("250.00")})
	require.NoError(t, err)
	assert.Equal(t, "250.00", paid.StringFixed(2))
	assert.Equal(t, "44.50", change.StringFixed(2))

	paid, change, err = ValidatePayment(d("205.50"), Cash{AmountPaid: d("205.50")})
	require.NoError(t, err)
	assert.Equal(t, "205.50", paid.StringFixed(2))
	assert.True(t, change.IsZero())

	_, _, err = ValidatePayment(d("205.50"), Cash{AmountPaid: d("200.00")})
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Contains(t, err.Error(), "tendered 200.00, total 205.50")

	_, _, err = ValidatePayment(d("10"), Cash{AmountPaid: d("-1")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidatePayment_NonCash(t *testing.T) {
	paid, change, err := ValidatePayment(d("99.00"), Card{Reference: "APPR-1"})
	require.NoError(t, err)
	assert.Equal(t, "99.00", paid.StringFixed(2))
	assert.True(t, change.IsZero())

	paid, change, err = ValidatePayment(d("99.00"), EWallet{Provider: "GCash"})
	require.NoError(t, err)
	assert.Equal(t, "99.00", paid.StringFixed(2))
	assert.True(t, change.IsZero())

	_, _, err = ValidatePayment(d("99.00"), EWallet{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = ValidatePayment(d("99.00"), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParsePayment(t *testing.T) {
	p, err := ParsePayment("Cash", d("100"), "", "")
	require.NoError(t, err)
	assert.Equal(t, Cash{AmountPaid: d("100")}, p)

	p, err = ParsePayment("card", decimal.Zero, "", "REF-9")
	require.NoError(t, err)
	assert.Equal(t, Card{Reference: "REF-9"}, p)

	p, err = ParsePayment("e-wallet", decimal.Zero, "Maya", "")
	require.NoError(t, err)
	assert.Equal(t, EWallet{Provider: "Maya"}, p)

	p, err = ParsePayment("gcash", decimal.Zero, "", "TX1")
	require.NoError(t, err)
	assert.Equal(t, EWallet{Provider: "gcash", Reference: "TX1"}, p)
	assert.Equal(t, MethodEWallet, p.Method())

	_, err = ParsePayment("cheque", decimal.Zero, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewOrder(t *testing.T) {
	var cart Cart
	_, err := cart.AddItem(lemonade(), Size{Label: "Small"}, []Topping{{Name: "Pearl"}}, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(fries(), Size{Label: "Large"}, nil, 1)
	require.NoError(t, err)

	order, err := NewOrder(cart.Items(), Cash{AmountPaid: d("250")}, "Maria Santos")
	require.NoError(t, err)
	assert.Equal(t, "205.50", order.Subtotal.StringFixed(2))
	assert.True(t, order.Tax.IsZero())
	assert.True(t, order.Discount.IsZero())
	assert.Equal(t, "205.50", order.Total.StringFixed(2))
	assert.Equal(t, "44.50", order.Change.StringFixed(2))
	assert.Equal(t, MethodCash, order.PaymentMethod)
	assert.Equal(t, OrderCompleted, order.Status)
	assert.Equal(t, "Maria Santos", order.Cashier)
	assert.Len(t, order.Items, 2)

	order, err = NewOrder(cart.Items(), EWallet{Provider: "GCash", Reference: "TX-7"}, "maria")
	require.NoError(t, err)
	assert.Equal(t, "GCash", order.PaymentProvider)
	assert.Equal(t, "TX-7", order.PaymentReference)
	assert.True(t, order.AmountPaid.Equal(order.Total))

	_, err = NewOrder(nil, Cash{AmountPaid: d("10")}, "maria")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderNumber(t *testing.T) {
	day := mustTime(t, "2026-10-16T09:00:00Z")
	assert.Equal(t, "ORD-20261016-000042", OrderNumber(day, 42))
}

func TestCashierDisplayName(t *testing.T) {
	assert.Equal(t, "Maria Santos", Cashier{Username: "maria", FullName: "Maria Santos"}.DisplayName())
	assert.Equal(t, "maria", Cashier{Username: "maria"}.DisplayName())
}
