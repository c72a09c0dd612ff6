package pos

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func filledCart(t *testing.T) *Cart {
	t.Helper()
	cart := &Cart{}
	_, err := cart.AddItem(lemonade(), Size{Label: "Small"}, []Topping{{Name: "Pearl"}}, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(fries(), Size{Label: "Large"}, nil, 1)
	require.NoError(t, err)
	return cart
}

func TestCheckout_HappyPath(t *testing.T) {
	cart := filledCart(t)
	var co Checkout
	assert.Equal(t, StateIdle, co.State())

	require.NoError(t, co.Begin(cart))
	assert.Equal(t, StateAwaitingPayment, co.State())
	assert.True(t, co.Locked())

	order, err := co.Tender(Cash{AmountPaid: d("250.00")}, "Maria Santos")
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, co.State())
	assert.Equal(t, "44.50", order.Change.StringFixed(2))

	pending, ok := co.Pending()
	require.True(t, ok)
	assert.Equal(t, order.Total, pending.Total)

	ack := Acknowledgement{ID: 42, Number: "ORD-20261016-000042", CreatedAt: mustTime(t, "2026-10-16T14:30:00Z")}
	final, err := co.Complete(ack)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, co.State())
	assert.Equal(t, uint(42), final.ID)
	assert.Equal(t, "ORD-20261016-000042", final.Number)
	assert.True(t, cart.IsEmpty())
	assert.False(t, co.Locked())

	last, ok := co.LastCompleted()
	require.True(t, ok)
	assert.Equal(t, final.Number, last.Number)
}

func TestCheckout_EmptyCart(t *testing.T) {
	var co Checkout
	err := co.Begin(&Cart{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateIdle, co.State())

	_, err = co.Tender(Cash{AmountPaid: d("10")}, "maria")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckout_InsufficientCashReturnsToAwaiting(t *testing.T) {
	cart := filledCart(t)
	var co Checkout
	require.NoError(t, co.Begin(cart))

	_, err := co.Tender(Cash{AmountPaid: d("200.00")}, "maria")
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Equal(t, StateAwaitingPayment, co.State())
	assert.ErrorIs(t, co.LastError(), ErrInsufficientPayment)
	assert.Equal(t, 2, cart.Len())

	order, err := co.Tender(Cash{AmountPaid: d("205.50")}, "maria")
	require.NoError(t, err)
	assert.True(t, order.Change.IsZero())
	assert.NoError(t, co.LastError())
}

func TestCheckout_FailureKeepsCartAndRetries(t *testing.T) {
	cart := filledCart(t)
	var co Checkout
	require.NoError(t, co.Begin(cart))
	submitted, err := co.Tender(Card{Reference: "R1"}, "maria")
	require.NoError(t, err)

	err = co.Fail(errors.New("connection refused"))
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, StateSubmissionFailed, co.State())
	assert.Equal(t, 2, cart.Len())
	assert.True(t, co.Locked())

	retried, err := co.Retry()
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, co.State())
	assert.Equal(t, submitted.Total, retried.Total)
	assert.Equal(t, submitted.PaymentReference, retried.PaymentReference)

	_, err = co.Complete(Acknowledgement{ID: 1})
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCheckout_Cancel(t *testing.T) {
	cart := filledCart(t)
	var co Checkout

	assert.ErrorIs(t, co.Cancel(), ErrInvalidTransition)

	require.NoError(t, co.Begin(cart))
	require.NoError(t, co.Cancel())
	assert.Equal(t, StateIdle, co.State())
	assert.Equal(t, 2, cart.Len())

	require.NoError(t, co.Begin(cart))
	_, err := co.Tender(Cash{AmountPaid: d("500")}, "maria")
	require.NoError(t, err)
	assert.ErrorIs(t, co.Cancel(), ErrSubmissionInProgress)

	require.Error(t, co.Fail(errors.New("timeout")))
	require.NoError(t, co.Cancel())
	assert.Equal(t, StateIdle, co.State())
	assert.Equal(t, 2, cart.Len())
}

func TestCheckout_DuplicateSubmission(t *testing.T) {
	cart := filledCart(t)
	var co Checkout
	require.NoError(t, co.Begin(cart))
	_, err := co.Tender(Cash{AmountPaid: d("500")}, "maria")
	require.NoError(t, err)

	_, err = co.Tender(Cash{AmountPaid: d("500")}, "maria")
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, err = co.Retry()
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.ErrorIs(t, co.Begin(cart), ErrInvalidTransition)
}

func TestCheckout_BeginAfterCompleted(t *testing.T) {
	cart := filledCart(t)
	var co Checkout
	require.NoError(t, co.Begin(cart))
	_, err := co.Tender(Cash{AmountPaid: d("500")}, "maria")
	require.NoError(t, err)
	_, err = co.Complete(Acknowledgement{ID: 7})
	require.NoError(t, err)

	assert.ErrorIs(t, co.Begin(cart), ErrEmptyCart)

	_, err = cart.AddItem(fries(), Size{Label: "Regular"}, nil, 1)
	require.NoError(t, err)
	require.NoError(t, co.Begin(cart))
	assert.Equal(t, StateAwaitingPayment, co.State())
}
