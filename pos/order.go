package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderCancelled OrderStatus = "cancelled"
)

// IsOrderStatus reports whether s is a known order status.
func IsOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderCompleted, OrderPending, OrderPreparing, OrderCancelled:
		return true
	}
	return false
}

// Order is a finalised cart. ID, Number and CreatedAt are filled in from the
// order service acknowledgement.
type Order struct {
	ID               uint            `json:"id,omitempty"`
	Number           string          `json:"order_number,omitempty"`
	Items            []LineItem      `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentProvider  string          `json:"payment_provider,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Change           decimal.Decimal `json:"change"`
	Cashier          string          `json:"cashier"`
	Status           OrderStatus     `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewOrder prices items, validates p against the total and returns a
// completed order ready for submission. Tax and discount are zero.
func NewOrder(items []LineItem, p Payment, cashier string) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	subtotal := ComputeCartTotal(items)
	tax := decimal.Zero
	discount := decimal.Zero
	total := subtotal.Sub(discount).Add(tax)

	amountPaid, change, err := ValidatePayment(total, p)
	if err != nil {
		return Order{}, err
	}
	provider, reference := paymentDetails(p)

	lines := make([]LineItem, len(items))
	copy(lines, items)

	return Order{
		Items:            lines,
		Subtotal:         subtotal,
		Tax:              tax,
		Discount:         discount,
		Total:            total,
		PaymentMethod:    p.Method(),
		PaymentProvider:  provider,
		PaymentReference: reference,
		AmountPaid:       amountPaid,
		Change:           change,
		Cashier:          cashier,
		Status:           OrderCompleted,
	}, nil
}

// Acknowledgement is what the order service echoes back after persisting an order.
type Acknowledgement struct {
	ID        uint      `json:"id"`
	Number    string    `json:"order_number"`
	CreatedAt time.Time `json:"created_at"`

	// Stored is set when the order service priced the order differently;
	// it is the order as persisted.
	Stored *Order `json:"-"`
}

// Apply copies the persisted identity onto the order. When the service stored
// different figures those replace the local ones, so receipts always match
// the persisted order.
func (a Acknowledgement) Apply(o Order) Order {
	if a.Stored != nil {
		local := o
		o = *a.Stored
		if len(o.Items) == 0 {
			o.Items = local.Items
		}
		if o.Cashier == "" {
			o.Cashier = local.Cashier
		}
		if o.PaymentMethod == "" {
			o.PaymentMethod = local.PaymentMethod
		}
	}
	o.ID = a.ID
	o.Number = a.Number
	o.CreatedAt = a.CreatedAt
	return o
}

// OrderNumber formats the receipt number for an order persisted on day with id.
func OrderNumber(day time.Time, id uint) string {
	return fmt.Sprintf("ORD-%s-%06d", day.Format("20060102"), id)
}

// Cashier identifies the staff member operating a session.
type Cashier struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName prefers the full name and falls back to the username.
func (c Cashier) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Username
}

// Credentials is passed explicitly to collaborators that act on behalf of a cashier.
type Credentials struct {
	Cashier Cashier
	Token   string
}

// CatalogSource provides the products a POS session may sell.
type CatalogSource interface {
	ActiveProducts(ctx context.Context) ([]Product, error)
}

// OrderSubmitter persists a finalised order.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, creds Credentials, order Order) (Acknowledgement, error)
}
