package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/stall-pos/pos"
)

type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderNumber      string          `gorm:"type:varchar(64);uniqueIndex" json:"order_number"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax              decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Discount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentProvider  string          `gorm:"type:varchar(50)" json:"payment_provider,omitempty"`
	PaymentReference string          `gorm:"type:varchar(100)" json:"payment_reference,omitempty"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_paid"`
	Change           decimal.Decimal `gorm:"column:change_amount;type:decimal(12,2);not null" json:"change"`
	CashierID        *uint           `gorm:"index" json:"cashier_id,omitempty"`
	CashierName      string          `gorm:"type:varchar(255)" json:"cashier"`
	Status           string          `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderFromPOS maps a finalised cart onto the storage model.
func OrderFromPOS(o pos.Order, cashierID uint) Order {
	out := Order{
		Subtotal:         o.Subtotal,
		Tax:              o.Tax,
		Discount:         o.Discount,
		Total:            o.Total,
		PaymentMethod:    string(o.PaymentMethod),
		PaymentProvider:  o.PaymentProvider,
		PaymentReference: o.PaymentReference,
		AmountPaid:       o.AmountPaid,
		Change:           o.Change,
		CashierName:      o.Cashier,
		Status:           string(o.Status),
	}
	if cashierID != 0 {
		out.CashierID = &cashierID
	}
	if out.Status == "" {
		out.Status = string(pos.OrderCompleted)
	}
	for _, item := range o.Items {
		out.Items = append(out.Items, orderItemFromPOS(item))
	}
	return out
}

// ToPOS converts an order with preloaded items and toppings.
func (o Order) ToPOS() pos.Order {
	out := pos.Order{
		ID:               o.ID,
		Number:           o.OrderNumber,
		Items:            make([]pos.LineItem, len(o.Items)),
		Subtotal:         o.Subtotal,
		Tax:              o.Tax,
		Discount:         o.Discount,
		Total:            o.Total,
		PaymentMethod:    pos.PaymentMethod(o.PaymentMethod),
		PaymentProvider:  o.PaymentProvider,
		PaymentReference: o.PaymentReference,
		AmountPaid:       o.AmountPaid,
		Change:           o.Change,
		Cashier:          o.CashierName,
		Status:           pos.OrderStatus(o.Status),
		CreatedAt:        o.CreatedAt,
	}
	for i, item := range o.Items {
		out.Items[i] = item.toPOS()
	}
	return out
}
