package models

import (
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/stall-pos/pos"
)

// OrderItem is a line as it was sold. Name, size and prices are copied so
// later catalog edits do not change history.
type OrderItem struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	OrderID   uint               `gorm:"not null;index" json:"order_id"`
	ProductID uint               `gorm:"not null;index" json:"product_id"`
	Name      string             `gorm:"type:varchar(255);not null" json:"name"`
	Category  string             `gorm:"type:varchar(50)" json:"category"`
	Flavor    string             `gorm:"type:varchar(100)" json:"flavor"`
	Size      string             `gorm:"type:varchar(50);not null" json:"size"`
	UnitPrice decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity  int                `gorm:"not null" json:"quantity"`
	Subtotal  decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Toppings  []OrderItemTopping `gorm:"foreignKey:OrderItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"toppings"`
}

type OrderItemTopping struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	OrderItemID uint            `gorm:"not null;index" json:"-"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func orderItemFromPOS(item pos.LineItem) OrderItem {
	out := OrderItem{
		ProductID: item.ProductID,
		Name:      item.Name,
		Category:  item.Category,
		Flavor:    item.Flavor,
		Size:      item.Size,
		UnitPrice: item.UnitPrice,
		Quantity:  item.Quantity,
		Subtotal:  item.Subtotal,
	}
	for _, t := range item.Toppings {
		out.Toppings = append(out.Toppings, OrderItemTopping{Name: t.Name, Price: t.Price})
	}
	return out
}

func (i OrderItem) toPOS() pos.LineItem {
	out := pos.LineItem{
		ProductID: i.ProductID,
		Name:      i.Name,
		Category:  i.Category,
		Flavor:    i.Flavor,
		Size:      i.Size,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		Toppings:  make([]pos.Topping, len(i.Toppings)),
		Subtotal:  i.Subtotal,
	}
	for j, t := range i.Toppings {
		out.Toppings[j] = pos.Topping{Name: t.Name, Price: t.Price}
	}
	return out
}
