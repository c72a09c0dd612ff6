package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StockIn  = "in-stock"
	StockLow = "low-stock"
	StockOut = "out-of-stock"
)

const (
	MovementRestock    = "restock"
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
)

type InventoryItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Category      string          `gorm:"type:varchar(50)" json:"category"`
	Unit          string          `gorm:"type:varchar(20);not null" json:"unit"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"current_stock"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"min_stock_level"`
	MaxStockLevel decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"max_stock_level"`
	CostPerUnit   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_per_unit"`
	Supplier      string          `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Status derives the stock label shown to admins.
func (i InventoryItem) Status() string {
	switch {
	case !i.CurrentStock.IsPositive():
		return StockOut
	case i.CurrentStock.LessThanOrEqual(i.MinStockLevel):
		return StockLow
	default:
		return StockIn
	}
}

// InventoryMovement records one change to an item's stock. Quantity is signed.
type InventoryMovement struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	InventoryItemID uint            `gorm:"not null;index" json:"inventory_item_id"`
	Type            string          `gorm:"type:varchar(20);not null" json:"type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Balance         decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"balance"`
	OrderID         *uint           `gorm:"index" json:"order_id,omitempty"`
	Note            string          `gorm:"type:varchar(255)" json:"note,omitempty"`
	CreatedBy       *uint           `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
