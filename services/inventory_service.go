package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/stall-pos/kds"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
)

type InventoryService struct {
	db  *gorm.DB
	hub *kds.Hub
}

func NewInventoryService(db *gorm.DB, hub *kds.Hub) *InventoryService {
	return &InventoryService{db: db, hub: hub}
}

type InventoryFilter struct {
	Category string
	Status   string
}

// AlertSummary groups items that need restocking.
type AlertSummary struct {
	TotalItems  int                    `json:"total_items"`
	LowCount    int                    `json:"low_stock_count"`
	OutCount    int                    `json:"out_of_stock_count"`
	LowStock    []models.InventoryItem `json:"low_stock"`
	OutOfStock  []models.InventoryItem `json:"out_of_stock"`
	GeneratedAt time.Time              `json:"generated_at"`
}

func (s *InventoryService) List(ctx context.Context, f InventoryFilter) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	if f.Status == "" {
		return items, nil
	}
	filtered := items[:0]
	for _, item := range items {
		if item.Status() == f.Status {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, ErrNotFound, "inventory item", id)
	}
	return &item, nil
}

func (s *InventoryService) Create(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	if err := validateInventoryItem(item); err != nil {
		return nil, err
	}
	item.ID = 0
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update edits the descriptive fields and thresholds. Stock changes go through
// Restock or Adjust so every change leaves a movement.
func (s *InventoryService) Update(ctx context.Context, id uint, in models.InventoryItem) (*models.InventoryItem, error) {
	if err := validateInventoryItem(in); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Category = in.Category
	item.Unit = in.Unit
	item.MinStockLevel = in.MinStockLevel
	item.MaxStockLevel = in.MaxStockLevel
	item.CostPerUnit = in.CostPerUnit
	item.Supplier = in.Supplier
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	s.hub.BroadcastInventoryUpdate(*item)
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, id).Error; err != nil {
			return notFound(err, ErrNotFound, "inventory item", id)
		}
		var refs int64
		if err := tx.Model(&models.SizeIngredient{}).Where("inventory_item_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: %s is used in %d recipes", ErrInUse, item.Name, refs)
		}
		if err := tx.Where("inventory_item_id = ?", id).Delete(&models.InventoryMovement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// ByProduct lists the inventory items consumed by any size of the product.
func (s *InventoryService) ByProduct(ctx context.Context, productID uint) ([]models.InventoryItem, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		return nil, notFound(err, pos.ErrProductNotFound, "product", productID)
	}

	sizeIDs := s.db.Model(&models.ProductSize{}).Select("id").Where("product_id = ?", productID)
	itemIDs := s.db.Model(&models.SizeIngredient{}).Select("inventory_item_id").Where("product_size_id IN (?)", sizeIDs)

	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).Where("id IN (?)", itemIDs).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Restock adds quantity to an item and records the movement.
func (s *InventoryService) Restock(ctx context.Context, id uint, quantity decimal.Decimal, note string, userID uint) (*models.InventoryItem, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: restock quantity must be positive", pos.ErrInvalidInput)
	}
	return s.applyMovement(ctx, id, models.MovementRestock, quantity, note, userID)
}

// Adjust sets the counted stock after a stocktake.
func (s *InventoryService) Adjust(ctx context.Context, id uint, counted decimal.Decimal, note string, userID uint) (*models.InventoryItem, error) {
	if counted.IsNegative() {
		return nil, fmt.Errorf("%w: counted stock cannot be negative", pos.ErrInvalidInput)
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyMovement(ctx, id, models.MovementAdjustment, counted.Sub(item.CurrentStock), note, userID)
}

func (s *InventoryService) applyMovement(ctx context.Context, id uint, kind string, delta decimal.Decimal, note string, userID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			return notFound(err, ErrNotFound, "inventory item", id)
		}
		item.CurrentStock = item.CurrentStock.Add(delta)
		if item.CurrentStock.IsNegative() {
			item.CurrentStock = decimal.Zero
		}
		if kind == models.MovementRestock {
			now := time.Now()
			item.LastRestocked = &now
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		movement := models.InventoryMovement{
			InventoryItemID: id,
			Type:            kind,
			Quantity:        delta,
			Balance:         item.CurrentStock,
			Note:            note,
		}
		if userID != 0 {
			movement.CreatedBy = &userID
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastInventoryUpdate(item)
	return &item, nil
}

func (s *InventoryService) Movements(ctx context.Context, id uint, limit int) ([]models.InventoryMovement, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var movements []models.InventoryMovement
	err := s.db.WithContext(ctx).
		Where("inventory_item_id = ?", id).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

func (s *InventoryService) Alerts(ctx context.Context) (AlertSummary, error) {
	items, err := s.List(ctx, InventoryFilter{})
	if err != nil {
		return AlertSummary{}, err
	}
	summary := AlertSummary{
		TotalItems:  len(items),
		LowStock:    []models.InventoryItem{},
		OutOfStock:  []models.InventoryItem{},
		GeneratedAt: time.Now(),
	}
	for _, item := range items {
		switch item.Status() {
		case models.StockLow:
			summary.LowStock = append(summary.LowStock, item)
		case models.StockOut:
			summary.OutOfStock = append(summary.OutOfStock, item)
		}
	}
	summary.LowCount = len(summary.LowStock)
	summary.OutCount = len(summary.OutOfStock)
	return summary, nil
}

// deductForOrder consumes recipe ingredients for every line of a persisted
// order inside tx. Stock never goes below zero. Items that end at or below
// their minimum level are returned.
func deductForOrder(tx *gorm.DB, order models.Order) ([]models.InventoryItem, error) {
	usage := make(map[uint]decimal.Decimal)
	var itemOrder []uint

	for _, line := range order.Items {
		var size models.ProductSize
		err := tx.Preload("Ingredients").
			Where("product_id = ? AND LOWER(size) = ?", line.ProductID, strings.ToLower(line.Size)).
			First(&size).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, ing := range size.Ingredients {
			if _, ok := usage[ing.InventoryItemID]; !ok {
				itemOrder = append(itemOrder, ing.InventoryItemID)
			}
			used := ing.Quantity.Mul(decimal.NewFromInt(int64(line.Quantity)))
			usage[ing.InventoryItemID] = usage[ing.InventoryItemID].Add(used)
		}
	}

	var low []models.InventoryItem
	for _, id := range itemOrder {
		var item models.InventoryItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		before := item.CurrentStock
		item.CurrentStock = decimal.Max(decimal.Zero, before.Sub(usage[id]))
		if err := tx.Model(&item).Update("current_stock", item.CurrentStock).Error; err != nil {
			return nil, err
		}

		orderID := order.ID
		movement := models.InventoryMovement{
			InventoryItemID: id,
			Type:            models.MovementSale,
			Quantity:        item.CurrentStock.Sub(before),
			Balance:         item.CurrentStock,
			OrderID:         &orderID,
			Note:            order.OrderNumber,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return nil, err
		}
		if item.Status() != models.StockIn {
			low = append(low, item)
		}
	}
	return low, nil
}

func validateInventoryItem(item models.InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: inventory name is required", pos.ErrInvalidInput)
	}
	if strings.TrimSpace(item.Unit) == "" {
		return fmt.Errorf("%w: inventory unit is required", pos.ErrInvalidInput)
	}
	if item.CurrentStock.IsNegative() || item.MinStockLevel.IsNegative() || item.MaxStockLevel.IsNegative() || item.CostPerUnit.IsNegative() {
		return fmt.Errorf("%w: stock levels and cost cannot be negative", pos.ErrInvalidInput)
	}
	if item.MaxStockLevel.IsPositive() && item.MaxStockLevel.LessThan(item.MinStockLevel) {
		return fmt.Errorf("%w: max stock level is below min stock level", pos.ErrInvalidInput)
	}
	return nil
}
