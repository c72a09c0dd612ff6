package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/stall-pos/kds"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/utils"
)

// OrderService persists orders, deducts recipe inventory and notifies the kitchen.
type OrderService struct {
	db      *gorm.DB
	catalog pos.CatalogSource
	hub     *kds.Hub
	now     func() time.Time
}

func NewOrderService(db *gorm.DB, catalog pos.CatalogSource, hub *kds.Hub) *OrderService {
	return &OrderService{db: db, catalog: catalog, hub: hub, now: time.Now}
}

// OrderLine is a client-requested line; prices always come from the catalog.
type OrderLine struct {
	ProductID uint
	Size      string
	Toppings  []string
	Quantity  int
}

type OrderFilter struct {
	Status string
	Limit  int
	From   time.Time
	To     time.Time
}

// SubmitOrder stores a finalised order and returns its identity.
func (s *OrderService) SubmitOrder(ctx context.Context, creds pos.Credentials, order pos.Order) (pos.Acknowledgement, error) {
	if len(order.Items) == 0 {
		return pos.Acknowledgement{}, pos.ErrEmptyCart
	}

	record := models.OrderFromPOS(order, creds.Cashier.ID)
	if record.CashierName == "" {
		record.CashierName = creds.Cashier.DisplayName()
	}
	record.CreatedAt = s.now()
	// replaced by the real number once the id is known
	record.OrderNumber = "TMP-" + uuid.NewString()

	var low []models.InventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		record.OrderNumber = pos.OrderNumber(record.CreatedAt, record.ID)
		if err := tx.Model(&record).Update("order_number", record.OrderNumber).Error; err != nil {
			return fmt.Errorf("assign order number: %w", err)
		}

		var err error
		low, err = deductForOrder(tx, record)
		if err != nil {
			return fmt.Errorf("deduct inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		utils.ErrorLogger.WithField("cashier", creds.Cashier.Username).Errorf("Error saving order: %v", err)
		return pos.Acknowledgement{}, err
	}

	ack := pos.Acknowledgement{ID: record.ID, Number: record.OrderNumber, CreatedAt: record.CreatedAt}
	utils.InfoLogger.WithFields(logrus.Fields{
		"order":   ack.Number,
		"total":   record.Total.StringFixed(2),
		"method":  record.PaymentMethod,
		"cashier": record.CashierName,
	}).Info("Order saved")

	s.hub.BroadcastOrderCreated(ack.Apply(order))
	s.hub.BroadcastLowStock(low)
	return ack, nil
}

// PlaceOrder re-prices the requested lines against the active catalog,
// validates the payment and stores the order.
func (s *OrderService) PlaceOrder(ctx context.Context, creds pos.Credentials, lines []OrderLine, payment pos.Payment) (pos.Order, error) {
	if len(lines) == 0 {
		return pos.Order{}, pos.ErrEmptyCart
	}
	products, err := s.catalog.ActiveProducts(ctx)
	if err != nil {
		return pos.Order{}, err
	}
	byID := make(map[uint]pos.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var cart pos.Cart
	for i, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return pos.Order{}, fmt.Errorf("%w: line %d product %d", pos.ErrProductNotFound, i, line.ProductID)
		}
		toppings := make([]pos.Topping, len(line.Toppings))
		for j, name := range line.Toppings {
			toppings[j] = pos.Topping{Name: name}
		}
		if _, err := cart.AddItem(product, pos.Size{Label: line.Size}, toppings, line.Quantity); err != nil {
			return pos.Order{}, fmt.Errorf("line %d: %w", i, err)
		}
	}

	order, err := pos.NewOrder(cart.Items(), payment, creds.Cashier.DisplayName())
	if err != nil {
		return pos.Order{}, err
	}
	ack, err := s.SubmitOrder(ctx, creds, order)
	if err != nil {
		return pos.Order{}, err
	}
	return ack.Apply(order), nil
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Items.Toppings").Order("created_at DESC, id DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items.Toppings").First(&order, id).Error; err != nil {
		return nil, notFound(err, ErrNotFound, "order", id)
	}
	return &order, nil
}

// UpdateStatus moves an order between kitchen states. Cancelled orders are final.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !pos.IsOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", pos.ErrInvalidInput, status)
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == string(pos.OrderCancelled) && status != order.Status {
		return nil, fmt.Errorf("%w: order %s is cancelled", pos.ErrInvalidTransition, order.OrderNumber)
	}

	if err := s.db.WithContext(ctx).Model(order).Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status
	s.hub.BroadcastOrderStatus(*order)
	return order, nil
}
