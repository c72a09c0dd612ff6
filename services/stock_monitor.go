package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/stall-pos/kds"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/utils"
)

// StockMonitor periodically checks inventory levels and warns connected
// displays when an item newly drops to low or out of stock.
type StockMonitor struct {
	Inventory *InventoryService
	Hub       *kds.Hub
	Interval  time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	alerted  map[uint]string // item id -> status last announced
}

func NewStockMonitor(inventory *InventoryService, hub *kds.Hub) *StockMonitor {
	return &StockMonitor{
		Inventory: inventory,
		Hub:       hub,
		Interval:  time.Minute,
		stopChan:  make(chan struct{}),
		alerted:   make(map[uint]string),
	}
}

func (m *StockMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := m.Check(context.Background()); err != nil {
					utils.ErrorLogger.Errorf("Error checking stock levels: %v", err)
				}
			case <-m.stopChan:
				return
			}
		}
	}()
}

func (m *StockMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// Check broadcasts the items whose stock status worsened since the last check
// and returns them. Items that recover are forgotten so a later drop alerts again.
func (m *StockMonitor) Check(ctx context.Context) ([]models.InventoryItem, error) {
	summary, err := m.Inventory.Alerts(ctx)
	if err != nil {
		return nil, err
	}

	current := make(map[uint]string, summary.LowCount+summary.OutCount)
	var fresh []models.InventoryItem

	m.mu.Lock()
	for _, group := range [][]models.InventoryItem{summary.OutOfStock, summary.LowStock} {
		for _, item := range group {
			status := item.Status()
			current[item.ID] = status
			if m.alerted[item.ID] != status {
				fresh = append(fresh, item)
			}
		}
	}
	m.alerted = current
	m.mu.Unlock()

	if len(fresh) > 0 {
		utils.InfoLogger.WithField("items", len(fresh)).Info("Low stock detected")
		m.Hub.BroadcastLowStock(fresh)
	}
	return fresh, nil
}
