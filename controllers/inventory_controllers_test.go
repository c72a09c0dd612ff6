package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/services"
)

func (s *testServer) inventoryID(t *testing.T, name string) uint {
	t.Helper()
	var item models.InventoryItem
	require.NoError(t, s.db.Where("name = ?", name).First(&item).Error)
	return item.ID
}

func TestInventoryReadsAndRestock(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	_, cashier := s.createUser(t, "maria", models.RoleCashier)
	_, admin := s.createUser(t, "boss", models.RoleAdmin)
	cones := s.inventoryID(t, "Cones")

	w, env := s.do(t, http.MethodGet, "/inventory?status=in-stock", cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []inventoryView
	decode(t, env, &all)
	assert.NotEmpty(t, all)
	for _, item := range all {
		assert.Equal(t, models.StockIn, item.Status)
	}

	w, _ = s.do(t, http.MethodGet, "/inventory?status=plenty", cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/inventory/%d/restock", cones)
	w, _ = s.do(t, http.MethodPost, path, cashier, map[string]interface{}{"quantity": "10"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodPost, path, admin, map[string]interface{}{"quantity": "25", "note": "weekly delivery"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var item inventoryView
	decode(t, env, &item)
	assert.Equal(t, "325", item.CurrentStock.String())
	assert.NotNil(t, item.LastRestocked)

	w, _ = s.do(t, http.MethodPost, path, admin, map[string]interface{}{"quantity": "-5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(t, http.MethodPost, path, admin, map[string]interface{}{"quantity": "5", "mode": "steal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodPost, path, admin, map[string]interface{}{"quantity": "40", "mode": "adjust", "note": "stocktake"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env, &item)
	assert.Equal(t, "40", item.CurrentStock.String())
	assert.Equal(t, models.StockLow, item.Status)

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/inventory/%d/movements", cones), cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var movements []models.InventoryMovement
	decode(t, env, &movements)
	require.Len(t, movements, 2)
	assert.Equal(t, models.MovementAdjustment, movements[0].Type)
	assert.Equal(t, "-285", movements[0].Quantity.String())
	assert.Equal(t, models.MovementRestock, movements[1].Type)

	w, env = s.do(t, http.MethodGet, "/inventory/alerts/summary", cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary services.AlertSummary
	decode(t, env, &summary)
	assert.Equal(t, 1, summary.LowCount)
	assert.Equal(t, 0, summary.OutCount)
	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "Cones", summary.LowStock[0].Name)

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/inventory/product/%d", s.productID(t, "Fries", "")), cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var used []inventoryView
	decode(t, env, &used)
	require.Len(t, used, 1)
	assert.Equal(t, "Potatoes", used[0].Name)

	w, _ = s.do(t, http.MethodGet, "/inventory/9999", cashier, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryAdminCRUD(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	_, admin := s.createUser(t, "boss", models.RoleAdmin)

	w, env := s.do(t, http.MethodPost, "/inventory", admin, map[string]interface{}{
		"name": "Napkins", "category": "packaging", "unit": "pcs",
		"current_stock": "200", "min_stock_level": "50", "max_stock_level": "1000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created inventoryView
	decode(t, env, &created)
	assert.Equal(t, models.StockIn, created.Status)

	w, _ = s.do(t, http.MethodPost, "/inventory", admin, map[string]interface{}{"name": "Nothing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodPut, fmt.Sprintf("/inventory/%d", created.ID), admin, map[string]interface{}{
		"name": "Napkins", "category": "packaging", "unit": "pcs",
		"current_stock": "0", "min_stock_level": "250", "max_stock_level": "1000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated inventoryView
	decode(t, env, &updated)
	// stock only moves through restock and adjust
	assert.Equal(t, "200", updated.CurrentStock.String())
	assert.Equal(t, models.StockLow, updated.Status)

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/inventory/%d", s.inventoryID(t, "Lemon Juice")), admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/inventory/%d", created.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/inventory/%d", created.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
