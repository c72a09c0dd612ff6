package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/stall-pos/config"
	"github.com/yeremiapane/stall-pos/kds"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/printing"
	"github.com/yeremiapane/stall-pos/router"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	utils.InitJWT("integration-secret", time.Hour)
	os.Exit(m.Run())
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if out != nil {
		var resp apiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
		require.NoError(t, json.Unmarshal(resp.Data, out), string(resp.Data))
	}
	return w.Code
}

// TestEndToEndIntegration menguji flow utama kasir:
// setup admin -> login -> seed menu -> buka sesi -> isi cart -> checkout -> bayar -> struk
func TestEndToEndIntegration(t *testing.T) {
	spool := t.TempDir()
	cfg := config.Config{
		DBDriver:         "sqlite",
		DBDSN:            "file:e2e?mode=memory&cache=shared",
		CORSOrigin:       "*",
		ReceiptWidth:     32,
		PrinterTransport: printing.TransportFile,
		PrinterSpoolDir:  spool,
	}
	cfg.Store.Name = "SUNNY STALL"

	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	hub := kds.NewHub()
	products := services.NewProductService(db)
	inventory := services.NewInventoryService(db, hub)
	orders := services.NewOrderService(db, products, hub)
	printer, err := printing.New(cfg)
	require.NoError(t, err)

	r := router.SetupRouter(router.Deps{
		Config:    cfg,
		DB:        db,
		Hub:       hub,
		Blacklist: utils.NewTokenBlacklist(),
		Products:  products,
		Inventory: inventory,
		Orders:    orders,
		Reports:   services.NewReportService(db),
		Sessions:  services.NewSessionManager(products, orders),
		Printer:   printer,
	})

	assert.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, "/api/auth/setup", "",
		map[string]string{"username": "owner", "password": "sunny-123", "full_name": "Stall Owner"}, nil))

	var login struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "owner", "password": "sunny-123"}, &login))
	require.NotEmpty(t, login.Token)

	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, "/api/seed-products", login.Token, nil, nil))

	var catalog []struct {
		ID     uint   `json:"id"`
		Name   string `json:"name"`
		Flavor string `json:"flavor"`
	}
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/products?category=lemonade&search=classic", "", nil, &catalog))
	require.Len(t, catalog, 1)
	lemonade := catalog[0].ID

	var session struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, "/api/pos/sessions", login.Token, nil, &session))
	base := "/api/pos/sessions/" + session.ID

	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, base+"/items", login.Token,
		map[string]interface{}{"product_id": lemonade, "size": "Large", "toppings": []string{"Nata"}, "quantity": 3}, nil))
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, base+"/checkout", login.Token, nil, nil))

	var paid struct {
		Order struct {
			ID     uint   `json:"id"`
			Number string `json:"order_number"`
			Total  string `json:"total"`
			Change string `json:"change"`
		} `json:"order"`
		Receipt string `json:"receipt"`
		Printed bool   `json:"printed"`
	}
	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, base+"/payment", login.Token,
		map[string]interface{}{"payment_method": "cash", "amount_paid": "300", "print": true}, &paid))
	assert.Equal(t, "240", paid.Order.Total)
	assert.Equal(t, "60", paid.Order.Change)
	assert.True(t, paid.Printed)
	assert.Contains(t, paid.Receipt, "3 x Lemonade")

	spooled, err := filepath.Glob(filepath.Join(spool, "*.txt"))
	require.NoError(t, err)
	require.Len(t, spooled, 1)
	text, err := os.ReadFile(spooled[0])
	require.NoError(t, err)
	assert.Equal(t, paid.Receipt, string(text))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/orders/%d/receipt", paid.Order.ID), nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER #"+paid.Order.Number)
	assert.Contains(t, w.Body.String(), "3 x Lemonade")

	var juice models.InventoryItem
	require.NoError(t, db.Where("name = ?", "Lemon Juice").First(&juice).Error)
	assert.Equal(t, "19730", juice.CurrentStock.String())

	assert.Equal(t, http.StatusOK, call(t, r, http.MethodPost, "/api/auth/logout", login.Token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, r, http.MethodGet, "/api/auth/verify", login.Token, nil, nil))
}
