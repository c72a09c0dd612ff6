package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/stall-pos/database"
	"github.com/yeremiapane/stall-pos/middlewares"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/printing"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitJWT("controllers-test-secret", time.Hour)
}

type recordingPrinter struct {
	mu   sync.Mutex
	jobs []printing.Job
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, job printing.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *recordingPrinter) Name() string { return "recording" }

func (p *recordingPrinter) Jobs() []printing.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]printing.Job(nil), p.jobs...)
}

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	orders   *services.OrderService
	sessions *services.SessionManager
	printer  *recordingPrinter
}

// setupTestDB menggunakan SQLite in-memory untuk testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

// newTestServer mengonfigurasi router dengan endpoint yang akan diuji.
// A nil submitter sends session orders to the local order service.
func newTestServer(t *testing.T, submitter pos.OrderSubmitter) *testServer {
	t.Helper()
	db := setupTestDB(t)

	products := services.NewProductService(db)
	inventory := services.NewInventoryService(db, nil)
	orders := services.NewOrderService(db, products, nil)
	reports := services.NewReportService(db)
	if submitter == nil {
		submitter = orders
	}
	sessions := services.NewSessionManager(products, submitter)
	printer := &recordingPrinter{}
	blacklist := utils.NewTokenBlacklist()
	formatter := pos.NewReceiptFormatter(pos.StoreInfo{Name: "SUNNY STALL"}, "", 32)

	userCtrl := NewUserController(db, blacklist, sessions)
	productCtrl := NewProductController(db, products)
	orderCtrl := NewOrderController(orders)
	receiptCtrl := NewReceiptController(orders, formatter, printer)
	inventoryCtrl := NewInventoryController(inventory)
	adminCtrl := NewAdminController(reports)
	posCtrl := NewPosController(sessions, formatter, printer)

	r := gin.New()
	r.POST("/auth/setup", userCtrl.Setup)
	r.POST("/auth/login", userCtrl.Login)
	r.GET("/products", productCtrl.GetAllProducts)
	r.GET("/products/:id", productCtrl.GetProductByID)
	r.GET("/products/category/:category", productCtrl.GetProductsByCategory)

	auth := r.Group("")
	auth.Use(middlewares.AuthMiddleware(blacklist))
	auth.GET("/auth/verify", userCtrl.Verify)
	auth.POST("/auth/logout", userCtrl.Logout)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.POST("/orders", orderCtrl.CreateOrder)
	auth.GET("/orders/:id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	auth.GET("/orders/:id/receipt", receiptCtrl.GetReceipt)
	auth.POST("/orders/:id/print", receiptCtrl.PrintReceipt)
	auth.GET("/inventory", inventoryCtrl.GetAllInventory)
	auth.GET("/inventory/alerts/summary", inventoryCtrl.GetAlertsSummary)
	auth.GET("/inventory/product/:productId", inventoryCtrl.GetInventoryByProduct)
	auth.GET("/inventory/:id", inventoryCtrl.GetInventoryByID)
	auth.GET("/inventory/:id/movements", inventoryCtrl.GetMovements)
	auth.POST("/pos/sessions", posCtrl.OpenSession)
	auth.GET("/pos/sessions", posCtrl.ListSessions)
	auth.GET("/pos/sessions/:id", posCtrl.GetSession)
	auth.DELETE("/pos/sessions/:id", posCtrl.CloseSession)
	auth.GET("/pos/sessions/:id/products", posCtrl.GetProducts)
	auth.POST("/pos/sessions/:id/items", posCtrl.AddItem)
	auth.DELETE("/pos/sessions/:id/items", posCtrl.ClearCart)
	auth.DELETE("/pos/sessions/:id/items/:index", posCtrl.RemoveItem)
	auth.POST("/pos/sessions/:id/checkout", posCtrl.BeginCheckout)
	auth.DELETE("/pos/sessions/:id/checkout", posCtrl.CancelCheckout)
	auth.POST("/pos/sessions/:id/checkout/retry", posCtrl.RetrySubmission)
	auth.POST("/pos/sessions/:id/payment", posCtrl.Pay)

	admin := auth.Group("")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	admin.GET("/auth/users", userCtrl.GetAllUsers)
	admin.POST("/auth/users", userCtrl.CreateUser)
	admin.PUT("/auth/users/:id", userCtrl.UpdateUser)
	admin.POST("/auth/users/:id/reset-password", userCtrl.ResetPassword)
	admin.POST("/products", productCtrl.CreateProduct)
	admin.PUT("/products/:id", productCtrl.UpdateProduct)
	admin.DELETE("/products/:id", productCtrl.DeleteProduct)
	admin.POST("/seed-products", productCtrl.SeedProducts)
	admin.POST("/inventory", inventoryCtrl.CreateInventory)
	admin.PUT("/inventory/:id", inventoryCtrl.UpdateInventory)
	admin.DELETE("/inventory/:id", inventoryCtrl.DeleteInventory)
	admin.POST("/inventory/:id/restock", inventoryCtrl.RestockInventory)
	admin.GET("/reports/daily-sales", adminCtrl.GetDailySales)
	admin.GET("/dashboard/overview", adminCtrl.GetDashboardStats)
	admin.GET("/dashboard/sales-by-date", adminCtrl.GetSalesByDate)

	return &testServer{router: r, db: db, orders: orders, sessions: sessions, printer: printer}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
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
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

// createUser stores a user and returns a valid token for it.
func (s *testServer) createUser(t *testing.T, username, role string) (models.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, FullName: username + " tester", Password: string(hashed), Role: role, Active: true}
	require.NoError(t, s.db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, user.Username, user.FullName, user.Role)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) seed(t *testing.T) {
	t.Helper()
	_, err := database.SeedCatalog(s.db)
	require.NoError(t, err)
}

func (s *testServer) productID(t *testing.T, name, flavor string) uint {
	t.Helper()
	var p models.Product
	require.NoError(t, s.db.Where("name = ? AND flavor = ?", name, flavor).First(&p).Error)
	return p.ID
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", pos.ErrInvalidInput), http.StatusBadRequest},
		{pos.ErrIndexOutOfRange, http.StatusBadRequest},
		{pos.ErrEmptyCart, http.StatusUnprocessableEntity},
		{pos.ErrInsufficientPayment, http.StatusUnprocessableEntity},
		{pos.ErrInvalidTransition, http.StatusConflict},
		{pos.ErrSubmissionInProgress, http.StatusConflict},
		{pos.ErrCheckoutInProgress, http.StatusConflict},
		{services.ErrInUse, http.StatusConflict},
		{services.ErrAlreadyInitialized, http.StatusConflict},
		{fmt.Errorf("%w: timeout", pos.ErrSubmissionFailed), http.StatusBadGateway},
		{pos.ErrProductNotFound, http.StatusNotFound},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrSessionNotFound, http.StatusNotFound},
		{services.ErrSessionForbidden, http.StatusForbidden},
		{ErrNoPermission, http.StatusForbidden},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
