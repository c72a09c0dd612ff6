package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/stall-pos/config"
	"github.com/yeremiapane/stall-pos/controllers"
	"github.com/yeremiapane/stall-pos/kds"
	"github.com/yeremiapane/stall-pos/middlewares"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/printing"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

// Deps is everything the HTTP layer needs, built once in main.
type Deps struct {
	Config    config.Config
	DB        *gorm.DB
	Hub       *kds.Hub
	Blacklist *utils.TokenBlacklist
	Products  *services.ProductService
	Inventory *services.InventoryService
	Orders    *services.OrderService
	Reports   *services.ReportService
	Sessions  *services.SessionManager
	Printer   printing.Printer
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders(d.Config.IsProduction()))
	r.Use(middlewares.CORSMiddlewares(d.Config.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if d.Config.RateLimitPerMinute > 0 {
		r.Use(middlewares.NewRateLimiter(d.Config.RateLimitPerMinute, time.Minute).RateLimit())
	}

	formatter := d.Config.ReceiptFormatter()

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(d.DB, d.Blacklist, d.Sessions)
	productCtrl := controllers.NewProductController(d.DB, d.Products)
	orderCtrl := controllers.NewOrderController(d.Orders)
	receiptCtrl := controllers.NewReceiptController(d.Orders, formatter, d.Printer)
	inventoryCtrl := controllers.NewInventoryController(d.Inventory)
	adminCtrl := controllers.NewAdminController(d.Reports)
	posCtrl := controllers.NewPosController(d.Sessions, formatter, d.Printer)
	kdsCtrl := controllers.NewKDSController(d.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	loginLimiter := middlewares.NewLoginLimiter(d.Config.LoginRatePerMinute)
	public := api.Group("/auth")
	public.Use(loginLimiter.Middleware())
	{
		public.POST("/setup", userCtrl.Setup)
		public.POST("/login", userCtrl.Login)
	}

	// Katalog bisa dibaca tanpa login
	api.GET("/products", productCtrl.GetAllProducts)
	api.GET("/products/:id", productCtrl.GetProductByID)
	api.GET("/products/category/:category", productCtrl.GetProductsByCategory)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware(d.Blacklist))

	auth.GET("/auth/verify", userCtrl.Verify)
	auth.POST("/auth/logout", userCtrl.Logout)

	// ORDERS (cashier/admin)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.POST("/orders", orderCtrl.CreateOrder)
	auth.GET("/orders/:id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	auth.GET("/orders/:id/receipt", receiptCtrl.GetReceipt)
	auth.POST("/orders/:id/print", receiptCtrl.PrintReceipt)

	// INVENTORY (read for everyone, changes by admin)
	auth.GET("/inventory", inventoryCtrl.GetAllInventory)
	auth.GET("/inventory/alerts/summary", inventoryCtrl.GetAlertsSummary)
	auth.GET("/inventory/product/:productId", inventoryCtrl.GetInventoryByProduct)
	auth.GET("/inventory/:id", inventoryCtrl.GetInventoryByID)
	auth.GET("/inventory/:id/movements", inventoryCtrl.GetMovements)

	// POS register
	register := auth.Group("/pos/sessions")
	{
		register.POST("", posCtrl.OpenSession)
		register.GET("", posCtrl.ListSessions)
		register.GET("/:id", posCtrl.GetSession)
		register.DELETE("/:id", posCtrl.CloseSession)
		register.GET("/:id/products", posCtrl.GetProducts)
		register.POST("/:id/items", posCtrl.AddItem)
		register.DELETE("/:id/items", posCtrl.ClearCart)
		register.DELETE("/:id/items/:index", posCtrl.RemoveItem)
		register.POST("/:id/checkout", posCtrl.BeginCheckout)
		register.DELETE("/:id/checkout", posCtrl.CancelCheckout)
		register.POST("/:id/checkout/retry", posCtrl.RetrySubmission)
		register.POST("/:id/payment", posCtrl.Pay)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
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

	// WebSocket endpoint dengan middleware khusus
	wsGroup := api.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware(d.Blacklist))
	{
		wsGroup.GET("/kds", kdsCtrl.KDSHandler)
	}

	return r
}
