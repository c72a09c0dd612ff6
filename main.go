package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yeremiapane/stall-pos/apiclient"
	"github.com/yeremiapane/stall-pos/config"
	"github.com/yeremiapane/stall-pos/kds"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/printing"
	"github.com/yeremiapane/stall-pos/router"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
}

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	utils.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	if cfg.IsProduction() && cfg.JWTSecret == "change-me-in-production" {
		utils.ErrorLogger.Fatal("JWT_SECRET must be set in production")
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	hub := kds.NewHub()
	blacklist := utils.NewTokenBlacklist()

	products := services.NewProductService(db)
	inventory := services.NewInventoryService(db, hub)
	orders := services.NewOrderService(db, products, hub)
	reports := services.NewReportService(db)

	// Sessions sell from this server's catalog unless another server owns the orders.
	var (
		catalog   pos.CatalogSource  = products
		submitter pos.OrderSubmitter = orders
	)
	if cfg.OrderBackend == "remote" {
		client := apiclient.New(cfg.RemoteAPIURL, cfg.RemoteAPITimeout)
		catalog, submitter = client, client
		utils.InfoLogger.Printf("Orders are submitted to %s", cfg.RemoteAPIURL)
	}
	sessions := services.NewSessionManager(catalog, submitter)

	printer, err := printing.New(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up printer: %v", err)
	}
	utils.InfoLogger.Printf("Receipts print via %s", printer.Name())

	monitor := services.NewStockMonitor(inventory, hub)
	monitor.Start()
	defer monitor.Stop()

	go cleanupRevokedTokens(blacklist, time.Hour)

	r := router.SetupRouter(router.Deps{
		Config:    cfg,
		DB:        db,
		Hub:       hub,
		Blacklist: blacklist,
		Products:  products,
		Inventory: inventory,
		Orders:    orders,
		Reports:   reports,
		Sessions:  sessions,
		Printer:   printer,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func cleanupRevokedTokens(blacklist *utils.TokenBlacklist, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		if n := blacklist.Cleanup(); n > 0 {
			utils.InfoLogger.Printf("Removed %d expired revoked tokens", n)
		}
	}
}
