package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/stall-pos/pos"
)

type Config struct {
	AppEnv    string
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	DBDriver string
	DBDSN    string

	JWTSecret          string
	JWTTTL             time.Duration
	CORSOrigin         string
	LoginRatePerMinute int
	RateLimitPerMinute int

	Store          pos.StoreInfo
	CurrencySymbol string
	ReceiptWidth   int
	TaxRate        decimal.Decimal
	DiscountRate   decimal.Decimal

	// OrderBackend is "local" (this server's database) or "remote" (REMOTE_API_URL).
	OrderBackend     string
	RemoteAPIURL     string
	RemoteAPITimeout time.Duration

	PrinterTransport   string
	PrinterSpoolDir    string
	PrinterURL         string
	PrinterHTTPTimeout time.Duration
}

func Load() Config {
	return Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:    getEnv("DB_DSN", "stall_pos.db"),

		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:             getEnvDuration("JWT_TTL", 24*time.Hour),
		CORSOrigin:         getEnv("CORS_ORIGIN", "*"),
		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 300),

		Store: pos.StoreInfo{
			Name:         getEnv("STORE_NAME", pos.DefaultStore.Name),
			AddressLines: getEnvList("STORE_ADDRESS", "|", pos.DefaultStore.AddressLines),
			Phone:        getEnv("STORE_PHONE", pos.DefaultStore.Phone),
		},
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", pos.DefaultCurrencySymbol),
		ReceiptWidth:   getEnvInt("RECEIPT_WIDTH", pos.DefaultReceiptWidth),
		TaxRate:        getEnvDecimal("TAX_RATE", decimal.Zero),
		DiscountRate:   getEnvDecimal("DISCOUNT_RATE", decimal.Zero),

		OrderBackend:     strings.ToLower(getEnv("ORDER_BACKEND", "local")),
		RemoteAPIURL:     getEnv("REMOTE_API_URL", "http://localhost:5000/api"),
		RemoteAPITimeout: getEnvDuration("REMOTE_API_TIMEOUT", 10*time.Second),

		PrinterTransport:   strings.ToLower(getEnv("PRINTER_TRANSPORT", "log")),
		PrinterSpoolDir:    getEnv("PRINTER_SPOOL_DIR", "receipts"),
		PrinterURL:         getEnv("PRINTER_URL", ""),
		PrinterHTTPTimeout: getEnvDuration("PRINTER_HTTP_TIMEOUT", 5*time.Second),
	}
}

// ReceiptFormatter builds the formatter for the configured store.
func (c Config) ReceiptFormatter() pos.ReceiptFormatter {
	return pos.NewReceiptFormatter(c.Store, c.CurrencySymbol, c.ReceiptWidth)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// InitDB opens the configured database.
func InitDB(c Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if c.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch c.DBDriver {
	case "mysql":
		dialector = mysql.Open(c.DBDSN)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(c.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", c.DBDriver, err)
	}

	if c.DBDriver != "mysql" {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key, sep string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
