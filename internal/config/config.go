package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	FX        FXConfig
	Broker    BrokerConfig
	Printer   PrinterConfig
	Hotel     HotelConfig
	Seed      SeedConfig
}

type AppConfig struct {
	Name   string
	Env    string
	Port   string
	Debug  bool
	NodeID int64 // snowflake node for reference codes, unique per instance
}

type DatabaseConfig struct {
	Driver       string // postgres or sqlite
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	SQLitePath   string
	MaxIdleConns int
	MaxOpenConns int
	QueryTimeout time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// FXConfig configures the NPR per USD rate feed
type FXConfig struct {
	SourceURL       string
	QuoteCurrency   string
	FallbackRate    string
	RefreshInterval time.Duration
	Timeout         time.Duration
	MaxRetries      int
}

type BrokerConfig struct {
	URL      string
	Exchange string
}

type PrinterConfig struct {
	Type         string // usb, network, none
	USBPath      string
	Address      string
	PaperWidth   int
	AutoCut      bool
	OpenDrawer   bool
	WriteTimeout time.Duration
}

type HotelConfig struct {
	Name          string
	Address       string
	Phone         string
	InvoicePrefix string
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	DemoCatalog   bool
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "hotel-billing-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_NODE_ID", 1)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "hotel")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kathmandu")
	viper.SetDefault("DB_SQLITE_PATH", "hotel.db")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("DB_QUERY_TIMEOUT", 10)
	viper.SetDefault("DB_MAX_RETRIES", 3)
	viper.SetDefault("DB_RETRY_BACKOFF_MS", 50)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("FX_SOURCE_URL", "https://open.er-api.com/v6/latest/USD")
	viper.SetDefault("FX_QUOTE_CURRENCY", "NPR")
	viper.SetDefault("FX_FALLBACK_RATE", "133.00")
	viper.SetDefault("FX_REFRESH_INTERVAL", 3600)
	viper.SetDefault("FX_TIMEOUT", 5)
	viper.SetDefault("FX_MAX_RETRIES", 3)
	viper.SetDefault("AMQP_EXCHANGE", "hotel_events")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_PAPER_WIDTH", 48)
	viper.SetDefault("PRINTER_AUTO_CUT", true)
	viper.SetDefault("PRINTER_WRITE_TIMEOUT", 5)
	viper.SetDefault("HOTEL_NAME", "Hotel")
	viper.SetDefault("INVOICE_PREFIX", "INV")
	viper.SetDefault("SEED_DEMO_CATALOG", false)

	return &Config{
		App: AppConfig{
			Name:   viper.GetString("APP_NAME"),
			Env:    viper.GetString("APP_ENV"),
			Port:   viper.GetString("APP_PORT"),
			Debug:  viper.GetBool("APP_DEBUG"),
			NodeID: viper.GetInt64("APP_NODE_ID"),
		},
		Database: DatabaseConfig{
			Driver:       viper.GetString("DB_DRIVER"),
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			SQLitePath:   viper.GetString("DB_SQLITE_PATH"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			QueryTimeout: time.Duration(viper.GetInt("DB_QUERY_TIMEOUT")) * time.Second,
			MaxRetries:   viper.GetInt("DB_MAX_RETRIES"),
			RetryBackoff: time.Duration(viper.GetInt("DB_RETRY_BACKOFF_MS")) * time.Millisecond,
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		FX: FXConfig{
			SourceURL:       viper.GetString("FX_SOURCE_URL"),
			QuoteCurrency:   viper.GetString("FX_QUOTE_CURRENCY"),
			FallbackRate:    viper.GetString("FX_FALLBACK_RATE"),
			RefreshInterval: time.Duration(viper.GetInt("FX_REFRESH_INTERVAL")) * time.Second,
			Timeout:         time.Duration(viper.GetInt("FX_TIMEOUT")) * time.Second,
			MaxRetries:      viper.GetInt("FX_MAX_RETRIES"),
		},
		Broker: BrokerConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		Printer: PrinterConfig{
			Type:         viper.GetString("PRINTER_TYPE"),
			USBPath:      viper.GetString("PRINTER_USB_PATH"),
			Address:      viper.GetString("PRINTER_ADDRESS"),
			PaperWidth:   viper.GetInt("PRINTER_PAPER_WIDTH"),
			AutoCut:      viper.GetBool("PRINTER_AUTO_CUT"),
			OpenDrawer:   viper.GetBool("PRINTER_OPEN_DRAWER"),
			WriteTimeout: time.Duration(viper.GetInt("PRINTER_WRITE_TIMEOUT")) * time.Second,
		},
		Hotel: HotelConfig{
			Name:          viper.GetString("HOTEL_NAME"),
			Address:       viper.GetString("HOTEL_ADDRESS"),
			Phone:         viper.GetString("HOTEL_PHONE"),
			InvoicePrefix: viper.GetString("INVOICE_PREFIX"),
		},
		Seed: SeedConfig{
			AdminEmail:    viper.GetString("ADMIN_EMAIL"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
			AdminName:     viper.GetString("ADMIN_NAME"),
			DemoCatalog:   viper.GetBool("SEED_DEMO_CATALOG"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// IsProduction reports whether APP_ENV is production
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
