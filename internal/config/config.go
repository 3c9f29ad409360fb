package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// BoxNow API base URLs per environment. BOXNOW_API_URL overrides both.
const (
	stageAPIURL      = "https://api-stage.boxnow.gr"
	productionAPIURL = "https://api-production.boxnow.gr"
)

// Config holds all configuration for the application.
// Following 12-factor app principles, all config is loaded from environment variables.
type Config struct {
	Server   ServerConfig
	BoxNow   BoxNowConfig
	Origin   OriginConfig
	Store    StoreConfig
	Mail     MailConfig
	Payment  PaymentConfig
	Promo    PromoConfig
	Shipping ShippingConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AdminAPIKey     string // guards debug/metrics routes when set
}

// BoxNowConfig configures the carrier API client.
// Credentials are not required at startup: calls that need them fail with a
// configuration error instead (the carrier account may be provisioned after
// the shop goes live).
type BoxNowConfig struct {
	Env              string // "stage" or "production"
	APIURL           string // explicit override of the environment base URL
	ClientID         string
	ClientSecret     string
	PartnerID        string
	OriginLocationID string // carrier location id, "AnyAPM" for the APM network
	CODEnabled       bool
	ForcePrepaid     bool
	PhoneFormat      string // "international" (+30...) or "digits"
}

// BaseURL resolves the carrier API base URL for the configured environment.
func (c BoxNowConfig) BaseURL() string {
	if c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	if c.Env == "production" {
		return productionAPIURL
	}
	return stageAPIURL
}

// OriginConfig is the warehouse contact stamped on every delivery request.
type OriginConfig struct {
	ContactName  string
	ContactEmail string
	ContactPhone string
	Country      string
}

type StoreConfig struct {
	Driver      string // "file", "postgres" or "memory"
	FilePath    string
	DatabaseURL string
}

// MailConfig configures voucher email dispatch. Absence of a host or
// recipient list disables dispatch entirely rather than failing.
type MailConfig struct {
	Host   string
	Port   int
	Secure bool
	User   string
	Pass   string
	From   string
	To     []string
}

// Enabled reports whether email dispatch is configured.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

type PaymentConfig struct {
	APIURL    string
	SecretKey string
	Currency  string
}

// Enabled reports whether the payment-intent proxy is configured.
func (c PaymentConfig) Enabled() bool {
	return c.APIURL != "" && c.SecretKey != ""
}

type PromoConfig struct {
	CodeFiles       []string
	DiscountPercent int
}

type ShippingConfig struct {
	FlatRate string // two-decimal money string
	FreeOver string // order subtotal above which shipping is free
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AdminAPIKey:     getEnv("ADMIN_API_KEY", ""),
		},
		BoxNow: BoxNowConfig{
			Env:              getEnv("BOXNOW_ENV", "stage"),
			APIURL:           getEnv("BOXNOW_API_URL", ""),
			ClientID:         getEnv("BOXNOW_CLIENT_ID", ""),
			ClientSecret:     getEnv("BOXNOW_CLIENT_SECRET", ""),
			PartnerID:        getEnv("BOXNOW_PARTNER_ID", ""),
			OriginLocationID: getEnv("BOXNOW_ORIGIN_LOCATION_ID", "AnyAPM"),
			CODEnabled:       getEnvAsBool("BOXNOW_COD_ENABLED", true),
			ForcePrepaid:     getEnvAsBool("BOXNOW_FORCE_PREPAID", false),
			PhoneFormat:      getEnv("BOXNOW_PHONE_FORMAT", "international"),
		},
		Origin: OriginConfig{
			ContactName:  getEnv("ORIGIN_CONTACT_NAME", ""),
			ContactEmail: getEnv("ORIGIN_CONTACT_EMAIL", ""),
			ContactPhone: getEnv("ORIGIN_CONTACT_PHONE", ""),
			Country:      getEnv("ORIGIN_COUNTRY", "GR"),
		},
		Store: StoreConfig{
			Driver:      getEnv("ORDERS_STORE_DRIVER", "file"),
			FilePath:    getEnv("ORDERS_FILE_PATH", "data/orders.json"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Mail: MailConfig{
			Host:   getEnv("SMTP_HOST", ""),
			Port:   getEnvAsInt("SMTP_PORT", 587),
			Secure: getEnvAsBool("SMTP_SECURE", false),
			User:   getEnv("SMTP_USER", ""),
			Pass:   getEnv("SMTP_PASS", ""),
			From:   getEnv("MAIL_FROM", ""),
			To:     getEnvAsSlice("MAIL_TO", nil),
		},
		Payment: PaymentConfig{
			APIURL:    getEnv("PAYMENT_API_URL", ""),
			SecretKey: getEnv("PAYMENT_SECRET_KEY", ""),
			Currency:  getEnv("PAYMENT_CURRENCY", "eur"),
		},
		Promo: PromoConfig{
			CodeFiles:       getEnvAsSlice("PROMO_CODE_FILES", nil),
			DiscountPercent: getEnvAsInt("PROMO_DISCOUNT_PERCENT", 10),
		},
		Shipping: ShippingConfig{
			FlatRate: getEnv("SHIPPING_FLAT_RATE", "3.50"),
			FreeOver: getEnv("FREE_SHIPPING_OVER", "50.00"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.BoxNow.Env != "stage" && c.BoxNow.Env != "production" {
		return fmt.Errorf("invalid BOXNOW_ENV: %s (must be stage or production)", c.BoxNow.Env)
	}

	if c.BoxNow.PhoneFormat != "international" && c.BoxNow.PhoneFormat != "digits" {
		return fmt.Errorf("invalid BOXNOW_PHONE_FORMAT: %s (must be international or digits)", c.BoxNow.PhoneFormat)
	}

	switch c.Store.Driver {
	case "file", "memory":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when ORDERS_STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("invalid ORDERS_STORE_DRIVER: %s (must be file, postgres or memory)", c.Store.Driver)
	}

	if c.Promo.DiscountPercent < 0 || c.Promo.DiscountPercent > 100 {
		return fmt.Errorf("invalid PROMO_DISCOUNT_PERCENT: %d (must be 0-100)", c.Promo.DiscountPercent)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
