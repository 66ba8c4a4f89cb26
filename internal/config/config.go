package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port     string
	Database DatabaseConfig
	Odoo     OdooConfig
	Sync     SyncConfig
	ImageDir string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// OdooConfig holds the ERP connection settings. An empty URL disables the
// sync subsystem entirely; when set, the remaining fields are validated.
type OdooConfig struct {
	URL      string `validate:"omitempty,url"`
	Database string `validate:"required_with=URL"`
	Username string `validate:"required_with=URL"`
	Password string `validate:"required_with=URL"`
}

// SyncConfig holds scheduling and conflict settings
type SyncConfig struct {
	ProductsInterval int    // minutes between full product syncs
	StockInterval    int    // minutes between stock-only pulls
	Strategy         string `validate:"omitempty,oneof=remote_wins odoo_wins local_wins newest_wins"`
}

// Enabled reports whether Odoo sync is configured.
func (o OdooConfig) Enabled() bool { return o.URL != "" }

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "3210"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "eduboutique"),
		},
		Odoo: OdooConfig{
			URL:      os.Getenv("ODOO_URL"),
			Database: os.Getenv("ODOO_DATABASE"),
			Username: os.Getenv("ODOO_USERNAME"),
			Password: os.Getenv("ODOO_PASSWORD"),
		},
		Sync: SyncConfig{
			ProductsInterval: getEnvInt("ODOO_SYNC_PRODUCTS_INTERVAL", 30),
			StockInterval:    getEnvInt("ODOO_SYNC_STOCK_INTERVAL", 15),
			Strategy:         getEnv("ODOO_CONFLICT_STRATEGY", "newest_wins"),
		},
		ImageDir: getEnv("IMAGE_DIR", "./storage/products"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
