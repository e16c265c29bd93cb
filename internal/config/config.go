package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/pkg/database"
)

type Config struct {
	Port string

	// Storage
	DBDriver    string
	SQLitePath  string
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	// Business rules
	DefaultCurrencyRate decimal.Decimal
	LowStockThreshold   int
	RestockOnVoid       bool

	// Payment staging housekeeping
	DraftTTL               time.Duration
	StagingCleanupSchedule string

	SeedFile string

	// Logging
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	rate, err := decimal.NewFromString(getEnv("CURRENCY_RATE", "64.6116"))
	if err != nil {
		return nil, fmt.Errorf("CURRENCY_RATE: %w", err)
	}
	threshold, err := strconv.Atoi(getEnv("LOW_STOCK_THRESHOLD", "10"))
	if err != nil {
		return nil, fmt.Errorf("LOW_STOCK_THRESHOLD: %w", err)
	}
	restock, err := strconv.ParseBool(getEnv("RESTOCK_ON_VOID", "false"))
	if err != nil {
		return nil, fmt.Errorf("RESTOCK_ON_VOID: %w", err)
	}
	ttl, err := time.ParseDuration(getEnv("DRAFT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("DRAFT_TTL: %w", err)
	}

	config := &Config{
		Port:                   getEnv("PORT", "3000"),
		DBDriver:               strings.ToLower(getEnv("DB_DRIVER", database.DriverSQLite)),
		SQLitePath:             getEnv("SQLITE_PATH", "pos.db"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBUser:                 getEnv("DB_USER", ""),
		DBPassword:             getEnv("DB_PASSWORD", ""),
		DBName:                 getEnv("DB_NAME", ""),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DefaultCurrencyRate:    rate,
		LowStockThreshold:      threshold,
		RestockOnVoid:          restock,
		DraftTTL:               ttl,
		StagingCleanupSchedule: getEnv("STAGING_CLEANUP_SCHEDULE", "@every 15m"),
		SeedFile:               getEnv("SEED_FILE", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:          getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:              getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if !c.DefaultCurrencyRate.IsPositive() {
		return fmt.Errorf("CURRENCY_RATE must be greater than zero")
	}
	if c.DBDriver != database.DriverSQLite && c.DBDriver != database.DriverPostgres {
		return fmt.Errorf("DB_DRIVER must be %q or %q", database.DriverSQLite, database.DriverPostgres)
	}
	if c.DBDriver == database.DriverPostgres && c.DatabaseURL == "" && c.DBName == "" {
		return fmt.Errorf("DATABASE_URL or DB_NAME is required for postgres")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD cannot be negative")
	}
	if c.DraftTTL <= 0 {
		return fmt.Errorf("DRAFT_TTL must be positive")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// DatabaseOptions maps the storage settings onto pkg/database
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		Driver:      c.DBDriver,
		SQLitePath:  c.SQLitePath,
		DatabaseURL: c.DatabaseURL,
		Host:        c.DBHost,
		User:        c.DBUser,
		Password:    c.DBPassword,
		Name:        c.DBName,
		Port:        c.DBPort,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
