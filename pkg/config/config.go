// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chris/upi-wallet-topup/pkg/money"
	"github.com/joho/godotenv"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds application configuration values.
type Config struct {
	HTTPPort       string
	LogLevel       string
	StorageBackend string

	TransactionsTable string
	WalletsTable      string
	LedgerTable       string
	SQSQueueURL       string

	ZapTokenKey    string
	ZapSecretKey   string
	ZapBaseURL     string
	ZapRedirectURL string

	// AmountTolerance is in paise.
	AmountTolerance      int64
	ReconcileMaxAttempts int
	ReconcileTimeout     time.Duration
	StaleOrderAge        time.Duration
	StaleOrderMaxAge     time.Duration
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	var errs []error

	tolerance, err := money.ParseTolerance(getEnv("WEBHOOK_AMOUNT_TOLERANCE", "0"))
	if err != nil {
		errs = append(errs, fmt.Errorf("WEBHOOK_AMOUNT_TOLERANCE: %w", err))
	}

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		StorageBackend:       strings.ToLower(getEnv("STORAGE_BACKEND", BackendDynamoDB)),
		TransactionsTable:    os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		WalletsTable:         os.Getenv("DYNAMODB_WALLETS_TABLE_NAME"),
		LedgerTable:          os.Getenv("DYNAMODB_LEDGER_TABLE_NAME"),
		SQSQueueURL:          os.Getenv("SQS_QUEUE_URL"),
		ZapTokenKey:          os.Getenv("ZAP_TOKEN_KEY"),
		ZapSecretKey:         os.Getenv("ZAP_SECRET_KEY"),
		ZapBaseURL:           getEnv("ZAP_BASE_URL", "https://zapupi.com"),
		ZapRedirectURL:       os.Getenv("ZAP_REDIRECT_URL"),
		AmountTolerance:      tolerance,
		ReconcileMaxAttempts: getEnvInt("RECONCILE_MAX_ATTEMPTS", 4, &errs),
		ReconcileTimeout:     getEnvDuration("RECONCILE_TIMEOUT", 10*time.Second, &errs),
		StaleOrderAge:        getEnvDuration("STALE_ORDER_AGE", 20*time.Minute, &errs),
		StaleOrderMaxAge:     getEnvDuration("STALE_ORDER_MAX_AGE", 24*time.Hour, &errs),
	}

	if cfg.StaleOrderMaxAge <= cfg.StaleOrderAge {
		errs = append(errs, fmt.Errorf("STALE_ORDER_MAX_AGE (%s) must be greater than STALE_ORDER_AGE (%s)", cfg.StaleOrderMaxAge, cfg.StaleOrderAge))
	}

	if cfg.ReconcileMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("RECONCILE_MAX_ATTEMPTS must be at least 1, got %d", cfg.ReconcileMaxAttempts))
	}

	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendDynamoDB:
		if err := cfg.RequireTables(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendDynamoDB, BackendMemory, cfg.StorageBackend))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireTables reports an error if any DynamoDB table name is missing.
func (c *Config) RequireTables() error {
	if c.TransactionsTable == "" || c.WalletsTable == "" || c.LedgerTable == "" {
		return errors.New("one or more DynamoDB table name environment variables are not set")
	}
	return nil
}

// NewLogger returns a JSON slog.Logger writing to stdout at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return NewLogger(c.LogLevel)
}

// NewLogger returns a JSON slog.Logger at the given level. Unknown levels mean info.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return parsed
}
