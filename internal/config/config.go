package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	OrderServiceAddress string
	SessionCookie       string
	RequestTimeout      time.Duration
	CartSyncInterval    time.Duration
	ShutdownTimeout     time.Duration
	LogLevel            slog.Level
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
	HistoryPageSize     int
}

const (
	defaultRunAddress          = "127.0.0.1:8080"
	defaultRequestTimeout      = 10 * time.Second
	defaultCartSyncInterval    = 30 * time.Second
	defaultShutdownTimeout     = 10 * time.Second
	defaultBreakerFailureRatio = 0.6
	defaultBreakerOpenTimeout  = 30 * time.Second
	defaultHistoryPageSize     = 10
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		OrderServiceAddress: getString(lookup, "ORDER_SERVICE_ADDRESS", ""),
		SessionCookie:       getString(lookup, "SESSION_COOKIE", ""),
		RequestTimeout:      getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		CartSyncInterval:    getDuration(lookup, "CART_SYNC_INTERVAL", defaultCartSyncInterval),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		BreakerFailureRatio: getFloat(lookup, "BREAKER_FAILURE_RATIO", defaultBreakerFailureRatio),
		BreakerOpenTimeout:  getDuration(lookup, "BREAKER_OPEN_TIMEOUT", defaultBreakerOpenTimeout),
		HistoryPageSize:     getInt(lookup, "HISTORY_PAGE_SIZE", defaultHistoryPageSize),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		requestTimeoutStr  = cfg.RequestTimeout.String()
		syncIntervalStr    = cfg.CartSyncInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		breakerTimeoutStr  = cfg.BreakerOpenTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", "info")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "Views gateway listen address")
	fs.StringVar(&cfg.OrderServiceAddress, "r", cfg.OrderServiceAddress, "Order service base URL")
	fs.StringVar(&cfg.SessionCookie, "session-cookie", cfg.SessionCookie, "Session cookie sent to the order service (name=value)")
	fs.StringVar(&requestTimeoutStr, "request-timeout", requestTimeoutStr, "Order service request timeout")
	fs.StringVar(&syncIntervalStr, "sync-interval", syncIntervalStr, "Interval between cart resynchronizations")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&breakerTimeoutStr, "breaker-timeout", breakerTimeoutStr, "Time the order service breaker stays open")
	fs.Float64Var(&cfg.BreakerFailureRatio, "breaker-ratio", cfg.BreakerFailureRatio, "Failure ratio that opens the order service breaker")
	fs.IntVar(&cfg.HistoryPageSize, "page-size", cfg.HistoryPageSize, "Default order history page size")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RequestTimeout, err = time.ParseDuration(requestTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.CartSyncInterval, err = time.ParseDuration(syncIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sync interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.BreakerOpenTimeout, err = time.ParseDuration(breakerTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid breaker timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cookieFile, ok := lookup("SESSION_COOKIE_FILE"); ok && cookieFile != "" {
		content, err := os.ReadFile(cookieFile)
		if err != nil {
			return nil, fmt.Errorf("read session cookie file: %w", err)
		}
		cfg.SessionCookie = strings.TrimSpace(string(content))
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.CartSyncInterval <= 0 {
		cfg.CartSyncInterval = defaultCartSyncInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.BreakerOpenTimeout <= 0 {
		cfg.BreakerOpenTimeout = defaultBreakerOpenTimeout
	}

	if cfg.BreakerFailureRatio <= 0 || cfg.BreakerFailureRatio > 1 {
		cfg.BreakerFailureRatio = defaultBreakerFailureRatio
	}

	if cfg.HistoryPageSize <= 0 {
		cfg.HistoryPageSize = defaultHistoryPageSize
	}

	if cfg.SessionCookie != "" && !strings.Contains(cfg.SessionCookie, "=") {
		return nil, fmt.Errorf("session cookie must be in name=value form")
	}

	if cfg.OrderServiceAddress == "" {
		return nil, fmt.Errorf("order service address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
