package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	RedisAddress       string
	KitchenURL         string
	MarketplaceURL     string
	ReconcileInterval  time.Duration
	ShutdownTimeout    time.Duration
	ProcureRounds      int
	BreakerThreshold   int
	BreakerCooldown    time.Duration
	PurchaseHistoryCap int
}

const (
	defaultRunAddress         = ":8080"
	defaultReconcileInterval  = 60 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultProcureRounds      = 8
	defaultBreakerThreshold   = 5
	defaultBreakerCooldown    = 5 * time.Minute
	defaultPurchaseHistoryCap = 50
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		RedisAddress:       getString(lookup, "REDIS_ADDR", ""),
		KitchenURL:         getString(lookup, "KITCHEN_SERVICE_URL", ""),
		MarketplaceURL:     getString(lookup, "MARKETPLACE_API_URL", ""),
		ReconcileInterval:  getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		ProcureRounds:      getInt(lookup, "PROCURE_ROUNDS", defaultProcureRounds),
		BreakerThreshold:   getInt(lookup, "BREAKER_THRESHOLD", defaultBreakerThreshold),
		BreakerCooldown:    getDuration(lookup, "BREAKER_COOLDOWN", defaultBreakerCooldown),
		PurchaseHistoryCap: getInt(lookup, "PURCHASE_HISTORY_CAP", defaultPurchaseHistoryCap),
	}

	fs := flag.NewFlagSet("fulfillment", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
		breakerCooldownStr   = cfg.BreakerCooldown.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for purchase history")
	fs.StringVar(&cfg.KitchenURL, "kitchen", cfg.KitchenURL, "Kitchen service base URL")
	fs.StringVar(&cfg.MarketplaceURL, "marketplace", cfg.MarketplaceURL, "Farmers market buy endpoint URL")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between waiting-order sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.ProcureRounds, "procure-rounds", cfg.ProcureRounds, "Maximum procurement rounds per reservation pass")
	fs.IntVar(&cfg.BreakerThreshold, "breaker-threshold", cfg.BreakerThreshold, "Failures before the marketplace breaker opens")
	fs.StringVar(&breakerCooldownStr, "breaker-cooldown", breakerCooldownStr, "Open-breaker cooldown before retrying the marketplace")
	fs.IntVar(&cfg.PurchaseHistoryCap, "purchase-history-cap", cfg.PurchaseHistoryCap, "Retained purchase history entries")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.BreakerCooldown, err = time.ParseDuration(breakerCooldownStr); err != nil {
		return nil, fmt.Errorf("invalid breaker cooldown: %w", err)
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.ProcureRounds <= 0 {
		cfg.ProcureRounds = defaultProcureRounds
	}

	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = defaultBreakerThreshold
	}

	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = defaultBreakerCooldown
	}

	if cfg.PurchaseHistoryCap <= 0 {
		cfg.PurchaseHistoryCap = defaultPurchaseHistoryCap
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.RedisAddress == "" {
		return nil, fmt.Errorf("redis address must be provided")
	}

	if cfg.KitchenURL == "" {
		return nil, fmt.Errorf("kitchen service URL must be provided")
	}

	if cfg.MarketplaceURL == "" {
		return nil, fmt.Errorf("marketplace URL must be provided")
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

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
