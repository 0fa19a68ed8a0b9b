package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
// Every simulation parameter the engine depends on lives here rather than
// as a literal at the call site.
type Config struct {
	Port     int
	DevMode  bool
	LogLevel string

	// DatabasePath is the sqlite DSN for the event history tables.
	// The default is an in-memory database: the demo is ephemeral and
	// nothing survives a restart.
	DatabasePath string

	// Oracle feed
	OracleTickInterval time.Duration // how often prices are perturbed
	MaxChange24h       float64       // clamp for the cumulative 24h change (percent)

	// Vault contract constants
	MinDeposit       float64       // minimum deposit in QX
	MaxAllocation    float64       // max fraction of the book in a single asset (0-1)
	ManagementFee    float64       // annual management fee as a fraction
	CompoundInterval time.Duration // minimum time between compound events

	// Auto/demo mode
	AutoRebalance          bool          // start with auto-rebalance enabled
	AutoRebalanceThreshold float64       // abs 24h change (points) that triggers auto-rebalance
	DemoMode               bool          // run the short-interval auto-compound job
	DemoCompoundInterval   time.Duration // compound attempt cadence in demo mode

	// Mock testnet
	StartingBalance float64 // QX granted on wallet connect
	FaucetAmount    float64 // QX granted per faucet request

	// Notifications
	NotificationTTL time.Duration // how long a notification stays visible
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("PORT", 8090),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "file:yieldforge?mode=memory&cache=shared"),

		OracleTickInterval: getEnvAsDuration("ORACLE_TICK_INTERVAL", 3*time.Second),
		MaxChange24h:       getEnvAsFloat("MAX_CHANGE_24H", 10.0),

		MinDeposit:       getEnvAsFloat("MIN_DEPOSIT", 10.0),
		MaxAllocation:    getEnvAsFloat("MAX_ALLOCATION", 0.8),
		ManagementFee:    getEnvAsFloat("MANAGEMENT_FEE", 0.005),
		CompoundInterval: getEnvAsDuration("COMPOUND_INTERVAL", 24*time.Hour),

		AutoRebalance:          getEnvAsBool("AUTO_REBALANCE", true),
		AutoRebalanceThreshold: getEnvAsFloat("AUTO_REBALANCE_THRESHOLD", 5.0),
		DemoMode:               getEnvAsBool("DEMO_MODE", true),
		DemoCompoundInterval:   getEnvAsDuration("DEMO_COMPOUND_INTERVAL", 10*time.Second),

		StartingBalance: getEnvAsFloat("STARTING_BALANCE", 10000.0),
		FaucetAmount:    getEnvAsFloat("FAUCET_AMOUNT", 1000.0),

		NotificationTTL: getEnvAsDuration("NOTIFICATION_TTL", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is internally consistent
func (c *Config) Validate() error {
	if c.MinDeposit <= 0 {
		return fmt.Errorf("MIN_DEPOSIT must be positive, got %v", c.MinDeposit)
	}
	if c.MaxAllocation <= 0 || c.MaxAllocation > 1 {
		return fmt.Errorf("MAX_ALLOCATION must be in (0, 1], got %v", c.MaxAllocation)
	}
	if c.ManagementFee < 0 || c.ManagementFee >= 1 {
		return fmt.Errorf("MANAGEMENT_FEE must be in [0, 1), got %v", c.ManagementFee)
	}
	if c.OracleTickInterval <= 0 {
		return fmt.Errorf("ORACLE_TICK_INTERVAL must be positive, got %v", c.OracleTickInterval)
	}
	if c.CompoundInterval <= 0 {
		return fmt.Errorf("COMPOUND_INTERVAL must be positive, got %v", c.CompoundInterval)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
