package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"giftspin/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Draw configuration
	DrawCost           int64   // Stars debited for a paid draw
	DrawWinProbability float64 // Chance of winning a prize on a single draw
	PrizeValue         int64   // Star value of a won collectible

	// Deposit configuration
	DepositValue int64 // Star value assigned to a deposited collectible

	// Upgrade configuration
	UpgradeDelay              time.Duration // Maturation delay for a staked upgrade
	UpgradeSuccessProbability float64       // Flat resolution probability, independent of displayed chance
	UpgradeStarsReward        int64         // Stars credited on a winning stars-target upgrade
	UpgradeSweepInterval      time.Duration // How often the background sweep resolves matured upgrades

	// Withdrawal configuration
	WithdrawalItemThreshold int64   // Minimum per-item value to count toward a withdrawal
	WithdrawalMinCount      int     // Minimum number of eligible items
	WithdrawalMinTotal      int64   // Minimum combined value of eligible items
	WithdrawalFeeRate       float64 // Fee withheld from the payout

	// Referral configuration
	ReferralBatchSize int   // Number of invites per bonus grant
	ReferralBonus     int64 // Stars granted per completed batch

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A .env file is optional; environment variables win when both are set
	_ = godotenv.Load()

	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Economy defaults
		DrawCost:           50,
		DrawWinProbability: 0.01,
		PrizeValue:         250,

		DepositValue: 250,

		UpgradeDelay:              5 * time.Hour,
		UpgradeSuccessProbability: 0.30,
		UpgradeStarsReward:        100,
		UpgradeSweepInterval:      time.Minute,

		WithdrawalItemThreshold: 250,
		WithdrawalMinCount:      3,
		WithdrawalMinTotal:      750,
		WithdrawalFeeRate:       0.05,

		ReferralBatchSize: 3,
		ReferralBonus:     25,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if cost := os.Getenv("DRAW_COST"); cost != "" {
		if parsed, err := strconv.ParseInt(cost, 10, 64); err == nil {
			config.DrawCost = parsed
		}
	}
	if prob := os.Getenv("DRAW_WIN_PROBABILITY"); prob != "" {
		if parsed, err := strconv.ParseFloat(prob, 64); err == nil && parsed > 0 && parsed <= 1 {
			config.DrawWinProbability = parsed
		}
	}
	if delay := os.Getenv("UPGRADE_DELAY"); delay != "" {
		if parsed, err := time.ParseDuration(delay); err == nil && parsed > 0 {
			config.UpgradeDelay = parsed
		}
	}
	if prob := os.Getenv("UPGRADE_SUCCESS_PROBABILITY"); prob != "" {
		if parsed, err := strconv.ParseFloat(prob, 64); err == nil && parsed > 0 && parsed <= 1 {
			config.UpgradeSuccessProbability = parsed
		}
	}
	if interval := os.Getenv("UPGRADE_SWEEP_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil && parsed > 0 {
			config.UpgradeSweepInterval = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	// Development without DATABASE_URL falls back to the in-memory store,
	// so the URL is only mandatory in production
	if config.Environment == "production" && config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required in production")
	}

	return config, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:               "test",
		DrawCost:                  50,
		DrawWinProbability:        0.01,
		PrizeValue:                250,
		DepositValue:              250,
		UpgradeDelay:              5 * time.Hour,
		UpgradeSuccessProbability: 0.30,
		UpgradeStarsReward:        100,
		UpgradeSweepInterval:      time.Minute,
		WithdrawalItemThreshold:   250,
		WithdrawalMinCount:        3,
		WithdrawalMinTotal:        750,
		WithdrawalFeeRate:         0.05,
		ReferralBatchSize:         3,
		ReferralBonus:             25,
	}
}
