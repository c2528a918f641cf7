package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	MigrationsPath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pipeline
	PipelineAPIKey string

	// Pricing
	PriceAPIURL         string // remote price-lookup service; empty means Yahoo Finance directly
	PriceRequestTimeout time.Duration
	PriceRateLimit      float64 // requests per second
	PriceConcurrency    int

	// Alerts
	DiscordWebhookURL string
	AlertSchedule     string
	MarketHoursOnly   bool
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		// Database
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "stockwatch"),
		DBPassword:     getEnv("DB_PASSWORD", "stockwatch"),
		DBName:         getEnv("DB_NAME", "stockwatch"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "stockwatch.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		PriceAPIURL: strings.TrimRight(os.Getenv("PRICE_API_URL"), "/"),

		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		AlertSchedule:     getEnv("ALERT_SCHEDULE", "@hourly"),
	}

	if config.DBDriver != "postgres" && config.DBDriver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", config.DBDriver)
	}

	config.JWTExpirationDur = parseDurationOr("JWT_EXPIRES_IN", 24*time.Hour)
	config.PriceRequestTimeout = parseDurationOr("PRICE_REQUEST_TIMEOUT", 30*time.Second)

	rateLimit, err := parseFloat(os.Getenv("PRICE_RATE_LIMIT"), 2)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_RATE_LIMIT value: %w", err)
	}
	config.PriceRateLimit = rateLimit

	concurrency, err := parsePositiveInt(os.Getenv("PRICE_CONCURRENCY"), 4)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_CONCURRENCY value: %w", err)
	}
	config.PriceConcurrency = concurrency

	marketHoursOnly, err := parseBool(os.Getenv("MARKET_HOURS_ONLY"), true)
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_HOURS_ONLY value: %w", err)
	}
	config.MarketHoursOnly = marketHoursOnly

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the process-wide configuration. Used by tests and tools that
// build a Config by hand.
func Set(cfg *Config) {
	appConfig = cfg
}

// PostgresURL returns the golang-migrate style connection URL.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, s, fallback)
		return fallback
	}
	return d
}

func parseFloat(s string, defaultVal float64) (float64, error) {
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", v)
	}
	return v, nil
}

func parsePositiveInt(s string, defaultVal int) (int, error) {
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", v)
	}
	return v, nil
}

func parseBool(s string, defaultVal bool) (bool, error) {
	if s == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("must be true, false, 1, or 0, got %q", s)
	}
}
