package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"brainer-platform/utils"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the Brainer API
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Payments PaymentConfig
	Gemini   GeminiConfig
	R2       utils.R2Config
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	APIToken       string
	BodyLimit      int
}

// DatabaseConfig selects the storage backend. An empty URL keeps everything
// in memory for the lifetime of the process.
type DatabaseConfig struct {
	URL      string
	SeedDemo bool
}

// PaymentConfig tunes the simulated payment flow
type PaymentConfig struct {
	Delay          time.Duration
	Retention      time.Duration
	SweepInterval  time.Duration
	NotifyInterval time.Duration
}

// GeminiConfig holds the AI collaborator settings
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 5200),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			APIToken:       getEnv("API_TOKEN", ""),
			BodyLimit:      getEnvAsInt("BODY_LIMIT", 4*1024*1024),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			SeedDemo: getEnvAsBool("SEED_DEMO_DATA", true),
		},
		Payments: PaymentConfig{
			Delay:          getEnvAsDuration("PAYMENT_DELAY", 2*time.Second),
			Retention:      getEnvAsDuration("CHECKOUT_RETENTION", 30*time.Minute),
			SweepInterval:  getEnvAsDuration("CHECKOUT_SWEEP_INTERVAL", time.Minute),
			NotifyInterval: getEnvAsDuration("NOTIFY_POLL_INTERVAL", 2*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		},
		R2: utils.R2Config{
			AccountID:       getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
			Bucket:          getEnv("R2_BUCKET_NAME", ""),
			CDNBaseURL:      getEnv("CDN_BASE_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Payments.Delay < 0 {
		return fmt.Errorf("payment delay cannot be negative: %s", c.Payments.Delay)
	}
	if c.Payments.SweepInterval <= 0 {
		return fmt.Errorf("checkout sweep interval must be positive: %s", c.Payments.SweepInterval)
	}
	if c.Payments.NotifyInterval <= 0 {
		return fmt.Errorf("notification poll interval must be positive: %s", c.Payments.NotifyInterval)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value and trims each entry.
func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
