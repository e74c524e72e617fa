package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is built once at startup
// and injected; no component reads the process environment at call time.
type Config struct {
	Env          string
	Port         string
	AdminAPIKey  string
	PublicWebURL string
	Database     DatabaseConfig
	GHL          GHLConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// GHLConfig holds the outbound CRM webhook configuration
type GHLConfig struct {
	WebhookURL string
	APIKey     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	adminKey := os.Getenv("ADMIN_API_KEY")
	if adminKey == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY is required")
	}

	return &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "3001"),
		AdminAPIKey:  adminKey,
		PublicWebURL: getEnv("PUBLIC_WEB_URL", "http://localhost:3000"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "movetrack"),
		},
		GHL: GHLConfig{
			WebhookURL: os.Getenv("GHL_WEBHOOK_URL"),
			APIKey:     os.Getenv("GHL_API_KEY"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
