// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL string
	Server      ServerConfig
	App         AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	AllowedOrigins string // comma-separated; empty disables CORS
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	MigrateOnStart      bool
	InvoiceTemplatePath string // optional YAML file; built-in template when empty
	Debug               bool
}

// Load reads configuration from environment variables. DATABASE_URL is required;
// everything else has a default suitable for local development.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
			ReadTimeout:    getEnvSeconds("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvSeconds("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:    getEnvSeconds("SERVER_IDLE_TIMEOUT", 60),
		},
		App: AppConfig{
			MigrateOnStart:      getEnvBool("MIGRATE_ON_START", false),
			InvoiceTemplatePath: os.Getenv("INVOICE_TEMPLATE"),
			Debug:               getEnvBool("DEBUG", false),
		},
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return time.Duration(defaultValue) * time.Second
}

// getEnvBool accepts "1", "true", "yes" as true; any other non-empty value is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
