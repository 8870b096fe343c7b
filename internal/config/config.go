// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/minjicho/jeonseguard/internal/modules/settings"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for databases and the model artifact (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// Model artifact settings.
	// The fraud classifier is loaded once at startup. When ModelS3Bucket and
	// ModelS3Key are set the artifact is downloaded to ModelPath before loading.
	ModelPath     string
	ModelOptional bool // Serve with the rules-only predictor when the artifact is missing
	ModelS3Bucket string
	ModelS3Key    string

	// Cron schedule for the regional stats refresh job (cron with seconds field)
	StatsRefreshSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic
	// 1. Check JEONSEGUARD_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path
	// 4. Ensure directory exists
	dataDir := getEnv("JEONSEGUARD_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		Port:                 getEnvAsInt("PORT", 8000),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		ModelPath:            getEnv("MODEL_PATH", filepath.Join(absDataDir, "models", "fraud_rf.msgpack")),
		ModelOptional:        getEnvAsBool("MODEL_OPTIONAL", false),
		ModelS3Bucket:        getEnv("MODEL_S3_BUCKET", ""),
		ModelS3Key:           getEnv("MODEL_S3_KEY", ""),
		StatsRefreshSchedule: getEnv("STATS_REFRESH_SCHEDULE", "0 0 3 * * *"), // daily at 03:00
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UpdateFromSettings updates configuration from the settings database.
// This should be called after the config database is initialized.
// Settings DB values take precedence over environment variables.
func (c *Config) UpdateFromSettings(settingsRepo *settings.Repository) error {
	schedule, err := settingsRepo.Get("stats_refresh_schedule")
	if err != nil {
		return fmt.Errorf("failed to get stats_refresh_schedule from settings: %w", err)
	}
	if schedule != nil && *schedule != "" {
		c.StatsRefreshSchedule = *schedule
	}

	bucket, err := settingsRepo.Get("model_s3_bucket")
	if err != nil {
		return fmt.Errorf("failed to get model_s3_bucket from settings: %w", err)
	}
	if bucket != nil && *bucket != "" {
		c.ModelS3Bucket = *bucket
	}

	key, err := settingsRepo.Get("model_s3_key")
	if err != nil {
		return fmt.Errorf("failed to get model_s3_key from settings: %w", err)
	}
	if key != nil && *key != "" {
		c.ModelS3Key = *key
	}

	return nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.ModelS3Bucket != "" && c.ModelS3Key == "" {
		return fmt.Errorf("MODEL_S3_KEY is required when MODEL_S3_BUCKET is set")
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
