package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App    AppConfig
	Redis  RedisConfig
	JWT    JWTConfig
	MinIO  MinIOConfig
	Review ReviewConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ReviewConfig carries the deployment knobs of the review domain.
type ReviewConfig struct {
	// UpdatePeriodDays is the edit window in days counted from a review's
	// creation. Zero means reviews stay editable forever.
	UpdatePeriodDays int

	// ChoiceWidget is the rendering hint passed through to form descriptors
	// so the host frontend knows which input widget to use for rating
	// choices.
	ChoiceWidget string

	// ExportRetentionDays controls how long generated export spreadsheets
	// are kept in object storage.
	ExportRetentionDays int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Review API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "reviews"),
			UseSSL:    false,
		},
		Review: ReviewConfig{
			UpdatePeriodDays:    getEnvInt("REVIEW_UPDATE_PERIOD", 0),
			ChoiceWidget:        getEnv("REVIEW_FORM_CHOICE_WIDGET", "select"),
			ExportRetentionDays: getEnvInt("REVIEW_EXPORT_RETENTION_DAYS", 14),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the critical parts of the config.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}
	if c.Review.UpdatePeriodDays < 0 {
		return fmt.Errorf("REVIEW_UPDATE_PERIOD must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
