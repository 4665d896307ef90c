package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	awspkg "storefront-service/pkg/aws"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Port        string
	Environment string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL        string
	ProductCacheTTL time.Duration

	JWTSecret string

	// Notification function (checkout collaborator).
	CheckoutNotifyURL     string
	CheckoutNotifyTimeout time.Duration

	// S3 product image uploads.
	ImageBucket       string
	ImageBaseURL      string
	PresignExpirySecs int64
}

// LoadConfig reads configuration from environment variables with an
// optional Secrets Manager override for DB credentials.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8095"),
		Environment: getEnv("APP_ENV", "development"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),

		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		ProductCacheTTL: getDurationEnv("PRODUCT_CACHE_TTL", 5*time.Minute),

		JWTSecret: os.Getenv("JWT_SECRET"),

		CheckoutNotifyURL:     os.Getenv("CHECKOUT_NOTIFY_URL"),
		CheckoutNotifyTimeout: getDurationEnv("CHECKOUT_NOTIFY_TIMEOUT", 15*time.Second),

		ImageBucket:       os.Getenv("PRODUCT_IMAGE_BUCKET"),
		ImageBaseURL:      os.Getenv("PRODUCT_IMAGE_BASE_URL"),
		PresignExpirySecs: 300,
	}

	// Override DB credentials from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if dbjson, err := sm.GetSecret(context.Background(), "storefront/DB_CREDENTIALS"); err == nil && dbjson != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(dbjson), &m); err == nil {
					override(&cfg.PostgresUser, m, "POSTGRES_USER")
					override(&cfg.PostgresPassword, m, "POSTGRES_PASSWORD")
					override(&cfg.PostgresDB, m, "POSTGRES_DB")
					override(&cfg.PostgresHost, m, "POSTGRES_HOST")
					override(&cfg.PostgresPort, m, "POSTGRES_PORT")
				}
			}
			if v, err := sm.GetSecret(context.Background(), "storefront/JWT_SECRET"); err == nil && v != "" {
				cfg.JWTSecret = v
			}
		}
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func override(dst *string, m map[string]string, key string) {
	if v, ok := m[key]; ok && v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
