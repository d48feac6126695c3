package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tair/foodgram/pkg/database"
)

// developmentJWTSecret signs tokens when no secret is configured in development
const developmentJWTSecret = "foodgram-development-secret"

// Config holds the service configuration
type Config struct {
	HTTPPort       string
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration
	AllowedOrigins []string

	Database database.Config

	JWTSecret    string
	JWTExpiresIn time.Duration

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	MediaRoot string
	MediaURL  string
	PageSize  int

	OTelServiceName string
	JaegerEndpoint  string
	TracingEnabled  bool
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "foodgram"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "foodgram-recipes"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "foodgram-notifier"),
		MediaRoot:       getEnv("MEDIA_ROOT", "./media"),
		MediaURL:        getEnv("MEDIA_URL", "/media/"),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "foodgram"),
		JaegerEndpoint:  getEnv("JAEGER_ENDPOINT", ""),
	}

	var err error
	if cfg.JWTExpiresIn, err = time.ParseDuration(getEnv("JWT_EXPIRES_IN", "168h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	if cfg.RateLimitRequests, err = strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "120")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.PageSize, err = strconv.Atoi(getEnv("PAGE_SIZE", "6")); err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE: %w", err)
	}
	if cfg.TracingEnabled, err = strconv.ParseBool(getEnv("TRACING_ENABLED", "false")); err != nil {
		return nil, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = developmentJWTSecret
	}
	if !strings.HasSuffix(cfg.MediaURL, "/") {
		cfg.MediaURL += "/"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("DB_HOST and DB_NAME are required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CacheEnabled reports whether a Redis address is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// EventsEnabled reports whether Kafka brokers are configured
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
