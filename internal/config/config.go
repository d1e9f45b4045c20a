package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB      DatabaseConfig
	Redis   RedisConfig
	Extract ExtractConfig
	Staging StagingConfig
	Archive ArchiveConfig
	Worker  WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ExtractConfig contains configuration for the delivery-sheet extraction API.
type ExtractConfig struct {
	APIKey        string
	Model         string
	FallbackModel string
	Timeout       time.Duration
}

// StagingConfig controls staged ingestion batches held in Redis.
type StagingConfig struct {
	TTL time.Duration
}

// ArchiveConfig contains S3 configuration for archiving uploaded sheets and
// worker documents.
type ArchiveConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	StaleDeliveryInterval time.Duration
	StaleDeliveryAfter    time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Extraction (Anthropic)
	cfg.Extract = ExtractConfig{
		APIKey:        getEnv("ANTHROPIC_API_KEY", ""),
		Model:         getEnv("OCR_MODEL", "claude-3-5-sonnet-latest"),
		FallbackModel: getEnv("OCR_FALLBACK_MODEL", "claude-3-haiku-20240307"),
	}

	// Archive (S3, Algiers-adjacent region by default)
	cfg.Archive = ArchiveConfig{
		Region:          getEnv("S3_REGION", "eu-west-3"),
		Bucket:          getEnv("S3_BUCKET", "rehab-sheets"),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Durations
	var err error
	if cfg.Extract.Timeout, err = parseDurationEnv("OCR_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid OCR_TIMEOUT: %w", err)
	}
	if cfg.Staging.TTL, err = parseDurationEnv("STAGING_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid STAGING_TTL: %w", err)
	}
	if cfg.Worker.StaleDeliveryInterval, err = parseDurationEnv("STALE_DELIVERY_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid STALE_DELIVERY_INTERVAL: %w", err)
	}
	if cfg.Worker.StaleDeliveryAfter, err = parseDurationEnv("STALE_DELIVERY_AFTER", "72h"); err != nil {
		return nil, fmt.Errorf("invalid STALE_DELIVERY_AFTER: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
