package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr           string
	BackendBaseURL string
	SessionSecret  string
	SessionTTL     time.Duration
	Environment    string
	PollInterval   time.Duration
	BackendTimeout time.Duration
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// DevSessionSecret is the fallback signing key outside production. It is a
// published constant: sessions signed with it are demo-grade only and must
// never carry real credentials.
const DevSessionSecret = "expensedash-dev-secret"

func Load() Config {
	return Config{
		Addr:           getEnv("APP_ADDR", ":8080"),
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8000"),
		SessionSecret:  getEnv("SESSION_SECRET", DevSessionSecret),
		SessionTTL:     getEnvDuration("SESSION_TTL", 12*time.Hour),
		Environment:    getEnv("APP_ENV", "development"),
		PollInterval:   getEnvDuration("POLL_INTERVAL", 30*time.Second),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 8*1024*1024)),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	parsed, err := url.Parse(c.BackendBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute URL")
	}
	if c.Environment == "production" && strings.TrimSpace(c.SessionSecret) == DevSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set to a strong value in production")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.MaxUploadBytes < c.MaxBodyBytes {
		return fmt.Errorf("MAX_UPLOAD_BYTES must not be below MAX_BODY_BYTES")
	}
	return nil
}
