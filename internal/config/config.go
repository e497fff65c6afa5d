package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

// Config holds every setting the portal reads from the environment
type Config struct {
	ServerPort string
	GinMode    string

	APIBaseURL     string
	FilesBaseURL   string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	MaxUploadBytes int64

	SessionSecret     string
	SessionCookieName string
	SessionTTL        time.Duration
	SessionMaxAge     time.Duration
	SessionBackend    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CSRFEnabled      bool
	CSRFSecure       bool
	EnableUserExport bool

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from environment variables, applying defaults
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		GinMode:           os.Getenv("GIN_MODE"),
		APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3001"), "/"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "portal_session"),
		SessionBackend:    strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}
	cfg.FilesBaseURL = strings.TrimRight(getEnv("FILES_BASE_URL", cfg.APIBaseURL), "/")

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.UploadTimeout, err = getDuration("UPLOAD_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getDuration("SESSION_MAX_AGE", 7*24*time.Hour); err != nil {
		return nil, err
	}

	maxUploadMB, err := getInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) * 1024 * 1024

	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CSRFEnabled, err = getBool("CSRF_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.CSRFSecure, err = getBool("CSRF_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.EnableUserExport, err = getBool("ENABLE_USER_EXPORT", true); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe default
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET not set in environment")
	}
	if c.CSRFEnabled && len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes when CSRF is enabled")
	}
	switch c.SessionBackend {
	case SessionBackendMemory, SessionBackendPostgres, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (memory, postgres, redis)", c.SessionBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
