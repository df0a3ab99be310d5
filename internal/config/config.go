package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Engine selection modes for the image capability provider.
const (
	EngineAuto    = "auto"
	EngineVips    = "vips"
	EngineImaging = "imaging"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	SourceFetchTimeout time.Duration
	ProxyTimeout       time.Duration
	MaxRequestBodySize int64
	MaxSourceBytes     int64

	// ImageEngine selects the capability strategy at startup: auto probes
	// the native engine first and falls back to the pure-Go one.
	ImageEngine string

	// Optional Azure Blob source credentials. Empty disables the Azure fetcher.
	AzureAccountName string
	AzureAccountKey  string

	// DebugRoutes exposes the directory introspection endpoint.
	DebugRoutes bool
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	// Optional .env for local development; absence is not an error
	_ = godotenv.Load()

	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		SourceFetchTimeout: parseDurationOrDefault("SOURCE_FETCH_TIMEOUT", 15*time.Second),
		ProxyTimeout:       parseDurationOrDefault("PROXY_TIMEOUT", 30*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 25*1024*1024), // 25MB
		MaxSourceBytes:     parseIntOrDefault("MAX_SOURCE_BYTES", 25*1024*1024),
		ImageEngine:        strings.ToLower(getEnvOrDefault("IMAGE_ENGINE", EngineAuto)),
		AzureAccountName:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:    os.Getenv("AZURE_STORAGE_KEY"),
		DebugRoutes:        getEnvOrDefault("DEBUG_ROUTES", "false") == "true",
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxSourceBytes <= 0 {
		return nil, fmt.Errorf("MAX_SOURCE_BYTES must be > 0 (got %d)", cfg.MaxSourceBytes)
	}
	if cfg.RequestTimeout <= 0 || cfg.SourceFetchTimeout <= 0 || cfg.ProxyTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, proxy=%s)",
			cfg.RequestTimeout, cfg.SourceFetchTimeout, cfg.ProxyTimeout)
	}
	switch cfg.ImageEngine {
	case EngineAuto, EngineVips, EngineImaging:
	default:
		return nil, fmt.Errorf("invalid IMAGE_ENGINE: %q (want auto, vips or imaging)", cfg.ImageEngine)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
