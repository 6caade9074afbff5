// Package config provides environment-driven configuration for claimdesk.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL        Secret
	Port               string
	ListenHost         string
	MetricsPort        string
	CORSOrigins        []string
	LogLevel           string
	DBMaxConns         int
	JWTSecret          Secret
	JWTIssuer          string
	EncryptionProvider string
	EncryptionKey      Secret
	VaultAddr          string
	VaultToken         Secret
	EmailAPIURL        string
	EmailAPIKey        Secret
	EmailFrom          string
	AppBaseURL         string
	SlackWebhookURL    Secret
	NotifyQueueSize    int
}

// LoadEnvFiles loads KEY=VALUE pairs from the given dotenv files into the process
// environment. Missing files are skipped; variables already set are not overridden.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        Secret(envOrDefault("DATABASE_URL", "")),
		Port:               envOrDefault("PORT", "3030"),
		ListenHost:         envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort:        envOrDefault("METRICS_PORT", "9091"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		JWTSecret:          Secret(envOrDefault("JWT_SECRET", "")),
		JWTIssuer:          envOrDefault("JWT_ISSUER", ""),
		EncryptionProvider: envOrDefault("ENCRYPTION_PROVIDER", "static"),
		EncryptionKey:      Secret(envOrDefault("ENCRYPTION_KEY", "")),
		VaultAddr:          envOrDefault("VAULT_ADDR", "http://127.0.0.1:8200"),
		VaultToken:         Secret(envOrDefault("VAULT_TOKEN", "")),
		EmailAPIURL:        envOrDefault("EMAIL_API_URL", ""),
		EmailAPIKey:        Secret(envOrDefault("EMAIL_API_KEY", "")),
		EmailFrom:          envOrDefault("EMAIL_FROM", "claims@localhost"),
		AppBaseURL:         strings.TrimRight(envOrDefault("APP_BASE_URL", "http://localhost:3002"), "/"),
		SlackWebhookURL:    Secret(envOrDefault("SLACK_WEBHOOK_URL", "")),
	}

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "21"))
	if err != nil || maxConns < 2 || maxConns > 200 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 2 and 200")
	}
	cfg.DBMaxConns = maxConns

	queueSize, err := strconv.Atoi(envOrDefault("NOTIFY_QUEUE_SIZE", "256"))
	if err != nil || queueSize < 1 || queueSize > 10000 {
		return nil, fmt.Errorf("NOTIFY_QUEUE_SIZE must be an integer between 1 and 10000")
	}
	cfg.NotifyQueueSize = queueSize

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// EmailEnabled reports whether an email API is configured.
func (c *Config) EmailEnabled() bool {
	return c.EmailAPIURL != "" && c.EmailAPIKey.Value() != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
