package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the chat service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	ServiceVersion  string        `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort     int           `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Tracing
	EnableTracing bool   `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Database (required, no defaults)
	MongoURI      string `env:"MONGODB_URI,notEmpty"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"chat"`

	// Authorization service
	AuthServiceURL    string        `env:"AUTH_SERVICE_URL,notEmpty"`
	AuthTimeout       time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`
	AuthLogoutTimeout time.Duration `env:"AUTH_LOGOUT_TIMEOUT" envDefault:"5s"`

	// HTTP edge
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	CookieSecret   string `env:"COOKIE_SECRET"`

	// Provider credentials surfaced through the api-keys routes
	GroqAPIKey      string `env:"GROQ_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`

	// Tombstone purge job (disabled unless explicitly enabled)
	PurgeEnabled       bool   `env:"PURGE_ENABLED" envDefault:"false"`
	PurgeCron          string `env:"PURGE_CRON" envDefault:"0 3 * * *"`
	PurgeRetentionDays int    `env:"PURGE_RETENTION_DAYS" envDefault:"30"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.AuthServiceURL = strings.TrimRight(strings.TrimSpace(cfg.AuthServiceURL), "/")
	cfg.MongoURI = strings.TrimSpace(cfg.MongoURI)
	if cfg.IsProduction() && strings.TrimSpace(cfg.CookieSecret) == "" {
		return nil, fmt.Errorf("COOKIE_SECRET is required when ENVIRONMENT is production")
	}
	if cfg.PurgeEnabled && cfg.PurgeRetentionDays <= 0 {
		return nil, fmt.Errorf("PURGE_RETENTION_DAYS must be positive when PURGE_ENABLED is true")
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MetricsAddr returns the metrics listen address.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}

// Origins returns the parsed CORS origin allowlist.
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// IsDev reports whether the service runs in development mode.
func (c *Config) IsDev() bool {
	return !c.IsProduction()
}
