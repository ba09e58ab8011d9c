package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/shopworks/ecommerce-api/pkg/config"
)

// Config holds all configuration for the API server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost          string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort          int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser          string `env:"POSTGRES_USER" envDefault:"shop"`
	PostgresPass          string `env:"POSTGRES_PASSWORD" envDefault:"shop_secret"`
	PostgresDB            string `env:"POSTGRES_DB" envDefault:"shop"`
	PostgresSSL           string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns            int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int    `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int    `env:"DB_MAX_CONN_IDLE_MINUTES" envDefault:"30"`

	// Redis (login lockout counters)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret   string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer   string `env:"JWT_ISSUER" envDefault:"ecommerce-api"`
	JWTAudience string `env:"JWT_AUDIENCE" envDefault:"ecommerce-clients"`
	JWTExpiry   string `env:"JWT_TOKEN_EXPIRY" envDefault:"1h"`

	// Login lockout
	LockoutThreshold int `env:"LOGIN_LOCKOUT_THRESHOLD" envDefault:"5"`
	LockoutWindowMin int `env:"LOGIN_LOCKOUT_WINDOW_MINUTES" envDefault:"15"`

	// Admin seed account
	AdminEmail     string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword  string `env:"ADMIN_PASSWORD" envDefault:"Admin@12345"`
	AdminFirstName string `env:"ADMIN_FIRST_NAME" envDefault:"Site"`
	AdminLastName  string `env:"ADMIN_LAST_NAME" envDefault:"Administrator"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Slow query logging threshold in milliseconds. Zero disables it.
	SlowQueryThresholdMs int `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if _, err := time.ParseDuration(cfg.JWTExpiry); err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_EXPIRY %q: %w", cfg.JWTExpiry, err)
	}
	if cfg.LockoutThreshold < 1 {
		return nil, fmt.Errorf("LOGIN_LOCKOUT_THRESHOLD must be positive, got %d", cfg.LockoutThreshold)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == "change-this-to-a-secure-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// TokenExpiry returns the parsed JWT lifetime. Load validates the duration,
// so this never fails after a successful Load.
func (c *Config) TokenExpiry() time.Duration {
	d, _ := time.ParseDuration(c.JWTExpiry)
	return d
}

// LockoutWindow returns the rolling window for failed login counting.
func (c *Config) LockoutWindow() time.Duration {
	return time.Duration(c.LockoutWindowMin) * time.Minute
}
