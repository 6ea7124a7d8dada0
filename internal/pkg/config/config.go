package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type BadgerConfig struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
	Prefix   string
}

// StorageConfig selects and configures the durable client storage driver.
type StorageConfig struct {
	Driver   string `validate:"oneof=memory badger sqlite redis postgres"`
	Badger   BadgerConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

// APIConfig points at the backend REST API.
type APIConfig struct {
	BaseURL      string        `validate:"required,url"`
	Timeout      time.Duration `validate:"gt=0"`
	ProfileCache time.Duration `validate:"gte=0"`
}

type SessionConfig struct {
	CookieName   string `validate:"required"`
	CookieSecret string `validate:"required,min=32"`
	// JWTSecret enables signature verification in the liveness check when set.
	JWTSecret string
	Leeway    time.Duration `validate:"gte=0"`
	IdleTTL   time.Duration `validate:"gt=0"`
	// RestoreTimeout bounds reading a new instance's session from storage.
	RestoreTimeout time.Duration `validate:"gt=0"`
	// ReadyWait is how long a request waits on a restoring session before
	// the loading page is served.
	ReadyWait time.Duration `validate:"gte=0"`
	Secure    bool
}

type ObservabilityConfig struct {
	Enabled      bool
	ServiceName  string `validate:"required"`
	MetricsAddr  string
	OTLPEndpoint string
	PprofAddr    string
}

type Config struct {
	ServerPort    string `validate:"required,numeric"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	API           APIConfig
	Session       SessionConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
		LogLevel:   strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		API: APIConfig{
			BaseURL:      getEnvOrDefault("API_BASE_URL", "http://localhost:3333"),
			Timeout:      getDurationOrDefault("API_TIMEOUT", 10*time.Second),
			ProfileCache: getDurationOrDefault("API_PROFILE_CACHE_TTL", 30*time.Second),
		},
		Session: SessionConfig{
			CookieName:     getEnvOrDefault("SESSION_COOKIE_NAME", "volunteerhub"),
			CookieSecret:   os.Getenv("SESSION_COOKIE_SECRET"),
			JWTSecret:      os.Getenv("JWT_SECRET_KEY"),
			Leeway:         getDurationOrDefault("JWT_LEEWAY", 0),
			IdleTTL:        getDurationOrDefault("SESSION_IDLE_TTL", 30*time.Minute),
			RestoreTimeout: getDurationOrDefault("SESSION_RESTORE_TIMEOUT", 5*time.Second),
			ReadyWait:      getDurationOrDefault("SESSION_READY_WAIT", 250*time.Millisecond),
			Secure:         getBoolOrDefault("SESSION_COOKIE_SECURE", false),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", "badger")),
			Badger: BadgerConfig{
				Path:       getEnvOrDefault("BADGER_PATH", "./data/badger"),
				InMemory:   getBoolOrDefault("BADGER_IN_MEMORY", false),
				SyncWrites: getBoolOrDefault("BADGER_SYNC_WRITES", true),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "./data/client.db"),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       getIntOrDefault("REDIS_DB", 0),
				Prefix:   getEnvOrDefault("REDIS_PREFIX", "volunteerhub:"),
			},
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5454"),
				DB:       getEnvOrDefault("POSTGRES_DB", "volunteerhub"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: os.Getenv("POSTGRES_PASSWORD"),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 10,
				MinConns: 1,
			},
		},
		Observability: ObservabilityConfig{
			Enabled:      getBoolOrDefault("OTEL_ENABLED", true),
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "volunteerhub"),
			MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4318"),
			PprofAddr:    os.Getenv("PPROF_ADDR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the settings the selected storage
// driver depends on.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Storage.Driver {
	case "badger":
		if !c.Storage.Badger.InMemory && c.Storage.Badger.Path == "" {
			return fmt.Errorf("BADGER_PATH is required when STORAGE_DRIVER=badger")
		}
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER=sqlite")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORAGE_DRIVER=redis")
		}
	case "postgres":
		if c.Storage.Postgres.Password == "" {
			return fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
