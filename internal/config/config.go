package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Mail modes
const (
	MailModeLog    = "log"
	MailModeOutbox = "outbox"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Listings   ListingsConfig
	Storage    StorageConfig
	PostgreSQL PostgreSQLConfig
	Mail       MailConfig
	Embedding  EmbeddingConfig
	Jobs       JobsConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// ListingsConfig holds the catalog source and page size
type ListingsConfig struct {
	CSVPath  string
	PageSize int
}

// StorageConfig selects where sessions and activity live
type StorageConfig struct {
	Backend         string
	SQLitePath      string
	SessionMaxUsers int
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// MailConfig holds outbound agent email settings
type MailConfig struct {
	Mode       string
	From       string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// EmbeddingConfig holds listing vector settings
type EmbeddingConfig struct {
	Dimensions int
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ActivityPruneSchedule string
	ActivityRetention     int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Listings: ListingsConfig{
			CSVPath:  getEnv("LISTINGS_CSV", "rentals.csv"),
			PageSize: getEnvAsInt("RESULTS_PAGE_SIZE", getEnvAsInt("TOP_K", 5)),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
			SQLitePath:      getEnv("SQLITE_PATH", "rentassist.db"),
			SessionMaxUsers: getEnvAsInt("SESSION_MAX_USERS", 0),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "rentassist"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Mail: MailConfig{
			Mode:       strings.ToLower(getEnv("MAIL_MODE", MailModeLog)),
			From:       getEnv("MAIL_FROM", "rental@agentmail.to"),
			Timeout:    time.Duration(getEnvAsInt("MAIL_TIMEOUT", 10)) * time.Second,
			MaxRetries: getEnvAsInt("MAIL_MAX_RETRIES", 2),
			RetryBase:  time.Duration(getEnvAsInt("MAIL_RETRY_BASE_MS", 500)) * time.Millisecond,
		},
		Embedding: EmbeddingConfig{
			Dimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
		},
		Jobs: JobsConfig{
			ActivityPruneSchedule: getEnv("ACTIVITY_PRUNE_SCHEDULE", "0 0 3 * * *"),
			ActivityRetention:     getEnvAsInt("ACTIVITY_RETENTION", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.Mail.Mode {
	case MailModeLog, MailModeOutbox:
	default:
		return fmt.Errorf("unknown MAIL_MODE %q", c.Mail.Mode)
	}
	if c.Mail.Mode == MailModeOutbox && c.Storage.Backend == BackendMemory {
		log.Printf("Warning: MAIL_MODE=outbox with memory storage keeps queued messages in process only")
	}
	if c.Listings.PageSize <= 0 {
		return fmt.Errorf("RESULTS_PAGE_SIZE must be positive, got %d", c.Listings.PageSize)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
