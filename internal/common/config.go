package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration
type Config struct {
	Output   OutputConfig
	Database DatabaseConfig
	Cleaning CleaningConfig
	Server   ServerConfig
}

// OutputConfig holds where a cleaning run writes its artifacts.
type OutputConfig struct {
	Dir        string `validate:"required"`
	SQLitePath string `validate:"required"`
	ExportCSV  bool
	ExportXLSX bool
}

// DatabaseConfig holds the optional Postgres sink configuration.
// An empty DSN disables the Postgres sink.
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32 `validate:"gte=1"`
	MinConns         int32 `validate:"gte=0,ltefield=MaxConns"`
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration `validate:"gte=0"`
	StatementTimeout time.Duration `validate:"gte=0"`
}

// CleaningConfig holds pipeline tuning knobs.
type CleaningConfig struct {
	Workers      int `validate:"gte=1,lte=256"`
	TopN         int `validate:"gte=1"`
	ExtractLimit int `validate:"gte=1"`
	AliasesFile  string
}

// ServerConfig holds the extracts HTTP service configuration.
type ServerConfig struct {
	Addr string `validate:"required"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	outDir := getEnv("ORDERS_OUTPUT_DIR", "outputs")
	return &Config{
		Output: OutputConfig{
			Dir:        outDir,
			SQLitePath: getEnv("ORDERS_SQLITE_PATH", filepath.Join(outDir, "orders_analytics.db")),
			ExportCSV:  getEnvAsBool("ORDERS_EXPORT_CSV", false),
			ExportXLSX: getEnvAsBool("ORDERS_EXPORT_XLSX", true),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Cleaning: CleaningConfig{
			Workers:      getEnvAsInt("ORDERS_WORKERS", 4),
			TopN:         getEnvAsInt("ORDERS_TOP_N", 5),
			ExtractLimit: getEnvAsInt("ORDERS_EXTRACT_LIMIT", 50),
			AliasesFile:  getEnv("ORDERS_ALIASES_FILE", ""),
		},
		Server: ServerConfig{
			Addr: getEnv("EXTRACTS_ADDR", ":8090"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return NewAppError(CodeConfig, "invalid configuration", err)
	}
	return nil
}
