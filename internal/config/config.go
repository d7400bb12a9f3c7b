package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/budget-tracker/internal/logger"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Session storage
	SessionBackend string
	SQLiteDBPath   string

	// Google Cloud (optional)
	GCPCredentialsFile string
	GCSBucket          string
	BigQueryProject    string
	BigQueryDataset    string

	// Notion export (optional)
	NotionToken      string
	NotionDatabaseID string

	// Split payments
	PayeeAddress string
	PayeeName    string

	// Start with the demo categories and notifications
	SeedData bool
}

// Session backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", logger.FormatConsole),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),

		SessionBackend: getEnv("SESSION_BACKEND", BackendMemory),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/session.db"),

		GCPCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		BigQueryProject:    getEnv("BIGQUERY_PROJECT", ""),
		BigQueryDataset:    getEnv("BIGQUERY_DATASET", ""),

		NotionToken:      getEnv("NOTION_TOKEN", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),

		PayeeAddress: getEnv("UPI_PAYEE_ADDRESS", "user@upi"),
		PayeeName:    getEnv("UPI_PAYEE_NAME", "Val U Tracker"),

		SeedData: getEnvBool("SEED_DATA", true),
	}

	return cfg
}

// Validate validates the configuration and returns an error listing every problem
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	// Validate logging
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}
	if c.LogFormat != logger.FormatConsole && c.LogFormat != logger.FormatJSON {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be '%s' or '%s'", c.LogFormat, logger.FormatConsole, logger.FormatJSON))
	}

	// Validate session backend
	switch c.SessionBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of [%s %s]", c.SessionBackend, BackendMemory, BackendSQLite))
	}

	// BigQuery needs both project and dataset
	if (c.BigQueryProject == "") != (c.BigQueryDataset == "") {
		errors = append(errors, "BIGQUERY_PROJECT and BIGQUERY_DATASET must be set together")
	}

	// Notion needs both token and database
	if (c.NotionToken == "") != (c.NotionDatabaseID == "") {
		errors = append(errors, "NOTION_TOKEN and NOTION_DATABASE_ID must be set together")
	}

	if c.GCPCredentialsFile != "" {
		if _, err := os.Stat(c.GCPCredentialsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GCPCredentialsFile))
		}
	}

	if !strings.Contains(c.PayeeAddress, "@") {
		errors = append(errors, fmt.Sprintf("invalid UPI payee address '%s': must look like name@bank", c.PayeeAddress))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// HasBigQuery reports whether the BigQuery audit sink is configured.
func (c *Config) HasBigQuery() bool {
	return c.BigQueryProject != "" && c.BigQueryDataset != ""
}

// HasNotion reports whether the Notion export is configured.
func (c *Config) HasNotion() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
