package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "console",
		SessionBackend:  BackendMemory,
		PayeeAddress:    "user@upi",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid sqlite config",
			mutate: func(c *Config) {
				c.SessionBackend = BackendSQLite
				c.SQLiteDBPath = filepath.Join(t.TempDir(), "db", "session.db")
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "unknown session backend",
			mutate:      func(c *Config) { c.SessionBackend = "redis" },
			wantErr:     true,
			errorString: "invalid session backend 'redis'",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.SessionBackend = BackendSQLite
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "bigquery half configured",
			mutate:      func(c *Config) { c.BigQueryProject = "proj" },
			wantErr:     true,
			errorString: "BIGQUERY_PROJECT and BIGQUERY_DATASET must be set together",
		},
		{
			name:        "notion half configured",
			mutate:      func(c *Config) { c.NotionDatabaseID = "db" },
			wantErr:     true,
			errorString: "NOTION_TOKEN and NOTION_DATABASE_ID must be set together",
		},
		{
			name:        "missing credentials file",
			mutate:      func(c *Config) { c.GCPCredentialsFile = "/does/not/exist.json" },
			wantErr:     true,
			errorString: "Google credentials file does not exist",
		},
		{
			name:        "bad payee",
			mutate:      func(c *Config) { c.PayeeAddress = "nobody" },
			wantErr:     true,
			errorString: "invalid UPI payee address 'nobody'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogFormat = "xml"
	cfg.PayeeAddress = "nobody"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	if n := strings.Count(err.Error(), "\n- "); n != 3 {
		t.Errorf("got %d problems, want 3:\n%v", n, err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("NOTION_TOKEN", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.GeminiAPIKey != "fallback-key" {
		t.Errorf("GeminiAPIKey = %q, want the API_KEY fallback", cfg.GeminiAPIKey)
	}
	if cfg.SeedData {
		t.Error("SeedData should be false")
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 3s", cfg.ShutdownTimeout)
	}
	if cfg.SessionBackend != BackendMemory {
		t.Errorf("SessionBackend = %q, want memory", cfg.SessionBackend)
	}
	if !cfg.HasNotion() || cfg.HasBigQuery() {
		t.Errorf("HasNotion = %v, HasBigQuery = %v", cfg.HasNotion(), cfg.HasBigQuery())
	}
}
