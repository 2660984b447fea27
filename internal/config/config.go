package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Record store backends
const (
	BackendXLSX     = "xlsx"
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Record store
	StoreBackend string
	XLSXPath     string

	// Google Sheets
	SheetsSpreadsheetID   string
	SheetsCredentialsFile string

	// Database
	DatabaseURL string

	// Storage (default terms image)
	StoragePath string
	MaxUploadMB int

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		Environment:           getEnv("ENVIRONMENT", "development"),
		StoreBackend:          strings.ToLower(getEnv("STORE_BACKEND", BackendXLSX)),
		XLSXPath:              getEnv("XLSX_PATH", "billing_data.xlsx"),
		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", "service_account.json"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		StoragePath:           getEnv("STORAGE_PATH", "./storage"),
		MaxUploadMB:           getEnvAsInt("MAX_UPLOAD_MB", 10),
		AllowedOrigins:        getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:             getEnv("SENTRY_DSN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the settings required by the selected backend are present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendXLSX:
		if c.XLSXPath == "" {
			return fmt.Errorf("XLSX_PATH is required for the %s backend", BackendXLSX)
		}
	case BackendSheets:
		if c.SheetsSpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the %s backend", BackendSheets)
		}
		if c.SheetsCredentialsFile == "" {
			return fmt.Errorf("SHEETS_CREDENTIALS_FILE is required for the %s backend", BackendSheets)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
