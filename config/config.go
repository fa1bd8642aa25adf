package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	// EnvMaxFileBytes is the environment variable name for the file size limit.
	EnvMaxFileBytes = "PDFSUMMARY_MAX_FILE_BYTES"

	// EnvLogLevel selects the minimum log level (debug, info, warn, error).
	EnvLogLevel = "PDFSUMMARY_LOG_LEVEL"

	// EnvExportTables enables writing <stem>_tables.xlsx next to each JSON file.
	EnvExportTables = "PDFSUMMARY_EXPORT_TABLES"

	// DefaultMaxFileBytes is the default maximum accepted file size (50 MiB).
	DefaultMaxFileBytes int64 = 50 << 20

	DefaultLogLevel = "info"

	// InputDir and OutputDir are the fixed directory names, relative to the
	// working directory.
	InputDir  = "input"
	OutputDir = "output"
)

// Config holds runtime configuration sourced from environment variables.
type Config struct {
	InputDir         string
	OutputDir        string
	MaxFileSizeBytes int64
	LogLevel         string
	ExportTables     bool
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		InputDir:         InputDir,
		OutputDir:        OutputDir,
		MaxFileSizeBytes: DefaultMaxFileBytes,
		LogLevel:         DefaultLogLevel,
	}
}

// Load reads Config from environment variables, falling back to defaults for
// missing or invalid values.
func Load() *Config {
	cfg := Default()
	if v := os.Getenv(EnvMaxFileBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSizeBytes = n
		}
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))); v != "" {
		switch v {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = v
		}
	}
	if v := os.Getenv(EnvExportTables); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ExportTables = b
		}
	}
	return cfg
}
