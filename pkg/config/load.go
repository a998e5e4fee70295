package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path,
// applies defaults, applies TRUSTDESK_* environment variable overrides, and
// validates the result. Environment variables always take precedence over
// file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := newBaseConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from path if the file exists, and
// returns the defaulted configuration (still honoring environment
// overrides) when it does not.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return cfg, nil
	}
	return LoadConfig(path)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format TRUSTDESK_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("TRUSTDESK_ENVIRONMENT"); val != "" {
		cfg.Environment = val
	}

	// Server overrides
	if val := os.Getenv("TRUSTDESK_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("TRUSTDESK_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("TRUSTDESK_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("TRUSTDESK_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// The trust center origin allow-list arrives comma-separated.
	if val := os.Getenv("TRUSTDESK_TRUST_CENTER_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitAndTrim(val)
	}

	// Database overrides
	if val := os.Getenv("TRUSTDESK_DATABASE_REGISTRY_PATH"); val != "" {
		cfg.Database.RegistryPath = val
	}
	if val := os.Getenv("TRUSTDESK_DATABASE_AUDIT_PATH"); val != "" {
		cfg.Database.AuditPath = val
	}

	// Retry overrides
	if val := os.Getenv("TRUSTDESK_RETRY_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retry.MaxRetries = i
		}
	}
	if val := os.Getenv("TRUSTDESK_RETRY_INITIAL_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retry.InitialDelay = d
		}
	}

	// Trust center overrides
	if val := os.Getenv("TRUSTDESK_TRUST_CENTER_ROUTE_PREFIX"); val != "" {
		cfg.TrustCenter.RoutePrefix = val
	}
	if val := os.Getenv("TRUSTDESK_TRUST_CENTER_CONTENT_DIR"); val != "" {
		cfg.TrustCenter.ContentDir = val
	}

	// Telemetry overrides
	if val := os.Getenv("TRUSTDESK_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("TRUSTDESK_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("TRUSTDESK_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	// Maintenance overrides
	if val := os.Getenv("TRUSTDESK_MAINTENANCE_SCHEDULE"); val != "" {
		cfg.Maintenance.Schedule = val
	}
	if val := os.Getenv("TRUSTDESK_MAINTENANCE_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Maintenance.AuditRetentionDays = i
		}
	}
}

// splitAndTrim splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
