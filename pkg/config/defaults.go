package config

import "time"

// Default values for configuration fields.
const (
	// Environment defaults
	DefaultEnvironment = "production"

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = false

	// Database defaults
	DefaultRegistryPath = "data/registry.db"
	DefaultAuditPath    = "data/audit.db"
	DefaultMaxOpenConns = 10
	DefaultMaxIdleConns = 5
	DefaultBusyTimeout  = 5 * time.Second

	// Retry defaults
	DefaultRetryMaxRetries        = 3
	DefaultRetryInitialDelay      = 100 * time.Millisecond
	DefaultRetryMaxDelay          = 30 * time.Second
	DefaultRetryBackoffMultiplier = 2.0

	// Trust center defaults
	DefaultTrustCenterRoutePrefix = "/trust"
	DefaultTrustCenterContentDir  = "data/trust-center"
	DefaultTrustCenterWatch       = true

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "trustdesk"

	// Maintenance defaults
	DefaultMaintenanceSchedule = "0 3 * * *"
	DefaultReviewSweepEnabled  = true
	DefaultAuditRetentionDays  = 365
)

// DefaultCORSAllowedMethods returns the default allowed HTTP methods.
func DefaultCORSAllowedMethods() []string {
	return []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
}

// DefaultCORSAllowedHeaders returns the default allowed request headers.
func DefaultCORSAllowedHeaders() []string {
	return []string{"Authorization", "Content-Type", "X-Request-ID"}
}

// DefaultCORSExposedHeaders returns the default exposed response headers.
func DefaultCORSExposedHeaders() []string {
	return []string{"X-Request-ID"}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := newBaseConfig()
	ApplyDefaults(&cfg)
	return &cfg
}

// newBaseConfig returns a Config with the boolean fields that default to
// true already set, so that absent YAML keys keep the default while an
// explicit false is respected.
func newBaseConfig() Config {
	var cfg Config
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.TrustCenter.Watch = DefaultTrustCenterWatch
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Maintenance.ReviewSweepEnabled = DefaultReviewSweepEnabled
	return cfg
}

// ApplyDefaults fills zero-valued configuration fields with their defaults.
// Boolean fields that default to true are handled by the loader, which
// initializes them before unmarshalling.
func ApplyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	// Server
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// CORS
	if cfg.Server.CORS.AllowedMethods == nil {
		cfg.Server.CORS.AllowedMethods = DefaultCORSAllowedMethods()
	}
	if cfg.Server.CORS.AllowedHeaders == nil {
		cfg.Server.CORS.AllowedHeaders = DefaultCORSAllowedHeaders()
	}
	if cfg.Server.CORS.ExposedHeaders == nil {
		cfg.Server.CORS.ExposedHeaders = DefaultCORSExposedHeaders()
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Database
	if cfg.Database.RegistryPath == "" {
		cfg.Database.RegistryPath = DefaultRegistryPath
	}
	if cfg.Database.AuditPath == "" {
		cfg.Database.AuditPath = DefaultAuditPath
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = DefaultBusyTimeout
	}

	// Retry
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = DefaultRetryMaxRetries
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = DefaultRetryInitialDelay
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = DefaultRetryMaxDelay
	}
	if cfg.Retry.BackoffMultiplier == 0 {
		cfg.Retry.BackoffMultiplier = DefaultRetryBackoffMultiplier
	}

	// Trust center
	if cfg.TrustCenter.RoutePrefix == "" {
		cfg.TrustCenter.RoutePrefix = DefaultTrustCenterRoutePrefix
	}
	if cfg.TrustCenter.ContentDir == "" {
		cfg.TrustCenter.ContentDir = DefaultTrustCenterContentDir
	}

	// Telemetry
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}

	// Maintenance
	if cfg.Maintenance.Schedule == "" {
		cfg.Maintenance.Schedule = DefaultMaintenanceSchedule
	}
	if cfg.Maintenance.AuditRetentionDays == 0 {
		cfg.Maintenance.AuditRetentionDays = DefaultAuditRetentionDays
	}
}
