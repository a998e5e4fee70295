package config

import "time"

// Config is the root configuration structure for Trustdesk. It contains all
// configuration sections for the HTTP server, persistence, the retry
// policy, the trust center portal, telemetry, and maintenance jobs.
type Config struct {
	// Environment is the deployment mode ("development", "staging",
	// "production"). Development mode additionally allows local browser
	// origins through the CORS guard.
	// Default: "production"
	Environment string `yaml:"environment"`

	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Database contains persistence configuration for the registry and
	// audit stores.
	Database DatabaseConfig `yaml:"database"`

	// Retry contains the retry policy applied to database operations.
	Retry RetryConfig `yaml:"retry"`

	// TrustCenter contains configuration for the public trust center
	// portal.
	TrustCenter TrustCenterConfig `yaml:"trust_center"`

	// Telemetry contains observability configuration (logging, metrics).
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Maintenance contains configuration for scheduled background jobs.
	Maintenance MaintenanceConfig `yaml:"maintenance"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS handling is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is the list of allowed origin patterns. An entry is
	// either a literal origin ("https://trust.paythru.com") or contains a
	// single "*" standing in for exactly one DNS label
	// ("https://trust.*.paythru.com"). Patterns are read once at boot.
	// Override: TRUSTDESK_TRUST_CENTER_ORIGINS (comma-separated)
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is the list of allowed HTTP methods.
	// Default: ["GET", "POST", "PUT", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is the list of allowed HTTP request headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is the explicit list of response headers readable by
	// browser clients. Never a wildcard.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed in CORS
	// requests.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// DatabaseConfig contains persistence configuration.
type DatabaseConfig struct {
	// RegistryPath is the SQLite database file for documents, risks,
	// controls, assets, and suppliers.
	// Default: "data/registry.db"
	RegistryPath string `yaml:"registry_path"`

	// AuditPath is the SQLite database file for the audit trail.
	// Default: "data/audit.db"
	AuditPath string `yaml:"audit_path"`

	// MaxOpenConns is the maximum number of open connections per store.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections per store.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetryConfig contains the retry policy for database operations.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration `yaml:"initial_delay"`

	// MaxDelay caps the computed backoff delay.
	// Default: 30s
	MaxDelay time.Duration `yaml:"max_delay"`

	// BackoffMultiplier grows the delay between attempts. Must be > 1.
	// Default: 2.0
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
}

// TrustCenterConfig contains configuration for the public trust center
// portal.
type TrustCenterConfig struct {
	// RoutePrefix is the path prefix for public trust center routes.
	// Requests under this prefix receive the restrictive
	// Content-Security-Policy header.
	// Default: "/trust"
	RoutePrefix string `yaml:"route_prefix"`

	// ContentDir is the directory holding published artifact files
	// (reports, certificates) served by the portal index.
	// Default: "data/trust-center"
	ContentDir string `yaml:"content_dir"`

	// Watch enables reloading the artifact index when the content
	// directory changes.
	// Default: true
	Watch bool `yaml:"watch"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace.
	// Default: "trustdesk"
	Namespace string `yaml:"namespace"`
}

// MaintenanceConfig contains configuration for scheduled background jobs.
type MaintenanceConfig struct {
	// Schedule is the cron expression for the maintenance run.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`

	// ReviewSweepEnabled controls the document review sweep, which flags
	// documents whose next review date has passed.
	// Default: true
	ReviewSweepEnabled bool `yaml:"review_sweep_enabled"`

	// AuditRetentionDays is how long audit records are kept before
	// pruning. Zero disables pruning.
	// Default: 365
	AuditRetentionDays int `yaml:"audit_retention_days"`
}
