package config

import (
	"fmt"
	"net"
	"strings"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail. All validation errors are
// collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateEnvironment(cfg.Environment)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateRetry(&cfg.Retry)...)
	errs = append(errs, validateTrustCenter(&cfg.TrustCenter)...)
	errs = append(errs, validateMaintenance(&cfg.Maintenance)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateEnvironment(env string) []FieldError {
	switch env {
	case "development", "staging", "production":
		return nil
	default:
		return []FieldError{{
			Field:   "environment",
			Message: fmt.Sprintf("must be one of development, staging, production (got %q)", env),
		}}
	}
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid host:port %q", cfg.ListenAddress),
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "must not be negative",
		})
	}

	errs = append(errs, validateCORS(&cfg.CORS)...)
	return errs
}

func validateCORS(cfg *CORSConfig) []FieldError {
	var errs []FieldError

	for i, origin := range cfg.AllowedOrigins {
		if strings.Count(origin, "*") > 1 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("server.cors.allowed_origins[%d]", i),
				Message: fmt.Sprintf("at most one wildcard label is supported (got %q)", origin),
			})
			continue
		}
		if !strings.Contains(origin, "://") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("server.cors.allowed_origins[%d]", i),
				Message: fmt.Sprintf("origin must include a scheme (got %q)", origin),
			})
		}
	}

	for i, header := range cfg.ExposedHeaders {
		if header == "*" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("server.cors.exposed_headers[%d]", i),
				Message: "wildcard exposure is not allowed; list headers explicitly",
			})
		}
	}

	if cfg.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateRetry(cfg *RetryConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "retry.max_retries",
			Message: "must not be negative",
		})
	}
	if cfg.InitialDelay <= 0 {
		errs = append(errs, FieldError{
			Field:   "retry.initial_delay",
			Message: "must be positive",
		})
	}
	if cfg.MaxDelay < cfg.InitialDelay {
		errs = append(errs, FieldError{
			Field:   "retry.max_delay",
			Message: "must be at least initial_delay",
		})
	}
	if cfg.BackoffMultiplier <= 1 {
		errs = append(errs, FieldError{
			Field:   "retry.backoff_multiplier",
			Message: "must be greater than 1",
		})
	}

	return errs
}

func validateTrustCenter(cfg *TrustCenterConfig) []FieldError {
	var errs []FieldError

	if !strings.HasPrefix(cfg.RoutePrefix, "/") {
		errs = append(errs, FieldError{
			Field:   "trust_center.route_prefix",
			Message: fmt.Sprintf("must start with / (got %q)", cfg.RoutePrefix),
		})
	}

	return errs
}

func validateMaintenance(cfg *MaintenanceConfig) []FieldError {
	var errs []FieldError

	if cfg.AuditRetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "maintenance.audit_retention_days",
			Message: "must not be negative",
		})
	}

	return errs
}
