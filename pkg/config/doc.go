// Package config defines and loads the Trustdesk configuration.
//
// Configuration is layered: YAML file, then defaults for anything unset,
// then TRUSTDESK_* environment variable overrides, then validation. The
// trust center origin allow-list is commonly supplied via
// TRUSTDESK_TRUST_CENTER_ORIGINS as a comma-separated list and is read
// once at boot.
//
//	cfg, err := config.LoadConfig("trustdesk.yaml")
//	if err != nil {
//	    // contains every failed field, not just the first
//	}
package config
