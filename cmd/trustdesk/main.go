// Trustdesk is a compliance document-management service.
//
// It keeps the registry of compliance documents, risks, controls, assets,
// and suppliers behind an internal HTTP API, records every mutation in an
// append-only audit trail, and publishes approved material through a
// public trust center portal.
//
// Usage:
//
//	# Start server with default configuration
//	trustdesk run
//
//	# Start with custom configuration file
//	trustdesk run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	trustdesk validate --config /path/to/config.yaml
//
//	# Run one maintenance cycle and exit
//	trustdesk maintain
//
//	# Show version information
//	trustdesk version
package main

func main() {
	Execute()
}
