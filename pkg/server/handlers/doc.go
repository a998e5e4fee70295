// Package handlers contains the HTTP handlers for the Trustdesk API: the
// internal registry CRUD surface, the audit trail read API, the public
// trust center portal, and health probes.
package handlers
