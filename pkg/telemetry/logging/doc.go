// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// Every message and every piece of metadata passes through a sanitizer
// before reaching the sink:
//   - Bearer tokens, token=... and password=... fragments are scrubbed
//     from free-text messages
//   - metadata values under sensitive key names (password, token, secret,
//     authorization) are replaced with a fixed placeholder at any nesting
//     depth
//   - oversized strings are truncated with a visible marker
//   - recursion into nested metadata is depth-bounded, so cyclic or very
//     deep structures degrade gracefully instead of crashing
//
// # Usage
//
//	sink, _ := logging.NewSlogSink(logging.Config{Level: "info", Format: "json"})
//	logger := logging.New(sink)
//
//	logger.Info("login failed with password=hunter2",
//	    map[string]any{"user": "alice", "token": "abc123"})
//	// message: "login failed with password=[REDACTED]"
//	// metadata: {"user": "alice", "token": "[REDACTED]"}
//
// The Sink interface is the injection point: production code uses the
// slog-backed sink, tests substitute an in-memory capture.
package logging
