// Package storage provides persistence backends for the registry: a
// SQLite store for production and an in-memory store for tests.
package storage
