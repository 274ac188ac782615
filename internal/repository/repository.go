// Package repository implements persistence over PostgreSQL with a lazily
// established connection and a Redis-backed cache.
package repository

import "github.com/jmoiron/sqlx"

// Conn yields the shared database handle. Implementations may dial lazily;
// callers treat a connect failure like any other store error so requests
// arriving before the database is reachable degrade to typed errors instead
// of crashing the process.
type Conn interface {
	EnsureConnected() (*sqlx.DB, error)
}
