package domain

import "context"

// Database defines lifecycle operations for the underlying store.
// Each implementation (MongoDB, SQLite) owns its own schema setup, so the
// backend can be swapped without touching the services.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Users() UserRepository
	Close() error
}
