package domain

import "context"

// Database defines lifecycle operations for the underlying store.
// The implementation owns its own migration files and strategy so the
// storage backend stays swappable behind the repository interfaces.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
