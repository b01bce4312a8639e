package repository

import (
	"context"

	"github.com/sangkips/invoiceau-api/internal/domain/entity"
)

// SessionEntryRepository defines the interface for database-backed session values
type SessionEntryRepository interface {
	// Get retrieves an entry by key, expired or not
	Get(ctx context.Context, key string) (*entity.SessionEntry, error)
	// Upsert inserts or replaces the entry with the same key
	Upsert(ctx context.Context, entry *entity.SessionEntry) error
	Delete(ctx context.Context, key string) error
	// DeleteExpired removes expired entries (for cleanup)
	DeleteExpired(ctx context.Context) (int64, error)
}
