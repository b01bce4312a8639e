// Package kvstore holds short-lived per-session values: the duplicate
// submission records and the last previewed invoice.
package kvstore

import (
	"context"
	"time"
)

// Store is a TTL key/value store. A zero ttl keeps the value until deleted.
type Store interface {
	// Get returns ok=false for missing or expired keys
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
