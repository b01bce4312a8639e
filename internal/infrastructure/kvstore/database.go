package kvstore

import (
	"context"
	"time"

	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"go.uber.org/zap"
)

// DatabaseStore keeps values in the session_entries table
type DatabaseStore struct {
	repo   repository.SessionEntryRepository
	logger *zap.Logger
}

// NewDatabaseStore creates a store on top of the session entry repository
func NewDatabaseStore(repo repository.SessionEntryRepository, logger *zap.Logger) *DatabaseStore {
	return &DatabaseStore{repo: repo, logger: logger}
}

func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if entry == nil || entry.IsExpired() {
		return nil, false, nil
	}
	return []byte(entry.Value), true, nil
}

func (s *DatabaseStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := &entity.SessionEntry{Key: key, Value: string(value)}
	if ttl > 0 {
		expiresAt := time.Now().Add(ttl)
		entry.ExpiresAt = &expiresAt
	}
	return s.repo.Upsert(ctx, entry)
}

func (s *DatabaseStore) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// RunCleanup deletes expired rows every interval until ctx is done
func (s *DatabaseStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.repo.DeleteExpired(ctx)
			if err != nil {
				s.logger.Warn("Failed to delete expired session entries", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Debug("Deleted expired session entries", zap.Int64("count", removed))
			}
		}
	}
}
