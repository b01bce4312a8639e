package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	domainRepo "github.com/sangkips/invoiceau-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionEntryRepository struct {
	db *gorm.DB
}

// NewSessionEntryRepository creates a new session entry repository
func NewSessionEntryRepository(db *gorm.DB) domainRepo.SessionEntryRepository {
	return &sessionEntryRepository{db: db}
}

func (r *sessionEntryRepository) Get(ctx context.Context, key string) (*entity.SessionEntry, error) {
	var entry entity.SessionEntry
	err := r.db.WithContext(ctx).Where(&entity.SessionEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *sessionEntryRepository) Upsert(ctx context.Context, entry *entity.SessionEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(entry).Error
}

func (r *sessionEntryRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where(&entity.SessionEntry{Key: key}).Delete(&entity.SessionEntry{}).Error
}

func (r *sessionEntryRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&entity.SessionEntry{})
	return result.RowsAffected, result.Error
}
