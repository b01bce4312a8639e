package entity

import (
	"time"
)

// SessionEntry is a key/value row backing the database session store
type SessionEntry struct {
	Key       string     `gorm:"primaryKey;size:255"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"` // nil never expires
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

// TableName returns the table name for SessionEntry
func (SessionEntry) TableName() string {
	return "session_entries"
}

// IsExpired checks if the entry has expired
func (e *SessionEntry) IsExpired() bool {
	return e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt)
}
