package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Company{},
		&entity.Invoice{},
		&entity.AdvancedInvoice{},
		&entity.AdvancedInvoiceItem{},
		&entity.SessionEntry{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, Name: "Test User"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}
