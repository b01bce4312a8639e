package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/database"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/kvstore"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/render"
	infraRepo "github.com/sangkips/invoiceau-api/internal/infrastructure/repository"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/storage"
	"github.com/sangkips/invoiceau-api/pkg/email"
	"github.com/sangkips/invoiceau-api/pkg/metrics"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	return db
}

type fakePDF struct {
	err   error
	calls int
}

func (f *fakePDF) RenderPDF(_ context.Context, html []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("%PDF-1.4\n"), html[:16]...), nil
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []email.Message
}

func (f *fakeMailer) Send(msg email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// testEnv wires the invoice pipeline against sqlite and in-memory fakes
type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	invoices  repository.InvoiceRepository
	companies *CompanyService
	sessions  *kvstore.MemoryStore
	pdf       *fakePDF
	mailer    *fakeMailer
	metrics   *metrics.Metrics
	service   *InvoiceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	m := metrics.New()
	log := zap.NewNop()

	logos, err := storage.NewLogoStore(t.TempDir(), 1<<16)
	require.NoError(t, err)
	companies, err := NewCompanyService(infraRepo.NewCompanyRepository(db), logos, 16, m, log)
	require.NoError(t, err)

	pages, err := render.NewPages()
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		users:     infraRepo.NewUserRepository(db),
		invoices:  infraRepo.NewInvoiceRepository(db),
		companies: companies,
		sessions:  kvstore.NewMemoryStore(),
		pdf:       &fakePDF{},
		mailer:    &fakeMailer{},
		metrics:   m,
	}
	gate := NewDuplicateGate(env.sessions, time.Hour, m, log)
	delivery := NewDeliveryService(pages, env.pdf, env.mailer, m, log)
	env.service = NewInvoiceService(env.invoices, companies, gate, delivery, env.sessions, time.Hour, log)
	env.service.now = func() time.Time { return time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC) }
	return env
}

func (e *testEnv) createUser(t *testing.T, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, Name: "Test User"}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) countRows(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func simpleForm() invoice.Form {
	return invoice.Form{
		"your_name":    "Jane Smith",
		"abn":          "12 345 678 901",
		"client_name":  "Acme",
		"client_email": "ap@acme.test",
		"description":  "Consulting",
		"quantity":     "2",
		"rate":         "150",
		"include_gst":  "on",
		"date":         "2024-03-07",
	}
}

func advancedForm() invoice.Form {
	return invoice.Form{
		"invoice_number":        "INV-7",
		"your_name":             "Jane Smith",
		"client_name":           "Acme",
		"client_email":          "ap@acme.test",
		"include_gst":           "on",
		"items[0][description]": "A",
		"items[0][quantity]":    "2",
		"items[0][rate]":        "10",
		"items[1][description]": "B",
		"items[1][quantity]":    "1",
		"items[1][rate]":        "5",
	}
}

func submitter(sessionID string, user *entity.User) Submitter {
	sub := Submitter{SessionID: sessionID}
	if user != nil {
		id := user.ID
		sub.UserID = &id
	}
	return sub
}

var errBoom = errors.New("boom")

func mustUUID(t *testing.T, id *uuid.UUID) uuid.UUID {
	t.Helper()
	require.NotNil(t, id)
	return *id
}
