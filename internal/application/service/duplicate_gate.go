package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/kvstore"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/metrics"
	"go.uber.org/zap"
)

// GateRecord is the last invoice stored for one session and shape
type GateRecord struct {
	Hash       string    `json:"hash"`
	InvoiceID  uuid.UUID `json:"invoice_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// PersistFunc stores the invoice and returns its id
type PersistFunc func(ctx context.Context) (uuid.UUID, error)

// GateResult reports what the gate did with a submission
type GateResult struct {
	InvoiceID uuid.UUID
	// Duplicate is set when the submission matched the last stored invoice
	Duplicate bool
	// Skipped is set for review submissions, which never persist
	Skipped bool
}

// DuplicateGate suppresses repeated submissions of the same invoice within
// one session. The check and the write run under a per-session lock.
type DuplicateGate struct {
	store   kvstore.Store
	ttl     time.Duration
	locks   *keyedMutex
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewDuplicateGate creates a gate backed by store. Records expire after ttl.
func NewDuplicateGate(store kvstore.Store, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *DuplicateGate {
	return &DuplicateGate{
		store:   store,
		ttl:     ttl,
		locks:   newKeyedMutex(),
		metrics: m,
		logger:  logger,
	}
}

func gateKey(sessionID string, n *invoice.Normalized) string {
	return "gate:" + sessionID + ":" + n.Shape.String()
}

// Admit persists n unless it repeats the last invoice stored by the same
// session and owner, in which case the earlier id is returned.
func (g *DuplicateGate) Admit(ctx context.Context, sessionID string, owner uuid.UUID, n *invoice.Normalized, persist PersistFunc) (*GateResult, error) {
	if n.Review() {
		return &GateResult{Skipped: true}, nil
	}
	if sessionID == "" {
		id, err := persist(ctx)
		if err != nil {
			return nil, err
		}
		g.metrics.InvoicesPersisted.WithLabelValues(n.Shape.String()).Inc()
		return &GateResult{InvoiceID: id}, nil
	}

	hash, err := n.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint invoice: %w", err)
	}

	key := gateKey(sessionID, n)
	unlock := g.locks.Lock(key)
	defer unlock()

	last, err := g.lastRecord(ctx, key)
	if err != nil {
		return nil, apperror.NewTransientError("Could not read session data", err)
	}
	if last != nil && last.Hash == hash && last.OwnerID == owner {
		g.metrics.InvoicesSuppressed.WithLabelValues(n.Shape.String()).Inc()
		g.logger.Debug("duplicate invoice submission suppressed",
			zap.String("shape", n.Shape.String()),
			zap.String("invoice_id", last.InvoiceID.String()),
		)
		return &GateResult{InvoiceID: last.InvoiceID, Duplicate: true}, nil
	}

	id, err := persist(ctx)
	if err != nil {
		return nil, err
	}
	g.metrics.InvoicesPersisted.WithLabelValues(n.Shape.String()).Inc()

	record := GateRecord{Hash: hash, InvoiceID: id, OwnerID: owner, RecordedAt: time.Now()}
	if err := g.remember(ctx, key, &record); err != nil {
		// the invoice is stored; only the next duplicate check is weakened
		g.logger.Warn("failed to record submission fingerprint",
			zap.String("invoice_id", id.String()),
			zap.Error(err),
		)
	}
	return &GateResult{InvoiceID: id}, nil
}

func (g *DuplicateGate) lastRecord(ctx context.Context, key string) (*GateRecord, error) {
	raw, ok, err := g.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var record GateRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		g.logger.Warn("discarding unreadable gate record", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return &record, nil
}

func (g *DuplicateGate) remember(ctx context.Context, key string, record *GateRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return g.store.Set(ctx, key, raw, g.ttl)
}
