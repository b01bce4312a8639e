package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/kvstore"
	"github.com/sangkips/invoiceau-api/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func normalized(t *testing.T, f invoice.Form) *invoice.Normalized {
	t.Helper()
	n, err := invoice.Normalize(context.Background(), f, nil)
	require.NoError(t, err)
	return n
}

// countingPersist hands out a fresh id per call
func countingPersist(calls *int32) PersistFunc {
	return func(context.Context) (uuid.UUID, error) {
		atomic.AddInt32(calls, 1)
		return uuid.New(), nil
	}
}

func newGate() (*DuplicateGate, *metrics.Metrics) {
	m := metrics.New()
	return NewDuplicateGate(kvstore.NewMemoryStore(), time.Hour, m, zap.NewNop()), m
}

func TestDuplicateGateSuppressesRepeatInSameSession(t *testing.T) {
	gate, m := newGate()
	ctx := context.Background()
	owner := uuid.New()
	var calls int32

	first, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.InvoiceID, second.InvoiceID)
	assert.Equal(t, int32(1), calls)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesPersisted.WithLabelValues("simple")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesSuppressed.WithLabelValues("simple")))
}

func TestDuplicateGatePersistsChangedData(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()
	owner := uuid.New()
	var calls int32

	first, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)

	changed := simpleForm()
	changed["rate"] = "175"
	second, err := gate.Admit(ctx, "sess-1", owner, normalized(t, changed), countingPersist(&calls))
	require.NoError(t, err)
	assert.False(t, second.Duplicate)
	assert.NotEqual(t, first.InvoiceID, second.InvoiceID)

	// the latest submission is now the one compared against
	third, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)
	assert.False(t, third.Duplicate)
	assert.Equal(t, int32(3), calls)
}

func TestDuplicateGateIsScopedPerSession(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()
	owner := uuid.New()
	var calls int32

	a, err := gate.Admit(ctx, "sess-a", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)
	b, err := gate.Admit(ctx, "sess-b", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)

	assert.NotEqual(t, a.InvoiceID, b.InvoiceID)
	assert.False(t, b.Duplicate)
	assert.Equal(t, int32(2), calls)
}

func TestDuplicateGateIsScopedPerShape(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()
	owner := uuid.New()
	var calls int32

	_, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)
	_, err = gate.Admit(ctx, "sess-1", owner, normalized(t, advancedForm()), countingPersist(&calls))
	require.NoError(t, err)
	res, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)

	assert.True(t, res.Duplicate)
	assert.Equal(t, int32(2), calls)
}

func TestDuplicateGateDoesNotShareAcrossOwners(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()
	var calls int32

	_, err := gate.Admit(ctx, "sess-1", uuid.New(), normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)
	res, err := gate.Admit(ctx, "sess-1", uuid.New(), normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)

	assert.False(t, res.Duplicate)
	assert.Equal(t, int32(2), calls)
}

func TestDuplicateGateReviewBypassesPersistence(t *testing.T) {
	gate, _ := newGate()
	var calls int32

	f := simpleForm()
	f["review"] = "1"
	res, err := gate.Admit(context.Background(), "sess-1", uuid.New(), normalized(t, f), countingPersist(&calls))
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.Equal(t, uuid.Nil, res.InvoiceID)
	assert.Zero(t, calls)
}

func TestDuplicateGateFailedPersistIsNotRecorded(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()
	owner := uuid.New()

	_, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), func(context.Context) (uuid.UUID, error) {
		return uuid.Nil, errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var calls int32
	res, err := gate.Admit(ctx, "sess-1", owner, normalized(t, simpleForm()), countingPersist(&calls))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, int32(1), calls)
}

func TestDuplicateGateWithoutSessionAlwaysPersists(t *testing.T) {
	gate, _ := newGate()
	var calls int32

	for i := 0; i < 2; i++ {
		_, err := gate.Admit(context.Background(), "", uuid.New(), normalized(t, simpleForm()), countingPersist(&calls))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls)
}

func TestDuplicateGateSerializesConcurrentSubmissions(t *testing.T) {
	gate, _ := newGate()
	owner := uuid.New()
	var calls int32

	slowPersist := func(context.Context) (uuid.UUID, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return uuid.New(), nil
	}

	n := normalized(t, simpleForm())
	const clicks = 8
	ids := make([]uuid.UUID, clicks)
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := gate.Admit(context.Background(), "sess-1", owner, n, slowPersist)
			if assert.NoError(t, err) {
				ids[i] = res.InvoiceID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Zero(t, gate.locks.size())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")

	done := make(chan struct{})
	go func() {
		unlock := k.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	unlockA()
	assert.Zero(t, k.size())
}
