package invoice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeHistory(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	simple := []entity.Invoice{
		{ID: uuid.New(), ClientName: "old simple", Total: dec("10"), CreatedAt: base},
		{ID: uuid.New(), ClientName: "tie simple", Total: dec("20"), CreatedAt: base.Add(time.Hour), IssueDate: "2024-01-01"},
	}
	advanced := []entity.AdvancedInvoice{
		{ID: uuid.New(), InvoiceNumber: "INV-9", ClientName: "newest", Total: dec("30"), CreatedAt: base.Add(2 * time.Hour),
			Items: []entity.AdvancedInvoiceItem{{}, {}, {}}, Status: enum.InvoiceStatusPaid},
		{ID: uuid.New(), ClientName: "tie advanced", Total: dec("40"), CreatedAt: base.Add(time.Hour)},
	}

	got := MergeHistory(simple, advanced)
	require.Len(t, got, 4)

	assert.Equal(t, "newest", got[0].ClientName)
	assert.Equal(t, enum.InvoiceShapeAdvanced, got[0].Shape)
	assert.Equal(t, 3, got[0].ItemCount)
	assert.Equal(t, "INV-9", got[0].DisplayNumber)
	assert.Equal(t, enum.InvoiceStatusPaid, got[0].Status)

	// equal timestamps keep input order
	assert.Equal(t, "tie simple", got[1].ClientName)
	assert.Equal(t, "tie advanced", got[2].ClientName)
	assert.Equal(t, PlaceholderNumber, got[2].DisplayNumber)

	assert.Equal(t, "old simple", got[3].ClientName)
	assert.Equal(t, 1, got[3].ItemCount)
	assert.Equal(t, enum.InvoiceShapeSimple, got[3].Shape)
	assert.Equal(t, PlaceholderNumber, got[3].DisplayNumber)
	assert.Equal(t, "01/01/2024", got[3].Date)
	assert.Equal(t, "01/01/2024", got[1].Date)
}

func TestMergeHistoryEmpty(t *testing.T) {
	assert.Empty(t, MergeHistory(nil, nil))
}
