package invoice

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PlaceholderNumber is shown for invoices without an invoice number.
const PlaceholderNumber = "N/A"

// Summary is the shape-independent history row.
type Summary struct {
	ID            uuid.UUID          `json:"id"`
	DisplayNumber string             `json:"display_number"`
	Date          string             `json:"date"`
	ClientName    string             `json:"client_name"`
	Total         decimal.Decimal    `json:"total"`
	Status        enum.InvoiceStatus `json:"status"`
	Shape         enum.InvoiceShape  `json:"shape"`
	ItemCount     int                `json:"item_count"`
	CreatedAt     time.Time          `json:"created_at"`
}

func displayNumber(n string) string {
	if n == "" {
		return PlaceholderNumber
	}
	return n
}

func displayDate(issue string, created time.Time) string {
	if issue == "" {
		return created.Format(displayDateLayout)
	}
	return FormatDisplayDate(issue)
}

// SummarizeSimple projects a simple invoice.
func SummarizeSimple(inv *entity.Invoice) Summary {
	return Summary{
		ID:            inv.ID,
		DisplayNumber: displayNumber(inv.InvoiceNumber),
		Date:          displayDate(inv.IssueDate, inv.CreatedAt),
		ClientName:    inv.ClientName,
		Total:         inv.Total,
		Status:        inv.Status,
		Shape:         enum.InvoiceShapeSimple,
		ItemCount:     1,
		CreatedAt:     inv.CreatedAt,
	}
}

// SummarizeAdvanced projects an advanced invoice. Items must be preloaded.
func SummarizeAdvanced(inv *entity.AdvancedInvoice) Summary {
	return Summary{
		ID:            inv.ID,
		DisplayNumber: displayNumber(inv.InvoiceNumber),
		Date:          displayDate(inv.IssueDate, inv.CreatedAt),
		ClientName:    inv.ClientName,
		Total:         inv.Total,
		Status:        inv.Status,
		Shape:         enum.InvoiceShapeAdvanced,
		ItemCount:     len(inv.Items),
		CreatedAt:     inv.CreatedAt,
	}
}

// MergeHistory returns both collections newest first. Equal timestamps keep
// input order, simple invoices before advanced ones.
func MergeHistory(simple []entity.Invoice, advanced []entity.AdvancedInvoice) []Summary {
	out := make([]Summary, 0, len(simple)+len(advanced))
	for i := range simple {
		out = append(out, SummarizeSimple(&simple[i]))
	}
	for i := range advanced {
		out = append(out, SummarizeAdvanced(&advanced[i]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
