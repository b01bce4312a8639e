package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
)

// InvoiceRepository defines storage for both invoice shapes
type InvoiceRepository interface {
	CreateSimple(ctx context.Context, invoice *entity.Invoice) error
	// CreateAdvanced stores the invoice and all of its items atomically
	CreateAdvanced(ctx context.Context, invoice *entity.AdvancedInvoice) error

	GetSimpleByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// GetAdvancedByID preloads items (in position order) and the sender company
	GetAdvancedByID(ctx context.Context, id uuid.UUID) (*entity.AdvancedInvoice, error)

	// MarkSimplePaid and MarkAdvancedPaid move Unpaid to Paid and are no-ops when already paid
	MarkSimplePaid(ctx context.Context, id uuid.UUID) error
	MarkAdvancedPaid(ctx context.Context, id uuid.UUID) error

	ListSimpleByUser(ctx context.Context, userID uuid.UUID) ([]entity.Invoice, error)
	ListAdvancedByUser(ctx context.Context, userID uuid.UUID) ([]entity.AdvancedInvoice, error)
}
