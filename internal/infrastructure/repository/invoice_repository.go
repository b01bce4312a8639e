package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	domainRepo "github.com/sangkips/invoiceau-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateSimple(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error
}

func (r *invoiceRepository) CreateAdvanced(ctx context.Context, invoice *entity.AdvancedInvoice) error {
	items := invoice.Items
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(invoice).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].AdvancedInvoiceID = invoice.ID
			items[i].Position = i
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *invoiceRepository) GetSimpleByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetAdvancedByID(ctx context.Context, id uuid.UUID) (*entity.AdvancedInvoice, error) {
	var invoice entity.AdvancedInvoice
	err := r.db.WithContext(ctx).
		Scopes(ItemsInOrder).
		Preload("Company").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) MarkSimplePaid(ctx context.Context, id uuid.UUID) error {
	return r.markPaid(ctx, &entity.Invoice{}, id)
}

func (r *invoiceRepository) MarkAdvancedPaid(ctx context.Context, id uuid.UUID) error {
	return r.markPaid(ctx, &entity.AdvancedInvoice{}, id)
}

// markPaid only touches unpaid rows so repeating it changes nothing
func (r *invoiceRepository) markPaid(ctx context.Context, model interface{}, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND status = ?", id, enum.InvoiceStatusUnpaid).
		Update("status", enum.InvoiceStatusPaid).Error
}

func (r *invoiceRepository) ListSimpleByUser(ctx context.Context, userID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID), NewestFirst).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListAdvancedByUser(ctx context.Context, userID uuid.UUID) ([]entity.AdvancedInvoice, error) {
	var invoices []entity.AdvancedInvoice
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID), NewestFirst, ItemsInOrder).
		Find(&invoices).Error
	return invoices, err
}
