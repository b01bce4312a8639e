package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/pagination"
)

// HistoryService lists an owner's invoices of both shapes. Access is
// limited to premium users.
type HistoryService struct {
	userRepo    repository.UserRepository
	invoiceRepo repository.InvoiceRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(userRepo repository.UserRepository, invoiceRepo repository.InvoiceRepository) *HistoryService {
	return &HistoryService{userRepo: userRepo, invoiceRepo: invoiceRepo}
}

// List returns every invoice of the user, newest first
func (s *HistoryService) List(ctx context.Context, userID uuid.UUID) ([]invoice.Summary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	if !user.IsPremium {
		return nil, apperror.ErrPremiumOnly
	}

	simple, err := s.invoiceRepo.ListSimpleByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewTransientError("Could not load invoices", err)
	}
	advanced, err := s.invoiceRepo.ListAdvancedByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewTransientError("Could not load invoices", err)
	}
	return invoice.MergeHistory(simple, advanced), nil
}

// Page returns one page of the merged history
func (s *HistoryService) Page(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[invoice.Summary], error) {
	summaries, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(summaries, params), nil
}
