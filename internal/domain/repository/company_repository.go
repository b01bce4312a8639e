package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
)

// CompanyRepository defines the interface for company data operations
type CompanyRepository interface {
	// CreateForUser stores the company and links it to the user in one transaction
	CreateForUser(ctx context.Context, company *entity.Company, userID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	// GetForUser returns the company only when it is linked to the user
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Company, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Company, error)
}
