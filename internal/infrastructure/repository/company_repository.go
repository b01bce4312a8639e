package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	domainRepo "github.com/sangkips/invoiceau-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) domainRepo.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) CreateForUser(ctx context.Context, company *entity.Company, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(company).Error; err != nil {
			return err
		}
		return tx.Exec("INSERT INTO user_companies (user_id, company_id) VALUES (?, ?)", userID, company.ID).Error
	})
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	var company entity.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &company, err
}

func (r *companyRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Company, error) {
	var company entity.Company
	err := r.db.WithContext(ctx).
		Joins("JOIN user_companies ON user_companies.company_id = companies.id").
		Where("companies.id = ? AND user_companies.user_id = ?", id, userID).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &company, err
}

func (r *companyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Company, error) {
	var companies []entity.Company
	err := r.db.WithContext(ctx).
		Joins("JOIN user_companies ON user_companies.company_id = companies.id").
		Where("user_companies.user_id = ?", userID).
		Order("companies.company_name ASC").
		Find(&companies).Error
	return companies, err
}
