package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/storage"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/metrics"
	"github.com/sangkips/invoiceau-api/pkg/utils"
	"go.uber.org/zap"
)

const companyCache = "company"

// LogoSaver stores uploaded company logos
type LogoSaver interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(path string) error
}

// CompanyService handles sender company profiles
type CompanyService struct {
	companyRepo repository.CompanyRepository
	logos       LogoSaver
	cache       *lru.Cache[string, *entity.Company]
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCompanyService creates a new company service. Companies are read-only
// once created, so lookups are cached per owner.
func NewCompanyService(
	companyRepo repository.CompanyRepository,
	logos LogoSaver,
	cacheSize int,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*CompanyService, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, *entity.Company](cacheSize)
	if err != nil {
		return nil, err
	}
	return &CompanyService{
		companyRepo: companyRepo,
		logos:       logos,
		cache:       cache,
		metrics:     m,
		logger:      logger,
	}, nil
}

// CreateCompanyInput represents the create company input
type CreateCompanyInput struct {
	CompanyName    string
	ABN            string
	Address        string
	Phone          string
	Email          string
	PaymentDetails string
}

// LogoUpload is an optional logo file sent with a new company
type LogoUpload struct {
	Filename string
	Body     io.Reader
}

// ListCompanies returns the companies linked to the user
func (s *CompanyService) ListCompanies(ctx context.Context, userID uuid.UUID) ([]entity.Company, error) {
	companies, err := s.companyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []entity.Company{}
	}
	return companies, nil
}

// CreateCompany stores a company, its optional logo, and links it to the user
func (s *CompanyService) CreateCompany(ctx context.Context, userID uuid.UUID, input *CreateCompanyInput, logo *LogoUpload) (*entity.Company, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, apperror.NewMissingFieldError("company_name")
	}
	email := strings.TrimSpace(input.Email)
	if email != "" && !utils.IsValidEmail(email) {
		return nil, apperror.NewValidationError(apperror.KindInvalidEmail, "Invalid company email address",
			apperror.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	company := &entity.Company{
		CompanyName:    name,
		ABN:            strings.TrimSpace(input.ABN),
		Address:        strings.TrimSpace(input.Address),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          email,
		PaymentDetails: strings.TrimSpace(input.PaymentDetails),
	}

	if logo != nil && logo.Filename != "" {
		path, err := s.logos.Save(logo.Filename, logo.Body)
		switch {
		case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooLarge):
			return nil, apperror.NewBadRequestError(err.Error())
		case err != nil:
			return nil, apperror.NewTransientError("Could not store logo", err)
		}
		company.LogoPath = path
	}

	if err := s.companyRepo.CreateForUser(ctx, company, userID); err != nil {
		if removeErr := s.logos.Remove(company.LogoPath); removeErr != nil {
			s.logger.Warn("failed to remove orphaned logo", zap.String("path", company.LogoPath), zap.Error(removeErr))
		}
		return nil, apperror.NewTransientError("Could not save company", err)
	}

	s.logger.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return company, nil
}

// ResolverFor returns the company lookup used when normalizing an invoice
// submitted by userID. Anonymous submitters resolve no companies.
func (s *CompanyService) ResolverFor(userID *uuid.UUID) invoice.CompanyResolver {
	return &ownerCompanies{service: s, userID: userID}
}

type ownerCompanies struct {
	service *CompanyService
	userID  *uuid.UUID
}

func (r *ownerCompanies) ResolveCompany(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	if r.userID == nil {
		return nil, nil
	}
	return r.service.lookup(ctx, id, *r.userID)
}

func (s *CompanyService) lookup(ctx context.Context, id, userID uuid.UUID) (*entity.Company, error) {
	key := userID.String() + ":" + id.String()
	if company, ok := s.cache.Get(key); ok {
		s.metrics.CacheHitsTotal.WithLabelValues(companyCache).Inc()
		return company, nil
	}
	s.metrics.CacheMissesTotal.WithLabelValues(companyCache).Inc()

	company, err := s.companyRepo.GetForUser(ctx, id, userID)
	if err != nil || company == nil {
		return nil, err
	}
	s.cache.Add(key, company)
	return company, nil
}
