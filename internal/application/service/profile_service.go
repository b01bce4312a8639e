package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
)

// ProfileService reads and edits the signed in user's profile
type ProfileService struct {
	userRepo repository.UserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// UpdateProfileInput holds the submitted profile fields. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Address *string
	Gender  *string
	DOB     *string // YYYY-MM-DD
}

func (in *UpdateProfileInput) empty() bool {
	return in.Name == nil && in.Phone == nil && in.Address == nil && in.Gender == nil && in.DOB == nil
}

// GetProfile returns the user with their companies
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithCompanies(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies the submitted fields
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error) {
	if input.empty() {
		return nil, apperror.NewBadRequestError("Nothing to update")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewMissingFieldError("name")
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = optional(*input.Phone)
	}
	if input.Address != nil {
		user.Address = optional(*input.Address)
	}
	if input.Gender != nil {
		user.Gender = optional(*input.Gender)
	}
	if input.DOB != nil {
		raw := strings.TrimSpace(*input.DOB)
		if raw == "" {
			user.DOB = nil
		} else {
			dob, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, apperror.NewBadRequestError("Invalid date format")
			}
			user.DOB = &dob
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// optional trims v and maps blank input to nil
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
