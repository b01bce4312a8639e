package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/oauth"
	"github.com/sangkips/invoiceau-api/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GoogleAuthenticator is the OAuth client used for Google sign in
type GoogleAuthenticator interface {
	IsConfigured() bool
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*oauth.GoogleUserInfo, error)
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	google     GoogleAuthenticator
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	google GoogleAuthenticator,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		google:     google,
		logger:     logger,
	}
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

var errGoogleNotConfigured = apperror.NewAppError(http.StatusServiceUnavailable, "Google login is not configured")

// GoogleAuthURL returns the consent page URL carrying state
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if !s.google.IsConfigured() {
		return "", errGoogleNotConfigured
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleLogin exchanges the callback code, finds or creates the user by
// email and issues tokens
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if !s.google.IsConfigured() {
		return nil, errGoogleNotConfigured
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn("google code exchange failed", zap.Error(err))
		return nil, apperror.ErrUnauthorized
	}
	info, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		if errors.Is(err, oauth.ErrFailedToGetUser) {
			s.logger.Warn("google user info failed", zap.Error(err))
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	user, err := s.findOrCreateGoogleUser(ctx, info)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) findOrCreateGoogleUser(ctx context.Context, info *oauth.GoogleUserInfo) (*entity.User, error) {
	email := utils.SanitizeEmail(info.Email)
	if !utils.IsValidEmail(email) {
		return nil, apperror.NewValidationError(apperror.KindInvalidEmail, "Google account has no usable email address")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if user.ProviderID == nil && info.ID != "" {
			user.ProviderID = &info.ID
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	user = &entity.User{
		Email:    email,
		Name:     name,
		Provider: "google",
	}
	if info.ID != "" {
		user.ProviderID = &info.ID
	}
	if info.Picture != "" {
		user.Photo = &info.Picture
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("provider", "google"))
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken refreshes the access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return s.issueTokens(user)
}

// GetCurrentUser returns the current user with their companies
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithCompanies(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}
