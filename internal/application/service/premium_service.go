package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/payment"
	"go.uber.org/zap"
)

// PaymentGateway creates and verifies premium payments
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error)
	GetCheckout(ctx context.Context, id string) (*payment.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error)
}

// PremiumService sells and grants the premium tier
type PremiumService struct {
	userRepo repository.UserRepository
	payments PaymentGateway
	logger   *zap.Logger
}

// NewPremiumService creates a new premium service
func NewPremiumService(userRepo repository.UserRepository, payments PaymentGateway, logger *zap.Logger) *PremiumService {
	return &PremiumService{userRepo: userRepo, payments: payments, logger: logger}
}

// CheckoutOutput is returned to the client to redirect to the payment page
type CheckoutOutput struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Checkout starts a premium payment for the user
func (s *PremiumService) Checkout(ctx context.Context, userID uuid.UUID) (*CheckoutOutput, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	if user.IsPremium {
		return nil, apperror.NewConflictError("Account is already premium")
	}

	sess, err := s.payments.CreateCheckout(ctx, payment.CheckoutRequest{
		UserID:    user.ID.String(),
		UserEmail: user.Email,
	})
	if err != nil {
		s.logger.Error("checkout creation failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperror.NewTransientError("Could not start checkout", err)
	}
	return &CheckoutOutput{SessionID: sess.ID, URL: sess.URL}, nil
}

// ConfirmCheckout grants premium once the checkout session is paid
func (s *PremiumService) ConfirmCheckout(ctx context.Context, userID uuid.UUID, sessionID string) error {
	if sessionID == "" {
		return apperror.NewBadRequestError("session_id is required")
	}

	sess, err := s.payments.GetCheckout(ctx, sessionID)
	if err != nil {
		return apperror.NewTransientError("Could not verify payment", err)
	}
	if !sess.Paid {
		return apperror.ErrPaymentPending
	}
	if sess.UserID != userID.String() {
		return apperror.NewForbiddenError("Checkout belongs to another account")
	}
	return s.grant(ctx, userID)
}

// HandleWebhook applies a signed Stripe event
func (s *PremiumService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.payments.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrMissingSignature) {
			return apperror.NewBadRequestError(err.Error())
		}
		s.logger.Warn("rejected webhook", zap.Error(err))
		return apperror.NewBadRequestError("Invalid signature")
	}

	switch event.Type {
	case payment.EventCheckoutCompleted:
		if event.Session == nil || event.Session.UserID == "" {
			s.logger.Warn("checkout completed without user metadata", zap.String("event_id", event.ID))
			return nil
		}
		userID, err := uuid.Parse(event.Session.UserID)
		if err != nil {
			s.logger.Warn("checkout completed with bad user id", zap.String("event_id", event.ID))
			return nil
		}
		if err := s.grant(ctx, userID); err != nil {
			if apperror.IsKind(err, apperror.KindNotFound) {
				s.logger.Warn("checkout completed for unknown user", zap.String("user_id", userID.String()))
				return nil
			}
			return err
		}
		return nil
	case payment.EventPaymentIntentFailed:
		s.logger.Warn("premium payment failed", zap.String("event_id", event.ID))
	default:
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
	}
	return nil
}

func (s *PremiumService) grant(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}
	if user.IsPremium {
		return nil
	}
	if err := s.userRepo.SetPremium(ctx, userID, true); err != nil {
		return err
	}
	s.logger.Info("premium granted", zap.String("user_id", userID.String()))
	return nil
}
