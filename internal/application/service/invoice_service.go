package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/domain/repository"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/kvstore"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/utils"
	"go.uber.org/zap"
)

// Submitter identifies who sent a form. UserID is nil for anonymous clients,
// whose invoices are rendered but never stored.
type Submitter struct {
	SessionID string
	UserID    *uuid.UUID
}

// Preview is a normalized invoice and its rendered page
type Preview struct {
	Invoice *invoice.Normalized
	HTML    []byte
}

// Document is a rendered PDF ready to be sent to the client
type Document struct {
	Filename  string
	PDF       []byte
	InvoiceID *uuid.UUID
	Duplicate bool
}

// Delivery reports the outcome of an emailed invoice. InvoiceID is set even
// when mailing failed after the invoice was stored.
type Delivery struct {
	To        string
	InvoiceID *uuid.UUID
	Duplicate bool
}

// InvoiceService runs submissions through normalization, duplicate
// suppression, storage and delivery
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	companies   *CompanyService
	gate        *DuplicateGate
	delivery    *DeliveryService
	sessions    kvstore.Store
	previewTTL  time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	companies *CompanyService,
	gate *DuplicateGate,
	delivery *DeliveryService,
	sessions kvstore.Store,
	previewTTL time.Duration,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		companies:   companies,
		gate:        gate,
		delivery:    delivery,
		sessions:    sessions,
		previewTTL:  previewTTL,
		logger:      logger,
		now:         time.Now,
	}
}

func previewKey(sessionID string) string {
	return "preview:" + sessionID
}

func (s *InvoiceService) normalize(ctx context.Context, sub Submitter, form invoice.Form) (*invoice.Normalized, error) {
	return invoice.Normalize(ctx, form, s.companies.ResolverFor(sub.UserID))
}

// Preview normalizes the form without storing it and keeps the result as the
// session's last invoice data
func (s *InvoiceService) Preview(ctx context.Context, sub Submitter, form invoice.Form) (*Preview, error) {
	n, err := s.normalize(ctx, sub, form)
	if err != nil {
		return nil, err
	}
	page, err := s.delivery.RenderHTML(n)
	if err != nil {
		return nil, err
	}
	if err := s.savePreview(ctx, sub.SessionID, n); err != nil {
		return nil, apperror.NewTransientError("Could not save preview", err)
	}
	return &Preview{Invoice: n, HTML: page}, nil
}

// LastPreview returns the last invoice data the session submitted
func (s *InvoiceService) LastPreview(ctx context.Context, sessionID string) (*invoice.Normalized, error) {
	if sessionID == "" {
		return nil, apperror.NewNotFoundError("Invoice preview")
	}
	raw, ok, err := s.sessions.Get(ctx, previewKey(sessionID))
	if err != nil {
		return nil, apperror.NewTransientError("Could not load preview", err)
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Invoice preview")
	}
	var n invoice.Normalized
	if err := json.Unmarshal(raw, &n); err != nil {
		s.logger.Warn("discarding unreadable preview", zap.Error(err))
		return nil, apperror.NewNotFoundError("Invoice preview")
	}
	return &n, nil
}

// PreviewHTML renders the session's last invoice data
func (s *InvoiceService) PreviewHTML(ctx context.Context, sessionID string) ([]byte, error) {
	n, err := s.LastPreview(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.delivery.RenderHTML(n)
}

func (s *InvoiceService) savePreview(ctx context.Context, sessionID string, n *invoice.Normalized) error {
	if sessionID == "" {
		return nil
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.sessions.Set(ctx, previewKey(sessionID), raw, s.previewTTL)
}

func (s *InvoiceService) rememberPreview(ctx context.Context, sessionID string, n *invoice.Normalized) {
	if err := s.savePreview(ctx, sessionID, n); err != nil {
		s.logger.Warn("failed to save session preview", zap.Error(err))
	}
}

// admit validates n and stores it through the duplicate gate. Anonymous
// submissions are validated but not stored.
func (s *InvoiceService) admit(ctx context.Context, sub Submitter, n *invoice.Normalized) (*GateResult, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if sub.UserID == nil {
		return &GateResult{Skipped: true}, nil
	}
	return s.gate.Admit(ctx, sub.SessionID, *sub.UserID, n, s.persist(*sub.UserID, n))
}

func (s *InvoiceService) persist(owner uuid.UUID, n *invoice.Normalized) PersistFunc {
	return func(ctx context.Context) (uuid.UUID, error) {
		if err := n.Validate(); err != nil {
			return uuid.Nil, err
		}

		switch n.Shape {
		case enum.InvoiceShapeAdvanced:
			rec := invoice.NewAdvancedInvoiceRecord(owner, n.Advanced)
			if err := s.invoiceRepo.CreateAdvanced(ctx, rec); err != nil {
				return uuid.Nil, apperror.NewTransientError("Could not save invoice", err)
			}
			s.logger.Info("advanced invoice stored",
				zap.String("invoice_id", rec.ID.String()),
				zap.String("user_id", owner.String()),
				zap.Int("items", len(rec.Items)),
			)
			return rec.ID, nil
		default:
			rec, err := invoice.NewInvoiceRecord(owner, n.Simple)
			if err != nil {
				return uuid.Nil, err
			}
			if err := s.invoiceRepo.CreateSimple(ctx, rec); err != nil {
				return uuid.Nil, apperror.NewTransientError("Could not save invoice", err)
			}
			s.logger.Info("invoice stored",
				zap.String("invoice_id", rec.ID.String()),
				zap.String("user_id", owner.String()),
			)
			return rec.ID, nil
		}
	}
}

func storedID(res *GateResult) *uuid.UUID {
	if res == nil || res.Skipped {
		return nil
	}
	id := res.InvoiceID
	return &id
}

// Download validates and stores the invoice, then renders its PDF
func (s *InvoiceService) Download(ctx context.Context, sub Submitter, form invoice.Form) (*Document, error) {
	n, err := s.normalize(ctx, sub, form)
	if err != nil {
		return nil, err
	}
	res, err := s.admit(ctx, sub, n)
	if err != nil {
		return nil, err
	}
	s.rememberPreview(ctx, sub.SessionID, n)

	doc, err := s.delivery.RenderPDF(ctx, n)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:  utils.InvoiceFilename(n.SenderName(), s.now()),
		PDF:       doc,
		InvoiceID: storedID(res),
		Duplicate: res.Duplicate,
	}, nil
}

// Email validates and stores the invoice, then mails its PDF to the client.
// A rendering or mail failure is returned together with the delivery so the
// caller still learns the stored id.
func (s *InvoiceService) Email(ctx context.Context, sub Submitter, form invoice.Form) (*Delivery, error) {
	n, err := s.normalize(ctx, sub, form)
	if err != nil {
		return nil, err
	}
	to, err := n.ValidateClientEmail()
	if err != nil {
		return nil, err
	}
	res, err := s.admit(ctx, sub, n)
	if err != nil {
		return nil, err
	}
	s.rememberPreview(ctx, sub.SessionID, n)

	delivery := &Delivery{To: to, InvoiceID: storedID(res), Duplicate: res.Duplicate}
	doc, err := s.delivery.RenderPDF(ctx, n)
	if err != nil {
		return delivery, err
	}
	if err := s.delivery.SendInvoice(to, doc); err != nil {
		return delivery, err
	}
	return delivery, nil
}

// GetSimple returns a simple invoice owned by owner
func (s *InvoiceService) GetSimple(ctx context.Context, owner, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetSimpleByID(ctx, id)
	if err != nil {
		return nil, apperror.NewTransientError("Could not load invoice", err)
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != owner {
		return nil, apperror.NewForbiddenError("You do not have access to this invoice")
	}
	return inv, nil
}

// GetAdvanced returns an advanced invoice owned by owner with its items
func (s *InvoiceService) GetAdvanced(ctx context.Context, owner, id uuid.UUID) (*entity.AdvancedInvoice, error) {
	inv, err := s.invoiceRepo.GetAdvancedByID(ctx, id)
	if err != nil {
		return nil, apperror.NewTransientError("Could not load invoice", err)
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if inv.UserID != owner {
		return nil, apperror.NewForbiddenError("You do not have access to this invoice")
	}
	return inv, nil
}

// Get returns the stored invoice of either shape
func (s *InvoiceService) Get(ctx context.Context, owner uuid.UUID, shape enum.InvoiceShape, id uuid.UUID) (any, error) {
	if shape == enum.InvoiceShapeAdvanced {
		return s.GetAdvanced(ctx, owner, id)
	}
	return s.GetSimple(ctx, owner, id)
}

// MarkPaid moves an owned invoice to Paid. Marking a paid invoice again
// succeeds without change.
func (s *InvoiceService) MarkPaid(ctx context.Context, owner uuid.UUID, shape enum.InvoiceShape, id uuid.UUID) error {
	var err error
	if shape == enum.InvoiceShapeAdvanced {
		if _, err = s.GetAdvanced(ctx, owner, id); err != nil {
			return err
		}
		err = s.invoiceRepo.MarkAdvancedPaid(ctx, id)
	} else {
		if _, err = s.GetSimple(ctx, owner, id); err != nil {
			return err
		}
		err = s.invoiceRepo.MarkSimplePaid(ctx, id)
	}
	if err != nil {
		return apperror.NewTransientError("Could not update invoice", err)
	}

	s.logger.Info("invoice marked paid",
		zap.String("invoice_id", id.String()),
		zap.String("shape", shape.String()),
	)
	return nil
}

// RecordPDF re-renders a stored invoice. The invoice is never stored again.
func (s *InvoiceService) RecordPDF(ctx context.Context, owner uuid.UUID, shape enum.InvoiceShape, id uuid.UUID) (*Document, error) {
	var n *invoice.Normalized
	if shape == enum.InvoiceShapeAdvanced {
		inv, err := s.GetAdvanced(ctx, owner, id)
		if err != nil {
			return nil, err
		}
		n = invoice.FromAdvancedInvoiceRecord(inv)
	} else {
		inv, err := s.GetSimple(ctx, owner, id)
		if err != nil {
			return nil, err
		}
		n = invoice.FromInvoiceRecord(inv)
	}

	doc, err := s.delivery.RenderPDF(ctx, n)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:  utils.InvoiceFilename(n.SenderName(), s.now()),
		PDF:       doc,
		InvoiceID: &id,
	}, nil
}
