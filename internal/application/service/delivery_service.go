package service

import (
	"context"

	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/render"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/email"
	"github.com/sangkips/invoiceau-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	invoiceMailSubject = "Your Invoice"
	invoiceMailBody    = "Please find your invoice attached."
	invoiceAttachment  = "invoice.pdf"
)

// PageRenderer renders the HTML page of a normalized invoice
type PageRenderer interface {
	Invoice(n *invoice.Normalized) ([]byte, error)
}

// Mailer sends a message
type Mailer interface {
	Send(msg email.Message) error
}

// DeliveryService renders invoices and mails them
type DeliveryService struct {
	pages   PageRenderer
	pdf     render.PDFRenderer
	mailer  Mailer
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(pages PageRenderer, pdf render.PDFRenderer, mailer Mailer, m *metrics.Metrics, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{
		pages:   pages,
		pdf:     pdf,
		mailer:  mailer,
		metrics: m,
		logger:  logger,
	}
}

// RenderHTML renders the invoice page
func (s *DeliveryService) RenderHTML(n *invoice.Normalized) ([]byte, error) {
	page, err := s.pages.Invoice(n)
	if err != nil {
		s.metrics.DeliveryFailures.WithLabelValues("html").Inc()
		return nil, apperror.NewTransientError("Could not render invoice", err)
	}
	return page, nil
}

// RenderPDF renders the invoice page and converts it to PDF
func (s *DeliveryService) RenderPDF(ctx context.Context, n *invoice.Normalized) ([]byte, error) {
	page, err := s.RenderHTML(n)
	if err != nil {
		return nil, err
	}
	doc, err := s.pdf.RenderPDF(ctx, page)
	if err != nil {
		s.metrics.DeliveryFailures.WithLabelValues("pdf").Inc()
		s.logger.Error("pdf rendering failed", zap.String("shape", n.Shape.String()), zap.Error(err))
		return nil, apperror.NewTransientError("Could not generate the PDF, please try again", err)
	}
	return doc, nil
}

// SendInvoice mails the rendered PDF to the recipient
func (s *DeliveryService) SendInvoice(to string, pdf []byte) error {
	err := s.mailer.Send(email.Message{
		To:      to,
		Subject: invoiceMailSubject,
		Body:    invoiceMailBody,
		Attachments: []email.Attachment{{
			Filename: invoiceAttachment,
			Data:     pdf,
		}},
	})
	if err != nil {
		s.metrics.DeliveryFailures.WithLabelValues("email").Inc()
		s.logger.Error("invoice email failed", zap.String("to", to), zap.Error(err))
		return apperror.NewTransientError("Could not send the invoice email, please try again", err)
	}
	return nil
}
