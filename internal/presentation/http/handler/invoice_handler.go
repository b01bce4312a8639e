package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sangkips/invoiceau-api/internal/application/service"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
)

const maxFormMemory = 8 << 20

// InvoiceHandler handles invoice submission and stored invoice requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// readForm accepts url-encoded, multipart and JSON bodies
func readForm(c *gin.Context) (invoice.Form, error) {
	switch c.ContentType() {
	case binding.MIMEJSON:
		form, err := request.DecodeInvoiceJSON(c.Request.Body)
		if err != nil {
			return nil, apperror.NewValidationError(apperror.KindInvalidJSON, "Invalid JSON body")
		}
		return form, nil
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, apperror.NewBadRequestError("Invalid form body")
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, apperror.NewBadRequestError("Invalid form body")
		}
	}
	return invoice.FormFromValues(c.Request.PostForm), nil
}

// Preview handles invoice previews
// @Summary Preview invoice
// @Description Normalize a submission and render it without storing it
// @Tags invoices
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /invoices/preview [post]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	form, err := readForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	preview, err := h.invoiceService.Preview(c.Request.Context(), submitter(c), form)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice preview", gin.H{
		"invoice": preview.Invoice,
		"html":    string(preview.HTML),
	})
}

// LastPreview returns the last invoice data of the session
// @Router /invoices/preview [get]
func (h *InvoiceHandler) LastPreview(c *gin.Context) {
	n, err := h.invoiceService.LastPreview(c.Request.Context(), GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice preview retrieved", n)
}

// PreviewHTML renders the last invoice data of the session as a page
// @Produce html
// @Router /invoices/preview/html [get]
func (h *InvoiceHandler) PreviewHTML(c *gin.Context) {
	page, err := h.invoiceService.PreviewHTML(c.Request.Context(), GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Download handles PDF downloads of submitted invoices
// @Summary Download invoice
// @Description Validate, store and render a submission as a PDF attachment
// @Tags invoices
// @Accept x-www-form-urlencoded,json
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 422 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /invoices/download [post]
func (h *InvoiceHandler) Download(c *gin.Context) {
	form, err := readForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	doc, err := h.invoiceService.Download(c.Request.Context(), submitter(c), form)
	if err != nil {
		response.Error(c, err)
		return
	}

	writeDocument(c, doc)
}

// Email handles mailing submitted invoices to the client
// @Summary Email invoice
// @Tags invoices
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /invoices/email [post]
func (h *InvoiceHandler) Email(c *gin.Context) {
	form, err := readForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	delivery, err := h.invoiceService.Email(c.Request.Context(), submitter(c), form)
	if err != nil {
		if delivery != nil && delivery.InvoiceID != nil {
			response.ErrorWithData(c, err, gin.H{"invoice_id": delivery.InvoiceID})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Invoice sent to %s", delivery.To), gin.H{
		"to":         delivery.To,
		"invoice_id": delivery.InvoiceID,
		"duplicate":  delivery.Duplicate,
	})
}

// Get returns a stored invoice owned by the caller
// @Router /invoices/{shape}/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	shape, id, err := shapeAndID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.invoiceService.Get(c.Request.Context(), userID, shape, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved", record)
}

// MarkPaid marks a stored invoice as paid
// @Router /invoices/{shape}/{id}/paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	shape, id, err := shapeAndID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.invoiceService.MarkPaid(c.Request.Context(), userID, shape, id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice marked as paid", gin.H{"id": id, "shape": shape, "status": "paid"})
}

// RecordPDF re-renders a stored invoice
// @Produce application/pdf
// @Router /invoices/{shape}/{id}/pdf [get]
func (h *InvoiceHandler) RecordPDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	shape, id, err := shapeAndID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	doc, err := h.invoiceService.RecordPDF(c.Request.Context(), userID, shape, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}

func writeDocument(c *gin.Context, doc *service.Document) {
	if doc.InvoiceID != nil {
		c.Header("X-Invoice-ID", doc.InvoiceID.String())
	}
	if doc.Duplicate {
		c.Header("X-Invoice-Duplicate", strconv.FormatBool(doc.Duplicate))
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.PDF)
}
