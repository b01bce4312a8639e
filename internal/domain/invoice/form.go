package invoice

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/sangkips/invoiceau-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// Form is a raw, untyped form submission.
type Form map[string]string

// FormFromValues keeps the first value of every key.
func FormFromValues(values url.Values) Form {
	f := make(Form, len(values))
	for k, v := range values {
		if len(v) > 0 {
			f[k] = v[0]
		}
	}
	return f
}

func (f Form) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Form) text(key string) string {
	return strings.TrimSpace(f[key])
}

func (f Form) flag(key string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

func itemKey(i int, field string) string {
	return fmt.Sprintf("items[%d][%s]", i, field)
}

// IsAdvanced reports whether the submission carries indexed line items.
func (f Form) IsAdvanced() bool {
	return f.has(itemKey(0, "description"))
}

// Review reports whether the submission re-renders an already saved invoice.
func (f Form) Review() bool {
	return f.flag("review")
}

// Simple is a normalized single-line invoice.
type Simple struct {
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	YourName      string          `json:"your_name"`
	ABN           string          `json:"abn,omitempty"`
	ClientName    string          `json:"client_name"`
	ClientEmail   string          `json:"client_email,omitempty"`
	Description   string          `json:"description"`
	Quantity      int64           `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	IncludeGST    bool            `json:"include_gst"`
	Date          string          `json:"date,omitempty"`
	FormattedDate string          `json:"formatted_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Review        bool            `json:"-"`
}

// NormalizeSimple parses the single-line form. Required fields are not
// enforced here so incomplete forms can still be previewed; see Validate.
func NormalizeSimple(f Form) (*Simple, error) {
	s := &Simple{
		InvoiceNumber: f.text("invoice_number"),
		YourName:      f.text("your_name"),
		ABN:           f.text("abn"),
		ClientName:    f.text("client_name"),
		ClientEmail:   f.text("client_email"),
		Description:   f.text("description"),
		IncludeGST:    f.has("include_gst"),
		Date:          f.text("date"),
		Notes:         f.text("notes"),
		Review:        f.Review(),
	}
	if s.Date != "" {
		s.FormattedDate = FormatDisplayDate(s.Date)
	}

	qty, err := ParseQuantity(f["quantity"])
	if err != nil {
		return nil, err
	}
	rate, err := ParseAmount(f["rate"])
	if err != nil {
		return nil, err
	}

	s.Quantity = qty
	s.Rate = rate
	s.Total = LineTotal(decimal.NewFromInt(qty), rate, s.IncludeGST)
	return s, nil
}

// Validate enforces the fields needed before a simple invoice may be stored.
func (s *Simple) Validate() error {
	var missing []string
	if s.YourName == "" {
		missing = append(missing, "your_name")
	}
	if s.ClientName == "" {
		missing = append(missing, "client_name")
	}
	if s.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return apperror.NewMissingFieldError(missing...)
	}
	return nil
}

// Item is one normalized advanced invoice line. Total is quantity x rate
// rounded for display only.
type Item struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

// Advanced is a normalized multi-item invoice.
type Advanced struct {
	InvoiceNumber string               `json:"invoice_number"`
	Date          string               `json:"date,omitempty"`
	FormattedDate string               `json:"formatted_date,omitempty"`
	ClientName    string               `json:"client_name"`
	ClientEmail   string               `json:"client_email,omitempty"`
	IncludeGST    bool                 `json:"include_gst"`
	SenderMode    enum.SenderMode      `json:"sender_mode"`
	CompanyID     *uuid.UUID           `json:"company_id,omitempty"`
	Sender        entity.SenderDetails `json:"sender"`
	Items         []Item               `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	GSTAmount     decimal.Decimal      `json:"gst_amount"`
	Total         decimal.Decimal      `json:"total"`
	Review        bool                 `json:"-"`
}

// CompanyResolver looks up a sender company. It returns nil, nil when the
// company does not exist or is not available to the submitter.
type CompanyResolver interface {
	ResolveCompany(ctx context.Context, id uuid.UUID) (*entity.Company, error)
}

// NormalizeAdvanced parses the multi-item form.
//
// Items are read from index 0 upward while items[i][description] exists, so a
// missing index ends enumeration and later items are dropped. Slots with a
// blank description or a non-positive quantity or rate are skipped.
func NormalizeAdvanced(ctx context.Context, f Form, companies CompanyResolver) (*Advanced, error) {
	a := &Advanced{
		InvoiceNumber: f.text("invoice_number"),
		Date:          f.text("date"),
		ClientName:    f.text("client_name"),
		ClientEmail:   f.text("client_email"),
		IncludeGST:    f.has("include_gst"),
		Review:        f.Review(),
	}
	if a.Date != "" {
		a.FormattedDate = FormatDisplayDate(a.Date)
	}

	lines := make([]Line, 0)
	for i := 0; f.has(itemKey(i, "description")); i++ {
		item, ok, err := parseItem(f, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		a.Items = append(a.Items, item)
		lines = append(lines, Line{Quantity: item.Quantity, Rate: item.Rate})
	}
	if len(a.Items) == 0 {
		return nil, apperror.NewValidationError(apperror.KindNoItemsProvided, "No valid items provided")
	}

	totals := Aggregate(lines, a.IncludeGST)
	a.Subtotal = totals.Subtotal
	a.GSTAmount = totals.GST
	a.Total = totals.Total

	if err := a.resolveSender(ctx, f, companies); err != nil {
		return nil, err
	}
	return a, nil
}

func parseItem(f Form, i int) (Item, bool, error) {
	desc := f.text(itemKey(i, "description"))
	if desc == "" {
		return Item{}, false, nil
	}

	qty := decimal.NewFromInt(1)
	if raw := f.text(itemKey(i, "quantity")); raw != "" {
		q, err := ParseAmount(raw)
		if err != nil {
			return Item{}, false, err
		}
		qty = q
	}

	rate := decimal.Zero
	if raw := f.text(itemKey(i, "rate")); raw != "" {
		r, err := ParseAmount(raw)
		if err != nil {
			return Item{}, false, err
		}
		rate = r
	}

	if !qty.IsPositive() || !rate.IsPositive() {
		return Item{}, false, nil
	}

	return Item{
		Description: desc,
		Quantity:    qty,
		Rate:        rate,
		Total:       LineTotal(qty, rate, false),
	}, true, nil
}

func (a *Advanced) resolveSender(ctx context.Context, f Form, companies CompanyResolver) error {
	if !f.flag("use_company") && strings.ToLower(f.text("sender_mode")) != "company" {
		a.SenderMode = enum.SenderModePersonal
		a.Sender = entity.SenderDetails{Name: f.text("your_name"), ABN: f.text("abn")}
		return nil
	}

	a.SenderMode = enum.SenderModeCompany
	raw := f.text("company_id")
	if raw == "" {
		return apperror.NewValidationError(apperror.KindCompanyRequired, "Please select a company",
			apperror.FieldError{Field: "company_id", Message: "is required when sending as a company"})
	}

	notFound := apperror.NewValidationError(apperror.KindCompanyNotFound, "Selected company not found",
		apperror.FieldError{Field: "company_id", Message: "does not match any of your companies"})

	id, err := uuid.Parse(raw)
	if err != nil || companies == nil {
		return notFound
	}
	company, err := companies.ResolveCompany(ctx, id)
	if err != nil {
		return apperror.NewTransientError("Could not load company", err)
	}
	if company == nil {
		return notFound
	}

	a.CompanyID = &company.ID
	a.Sender = entity.SenderDetails{
		Name:           company.CompanyName,
		ABN:            company.ABN,
		Address:        company.Address,
		Phone:          company.Phone,
		Email:          company.Email,
		PaymentDetails: company.PaymentDetails,
		LogoPath:       company.LogoPath,
	}
	return nil
}

// Validate enforces the fields needed before an advanced invoice may be stored.
func (a *Advanced) Validate() error {
	if a.ClientName == "" {
		return apperror.NewMissingFieldError("client_name")
	}
	if len(a.Items) == 0 {
		return apperror.NewValidationError(apperror.KindNoItemsProvided, "No valid items provided")
	}
	return nil
}

// Normalized is the tagged union of both invoice shapes. Exactly one of
// Simple and Advanced is set, matching Shape.
type Normalized struct {
	Shape    enum.InvoiceShape `json:"shape"`
	Simple   *Simple           `json:"simple,omitempty"`
	Advanced *Advanced         `json:"advanced,omitempty"`
}

// Normalize routes the form to the simple or advanced path.
func Normalize(ctx context.Context, f Form, companies CompanyResolver) (*Normalized, error) {
	if f.IsAdvanced() {
		a, err := NormalizeAdvanced(ctx, f, companies)
		if err != nil {
			return nil, err
		}
		return &Normalized{Shape: enum.InvoiceShapeAdvanced, Advanced: a}, nil
	}

	s, err := NormalizeSimple(f)
	if err != nil {
		return nil, err
	}
	return &Normalized{Shape: enum.InvoiceShapeSimple, Simple: s}, nil
}

// Validate runs the persistence checks of the active shape.
func (n *Normalized) Validate() error {
	if n.Shape == enum.InvoiceShapeAdvanced {
		return n.Advanced.Validate()
	}
	return n.Simple.Validate()
}

// Review reports whether persistence must be skipped entirely.
func (n *Normalized) Review() bool {
	if n.Shape == enum.InvoiceShapeAdvanced {
		return n.Advanced.Review
	}
	return n.Simple.Review
}

// Payload returns the active variant.
func (n *Normalized) Payload() any {
	if n.Shape == enum.InvoiceShapeAdvanced {
		return n.Advanced
	}
	return n.Simple
}

// SenderName is the name printed as the billing party.
func (n *Normalized) SenderName() string {
	if n.Shape == enum.InvoiceShapeAdvanced {
		return n.Advanced.Sender.Name
	}
	return n.Simple.YourName
}

// ClientEmail is the recipient address of the invoice.
func (n *Normalized) ClientEmail() string {
	if n.Shape == enum.InvoiceShapeAdvanced {
		return n.Advanced.ClientEmail
	}
	return n.Simple.ClientEmail
}

// ValidateClientEmail checks the recipient address before mailing.
func (n *Normalized) ValidateClientEmail() (string, error) {
	addr := strings.TrimSpace(n.ClientEmail())
	if !utils.IsValidEmail(addr) {
		return "", apperror.NewValidationError(apperror.KindInvalidEmail, "Invalid client email address",
			apperror.FieldError{Field: "client_email", Message: "must be a valid email address"})
	}
	return addr, nil
}
