// Package render turns normalized invoices into HTML pages and PDF documents.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"

	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages renders invoice HTML from embedded templates
type Pages struct {
	simple   *template.Template
	advanced *template.Template
}

type advancedPage struct {
	Invoice *invoice.Advanced
	LogoURL template.URL
}

// NewPages parses the embedded invoice templates
func NewPages() (*Pages, error) {
	funcs := template.FuncMap{
		"money":   func(d decimal.Decimal) string { return d.StringFixed(invoice.MoneyPlaces) },
		"percent": func(d decimal.Decimal) string { return d.Shift(2).String() + "%" },
		"gstRate": invoice.GSTRate,
	}

	simple, err := template.New("simple.html").Funcs(funcs).ParseFS(templateFS, "templates/simple.html")
	if err != nil {
		return nil, fmt.Errorf("parse simple template: %w", err)
	}
	advanced, err := template.New("advanced.html").Funcs(funcs).ParseFS(templateFS, "templates/advanced.html")
	if err != nil {
		return nil, fmt.Errorf("parse advanced template: %w", err)
	}

	return &Pages{simple: simple, advanced: advanced}, nil
}

// Invoice renders the page for either invoice shape
func (p *Pages) Invoice(n *invoice.Normalized) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch n.Shape {
	case enum.InvoiceShapeAdvanced:
		err = p.advanced.Execute(&buf, advancedPage{
			Invoice: n.Advanced,
			LogoURL: logoURL(n.Advanced.Sender.LogoPath),
		})
	default:
		err = p.simple.Execute(&buf, n.Simple)
	}
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// logoURL points the PDF engine at the stored logo on local disk
func logoURL(path string) template.URL {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return template.URL(u.String())
}
