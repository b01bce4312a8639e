package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// PDFRenderer converts an HTML page into a PDF document
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// WkhtmltopdfRenderer shells out to the wkhtmltopdf binary
type WkhtmltopdfRenderer struct {
	timeout time.Duration
}

// NewWkhtmltopdfRenderer configures the binary location. An empty path
// searches PATH and the WKHTMLTOPDF_PATH environment variable.
func NewWkhtmltopdfRenderer(binaryPath string, timeout time.Duration) *WkhtmltopdfRenderer {
	if binaryPath != "" {
		wkhtmltopdf.SetPath(binaryPath)
	}
	return &WkhtmltopdfRenderer{timeout: timeout}
}

func (r *WkhtmltopdfRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("wkhtmltopdf unavailable: %w", err)
	}

	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Dpi.Set(300)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
