package enum

import "fmt"

// InvoiceShape tags which of the two invoice record structures a submission produces
type InvoiceShape string

const (
	InvoiceShapeSimple   InvoiceShape = "simple"
	InvoiceShapeAdvanced InvoiceShape = "advanced"
)

// ParseInvoiceShape parses a shape from a path segment
func ParseInvoiceShape(s string) (InvoiceShape, error) {
	switch InvoiceShape(s) {
	case InvoiceShapeSimple, InvoiceShapeAdvanced:
		return InvoiceShape(s), nil
	}
	return "", fmt.Errorf("unknown invoice shape %q", s)
}

func (s InvoiceShape) String() string {
	return string(s)
}
