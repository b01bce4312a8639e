// Package invoice holds the invoice core: money arithmetic, form
// normalization for both invoice shapes, content fingerprints and the
// merged history projection.
package invoice

import (
	"strconv"
	"strings"

	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places displayed and stored for amounts.
const MoneyPlaces = 2

var (
	gstRate       = decimal.New(10, -2) // 0.10
	gstMultiplier = decimal.New(110, -2)
)

// GSTRate returns the fixed GST rate.
func GSTRate() decimal.Decimal {
	return gstRate
}

// LineTotal returns quantity x rate, grossed up by GST when included,
// rounded to MoneyPlaces.
func LineTotal(quantity, rate decimal.Decimal, includeGST bool) decimal.Decimal {
	total := quantity.Mul(rate)
	if includeGST {
		total = total.Mul(gstMultiplier)
	}
	return total.Round(MoneyPlaces)
}

// Line is one quantity/rate pair fed into Aggregate.
type Line struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// Totals holds the rounded aggregate amounts of a multi-line invoice.
type Totals struct {
	Subtotal decimal.Decimal
	GST      decimal.Decimal
	Total    decimal.Decimal
}

// Aggregate sums lines in full precision and rounds each figure once at the end.
func Aggregate(lines []Line, includeGST bool) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Quantity.Mul(l.Rate))
	}

	gst := decimal.Zero
	if includeGST {
		gst = subtotal.Mul(gstRate)
	}

	return Totals{
		Subtotal: subtotal.Round(MoneyPlaces),
		GST:      gst.Round(MoneyPlaces),
		Total:    subtotal.Add(gst).Round(MoneyPlaces),
	}
}

// CalculateTotal parses raw quantity and rate strings and returns the line total.
func CalculateTotal(quantity, rate string, includeGST bool) (decimal.Decimal, error) {
	q, err := ParseQuantity(quantity)
	if err != nil {
		return decimal.Zero, err
	}
	r, err := ParseAmount(rate)
	if err != nil {
		return decimal.Zero, err
	}
	return LineTotal(decimal.NewFromInt(q), r, includeGST), nil
}

// ParseQuantity parses a whole, non-negative quantity.
func ParseQuantity(s string) (int64, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || q < 0 {
		return 0, invalidQuantityOrRate("quantity", s)
	}
	return q, nil
}

// ParseAmount parses a non-negative decimal such as a rate or a fractional quantity.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, invalidQuantityOrRate("rate", s)
	}
	return d, nil
}

func invalidQuantityOrRate(field, value string) error {
	return apperror.NewValidationError(
		apperror.KindInvalidQuantityOrRate,
		"Invalid quantity or rate",
		apperror.FieldError{Field: field, Message: "must be a non-negative number, got " + strconv.Quote(value)},
	)
}
