package invoice

import (
	"strings"
	"time"
)

const (
	isoDateLayout     = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

// FormatDisplayDate converts YYYY-MM-DD to DD/MM/YYYY. Anything that does not
// parse is returned unchanged so a bad date never blocks an invoice.
func FormatDisplayDate(raw string) string {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(isoDateLayout, raw)
	if err != nil {
		return raw
	}
	return t.Format(displayDateLayout)
}
