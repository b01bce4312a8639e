package request

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
)

// DecodeInvoiceJSON reads a JSON object into the flat form used by HTML
// clients. Nested values are flattened with bracket keys, so
// {"items":[{"description":"x"}]} becomes items[0][description]=x.
// false and null are left out, the way an unticked checkbox is absent from a
// posted form.
func DecodeInvoiceJSON(r io.Reader) (invoice.Form, error) {
	var raw map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	form := make(invoice.Form, len(raw))
	for k, v := range raw {
		flatten(form, k, v)
	}
	return form, nil
}

func flatten(form invoice.Form, key string, v any) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			flatten(form, key+"["+k+"]", child)
		}
	case []any:
		for i, child := range val {
			flatten(form, key+"["+strconv.Itoa(i)+"]", child)
		}
	case string:
		form[key] = val
	case json.Number:
		form[key] = val.String()
	case bool:
		if val {
			form[key] = "true"
		}
	}
}
