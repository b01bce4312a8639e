package request

import (
	"context"
	"strings"
	"testing"

	"github.com/sangkips/invoiceau-api/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInvoiceJSON_FlattensItems(t *testing.T) {
	body := `{
		"your_name": "Jane",
		"include_gst": true,
		"items": [
			{"description": "Design", "quantity": 2, "rate": "12.50"},
			{"description": "Hosting", "quantity": 1, "rate": 30}
		],
		"sender": {"mode": "company"},
		"notes": null
	}`

	form, err := DecodeInvoiceJSON(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "Jane", form["your_name"])
	assert.Equal(t, "true", form["include_gst"])
	assert.Equal(t, "Design", form["items[0][description]"])
	assert.Equal(t, "2", form["items[0][quantity]"])
	assert.Equal(t, "12.50", form["items[0][rate]"])
	assert.Equal(t, "30", form["items[1][rate]"])
	assert.Equal(t, "company", form["sender[mode]"])
	_, ok := form["notes"]
	assert.False(t, ok, "null is dropped")
}

func TestDecodeInvoiceJSON_FalseLeavesGSTOff(t *testing.T) {
	ctx := context.Background()

	form, err := DecodeInvoiceJSON(strings.NewReader(`{
		"your_name": "Jane", "client_name": "Acme", "description": "Consulting",
		"quantity": 2, "rate": 150, "include_gst": false
	}`))
	require.NoError(t, err)
	_, ok := form["include_gst"]
	assert.False(t, ok)

	n, err := invoice.Normalize(ctx, form, nil)
	require.NoError(t, err)
	require.NotNil(t, n.Simple)
	assert.False(t, n.Simple.IncludeGST)
	assert.True(t, decimal.NewFromInt(300).Equal(n.Simple.Total), n.Simple.Total.String())

	form, err = DecodeInvoiceJSON(strings.NewReader(`{
		"client_name": "Acme", "include_gst": null,
		"items": [{"description": "A", "quantity": 2, "rate": 10}]
	}`))
	require.NoError(t, err)

	n, err = invoice.Normalize(ctx, form, nil)
	require.NoError(t, err)
	require.NotNil(t, n.Advanced)
	assert.False(t, n.Advanced.IncludeGST)
	assert.True(t, n.Advanced.GSTAmount.IsZero())
	assert.True(t, decimal.NewFromInt(20).Equal(n.Advanced.Total), n.Advanced.Total.String())
}

func TestDecodeInvoiceJSON_RejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[1,2]`, `{"a":`, `"text"`, ``} {
		_, err := DecodeInvoiceJSON(strings.NewReader(body))
		assert.Error(t, err, body)
	}
}
