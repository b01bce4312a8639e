package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStatusJSON(t *testing.T) {
	data, err := json.Marshal(InvoiceStatusPaid)
	require.NoError(t, err)
	assert.JSONEq(t, `"Paid"`, string(data))

	var s InvoiceStatus
	require.NoError(t, json.Unmarshal([]byte(`"Unpaid"`), &s))
	assert.Equal(t, InvoiceStatusUnpaid, s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, InvoiceStatusPaid, s)

	assert.Error(t, json.Unmarshal([]byte(`"Refunded"`), &s))
}

func TestInvoiceStatusScan(t *testing.T) {
	var s InvoiceStatus
	require.NoError(t, s.Scan(int64(1)))
	assert.Equal(t, InvoiceStatusPaid, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, InvoiceStatusUnpaid, s)
}

func TestParseInvoiceShape(t *testing.T) {
	shape, err := ParseInvoiceShape("advanced")
	require.NoError(t, err)
	assert.Equal(t, InvoiceShapeAdvanced, shape)

	_, err = ParseInvoiceShape("quote")
	assert.Error(t, err)
}
