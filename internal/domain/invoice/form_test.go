package invoice

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companyMap map[uuid.UUID]*entity.Company

func (m companyMap) ResolveCompany(_ context.Context, id uuid.UUID) (*entity.Company, error) {
	return m[id], nil
}

type failingResolver struct{}

func (failingResolver) ResolveCompany(context.Context, uuid.UUID) (*entity.Company, error) {
	return nil, errors.New("db down")
}

func simpleForm() Form {
	return Form{
		"your_name":    "Jane Smith",
		"abn":          "12 345 678 901",
		"client_name":  "Acme",
		"client_email": "ap@acme.test",
		"description":  "Consulting",
		"quantity":     "2",
		"rate":         "150",
		"include_gst":  "on",
		"date":         "2024-03-07",
	}
}

func TestNormalizeSimple(t *testing.T) {
	s, err := NormalizeSimple(simpleForm())
	require.NoError(t, err)

	assert.True(t, s.IncludeGST)
	assert.Equal(t, int64(2), s.Quantity)
	assert.Equal(t, "330", s.Total.String())
	assert.Equal(t, "07/03/2024", s.FormattedDate)
	assert.Equal(t, "2024-03-07", s.Date)
	assert.False(t, s.Review)
	assert.NoError(t, s.Validate())
}

func TestNormalizeSimpleWithoutGST(t *testing.T) {
	f := simpleForm()
	delete(f, "include_gst")

	s, err := NormalizeSimple(f)
	require.NoError(t, err)
	assert.False(t, s.IncludeGST)
	assert.Equal(t, "300", s.Total.String())
}

func TestNormalizeSimpleLenientDate(t *testing.T) {
	f := simpleForm()
	f["date"] = "next tuesday"

	s, err := NormalizeSimple(f)
	require.NoError(t, err)
	assert.Equal(t, "next tuesday", s.FormattedDate)
}

func TestNormalizeSimpleInvalidNumbers(t *testing.T) {
	for _, tc := range []struct{ field, value string }{
		{"quantity", "abc"},
		{"quantity", ""},
		{"rate", "1,000"},
	} {
		f := simpleForm()
		f[tc.field] = tc.value

		_, err := NormalizeSimple(f)
		assert.Truef(t, apperror.IsKind(err, apperror.KindInvalidQuantityOrRate), "%s=%q", tc.field, tc.value)
	}

	f := simpleForm()
	delete(f, "rate")
	_, err := NormalizeSimple(f)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidQuantityOrRate))
}

func TestSimpleValidateMissingFields(t *testing.T) {
	f := simpleForm()
	delete(f, "client_name")
	f["description"] = "   "

	s, err := NormalizeSimple(f)
	require.NoError(t, err, "normalization stays permissive for previews")

	err = s.Validate()
	require.True(t, apperror.IsKind(err, apperror.KindMissingField))
	fields := apperror.GetAppError(err).Errors
	require.Len(t, fields, 2)
	assert.Equal(t, "client_name", fields[0].Field)
	assert.Equal(t, "description", fields[1].Field)
}

func TestSimpleReviewFlag(t *testing.T) {
	f := simpleForm()
	f["review"] = "1"
	s, err := NormalizeSimple(f)
	require.NoError(t, err)
	assert.True(t, s.Review)

	f["review"] = "false"
	s, err = NormalizeSimple(f)
	require.NoError(t, err)
	assert.False(t, s.Review)
}

func advancedForm() Form {
	return Form{
		"invoice_number":        "INV-7",
		"date":                  "2024-05-01",
		"client_name":           "Acme",
		"client_email":          "ap@acme.test",
		"include_gst":           "on",
		"your_name":             "Jane Smith",
		"abn":                   "111",
		"items[0][description]": "A",
		"items[0][quantity]":    "2",
		"items[0][rate]":        "10",
		"items[1][description]": "B",
		"items[1][quantity]":    "1",
		"items[1][rate]":        "5",
	}
}

func TestNormalizeAdvancedTotals(t *testing.T) {
	a, err := NormalizeAdvanced(context.Background(), advancedForm(), nil)
	require.NoError(t, err)

	require.Len(t, a.Items, 2)
	assert.Equal(t, "25", a.Subtotal.String())
	assert.Equal(t, "2.5", a.GSTAmount.String())
	assert.Equal(t, "27.5", a.Total.String())
	assert.Equal(t, enum.SenderModePersonal, a.SenderMode)
	assert.Equal(t, "Jane Smith", a.Sender.Name)
	assert.Equal(t, "01/05/2024", a.FormattedDate)
}

func TestNormalizeAdvancedGapTruncates(t *testing.T) {
	f := advancedForm()
	delete(f, "items[1][description]")
	f["items[2][description]"] = "C"
	f["items[2][quantity]"] = "1"
	f["items[2][rate]"] = "100"

	a, err := NormalizeAdvanced(context.Background(), f, nil)
	require.NoError(t, err)
	require.Len(t, a.Items, 1)
	assert.Equal(t, "A", a.Items[0].Description)
	assert.Equal(t, "22", a.Total.String())
}

func TestNormalizeAdvancedSkipsInvalidSlots(t *testing.T) {
	f := advancedForm()
	f["items[1][rate]"] = "0"
	f["items[2][description]"] = "   "
	f["items[2][rate]"] = "50"
	f["items[3][description]"] = "D"
	f["items[3][rate]"] = "4"

	a, err := NormalizeAdvanced(context.Background(), f, nil)
	require.NoError(t, err)
	require.Len(t, a.Items, 2)
	assert.Equal(t, "D", a.Items[1].Description)
	assert.Equal(t, "1", a.Items[1].Quantity.String(), "blank quantity defaults to one")
}

func TestNormalizeAdvancedNoItems(t *testing.T) {
	f := advancedForm()
	f["items[0][description]"] = ""
	f["items[1][rate]"] = "-"

	_, err := NormalizeAdvanced(context.Background(), f, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidQuantityOrRate))

	f["items[1][rate]"] = "0"
	_, err = NormalizeAdvanced(context.Background(), f, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindNoItemsProvided))
}

func TestNormalizeAdvancedCompanySender(t *testing.T) {
	company := &entity.Company{ID: uuid.New(), CompanyName: "Acme Consulting", ABN: "999", PaymentDetails: "BSB 000-000"}
	resolver := companyMap{company.ID: company}

	f := advancedForm()
	f["use_company"] = "on"

	_, err := NormalizeAdvanced(context.Background(), f, resolver)
	assert.True(t, apperror.IsKind(err, apperror.KindCompanyRequired))

	f["company_id"] = "not-a-uuid"
	_, err = NormalizeAdvanced(context.Background(), f, resolver)
	assert.True(t, apperror.IsKind(err, apperror.KindCompanyNotFound))

	f["company_id"] = uuid.NewString()
	_, err = NormalizeAdvanced(context.Background(), f, resolver)
	assert.True(t, apperror.IsKind(err, apperror.KindCompanyNotFound))

	f["company_id"] = company.ID.String()
	a, err := NormalizeAdvanced(context.Background(), f, resolver)
	require.NoError(t, err)
	assert.Equal(t, enum.SenderModeCompany, a.SenderMode)
	require.NotNil(t, a.CompanyID)
	assert.Equal(t, company.ID, *a.CompanyID)
	assert.Equal(t, "Acme Consulting", a.Sender.Name)
	assert.Equal(t, "BSB 000-000", a.Sender.PaymentDetails)

	_, err = NormalizeAdvanced(context.Background(), f, failingResolver{})
	assert.True(t, apperror.IsKind(err, apperror.KindTransientIO))
}

func TestNormalizeAdvancedSenderModeField(t *testing.T) {
	f := advancedForm()
	f["sender_mode"] = "company"

	_, err := NormalizeAdvanced(context.Background(), f, companyMap{})
	assert.True(t, apperror.IsKind(err, apperror.KindCompanyRequired))
}

func TestNormalizeRoutesByShape(t *testing.T) {
	n, err := Normalize(context.Background(), simpleForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceShapeSimple, n.Shape)
	assert.Equal(t, "Jane Smith", n.SenderName())

	n, err = Normalize(context.Background(), advancedForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceShapeAdvanced, n.Shape)
	assert.NotNil(t, n.Advanced)
	assert.Nil(t, n.Simple)
}

func TestValidateClientEmail(t *testing.T) {
	n, err := Normalize(context.Background(), simpleForm(), nil)
	require.NoError(t, err)

	addr, err := n.ValidateClientEmail()
	require.NoError(t, err)
	assert.Equal(t, "ap@acme.test", addr)

	n.Simple.ClientEmail = "not an email"
	_, err = n.ValidateClientEmail()
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidEmail))
}

func TestFormFromValues(t *testing.T) {
	values := url.Values{"a": {"1", "2"}, "b": {}}
	f := FormFromValues(values)
	assert.Equal(t, "1", f["a"])
	_, ok := f["b"]
	assert.False(t, ok)
}
