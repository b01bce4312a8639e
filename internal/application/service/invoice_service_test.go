package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/entity"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/sangkips/invoiceau-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadStoresSimpleInvoiceOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "jane@example.com")

	first, err := env.service.Download(ctx, submitter("sess-1", user), simpleForm())
	require.NoError(t, err)
	assert.Equal(t, "janesmith-20240307-0905.pdf", first.Filename)
	assert.NotEmpty(t, first.PDF)
	assert.False(t, first.Duplicate)
	id := mustUUID(t, first.InvoiceID)

	second, err := env.service.Download(ctx, submitter("sess-1", user), simpleForm())
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, id, mustUUID(t, second.InvoiceID))

	assert.Equal(t, int64(1), env.countRows(t, &entity.Invoice{}))

	stored, err := env.service.GetSimple(ctx, user.ID, id)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("330").Equal(stored.Total))
	assert.Equal(t, enum.InvoiceStatusUnpaid, stored.Status)
}

func TestDownloadFromTwoSessionsStoresTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "jane@example.com")

	a, err := env.service.Download(ctx, submitter("sess-a", user), simpleForm())
	require.NoError(t, err)
	b, err := env.service.Download(ctx, submitter("sess-b", user), simpleForm())
	require.NoError(t, err)

	assert.NotEqual(t, mustUUID(t, a.InvoiceID), mustUUID(t, b.InvoiceID))
	assert.Equal(t, int64(2), env.countRows(t, &entity.Invoice{}))
}

func TestDownloadAnonymousIsNotStored(t *testing.T) {
	env := newTestEnv(t)

	doc, err := env.service.Download(context.Background(), submitter("sess-1", nil), simpleForm())
	require.NoError(t, err)

	assert.Nil(t, doc.InvoiceID)
	assert.NotEmpty(t, doc.PDF)
	assert.Zero(t, env.countRows(t, &entity.Invoice{}))
}

func TestDownloadMissingFieldWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jane@example.com")

	f := simpleForm()
	delete(f, "client_name")
	_, err := env.service.Download(context.Background(), submitter("sess-1", user), f)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindMissingField))
	assert.Zero(t, env.countRows(t, &entity.Invoice{}))
	assert.Zero(t, env.pdf.calls)
}

func TestDownloadInvalidRateWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jane@example.com")

	f := simpleForm()
	f["rate"] = "lots"
	_, err := env.service.Download(context.Background(), submitter("sess-1", user), f)

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidQuantityOrRate))
	assert.Zero(t, env.countRows(t, &entity.Invoice{}))
}

func TestDownloadStoresAdvancedInvoiceWithItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "jane@example.com")

	doc, err := env.service.Download(ctx, submitter("sess-1", user), advancedForm())
	require.NoError(t, err)

	stored, err := env.service.GetAdvanced(ctx, user.ID, mustUUID(t, doc.InvoiceID))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(stored.Subtotal))
	assert.True(t, decimal.RequireFromString("2.5").Equal(stored.GSTAmount))
	assert.True(t, decimal.RequireFromString("27.5").Equal(stored.Total))
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "A", stored.Items[0].Description)
	assert.Equal(t, "B", stored.Items[1].Description)
	assert.Equal(t, enum.SenderModePersonal, stored.SenderMode)
	assert.Equal(t, "Jane Smith", stored.SenderName)
}

func TestDownloadCompanySenderIsScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "jane@example.com")
	other := env.createUser(t, "bob@example.com")

	company, err := env.companies.CreateCompany(ctx, owner.ID, &CreateCompanyInput{CompanyName: "Smith Consulting", ABN: "51 824 753 556"}, nil)
	require.NoError(t, err)

	f := advancedForm()
	f["use_company"] = "on"
	f["company_id"] = company.ID.String()

	doc, err := env.service.Download(ctx, submitter("sess-1", owner), f)
	require.NoError(t, err)
	assert.Equal(t, "smithconsulting-20240307-0905.pdf", doc.Filename)

	stored, err := env.service.GetAdvanced(ctx, owner.ID, mustUUID(t, doc.InvoiceID))
	require.NoError(t, err)
	assert.Equal(t, enum.SenderModeCompany, stored.SenderMode)
	require.NotNil(t, stored.CompanyID)
	assert.Equal(t, company.ID, *stored.CompanyID)
	assert.Empty(t, stored.SenderName)
	assert.Equal(t, "Smith Consulting", stored.Sender().Name)

	_, err = env.service.Download(ctx, submitter("sess-2", other), f)
	assert.True(t, apperror.IsKind(err, apperror.KindCompanyNotFound))

	_, err = env.service.Download(ctx, submitter("sess-3", nil), f)
	assert.True(t, apperror.IsKind(err, apperror.KindCompanyNotFound))
}

func TestEmailSendsAttachment(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jane@example.com")

	f := simpleForm()
	f["client_email"] = "  ap@acme.com.au "
	delivery, err := env.service.Email(context.Background(), submitter("sess-1", user), f)
	require.NoError(t, err)

	assert.Equal(t, "ap@acme.com.au", delivery.To)
	assert.NotNil(t, delivery.InvoiceID)
	require.Len(t, env.mailer.sent, 1)
	msg := env.mailer.sent[0]
	assert.Equal(t, "ap@acme.com.au", msg.To)
	assert.Equal(t, "Your Invoice", msg.Subject)
	assert.Equal(t, "Please find your invoice attached.", msg.Body)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "invoice.pdf", msg.Attachments[0].Filename)
	assert.NotEmpty(t, msg.Attachments[0].Data)
}

func TestEmailRejectsInvalidAddressBeforeStoring(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jane@example.com")

	f := simpleForm()
	f["client_email"] = "not-an-address"
	_, err := env.service.Email(context.Background(), submitter("sess-1", user), f)

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidEmail))
	assert.Zero(t, env.countRows(t, &entity.Invoice{}))
	assert.Empty(t, env.mailer.sent)
}

func TestEmailFailureKeepsStoredInvoice(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jane@example.com")
	env.mailer.err = errBoom

	delivery, err := env.service.Email(context.Background(), submitter("sess-1", user), simpleForm())

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindTransientIO))
	require.NotNil(t, delivery)
	assert.NotNil(t, delivery.InvoiceID)
	assert.Equal(t, int64(1), env.countRows(t, &entity.Invoice{}))
}

func TestEmailRenderFailureKeepsStoredInvoice(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jane@example.com")
	env.pdf.err = errBoom

	delivery, err := env.service.Email(context.Background(), submitter("sess-1", user), advancedForm())

	assert.True(t, apperror.IsKind(err, apperror.KindTransientIO))
	assert.NotNil(t, delivery.InvoiceID)
	assert.Equal(t, int64(1), env.countRows(t, &entity.AdvancedInvoice{}))
	assert.Equal(t, int64(2), env.countRows(t, &entity.AdvancedInvoiceItem{}))
	assert.Empty(t, env.mailer.sent)
}

func TestPreviewKeepsLastInvoiceData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.LastPreview(ctx, "sess-1")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	f := simpleForm()
	delete(f, "client_name")
	preview, err := env.service.Preview(ctx, submitter("sess-1", nil), f)
	require.NoError(t, err)
	assert.Contains(t, string(preview.HTML), "Consulting")

	last, err := env.service.LastPreview(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceShapeSimple, last.Shape)
	assert.Equal(t, "07/03/2024", last.Simple.FormattedDate)
	assert.True(t, decimal.NewFromInt(330).Equal(last.Simple.Total))

	html, err := env.service.PreviewHTML(ctx, "sess-1")
	require.NoError(t, err)
	assert.Contains(t, string(html), "Jane Smith")

	assert.Zero(t, env.countRows(t, &entity.Invoice{}))
}

func TestGetAndMarkPaidEnforceOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "jane@example.com")
	other := env.createUser(t, "bob@example.com")

	doc, err := env.service.Download(ctx, submitter("sess-1", owner), simpleForm())
	require.NoError(t, err)
	id := mustUUID(t, doc.InvoiceID)

	_, err = env.service.Get(ctx, other.ID, enum.InvoiceShapeSimple, id)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	_, err = env.service.Get(ctx, owner.ID, enum.InvoiceShapeSimple, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = env.service.Get(ctx, owner.ID, enum.InvoiceShapeAdvanced, id)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	err = env.service.MarkPaid(ctx, other.ID, enum.InvoiceShapeSimple, id)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	require.NoError(t, env.service.MarkPaid(ctx, owner.ID, enum.InvoiceShapeSimple, id))
	require.NoError(t, env.service.MarkPaid(ctx, owner.ID, enum.InvoiceShapeSimple, id))

	stored, err := env.service.GetSimple(ctx, owner.ID, id)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid())
}

func TestMarkAdvancedPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "jane@example.com")

	doc, err := env.service.Download(ctx, submitter("sess-1", owner), advancedForm())
	require.NoError(t, err)
	id := mustUUID(t, doc.InvoiceID)

	require.NoError(t, env.service.MarkPaid(ctx, owner.ID, enum.InvoiceShapeAdvanced, id))

	stored, err := env.service.GetAdvanced(ctx, owner.ID, id)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid())
}

func TestRecordPDFNeverStoresAgain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "jane@example.com")

	doc, err := env.service.Download(ctx, submitter("sess-1", owner), advancedForm())
	require.NoError(t, err)
	id := mustUUID(t, doc.InvoiceID)

	again, err := env.service.RecordPDF(ctx, owner.ID, enum.InvoiceShapeAdvanced, id)
	require.NoError(t, err)
	assert.Equal(t, id, mustUUID(t, again.InvoiceID))
	assert.Equal(t, "janesmith-20240307-0905.pdf", again.Filename)
	assert.Equal(t, int64(1), env.countRows(t, &entity.AdvancedInvoice{}))
}

func TestReviewSubmissionIsNotStored(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "jane@example.com")

	f := simpleForm()
	f["review"] = "true"
	doc, err := env.service.Download(context.Background(), submitter("sess-1", owner), f)
	require.NoError(t, err)

	assert.Nil(t, doc.InvoiceID)
	assert.Zero(t, env.countRows(t, &entity.Invoice{}))
}
