package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billcraft/invoice-api/internal/domain/entity"
	"github.com/billcraft/invoice-api/pkg/apperror"
	"github.com/billcraft/invoice-api/pkg/email"
	"github.com/billcraft/invoice-api/pkg/pagination"
	"github.com/billcraft/invoice-api/pkg/report"
)

type fakeInvoiceRepo struct {
	invoices map[uint]*entity.Invoice
	nextID   uint
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uint]*entity.Invoice), nextID: 1}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	invoice.ID = r.nextID
	invoice.Version = 0
	for i := range invoice.LineItems {
		invoice.LineItems[i].ID = r.nextID*100 + uint(i)
		invoice.LineItems[i].InvoiceID = invoice.ID
		invoice.LineItems[i].Version = 0
	}
	r.nextID++
	stored := *invoice
	r.invoices[invoice.ID] = &stored
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uint) (*entity.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	copied := *invoice
	return &copied, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, invoice := range r.invoices {
		out = append(out, *invoice)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	stored, ok := r.invoices[invoice.ID]
	if !ok || stored.Version != invoice.Version {
		return apperror.ErrStaleVersion
	}
	invoice.Version++
	copied := *invoice
	r.invoices[invoice.ID] = &copied
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uint) error {
	delete(r.invoices, id)
	return nil
}

type fakeMailer struct {
	to   string
	mail email.InvoiceMail
	pdf  []byte
}

func (m *fakeMailer) SendInvoice(to string, mail email.InvoiceMail, pdf []byte) error {
	m.to = to
	m.mail = mail
	m.pdf = pdf
	return nil
}

func newTestService(repo *fakeInvoiceRepo, mailer InvoiceMailer) *InvoiceService {
	renderer := report.NewPDFRenderer(report.Config{CompanyName: "Billcraft Ltd"})
	return NewInvoiceService(repo, renderer, mailer, "Billcraft Ltd")
}

func int64Ptr(v int64) *int64 { return &v }

func validInput() *CreateInvoiceInput {
	return &CreateInvoiceInput{
		Client:      "Acme Corp",
		VatRate:     int64Ptr(15),
		InvoiceDate: "2026-03-14",
		CreatedBy:   "writer@example.com",
		LineItems: []LineItemInput{
			{Description: "Widgets", Quantity: 3, UnitPrice: decimal.RequireFromString("1.99")},
			{Description: "Gadgets", Quantity: 10, UnitPrice: decimal.RequireFromString("10.49")},
			{Description: "Consulting", Quantity: 10, UnitPrice: decimal.RequireFromString("122.65")},
		},
	}
}

func TestCreateInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestService(repo, &fakeMailer{})

	invoice, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotZero(t, invoice.ID)
	assert.Equal(t, int64(0), invoice.Version)
	assert.Equal(t, "Acme Corp", invoice.Client)
	assert.Equal(t, "writer@example.com", invoice.CreatedBy)
	assert.Len(t, invoice.LineItems, 3)
	assert.Equal(t, "1337.37", invoice.SubTotal().StringFixed(2))
	assert.Equal(t, "200.61", invoice.Vat().StringFixed(2))
	assert.Equal(t, "1537.98", invoice.Total().StringFixed(2))
}

func TestCreateInvoiceTrimsWhitespace(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestService(repo, &fakeMailer{})

	input := validInput()
	input.Client = "  Acme Corp  "
	input.LineItems[0].Description = " Widgets "

	invoice, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", invoice.Client)
	assert.Equal(t, "Widgets", invoice.LineItems[0].Description)
}

func fieldNames(errs []apperror.FieldError) []string {
	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Field
	}
	return names
}

func TestCreateInvoiceValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInvoiceInput)
		field  string
	}{
		{"missing client", func(in *CreateInvoiceInput) { in.Client = "   " }, "invoice.client"},
		{"missing vat rate", func(in *CreateInvoiceInput) { in.VatRate = nil }, "invoice.vatRate"},
		{"negative vat rate", func(in *CreateInvoiceInput) { in.VatRate = int64Ptr(-1) }, "invoice.vatRate"},
		{"missing date", func(in *CreateInvoiceInput) { in.InvoiceDate = "" }, "invoice.invoiceDate"},
		{"malformed date", func(in *CreateInvoiceInput) { in.InvoiceDate = "14-03-2026" }, "invoice.invoiceDate"},
		{"future date", func(in *CreateInvoiceInput) {
			in.InvoiceDate = time.Now().AddDate(0, 0, 7).Format("2006-01-02")
		}, "invoice.invoiceDate"},
		{"no line items", func(in *CreateInvoiceInput) { in.LineItems = nil }, "invoice.lineItems"},
		{"blank description", func(in *CreateInvoiceInput) { in.LineItems[1].Description = "" }, "lineItems[1].description"},
		{"zero quantity", func(in *CreateInvoiceInput) { in.LineItems[0].Quantity = 0 }, "lineItems[0].quantity"},
		{"negative quantity", func(in *CreateInvoiceInput) { in.LineItems[0].Quantity = -5 }, "lineItems[0].quantity"},
		{"zero unit price", func(in *CreateInvoiceInput) { in.LineItems[2].UnitPrice = decimal.Zero }, "lineItems[2].unitPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeInvoiceRepo()
			svc := newTestService(repo, &fakeMailer{})

			input := validInput()
			tt.mutate(input)

			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)

			appErr := apperror.GetAppError(err)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Contains(t, fieldNames(appErr.Errors), tt.field)
			assert.Empty(t, repo.invoices)
		})
	}
}

func TestCreateInvoiceCollectsAllFailures(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestService(repo, &fakeMailer{})

	_, err := svc.Create(context.Background(), &CreateInvoiceInput{
		LineItems: []LineItemInput{{}},
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	names := fieldNames(appErr.Errors)
	assert.Contains(t, names, "invoice.client")
	assert.Contains(t, names, "invoice.vatRate")
	assert.Contains(t, names, "invoice.invoiceDate")
	assert.Contains(t, names, "lineItems[0].description")
	assert.Contains(t, names, "lineItems[0].quantity")
	assert.Contains(t, names, "lineItems[0].unitPrice")
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc := newTestService(newFakeInvoiceRepo(), &fakeMailer{})

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestRenderPDF(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestService(repo, &fakeMailer{})

	invoice, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	pdf, err := svc.RenderPDF(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF-", string(pdf[:5]))
}

func TestSendInvoice(t *testing.T) {
	repo := newFakeInvoiceRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	invoice, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Send(context.Background(), invoice.ID, "client@example.com"))

	assert.Equal(t, "client@example.com", mailer.to)
	assert.Equal(t, invoice.ID, mailer.mail.InvoiceID)
	assert.Equal(t, "Acme Corp", mailer.mail.Client)
	assert.Equal(t, "2026-03-14", mailer.mail.InvoiceDate)
	assert.Equal(t, "1537.98", mailer.mail.Total)
	assert.NotEmpty(t, mailer.pdf)
}

func TestExportXLSX(t *testing.T) {
	repo := newFakeInvoiceRepo()
	svc := newTestService(repo, &fakeMailer{})

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	data, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)
	// xlsx files are zip archives.
	require.True(t, len(data) > 4)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
