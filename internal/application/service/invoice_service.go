package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/billcraft/invoice-api/internal/domain/entity"
	"github.com/billcraft/invoice-api/internal/domain/repository"
	"github.com/billcraft/invoice-api/pkg/apperror"
	"github.com/billcraft/invoice-api/pkg/email"
	"github.com/billcraft/invoice-api/pkg/pagination"
	"github.com/billcraft/invoice-api/pkg/report"
)

// dateLayout is the wire format of invoice dates.
const dateLayout = "2006-01-02"

// minUnitPrice is the smallest billable unit price.
var minUnitPrice = decimal.New(1, -2) // 0.01

// InvoiceMailer dispatches a rendered invoice to a recipient.
type InvoiceMailer interface {
	SendInvoice(to string, mail email.InvoiceMail, pdf []byte) error
}

// InvoiceService handles invoice operations.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	renderer    report.Renderer
	mailer      InvoiceMailer
	companyName string
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	renderer report.Renderer,
	mailer InvoiceMailer,
	companyName string,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		mailer:      mailer,
		companyName: companyName,
	}
}

// LineItemInput is one line item of a create request.
type LineItemInput struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// CreateInvoiceInput is the create request after binding. CreatedBy is the
// authenticated principal, never client input.
type CreateInvoiceInput struct {
	Client      string
	VatRate     *int64
	InvoiceDate string
	CreatedBy   string
	LineItems   []LineItemInput
}

// Create validates the input, persists the invoice aggregate in one
// transaction and returns it with server-assigned identifiers.
func (s *InvoiceService) Create(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	invoiceDate, fieldErrs := s.validate(input)
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	invoice := &entity.Invoice{
		Client:      strings.TrimSpace(input.Client),
		VatRate:     *input.VatRate,
		InvoiceDate: invoiceDate,
		CreatedBy:   input.CreatedBy,
	}
	for _, item := range input.LineItems {
		invoice.LineItems = append(invoice.LineItems, entity.InvoiceLineItem{
			Quantity:    item.Quantity,
			Description: strings.TrimSpace(item.Description),
			UnitPrice:   item.UnitPrice,
		})
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// validate checks every field constraint and collects failures keyed by
// entity.field, matching the wire-level error contract.
func (s *InvoiceService) validate(input *CreateInvoiceInput) (time.Time, []apperror.FieldError) {
	var errs []apperror.FieldError
	var invoiceDate time.Time

	if strings.TrimSpace(input.Client) == "" {
		errs = append(errs, apperror.FieldError{Field: "invoice.client", Message: "client is required"})
	}

	if input.VatRate == nil {
		errs = append(errs, apperror.FieldError{Field: "invoice.vatRate", Message: "vatRate is required"})
	} else if *input.VatRate < 0 {
		errs = append(errs, apperror.FieldError{Field: "invoice.vatRate", Message: "vatRate must not be negative"})
	}

	if input.InvoiceDate == "" {
		errs = append(errs, apperror.FieldError{Field: "invoice.invoiceDate", Message: "invoiceDate is required"})
	} else {
		parsed, err := time.Parse(dateLayout, input.InvoiceDate)
		switch {
		case err != nil:
			errs = append(errs, apperror.FieldError{Field: "invoice.invoiceDate", Message: "invoiceDate must be a yyyy-MM-dd date"})
		case parsed.After(time.Now()):
			errs = append(errs, apperror.FieldError{Field: "invoice.invoiceDate", Message: "invoiceDate must not be in the future"})
		default:
			invoiceDate = parsed
		}
	}

	if len(input.LineItems) == 0 {
		errs = append(errs, apperror.FieldError{Field: "invoice.lineItems", Message: "at least one line item is required"})
	}
	for i, item := range input.LineItems {
		if strings.TrimSpace(item.Description) == "" {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("lineItems[%d].description", i),
				Message: "description is required",
			})
		}
		if item.Quantity < 1 {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("lineItems[%d].quantity", i),
				Message: "quantity must be at least 1",
			})
		}
		if item.UnitPrice.LessThan(minUnitPrice) {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("lineItems[%d].unitPrice", i),
				Message: "unitPrice must be at least 0.01",
			})
		}
	}

	return invoiceDate, errs
}

// List returns invoices ordered by client name ascending. A nil params
// returns the full set.
func (s *InvoiceService) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, params)
}

// Get returns the invoice with its line items, or a not-found error.
func (s *InvoiceService) Get(ctx context.Context, id uint) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// RenderPDF loads the invoice and renders it through the report engine.
// Render failures propagate to the caller.
func (s *InvoiceService) RenderPDF(ctx context.Context, id uint) ([]byte, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderInvoice(toReportData(invoice))
}

// Send renders the invoice and emails it to the recipient.
func (s *InvoiceService) Send(ctx context.Context, id uint, recipient string) error {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	pdf, err := s.renderer.RenderInvoice(toReportData(invoice))
	if err != nil {
		return err
	}

	return s.mailer.SendInvoice(recipient, email.InvoiceMail{
		InvoiceID:   invoice.ID,
		Client:      invoice.Client,
		InvoiceDate: invoice.InvoiceDate.Format(dateLayout),
		Total:       invoice.Total().StringFixed(2),
		CompanyName: s.companyName,
	}, pdf)
}

// ExportXLSX builds a spreadsheet with one summary row per invoice.
func (s *InvoiceService) ExportXLSX(ctx context.Context) ([]byte, error) {
	invoices, _, err := s.invoiceRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoices"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Client", "Invoice date", "VAT rate (%)", "Sub total", "VAT", "Total"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, invoice := range invoices {
		values := []interface{}{
			invoice.ID,
			invoice.Client,
			invoice.InvoiceDate.Format(dateLayout),
			invoice.VatRate,
			invoice.SubTotal().StringFixed(2),
			invoice.Vat().StringFixed(2),
			invoice.Total().StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toReportData flattens the aggregate into the renderer's input object.
func toReportData(invoice *entity.Invoice) *report.InvoiceData {
	data := &report.InvoiceData{
		ID:          invoice.ID,
		Client:      invoice.Client,
		VatRate:     invoice.VatRate,
		InvoiceDate: invoice.InvoiceDate,
		CreatedBy:   invoice.CreatedBy,
		SubTotal:    invoice.SubTotal(),
		Vat:         invoice.Vat(),
		Total:       invoice.Total(),
	}
	for _, item := range invoice.LineItems {
		data.Items = append(data.Items, report.LineItemData{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.LineItemTotal(),
		})
	}
	return data
}
