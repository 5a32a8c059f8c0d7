package response

import (
	"encoding/json"

	"github.com/billcraft/invoice-api/internal/domain/entity"
)

// Each operation exposes its own subset of invoice fields. The list
// endpoint serializes InvoiceSummary, the single-invoice endpoints
// InvoiceDetail; there is no conditional field logic at runtime, the shape
// is fixed per view.

// InvoiceSummary is the list view of an invoice: identity and header only,
// no line items and no derived totals.
type InvoiceSummary struct {
	ID          uint   `json:"id"`
	Client      string `json:"client"`
	InvoiceDate string `json:"invoiceDate"`
}

// LineItemDetail is the full view of a line item. The back-reference to the
// owning invoice is never serialized.
type LineItemDetail struct {
	ID            uint        `json:"id"`
	Version       int64       `json:"version"`
	Quantity      int64       `json:"quantity"`
	Description   string      `json:"description"`
	UnitPrice     json.Number `json:"unitPrice"`
	LineItemTotal json.Number `json:"lineItemTotal"`
}

// InvoiceDetail is the full view of an invoice including the derived
// monetary fields, which are recomputed from the line items on every
// serialization.
type InvoiceDetail struct {
	ID          uint             `json:"id"`
	Version     int64            `json:"version"`
	Client      string           `json:"client"`
	VatRate     int64            `json:"vatRate"`
	InvoiceDate string           `json:"invoiceDate"`
	CreatedBy   string           `json:"createdBy"`
	LineItems   []LineItemDetail `json:"lineItems"`
	SubTotal    json.Number      `json:"subTotal"`
	Vat         json.Number      `json:"vat"`
	Total       json.Number      `json:"total"`
}

// NewInvoiceSummary maps an invoice to its list view.
func NewInvoiceSummary(invoice *entity.Invoice) InvoiceSummary {
	return InvoiceSummary{
		ID:          invoice.ID,
		Client:      invoice.Client,
		InvoiceDate: invoice.InvoiceDate.Format("2006-01-02"),
	}
}

// NewInvoiceSummaries maps a slice of invoices to the list view.
func NewInvoiceSummaries(invoices []entity.Invoice) []InvoiceSummary {
	summaries := make([]InvoiceSummary, 0, len(invoices))
	for i := range invoices {
		summaries = append(summaries, NewInvoiceSummary(&invoices[i]))
	}
	return summaries
}

// NewInvoiceDetail maps an invoice to its full view.
func NewInvoiceDetail(invoice *entity.Invoice) InvoiceDetail {
	detail := InvoiceDetail{
		ID:          invoice.ID,
		Version:     invoice.Version,
		Client:      invoice.Client,
		VatRate:     invoice.VatRate,
		InvoiceDate: invoice.InvoiceDate.Format("2006-01-02"),
		CreatedBy:   invoice.CreatedBy,
		LineItems:   make([]LineItemDetail, 0, len(invoice.LineItems)),
		SubTotal:    json.Number(invoice.SubTotal().StringFixed(2)),
		Vat:         json.Number(invoice.Vat().StringFixed(2)),
		Total:       json.Number(invoice.Total().StringFixed(2)),
	}
	for _, item := range invoice.LineItems {
		detail.LineItems = append(detail.LineItems, LineItemDetail{
			ID:            item.ID,
			Version:       item.Version,
			Quantity:      item.Quantity,
			Description:   item.Description,
			UnitPrice:     json.Number(item.UnitPrice.StringFixed(2)),
			LineItemTotal: json.Number(item.LineItemTotal().StringFixed(2)),
		})
	}
	return detail
}
