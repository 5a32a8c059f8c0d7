package request

import "github.com/shopspring/decimal"

// CreateInvoiceRequest is the accepted create body. Server-assigned fields
// (id, version, createdBy) are deliberately absent: they cannot be supplied
// by the client, whatever the payload carries.
type CreateInvoiceRequest struct {
	Client      string            `json:"client"`
	VatRate     *int64            `json:"vatRate"`
	InvoiceDate string            `json:"invoiceDate"`
	LineItems   []LineItemRequest `json:"lineItems"`
}

// LineItemRequest is one line item of a create body.
type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// SendInvoiceRequest addresses an invoice email.
type SendInvoiceRequest struct {
	Recipient string `json:"recipient" binding:"required,email"`
}
