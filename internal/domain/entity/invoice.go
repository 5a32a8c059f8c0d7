package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the aggregate root for a billed document. Line items belong
// exclusively to their invoice: they are created with it, deleted with it,
// and removed from storage when dropped from the collection.
type Invoice struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Version     int64             `gorm:"not null;default:0" json:"version"`
	Client      string            `gorm:"size:255;not null" json:"client"`
	VatRate     int64             `gorm:"not null" json:"vatRate"`
	InvoiceDate time.Time         `gorm:"type:date;not null" json:"invoiceDate"`
	CreatedBy   string            `gorm:"size:255;not null" json:"createdBy"`
	LineItems   []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lineItems"`
}

// TableName returns the table name for the Invoice model.
func (Invoice) TableName() string {
	return "invoices"
}

// SubTotal sums the line item totals in collection order. Derived, never
// stored: always recomputed from the current line items.
func (i *Invoice) SubTotal() decimal.Decimal {
	subTotal := decimal.Zero
	for _, item := range i.LineItems {
		subTotal = subTotal.Add(item.LineItemTotal())
	}
	return subTotal
}

// Vat is subTotal * vatRate / 100, rounded to 2 decimal places. Round is
// half away from zero, which for the non-negative amounts allowed here is
// round-half-up.
func (i *Invoice) Vat() decimal.Decimal {
	rate := decimal.NewFromInt(i.VatRate).Div(decimal.NewFromInt(100))
	return i.SubTotal().Mul(rate).Round(2)
}

// Total is subTotal + vat, rounded to 2 decimal places.
func (i *Invoice) Total() decimal.Decimal {
	return i.SubTotal().Add(i.Vat()).Round(2)
}

// Equal compares the header fields only. Two invoices with identical headers
// but different line items compare equal; the line item collection is
// deliberately excluded from invoice identity.
func (i *Invoice) Equal(other *Invoice) bool {
	if other == nil {
		return false
	}
	return i.ID == other.ID &&
		i.Version == other.Version &&
		i.Client == other.Client &&
		i.VatRate == other.VatRate &&
		i.InvoiceDate.Equal(other.InvoiceDate) &&
		i.CreatedBy == other.CreatedBy
}

// InvoiceLineItem is one billed position on an invoice. It is a passive data
// holder; field constraints are enforced at the service boundary.
type InvoiceLineItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Version     int64           `gorm:"not null;default:0" json:"version"`
	InvoiceID   uint            `gorm:"not null;index" json:"-"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	Description string          `gorm:"size:255;not null" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
}

// TableName returns the table name for the InvoiceLineItem model.
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// LineItemTotal is unitPrice * quantity, exact, with no rounding.
func (li *InvoiceLineItem) LineItemTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}
