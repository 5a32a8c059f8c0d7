package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return d
}

func TestInvoiceTotals(t *testing.T) {
	invoice := &Invoice{
		VatRate: 15,
		LineItems: []InvoiceLineItem{
			{Quantity: 3, Description: "Widgets", UnitPrice: mustDecimal(t, "1.99")},
			{Quantity: 10, Description: "Gadgets", UnitPrice: mustDecimal(t, "10.49")},
			{Quantity: 10, Description: "Consulting", UnitPrice: mustDecimal(t, "122.65")},
		},
	}

	assert.Equal(t, "1337.37", invoice.SubTotal().StringFixed(2))
	assert.Equal(t, "200.61", invoice.Vat().StringFixed(2))
	assert.Equal(t, "1537.98", invoice.Total().StringFixed(2))
}

func TestInvoiceVatRoundsHalfUp(t *testing.T) {
	// 0.30 * 15% = 0.045, which rounds up to 0.05.
	invoice := &Invoice{
		VatRate: 15,
		LineItems: []InvoiceLineItem{
			{Quantity: 1, Description: "Stamp", UnitPrice: mustDecimal(t, "0.30")},
		},
	}

	assert.Equal(t, "0.05", invoice.Vat().StringFixed(2))
	assert.Equal(t, "0.35", invoice.Total().StringFixed(2))
}

func TestInvoiceZeroVatRate(t *testing.T) {
	invoice := &Invoice{
		VatRate: 0,
		LineItems: []InvoiceLineItem{
			{Quantity: 2, Description: "Books", UnitPrice: mustDecimal(t, "12.50")},
		},
	}

	assert.Equal(t, "0.00", invoice.Vat().StringFixed(2))
	assert.Equal(t, "25.00", invoice.Total().StringFixed(2))
}

func TestInvoiceNoLineItems(t *testing.T) {
	invoice := &Invoice{VatRate: 21}

	assert.True(t, invoice.SubTotal().IsZero())
	assert.True(t, invoice.Vat().IsZero())
	assert.True(t, invoice.Total().IsZero())
}

func TestLineItemTotalIsExact(t *testing.T) {
	item := &InvoiceLineItem{Quantity: 3, UnitPrice: mustDecimal(t, "1.99")}

	assert.True(t, item.LineItemTotal().Equal(mustDecimal(t, "5.97")))
}

func TestInvoiceEqualIgnoresLineItems(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	a := &Invoice{
		ID:          7,
		Version:     2,
		Client:      "Acme Corp",
		VatRate:     15,
		InvoiceDate: date,
		CreatedBy:   "billing@example.com",
		LineItems: []InvoiceLineItem{
			{Quantity: 1, Description: "One", UnitPrice: mustDecimal(t, "1.00")},
		},
	}
	b := &Invoice{
		ID:          7,
		Version:     2,
		Client:      "Acme Corp",
		VatRate:     15,
		InvoiceDate: date,
		CreatedBy:   "billing@example.com",
	}

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
}

func TestInvoiceEqualDetectsHeaderChanges(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	base := Invoice{
		ID:          7,
		Version:     2,
		Client:      "Acme Corp",
		VatRate:     15,
		InvoiceDate: date,
		CreatedBy:   "billing@example.com",
	}

	tests := []struct {
		name   string
		mutate func(*Invoice)
	}{
		{"id", func(i *Invoice) { i.ID = 8 }},
		{"version", func(i *Invoice) { i.Version = 3 }},
		{"client", func(i *Invoice) { i.Client = "Other Corp" }},
		{"vat rate", func(i *Invoice) { i.VatRate = 21 }},
		{"invoice date", func(i *Invoice) { i.InvoiceDate = date.AddDate(0, 0, 1) }},
		{"created by", func(i *Invoice) { i.CreatedBy = "other@example.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			assert.False(t, base.Equal(&other))
		})
	}
}

func TestInvoiceEqualNil(t *testing.T) {
	invoice := &Invoice{ID: 1}
	assert.False(t, invoice.Equal(nil))
}
