package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// LineItemData is one row of the invoice item table.
type LineItemData struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// InvoiceData is the flat data object handed to a renderer. Callers compute
// the derived totals before rendering; the renderer only formats.
type InvoiceData struct {
	ID          uint
	Client      string
	VatRate     int64
	InvoiceDate time.Time
	CreatedBy   string
	Items       []LineItemData
	SubTotal    decimal.Decimal
	Vat         decimal.Decimal
	Total       decimal.Decimal
}

// Renderer produces a binary document for one invoice.
type Renderer interface {
	RenderInvoice(data *InvoiceData) ([]byte, error)
}

// Config holds the letterhead shown on every rendered invoice.
type Config struct {
	CompanyName    string
	CompanyAddress string
	Footnote       string
}

// PDFRenderer renders invoices as A4 PDF documents.
type PDFRenderer struct {
	cfg Config
}

// NewPDFRenderer creates a PDF renderer with the given letterhead.
func NewPDFRenderer(cfg Config) *PDFRenderer {
	return &PDFRenderer{cfg: cfg}
}

// RenderInvoice renders the invoice as PDF bytes.
func (r *PDFRenderer) RenderInvoice(data *InvoiceData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %d", data.ID), false)
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(120, 8, r.cfg.CompanyName)
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(120, 6, r.cfg.CompanyAddress)
	pdf.Ln(14)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(100, 10, fmt.Sprintf("INVOICE #%d", data.ID))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(95, 7, "Billed to: "+data.Client)
	pdf.Ln(6)
	pdf.Cell(95, 7, "Invoice date: "+data.InvoiceDate.Format("2006-01-02"))
	pdf.Ln(6)
	if data.CreatedBy != "" {
		pdf.Cell(95, 7, "Issued by: "+data.CreatedBy)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range data.Items {
		pdf.CellFormat(90, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, item.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(150, 7, "Sub total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, data.SubTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, fmt.Sprintf("VAT (%d%%)", data.VatRate), "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, data.Vat.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, data.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if r.cfg.Footnote != "" {
		pdf.Ln(10)
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.Cell(190, 6, r.cfg.Footnote)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %d: %w", data.ID, err)
	}
	return buf.Bytes(), nil
}
