package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/billcraft/invoice-api/internal/application/service"
	"github.com/billcraft/invoice-api/internal/presentation/http/dto/request"
	"github.com/billcraft/invoice-api/internal/presentation/http/dto/response"
	"github.com/billcraft/invoice-api/pkg/pagination"
)

// InvoiceHandler handles invoice HTTP requests.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles adding an invoice with its line items.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.LineItemInput, len(req.LineItems))
	for i, item := range req.LineItems {
		items[i] = service.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), &service.CreateInvoiceInput{
		Client:      req.Client,
		VatRate:     req.VatRate,
		InvoiceDate: req.InvoiceDate,
		CreatedBy:   GetUserEmail(c),
		LineItems:   items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, invoice.ID))
	response.Created(c, "Invoice created successfully", response.NewInvoiceDetail(invoice))
}

// List handles listing invoices ordered by client name. Without pagination
// parameters the full set is returned in the summary view.
func (h *InvoiceHandler) List(c *gin.Context) {
	if c.Query("page") == "" && c.Query("per_page") == "" {
		invoices, _, err := h.invoiceService.List(c.Request.Context(), nil)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Invoices retrieved successfully", response.NewInvoiceSummaries(invoices))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(
		response.NewInvoiceSummaries(invoices),
		pagination.NewPagination(params.Page, params.PerPage, total),
	)
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles viewing a single invoice with line items and derived totals.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", response.NewInvoiceDetail(invoice))
}

// GetPDF handles rendering an invoice as a PDF attachment.
func (h *InvoiceHandler) GetPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	pdf, err := h.invoiceService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("invoice-%d.pdf", id)))
	c.Data(200, "application/pdf", pdf)
}

// Export handles exporting the invoice summary as a spreadsheet.
func (h *InvoiceHandler) Export(c *gin.Context) {
	data, err := h.invoiceService.ExportXLSX(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Send handles emailing an invoice PDF to a recipient.
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req request.SendInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.invoiceService.Send(c.Request.Context(), id, req.Recipient); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice sent successfully", nil)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return 0, false
	}
	return uint(id), true
}
