package repository

import (
	"context"

	"github.com/billcraft/invoice-api/internal/domain/entity"
	"github.com/billcraft/invoice-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice persistence. The
// invoice and its line items form one aggregate: Create and Delete span all
// rows of the aggregate in a single transaction, and Update removes line
// items that were dropped from the collection.
type InvoiceRepository interface {
	// Create persists the invoice with its line items atomically and assigns
	// server-side identifiers. The caller's id/version fields are overwritten.
	Create(ctx context.Context, invoice *entity.Invoice) error

	// GetByID loads an invoice with its line items. Returns (nil, nil) when
	// no invoice with that id exists.
	GetByID(ctx context.Context, id uint) (*entity.Invoice, error)

	// List returns invoices ordered by client name ascending. A nil params
	// returns the full set; otherwise the requested page. The returned count
	// is the total number of invoices matching, not the page size.
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)

	// Update writes the invoice header if the caller's version matches the
	// stored one, incrementing the version, and reconciles the line item
	// collection (orphans are deleted). A stale version yields
	// apperror.ErrStaleVersion.
	Update(ctx context.Context, invoice *entity.Invoice) error

	// Delete removes the invoice and cascades to its line items.
	Delete(ctx context.Context, id uint) error
}
