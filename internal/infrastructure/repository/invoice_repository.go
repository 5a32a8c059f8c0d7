package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/billcraft/invoice-api/internal/domain/entity"
	domainRepo "github.com/billcraft/invoice-api/internal/domain/repository"
	"github.com/billcraft/invoice-api/pkg/apperror"
	"github.com/billcraft/invoice-api/pkg/pagination"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	// Identifiers and versions are server-assigned; whatever the caller put
	// there is discarded.
	invoice.ID = 0
	invoice.Version = 0
	for i := range invoice.LineItems {
		invoice.LineItems[i].ID = 0
		invoice.LineItems[i].Version = 0
	}
	// gorm writes the invoice and its associated line items in one
	// transaction: either all rows land or none.
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uint) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_line_items.id ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params != nil {
		params.Validate()
		query = query.Offset(params.Offset()).Limit(params.PerPage)
	}

	err := query.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_line_items.id ASC")
		}).
		Order("client ASC").Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-swap on the version token: the write only lands if the
		// caller read the version currently stored.
		res := tx.Model(&entity.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, invoice.Version).
			Updates(map[string]interface{}{
				"client":       invoice.Client,
				"vat_rate":     invoice.VatRate,
				"invoice_date": invoice.InvoiceDate,
				"version":      gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrStaleVersion
		}
		invoice.Version++

		// Orphan removal: line items dropped from the collection are deleted.
		keep := make([]uint, 0, len(invoice.LineItems))
		for _, item := range invoice.LineItems {
			if item.ID != 0 {
				keep = append(keep, item.ID)
			}
		}
		del := tx.Where("invoice_id = ?", invoice.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&entity.InvoiceLineItem{}).Error; err != nil {
			return err
		}

		for i := range invoice.LineItems {
			invoice.LineItems[i].InvoiceID = invoice.ID
			if err := tx.Save(&invoice.LineItems[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *invoiceRepository) Delete(ctx context.Context, id uint) error {
	// Cascade in application code so behavior does not depend on the
	// database honoring the FK constraint.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceLineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Invoice{}, "id = ?", id).Error
	})
}
