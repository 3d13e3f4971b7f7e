package repository

import (
	"context"

	"academy/internal/app/ds"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repository) ListInvoices(ctx context.Context, f LedgerFilter) ([]ds.Invoice, error) {
	var invoices []ds.Invoice
	q := f.apply(r.db.WithContext(ctx).Preload("Student"))
	err := q.Order("invoice_date DESC").Order("invoice_number DESC").Find(&invoices).Error
	return invoices, err
}

func (r *Repository) GetInvoice(ctx context.Context, id uuid.UUID) (*ds.Invoice, error) {
	var inv ds.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvoice assigns the next PREFIX-YYYY-NNNNNN number and derives VAT parts
func (r *Repository) CreateInvoice(ctx context.Context, inv *ds.Invoice, prefix string) error {
	inv.SplitVAT()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		year := inv.InvoiceDate.Year()
		seq, err := nextSequence(tx, sequenceName("invoice", year))
		if err != nil {
			return err
		}
		inv.InvoiceNumber = FormatNumber(prefix, year, seq)
		return tx.Create(inv).Error
	})
}

func (r *Repository) SaveInvoice(ctx context.Context, inv *ds.Invoice) error {
	inv.SplitVAT()
	return r.db.WithContext(ctx).Omit("Student").Save(inv).Error
}

func (r *Repository) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&ds.Invoice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
