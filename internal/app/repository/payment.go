package repository

import (
	"context"

	"academy/internal/app/ds"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerFilter narrows payment and invoice listings
type LedgerFilter struct {
	StudentID *uuid.UUID
	Status    string
}

func (f LedgerFilter) apply(q *gorm.DB) *gorm.DB {
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

func (r *Repository) ListPayments(ctx context.Context, f LedgerFilter) ([]ds.Payment, error) {
	var payments []ds.Payment
	q := f.apply(r.db.WithContext(ctx).Preload("Student"))
	err := q.Order("installment_number ASC").Order("created_at ASC").Find(&payments).Error
	return payments, err
}

func (r *Repository) GetPayment(ctx context.Context, id uuid.UUID) (*ds.Payment, error) {
	var p ds.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreatePayment(ctx context.Context, p *ds.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) SavePayment(ctx context.Context, p *ds.Payment) error {
	return r.db.WithContext(ctx).Omit("Student").Save(p).Error
}

func (r *Repository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&ds.Payment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
