package repository

import (
	"context"

	"academy/internal/app/billing"
	"academy/internal/app/ds"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentFilter struct {
	Status      string
	PackageType string
}

func (r *Repository) ListStudents(ctx context.Context, f StudentFilter) ([]ds.Student, error) {
	var students []ds.Student
	q := r.db.WithContext(ctx).Order("enrolled_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PackageType != "" {
		q = q.Where("package_type = ?", f.PackageType)
	}
	if err := q.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *Repository) GetStudent(ctx context.Context, id uuid.UUID) (*ds.Student, error) {
	var s ds.Student
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) StudentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ds.Student{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateStudent(ctx context.Context, s *ds.Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repository) SaveStudent(ctx context.Context, s *ds.Student) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// DeleteStudent removes the student with contracts, payments and invoices
func (r *Repository) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&ds.Contract{}, &ds.Payment{}, &ds.Invoice{}} {
			if err := tx.Where("student_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&ds.Student{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *Repository) ContractsByStudent(ctx context.Context, studentID uuid.UUID) ([]ds.Contract, error) {
	var contracts []ds.Contract
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Order("signed_at DESC").Find(&contracts).Error
	return contracts, err
}

// PaymentStatuses reconciles every given student against the invoice
// ledger using two queries regardless of the number of students.
func (r *Repository) PaymentStatuses(ctx context.Context, students []ds.Student) (map[uuid.UUID]billing.Status, error) {
	out := make(map[uuid.UUID]billing.Status, len(students))
	if len(students) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(students))
	slugSet := make(map[string]struct{})
	for i, s := range students {
		ids[i] = s.ID
		if slug := s.PackageSlug(); slug != "" {
			slugSet[slug] = struct{}{}
		}
	}

	var invoices []ds.Invoice
	if err := r.db.WithContext(ctx).Where("student_id IN ?", ids).Find(&invoices).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID][]ds.Invoice, len(students))
	for _, inv := range invoices {
		byStudent[inv.StudentID] = append(byStudent[inv.StudentID], inv)
	}

	slugs := make([]string, 0, len(slugSet))
	for slug := range slugSet {
		slugs = append(slugs, slug)
	}
	planSizes, err := r.planSizes(ctx, slugs)
	if err != nil {
		return nil, err
	}

	for _, s := range students {
		entries := billing.InvoiceEntries(byStudent[s.ID])
		out[s.ID] = billing.Reconcile(s.PaymentMethod, entries, planSizes[s.PackageSlug()])
	}
	return out, nil
}

// planSizes counts installment rows per package slug
func (r *Repository) planSizes(ctx context.Context, slugs []string) (map[string]int, error) {
	sizes := make(map[string]int, len(slugs))
	if len(slugs) == 0 {
		return sizes, nil
	}

	var rows []struct {
		Slug  string
		Total int
	}
	err := r.db.WithContext(ctx).
		Table("package_installments").
		Select("packages.slug AS slug, COUNT(*) AS total").
		Joins("JOIN packages ON packages.id = package_installments.package_id").
		Where("packages.slug IN ?", slugs).
		Group("packages.slug").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		sizes[row.Slug] = row.Total
	}
	return sizes, nil
}
