package repository

import (
	"context"
	"fmt"

	"academy/internal/app/ds"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PackageInUseError blocks a non-forced delete of a referenced package
type PackageInUseError struct {
	StudentCount int64
}

func (e *PackageInUseError) Error() string {
	return fmt.Sprintf("package is referenced by %d students", e.StudentCount)
}

func orderedInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("installment_number ASC")
}

// ListPackages returns newest first with the plan preloaded
func (r *Repository) ListPackages(ctx context.Context, includeInactive bool) ([]ds.Package, error) {
	var packages []ds.Package
	q := r.db.WithContext(ctx).Preload("Installments", orderedInstallments).Order("created_at DESC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *Repository) GetPackageByID(ctx context.Context, id uuid.UUID) (*ds.Package, error) {
	var p ds.Package
	err := r.db.WithContext(ctx).Preload("Installments", orderedInstallments).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetPackageBySlug(ctx context.Context, slug string) (*ds.Package, error) {
	var p ds.Package
	err := r.db.WithContext(ctx).Preload("Installments", orderedInstallments).First(&p, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SlugExists checks uniqueness, ignoring the package being edited
func (r *Repository) SlugExists(ctx context.Context, slug string, except *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&ds.Package{}).Where("slug = ?", slug)
	if except != nil {
		q = q.Where("id <> ?", *except)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// CreatePackage inserts the package and, for installment packages, its plan
func (r *Repository) CreatePackage(ctx context.Context, p *ds.Package) error {
	if p.PaymentType != ds.PaymentTypeInstallments {
		p.Installments = nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

// UpdatePackage saves p. A non-nil plan replaces the stored installments,
// which are only kept for installment packages. Students follow a slug
// rename so their reference stays resolvable.
func (r *Repository) UpdatePackage(ctx context.Context, p *ds.Package, prevSlug string, plan *[]ds.PackageInstallment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return err
		}

		if prevSlug != "" && prevSlug != p.Slug {
			err := tx.Model(&ds.Student{}).Where("package_type = ?", prevSlug).Update("package_type", p.Slug).Error
			if err != nil {
				return fmt.Errorf("rename student references: %w", err)
			}
		}

		if plan == nil {
			return nil
		}
		if err := tx.Where("package_id = ?", p.ID).Delete(&ds.PackageInstallment{}).Error; err != nil {
			return err
		}
		installments := *plan
		if p.PaymentType != ds.PaymentTypeInstallments || len(installments) == 0 {
			return nil
		}
		for i := range installments {
			installments[i].ID = uuid.Nil
			installments[i].PackageID = p.ID
		}
		return tx.Create(&installments).Error
	})
	if err != nil {
		return err
	}

	p.Installments = nil
	return r.db.WithContext(ctx).Where("package_id = ?", p.ID).Order("installment_number ASC").Find(&p.Installments).Error
}

func (r *Repository) CountStudentsByPackage(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ds.Student{}).Where("package_type = ?", slug).Count(&count).Error
	return count, err
}

// DeletePackage removes a package and its plan. Referenced packages need
// force, which detaches the students first.
func (r *Repository) DeletePackage(ctx context.Context, id uuid.UUID, force bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p ds.Package
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&ds.Student{}).Where("package_type = ?", p.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			if !force {
				return &PackageInUseError{StudentCount: count}
			}
			err := tx.Model(&ds.Student{}).Where("package_type = ?", p.Slug).Update("package_type", nil).Error
			if err != nil {
				return fmt.Errorf("detach students: %w", err)
			}
		}

		if err := tx.Where("package_id = ?", p.ID).Delete(&ds.PackageInstallment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}
