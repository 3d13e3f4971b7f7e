package repository

import (
	"context"
	"errors"
	"time"

	"academy/internal/app/contract"
	"academy/internal/app/ds"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SignInput struct {
	StudentID     uuid.UUID
	SignatureData string
	IPAddress     *string
	UserAgent     *string
	SignedAt      time.Time
	NumberPrefix  string
	Currency      string
}

// SignResult holds committed copies used for the response and notifications
type SignResult struct {
	Contract ds.Contract
	Student  ds.Student
	Package  ds.Package
}

// ContractContext loads a student and the package it references.
// The package is nil when the slug is empty or dangling.
func (r *Repository) ContractContext(ctx context.Context, studentID uuid.UUID) (*ds.Student, *ds.Package, error) {
	return loadContractContext(r.db.WithContext(ctx), studentID)
}

func loadContractContext(db *gorm.DB, studentID uuid.UUID) (*ds.Student, *ds.Package, error) {
	var student ds.Student
	if err := db.First(&student, "id = ?", studentID).Error; err != nil {
		return nil, nil, err
	}

	slug := student.PackageSlug()
	if slug == "" {
		return &student, nil, nil
	}

	var p ds.Package
	err := db.First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &student, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &student, &p, nil
}

// SignContract renders, numbers and stores a contract and moves an enrolled
// student to contract_signed, all in one transaction. Nothing is written
// when the package or its template is missing.
func (r *Repository) SignContract(ctx context.Context, in SignInput) (*SignResult, error) {
	var res SignResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, pkg, err := loadContractContext(tx, in.StudentID)
		if err != nil {
			return err
		}

		content, err := contract.Render(student, pkg, in.SignedAt, in.Currency)
		if err != nil {
			return err
		}

		year := in.SignedAt.Year()
		seq, err := nextSequence(tx, sequenceName("contract", year))
		if err != nil {
			return err
		}

		c := ds.Contract{
			StudentID:       student.ID,
			ContractNumber:  FormatNumber(in.NumberPrefix, year, seq),
			ContractType:    student.EntityType,
			ContractContent: content,
			SignatureData:   in.SignatureData,
			SignedAt:        in.SignedAt,
			IPAddress:       in.IPAddress,
			UserAgent:       in.UserAgent,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}

		if student.Status == ds.StudentEnrolled {
			if err := tx.Model(student).Update("status", ds.StudentContractSigned).Error; err != nil {
				return err
			}
			student.Status = ds.StudentContractSigned
		}

		res = SignResult{Contract: c, Student: *student, Package: *pkg}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) ListContracts(ctx context.Context) ([]ds.Contract, error) {
	var contracts []ds.Contract
	err := r.db.WithContext(ctx).Preload("Student").Order("created_at DESC").Find(&contracts).Error
	return contracts, err
}

func (r *Repository) GetContract(ctx context.Context, id uuid.UUID) (*ds.Contract, error) {
	var c ds.Contract
	if err := r.db.WithContext(ctx).Preload("Student").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
