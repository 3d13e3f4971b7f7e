package ds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 2. Installment plan rows of a package. Replaced as a whole on every package edit
type PackageInstallment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PackageID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_package_installment" json:"package_id"`
	InstallmentNumber int             `gorm:"not null;uniqueIndex:idx_package_installment" json:"installment_number"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	DueDescription    *string         `gorm:"type:varchar(255)" json:"due_description"`
	DueDate           *time.Time      `json:"due_date"`
	DueDays           *int            `json:"due_days"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (i *PackageInstallment) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}
