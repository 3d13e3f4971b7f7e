package ds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger entry statuses shared by payments and invoices
const (
	LedgerPending = "pending"
	LedgerPaid    = "paid"
)

// 5. Payments table - money owed/received per installment
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	InstallmentNumber *int            `json:"installment_number"` // nil = the one full payment
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status            string          `gorm:"type:varchar(20);not null;index" json:"status"` // pending, paid
	PaidAt            *time.Time      `json:"paid_at"`
	Notes             *string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
