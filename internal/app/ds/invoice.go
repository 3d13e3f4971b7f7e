package ds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 6. Invoices table - the ledger the payment status is derived from
type Invoice struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	InvoiceNumber     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	InvoiceDate       time.Time       `gorm:"not null" json:"invoice_date"`
	Description       string          `gorm:"type:text" json:"description"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"` // gross
	VATRate           decimal.Decimal `gorm:"column:vat_rate;type:decimal(5,2);not null" json:"vat_rate"`
	NetAmount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"net_amount"`
	VATAmount         decimal.Decimal `gorm:"column:vat_amount;type:decimal(10,2);not null" json:"vat_amount"`
	InstallmentNumber *int            `json:"installment_number"`
	Status            string          `gorm:"type:varchar(20);not null;index" json:"status"` // pending, paid
	PaidAt            *time.Time      `json:"paid_at"`
	Notes             *string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

var hundred = decimal.NewFromInt(100)

// SplitVAT derives net and VAT parts from the gross total
func (i *Invoice) SplitVAT() {
	divisor := decimal.NewFromInt(1).Add(i.VATRate.Div(hundred))
	i.NetAmount = i.TotalAmount.DivRound(divisor, 2)
	i.VATAmount = i.TotalAmount.Sub(i.NetAmount)
}
