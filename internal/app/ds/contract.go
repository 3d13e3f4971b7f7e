package ds

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrContractImmutable = errors.New("signed contracts cannot be modified")

// 4. Contracts table - point-in-time legal artifact, written once at signing
type Contract struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	ContractNumber  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"contract_number"`
	ContractType    string    `gorm:"type:varchar(20);not null" json:"contract_type"` // entity type at signing time
	ContractContent string    `gorm:"type:text;not null" json:"contract_content"`
	SignatureData   string    `gorm:"type:text;not null" json:"signature_data"`
	SignedAt        time.Time `gorm:"not null" json:"signed_at"`
	IPAddress       *string   `gorm:"type:varchar(64)" json:"ip_address"`
	UserAgent       *string   `gorm:"type:text" json:"user_agent"`
	CreatedAt       time.Time `json:"created_at"`

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (c *Contract) BeforeUpdate(tx *gorm.DB) error {
	return ErrContractImmutable
}
