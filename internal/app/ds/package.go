package ds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment types of a package
const (
	PaymentTypeFixed        = "fixed"
	PaymentTypeInstallments = "installments"
)

// 1. Packages table - sellable offerings with their contract templates
type Package struct {
	ID                           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name                         string           `gorm:"type:varchar(255);not null" json:"name"`
	Slug                         string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Price                        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice                *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_price"`
	PaymentType                  string           `gorm:"type:varchar(20);not null" json:"payment_type"` // fixed, installments
	Description                  *string          `gorm:"type:text" json:"description"`
	ImageURL                     *string          `gorm:"type:varchar(500)" json:"image_url"`
	DurationDays                 int              `gorm:"type:int;not null" json:"duration_days"`
	Features                     datatypes.JSON   `json:"features"`
	IsActive                     bool             `gorm:"not null" json:"is_active"`
	ShowOnLanding                bool             `gorm:"not null" json:"show_on_landing"`
	ShowFirstInstallmentReminder bool             `gorm:"not null" json:"show_first_installment_reminder"`
	HasContract                  bool             `gorm:"not null" json:"has_contract"`
	ContractTemplateIndividual   *string          `gorm:"type:text" json:"contract_template_individual"`
	ContractTemplateCompany      *string          `gorm:"type:text" json:"contract_template_company"`
	CreatedAt                    time.Time        `json:"created_at"`
	UpdatedAt                    time.Time        `json:"updated_at"`

	Installments []PackageInstallment `gorm:"foreignKey:PackageID" json:"installments"`
}

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// ContractTemplate picks the template body for an entity type.
// An empty string means the package has no template for it.
func (p *Package) ContractTemplate(entityType string) string {
	tpl := p.ContractTemplateIndividual
	if entityType == EntityCompany {
		tpl = p.ContractTemplateCompany
	}
	if tpl == nil {
		return ""
	}
	return *tpl
}
