package ds

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity types
const (
	EntityIndividual = "individual"
	EntityCompany    = "company"
)

// Payment methods chosen by a student
const (
	PaymentMethodFull         = "full"
	PaymentMethodInstallments = "installments"
)

// Student lifecycle, only moves forward
const (
	StudentEnrolled       = "enrolled"
	StudentContractSigned = "contract_signed"
	StudentCompleted      = "completed"
)

var studentStatusRank = map[string]int{
	StudentEnrolled:       0,
	StudentContractSigned: 1,
	StudentCompleted:      2,
}

// 3. Students table
type Student struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName        string    `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName         string    `gorm:"type:varchar(255);not null" json:"last_name"`
	Address          string    `gorm:"type:varchar(255)" json:"address"`
	PostalCode       string    `gorm:"type:varchar(20)" json:"postal_code"`
	City             string    `gorm:"type:varchar(255)" json:"city"`
	Country          string    `gorm:"type:varchar(255)" json:"country"`
	Phone            string    `gorm:"type:varchar(50)" json:"phone"`
	Email            string    `gorm:"type:varchar(255);not null" json:"email"`
	IDDocumentNumber *string   `gorm:"type:varchar(100)" json:"id_document_number"`
	EntityType       string    `gorm:"type:varchar(20);not null" json:"entity_type"`    // individual, company
	PaymentMethod    string    `gorm:"type:varchar(20);not null" json:"payment_method"` // full, installments
	// Slug of the package. Lookup only, there is no foreign key on purpose:
	// a forced package delete nulls it out instead of cascading.
	PackageType *string `gorm:"type:varchar(255);index" json:"package_type"`

	CompanyName         *string `gorm:"type:varchar(255)" json:"company_name"`
	VATNumber           *string `gorm:"column:vat_number;type:varchar(100)" json:"vat_number"`
	CompanyAddress      *string `gorm:"type:varchar(255)" json:"company_address"`
	CompanyPostalCode   *string `gorm:"type:varchar(20)" json:"company_postal_code"`
	CompanyCity         *string `gorm:"type:varchar(255)" json:"company_city"`
	CompanyCountry      *string `gorm:"type:varchar(255)" json:"company_country"`
	CompanyRegistration *string `gorm:"type:varchar(100)" json:"company_registration"`

	Status     string    `gorm:"type:varchar(20);not null;index" json:"status"` // enrolled, contract_signed, completed
	EnrolledAt time.Time `gorm:"not null" json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	if s.Status == "" {
		s.Status = StudentEnrolled
	}
	if s.EnrolledAt.IsZero() {
		s.EnrolledAt = time.Now()
	}
	return nil
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// PackageSlug returns the referenced slug or "" for orphaned students
func (s *Student) PackageSlug() string {
	if s.PackageType == nil {
		return ""
	}
	return *s.PackageType
}

// ClearCompanyFields drops company data from individual students
func (s *Student) ClearCompanyFields() {
	s.CompanyName = nil
	s.VATNumber = nil
	s.CompanyAddress = nil
	s.CompanyPostalCode = nil
	s.CompanyCity = nil
	s.CompanyCountry = nil
	s.CompanyRegistration = nil
}

// CanMoveTo reports whether the lifecycle allows going from the current status to next.
func (s *Student) CanMoveTo(next string) bool {
	to, ok := studentStatusRank[next]
	if !ok {
		return false
	}
	return to >= studentStatusRank[s.Status]
}
