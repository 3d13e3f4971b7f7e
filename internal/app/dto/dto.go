package dto

import (
	"bytes"
	"encoding/json"

	"academy/internal/app/ds"

	"github.com/shopspring/decimal"
)

// ============ Common ============

type ErrorResponse struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Optional tells an absent field from an explicit null.
// Set is true whenever the key was present in the body.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// ============ Packages ============

type InstallmentRequest struct {
	InstallmentNumber int              `json:"installment_number" binding:"required,min=1"`
	Amount            *decimal.Decimal `json:"amount" binding:"required"`
	DueDescription    *string          `json:"due_description" binding:"omitempty,max=255"`
	DueDate           *string          `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	DueDays           *int             `json:"due_days" binding:"omitempty,min=0"`
}

type CreatePackageRequest struct {
	Name                         string               `json:"name" binding:"required,max=255"`
	Slug                         *string              `json:"slug" binding:"omitempty,max=255"`
	Price                        *decimal.Decimal     `json:"price" binding:"required"`
	DiscountPrice                *decimal.Decimal     `json:"discount_price"`
	PaymentType                  string               `json:"payment_type" binding:"required,oneof=fixed installments"`
	Description                  *string              `json:"description"`
	ImageURL                     *string              `json:"image_url" binding:"omitempty,max=500"`
	DurationDays                 *int                 `json:"duration_days" binding:"omitempty,min=1"`
	Features                     []string             `json:"features"`
	IsActive                     *bool                `json:"is_active"`
	ShowOnLanding                *bool                `json:"show_on_landing"`
	ShowFirstInstallmentReminder *bool                `json:"show_first_installment_reminder"`
	HasContract                  *bool                `json:"has_contract"`
	ContractTemplateIndividual   *string              `json:"contract_template_individual"`
	ContractTemplateCompany      *string              `json:"contract_template_company"`
	Installments                 []InstallmentRequest `json:"installments" binding:"omitempty,dive"`
}

// UpdatePackageRequest: nil pointer = keep, Optional with nil Value = clear
type UpdatePackageRequest struct {
	Name                         *string                   `json:"name" binding:"omitempty,min=1,max=255"`
	Slug                         *string                   `json:"slug" binding:"omitempty,min=1,max=255"`
	Price                        *decimal.Decimal          `json:"price"`
	DiscountPrice                Optional[decimal.Decimal] `json:"discount_price"`
	PaymentType                  *string                   `json:"payment_type" binding:"omitempty,oneof=fixed installments"`
	Description                  Optional[string]          `json:"description"`
	ImageURL                     Optional[string]          `json:"image_url"`
	DurationDays                 *int                      `json:"duration_days" binding:"omitempty,min=1"`
	Features                     Optional[[]string]        `json:"features"`
	IsActive                     *bool                     `json:"is_active"`
	ShowOnLanding                *bool                     `json:"show_on_landing"`
	ShowFirstInstallmentReminder *bool                     `json:"show_first_installment_reminder"`
	HasContract                  *bool                     `json:"has_contract"`
	ContractTemplateIndividual   Optional[string]          `json:"contract_template_individual"`
	ContractTemplateCompany      Optional[string]          `json:"contract_template_company"`
	Installments                 []InstallmentRequest      `json:"installments" binding:"omitempty,dive"`
}

// ============ Students ============

type CompanyFields struct {
	CompanyName         *string `json:"company_name" binding:"omitempty,max=255"`
	VATNumber           *string `json:"vat_number" binding:"omitempty,max=100"`
	CompanyAddress      *string `json:"company_address" binding:"omitempty,max=255"`
	CompanyPostalCode   *string `json:"company_postal_code" binding:"omitempty,max=20"`
	CompanyCity         *string `json:"company_city" binding:"omitempty,max=255"`
	CompanyCountry      *string `json:"company_country" binding:"omitempty,max=255"`
	CompanyRegistration *string `json:"company_registration" binding:"omitempty,max=100"`
}

type CreateStudentRequest struct {
	FirstName        string  `json:"first_name" binding:"required,max=255"`
	LastName         string  `json:"last_name" binding:"required,max=255"`
	Address          string  `json:"address" binding:"required,max=255"`
	PostalCode       string  `json:"postal_code" binding:"required,max=20"`
	City             string  `json:"city" binding:"required,max=255"`
	Country          string  `json:"country" binding:"required,max=255"`
	Phone            string  `json:"phone" binding:"required,max=50"`
	Email            string  `json:"email" binding:"required,email,max=255"`
	IDDocumentNumber *string `json:"id_document_number" binding:"omitempty,max=100"`
	EntityType       string  `json:"entity_type" binding:"required,oneof=individual company"`
	PaymentMethod    string  `json:"payment_method" binding:"required,oneof=full installments"`
	PackageType      *string `json:"package_type" binding:"omitempty,max=255"`
	CompanyFields
}

type UpdateStudentRequest struct {
	FirstName           *string          `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName            *string          `json:"last_name" binding:"omitempty,min=1,max=255"`
	Address             *string          `json:"address" binding:"omitempty,max=255"`
	PostalCode          *string          `json:"postal_code" binding:"omitempty,max=20"`
	City                *string          `json:"city" binding:"omitempty,max=255"`
	Country             *string          `json:"country" binding:"omitempty,max=255"`
	Phone               *string          `json:"phone" binding:"omitempty,max=50"`
	Email               *string          `json:"email" binding:"omitempty,email,max=255"`
	IDDocumentNumber    Optional[string] `json:"id_document_number"`
	EntityType          *string          `json:"entity_type" binding:"omitempty,oneof=individual company"`
	PaymentMethod       *string          `json:"payment_method" binding:"omitempty,oneof=full installments"`
	PackageType         Optional[string] `json:"package_type"`
	Status              *string          `json:"status" binding:"omitempty,oneof=enrolled contract_signed completed"`
	CompanyName         Optional[string] `json:"company_name"`
	VATNumber           Optional[string] `json:"vat_number"`
	CompanyAddress      Optional[string] `json:"company_address"`
	CompanyPostalCode   Optional[string] `json:"company_postal_code"`
	CompanyCity         Optional[string] `json:"company_city"`
	CompanyCountry      Optional[string] `json:"company_country"`
	CompanyRegistration Optional[string] `json:"company_registration"`
}

// StudentResponse adds the reconciled payment status to a student
type StudentResponse struct {
	ds.Student
	PaidInstallmentsCount int           `json:"paid_installments_count"`
	TotalInstallments     int           `json:"total_installments"`
	PaymentStatus         string        `json:"payment_status"`
	Contracts             []ds.Contract `json:"contracts,omitempty"`
}

// ============ Contracts ============

type PreviewContractRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

type PreviewContractResponse struct {
	Content string `json:"content"`
}

type SignContractRequest struct {
	StudentID     string `json:"student_id" binding:"required,uuid"`
	SignatureData string `json:"signature_data" binding:"required"`
}

// ============ Payments ============

type CreatePaymentRequest struct {
	StudentID         string           `json:"student_id" binding:"required,uuid"`
	InstallmentNumber *int             `json:"installment_number" binding:"omitempty,min=1"`
	Amount            *decimal.Decimal `json:"amount" binding:"required"`
	Status            string           `json:"status" binding:"required,oneof=pending paid"`
	PaidAt            *string          `json:"paid_at"`
	Notes             *string          `json:"notes"`
}

type UpdatePaymentRequest struct {
	InstallmentNumber Optional[int]    `json:"installment_number"`
	Amount            *decimal.Decimal `json:"amount"`
	Status            *string          `json:"status" binding:"omitempty,oneof=pending paid"`
	PaidAt            Optional[string] `json:"paid_at"`
	Notes             Optional[string] `json:"notes"`
}

// MarkPaidRequest is shared by payments and invoices
type MarkPaidRequest struct {
	PaidAt *string `json:"paid_at"`
	Notes  *string `json:"notes"`
}

// ============ Invoices ============

type CreateInvoiceRequest struct {
	StudentID         string           `json:"student_id" binding:"required,uuid"`
	InvoiceDate       string           `json:"invoice_date" binding:"required"`
	PaymentDate       *string          `json:"payment_date"`
	Description       string           `json:"description" binding:"max=2000"`
	TotalAmount       *decimal.Decimal `json:"total_amount" binding:"required"`
	VATRate           *decimal.Decimal `json:"vat_rate"`
	InstallmentNumber *int             `json:"installment_number" binding:"omitempty,min=1"`
	MarkAsPaid        bool             `json:"mark_as_paid"`
	Notes             *string          `json:"notes"`
}

type UpdateInvoiceRequest struct {
	InvoiceDate       *string          `json:"invoice_date"`
	Description       *string          `json:"description" binding:"omitempty,max=2000"`
	TotalAmount       *decimal.Decimal `json:"total_amount"`
	VATRate           *decimal.Decimal `json:"vat_rate"`
	InstallmentNumber Optional[int]    `json:"installment_number"`
	Status            *string          `json:"status" binding:"omitempty,oneof=pending paid"`
	PaidAt            Optional[string] `json:"paid_at"`
	Notes             Optional[string] `json:"notes"`
}

// ============ Users ============

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
