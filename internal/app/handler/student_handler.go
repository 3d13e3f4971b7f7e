package handler

import (
	"net/http"
	"strings"

	"academy/internal/app/billing"
	"academy/internal/app/ds"
	"academy/internal/app/dto"
	"academy/internal/app/repository"

	"github.com/gin-gonic/gin"
)

const (
	msgStudentNotFound = "Polaznik nije pronađen"
	msgUnknownPackage  = "Odabrani paket ne postoji"
	msgCompanyNameReq  = "Naziv firme je obavezan za pravne osobe"
	msgStatusBackwards = "Status se ne može vratiti unatrag"
)

func studentResponse(s ds.Student, status billing.Status) dto.StudentResponse {
	return dto.StudentResponse{
		Student:               s,
		PaidInstallmentsCount: status.Paid,
		TotalInstallments:     status.Total,
		PaymentStatus:         status.String(),
	}
}

// CreateStudent is the public enrollment endpoint
// @Summary Enroll a student
// @Tags Students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "student"
// @Success 201 {object} dto.StudentResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/students [post]
func (h *Handler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	ctx := c.Request.Context()

	s := &ds.Student{
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Address:             strings.TrimSpace(req.Address),
		PostalCode:          strings.TrimSpace(req.PostalCode),
		City:                strings.TrimSpace(req.City),
		Country:             strings.TrimSpace(req.Country),
		Phone:               strings.TrimSpace(req.Phone),
		Email:               strings.TrimSpace(req.Email),
		IDDocumentNumber:    trimmedOrNil(req.IDDocumentNumber),
		EntityType:          req.EntityType,
		PaymentMethod:       req.PaymentMethod,
		PackageType:         trimmedOrNil(req.PackageType),
		CompanyName:         trimmedOrNil(req.CompanyName),
		VATNumber:           trimmedOrNil(req.VATNumber),
		CompanyAddress:      trimmedOrNil(req.CompanyAddress),
		CompanyPostalCode:   trimmedOrNil(req.CompanyPostalCode),
		CompanyCity:         trimmedOrNil(req.CompanyCity),
		CompanyCountry:      trimmedOrNil(req.CompanyCountry),
		CompanyRegistration: trimmedOrNil(req.CompanyRegistration),
		EnrolledAt:          h.now(),
	}

	if errs := blankRequired(map[string]string{
		"first_name":  s.FirstName,
		"last_name":   s.LastName,
		"address":     s.Address,
		"postal_code": s.PostalCode,
		"city":        s.City,
		"country":     s.Country,
		"phone":       s.Phone,
		"email":       s.Email,
	}); errs != nil {
		h.fieldErrors(c, errs)
		return
	}
	if !h.checkStudent(c, s) {
		return
	}

	if err := h.Repository.CreateStudent(ctx, s); err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	h.respondStudent(c, http.StatusCreated, *s, nil)
}

// ListStudents returns every student with the derived payment status
func (h *Handler) ListStudents(c *gin.Context) {
	ctx := c.Request.Context()

	students, err := h.Repository.ListStudents(ctx, repository.StudentFilter{
		Status:      c.Query("status"),
		PackageType: c.Query("package_type"),
	})
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}

	statuses, err := h.Repository.PaymentStatuses(ctx, students)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}

	out := make([]dto.StudentResponse, len(students))
	for i, s := range students {
		out[i] = studentResponse(s, statuses[s.ID])
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := h.paramID(c, msgStudentNotFound)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	s, err := h.Repository.GetStudent(ctx, id)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	contracts, err := h.Repository.ContractsByStudent(ctx, id)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	h.respondStudent(c, http.StatusOK, *s, contracts)
}

// UpdateStudent applies a partial update. Status only moves forward.
func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := h.paramID(c, msgStudentNotFound)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	ctx := c.Request.Context()

	s, err := h.Repository.GetStudent(ctx, id)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}

	if req.Status != nil {
		if !s.CanMoveTo(*req.Status) {
			h.fieldError(c, "status", msgStatusBackwards)
			return
		}
		s.Status = *req.Status
	}

	supplied := map[string]string{}
	for field, f := range map[string]struct{ dst, v *string }{
		"first_name":  {&s.FirstName, req.FirstName},
		"last_name":   {&s.LastName, req.LastName},
		"address":     {&s.Address, req.Address},
		"postal_code": {&s.PostalCode, req.PostalCode},
		"city":        {&s.City, req.City},
		"country":     {&s.Country, req.Country},
		"phone":       {&s.Phone, req.Phone},
		"email":       {&s.Email, req.Email},
	} {
		if f.v != nil {
			setString(f.dst, f.v)
			supplied[field] = *f.dst
		}
	}
	if errs := blankRequired(supplied); errs != nil {
		h.fieldErrors(c, errs)
		return
	}
	setString(&s.EntityType, req.EntityType)
	setString(&s.PaymentMethod, req.PaymentMethod)

	setOptional(&s.IDDocumentNumber, req.IDDocumentNumber)
	setOptional(&s.PackageType, req.PackageType)
	setOptional(&s.CompanyName, req.CompanyName)
	setOptional(&s.VATNumber, req.VATNumber)
	setOptional(&s.CompanyAddress, req.CompanyAddress)
	setOptional(&s.CompanyPostalCode, req.CompanyPostalCode)
	setOptional(&s.CompanyCity, req.CompanyCity)
	setOptional(&s.CompanyCountry, req.CompanyCountry)
	setOptional(&s.CompanyRegistration, req.CompanyRegistration)

	if !h.checkStudent(c, s) {
		return
	}

	if err := h.Repository.SaveStudent(ctx, s); err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	contracts, err := h.Repository.ContractsByStudent(ctx, id)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	h.respondStudent(c, http.StatusOK, *s, contracts)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := h.paramID(c, msgStudentNotFound)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	contracts, err := h.Repository.ContractsByStudent(ctx, id)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	if err := h.Repository.DeleteStudent(ctx, id); err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}

	if h.Documents != nil && len(contracts) > 0 {
		numbers := make([]string, len(contracts))
		for i, ct := range contracts {
			numbers[i] = ct.ContractNumber
		}
		h.Documents.Forget(ctx, numbers)
	}
	c.Status(http.StatusNoContent)
}

// checkStudent enforces company and package rules before a write.
// On failure the 422 response is already written.
func (h *Handler) checkStudent(c *gin.Context, s *ds.Student) bool {
	if s.EntityType == ds.EntityCompany {
		if s.CompanyName == nil || strings.TrimSpace(*s.CompanyName) == "" {
			h.fieldError(c, "company_name", msgCompanyNameReq)
			return false
		}
	} else {
		s.ClearCompanyFields()
	}

	if slug := s.PackageSlug(); slug != "" {
		exists, err := h.Repository.SlugExists(c.Request.Context(), slug, nil)
		if err != nil {
			h.handleError(c, err, msgStudentNotFound)
			return false
		}
		if !exists {
			h.fieldError(c, "package_type", msgUnknownPackage)
			return false
		}
	}
	return true
}

func (h *Handler) respondStudent(c *gin.Context, code int, s ds.Student, contracts []ds.Contract) {
	statuses, err := h.Repository.PaymentStatuses(c.Request.Context(), []ds.Student{s})
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	resp := studentResponse(s, statuses[s.ID])
	resp.Contracts = contracts
	c.JSON(code, resp)
}

// blankRequired reports required fields left empty after trimming.
// Binding only sees the raw value, so "   " gets past required and min=1.
func blankRequired(values map[string]string) map[string]string {
	var errs map[string]string
	for field, v := range values {
		if v != "" {
			continue
		}
		if errs == nil {
			errs = map[string]string{}
		}
		errs[field] = "Polje je obavezno"
	}
	return errs
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setOptional(dst **string, v dto.Optional[string]) {
	if v.Set {
		*dst = trimmedOrNil(v.Value)
	}
}
