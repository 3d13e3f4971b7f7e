package handler

import (
	"net/http"
	"time"

	"academy/internal/app/billing"
	"academy/internal/app/ds"
	"academy/internal/app/dto"
	"academy/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgPaymentNotFound = "Uplata nije pronađena"
	msgInvalidDate     = "Neispravan datum"
)

// ledgerFilter reads ?student_id= and ?status= shared by payments and invoices
func (h *Handler) ledgerFilter(c *gin.Context) (repository.LedgerFilter, bool) {
	f := repository.LedgerFilter{Status: c.Query("status")}
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.fieldError(c, "student_id", "Neispravan identifikator")
			return f, false
		}
		f.StudentID = &id
	}
	return f, true
}

// checkLedgerStudent answers 422 when the referenced student does not exist
func (h *Handler) checkLedgerStudent(c *gin.Context, raw string) (uuid.UUID, bool) {
	id := uuid.MustParse(raw)
	exists, err := h.Repository.StudentExists(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return uuid.Nil, false
	}
	if !exists {
		h.fieldError(c, "student_id", msgStudentNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// optionalTime parses an Optional date field. ok is false after a 422 was sent.
func (h *Handler) optionalTime(c *gin.Context, field string, v dto.Optional[string]) (*time.Time, bool) {
	if !v.Set {
		return nil, true
	}
	t, err := parseOptionalTime(v.Value)
	if err != nil {
		h.fieldError(c, field, msgInvalidDate)
		return nil, false
	}
	return t, true
}

func (h *Handler) ListPayments(c *gin.Context) {
	f, ok := h.ledgerFilter(c)
	if !ok {
		return
	}
	payments, err := h.Repository.ListPayments(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := h.paramID(c, msgPaymentNotFound)
	if !ok {
		return
	}
	p, err := h.Repository.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePayment records an installment or full payment
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePaymentRequest true "payment"
// @Success 201 {object} ds.Payment
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/payments [post]
func (h *Handler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		h.fieldError(c, "amount", msgNegative)
		return
	}

	paidAt, err := parseOptionalTime(req.PaidAt)
	if err != nil {
		h.fieldError(c, "paid_at", msgInvalidDate)
		return
	}
	studentID, ok := h.checkLedgerStudent(c, req.StudentID)
	if !ok {
		return
	}

	p := &ds.Payment{
		StudentID:         studentID,
		InstallmentNumber: req.InstallmentNumber,
		Amount:            money(*req.Amount),
		Status:            req.Status,
		PaidAt:            billing.ResolvePaidAt(req.Status, nil, paidAt, h.now()),
		Notes:             trimmedOrNil(req.Notes),
	}
	if err := h.Repository.CreatePayment(c.Request.Context(), p); err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := h.paramID(c, msgPaymentNotFound)
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		h.fieldError(c, "amount", msgNegative)
		return
	}
	if n := req.InstallmentNumber; n.Set && n.Value != nil && *n.Value < 1 {
		h.fieldError(c, "installment_number", "Najmanja vrijednost je 1")
		return
	}
	supplied, ok := h.optionalTime(c, "paid_at", req.PaidAt)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	p, err := h.Repository.GetPayment(ctx, id)
	if err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}

	if req.InstallmentNumber.Set {
		p.InstallmentNumber = req.InstallmentNumber.Value
	}
	if req.Amount != nil {
		p.Amount = money(*req.Amount)
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Notes.Set {
		p.Notes = trimmedOrNil(req.Notes.Value)
	}

	if req.PaidAt.Set && supplied == nil {
		// explicit null
		p.PaidAt = nil
	} else {
		p.PaidAt = billing.ResolvePaidAt(p.Status, p.PaidAt, supplied, h.now())
	}

	if err := h.Repository.SavePayment(ctx, p); err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := h.paramID(c, msgPaymentNotFound)
	if !ok {
		return
	}
	if err := h.Repository.DeletePayment(c.Request.Context(), id); err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkPaymentPaid sets status paid. An existing paid_at is kept unless one is supplied.
func (h *Handler) MarkPaymentPaid(c *gin.Context) {
	id, ok := h.paramID(c, msgPaymentNotFound)
	if !ok {
		return
	}
	var req dto.MarkPaidRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.bindingError(c, err)
			return
		}
	}
	supplied, err := parseOptionalTime(req.PaidAt)
	if err != nil {
		h.fieldError(c, "paid_at", msgInvalidDate)
		return
	}
	ctx := c.Request.Context()

	p, err := h.Repository.GetPayment(ctx, id)
	if err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}

	p.Status = ds.LedgerPaid
	p.PaidAt = billing.ResolvePaidAt(p.Status, p.PaidAt, supplied, h.now())
	if notes := trimmedOrNil(req.Notes); notes != nil {
		p.Notes = notes
	}

	if err := h.Repository.SavePayment(ctx, p); err != nil {
		h.handleError(c, err, msgPaymentNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}
