package handler

import (
	"net/http"
	"strings"

	"academy/internal/app/billing"
	"academy/internal/app/ds"
	"academy/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const msgInvoiceNotFound = "Račun nije pronađen"

var maxVATRate = decimal.NewFromInt(100)

// invoiceAmountErrors checks signs and keeps the VAT rate a percentage
func invoiceAmountErrors(total, vatRate *decimal.Decimal) map[string]string {
	errs := negativeAmounts(map[string]*decimal.Decimal{"total_amount": total, "vat_rate": vatRate})
	if vatRate != nil && vatRate.GreaterThan(maxVATRate) {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["vat_rate"] = "Najveća vrijednost je 100"
	}
	return errs
}

func (h *Handler) ListInvoices(c *gin.Context) {
	f, ok := h.ledgerFilter(c)
	if !ok {
		return
	}
	invoices, err := h.Repository.ListInvoices(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := h.paramID(c, msgInvoiceNotFound)
	if !ok {
		return
	}
	inv, err := h.Repository.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// CreateInvoice issues a numbered invoice. mark_as_paid books it as paid
// on payment_date, or now when no date is given.
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInvoiceRequest true "invoice"
// @Success 201 {object} ds.Invoice
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/invoices [post]
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	if errs := invoiceAmountErrors(req.TotalAmount, req.VATRate); errs != nil {
		h.fieldErrors(c, errs)
		return
	}

	invoiceDate, err := parseTime(req.InvoiceDate)
	if err != nil {
		h.fieldError(c, "invoice_date", msgInvalidDate)
		return
	}
	paymentDate, err := parseOptionalTime(req.PaymentDate)
	if err != nil {
		h.fieldError(c, "payment_date", msgInvalidDate)
		return
	}
	studentID, ok := h.checkLedgerStudent(c, req.StudentID)
	if !ok {
		return
	}

	inv := &ds.Invoice{
		StudentID:         studentID,
		InvoiceDate:       invoiceDate,
		Description:       strings.TrimSpace(req.Description),
		TotalAmount:       money(*req.TotalAmount),
		VATRate:           decimal.Zero,
		InstallmentNumber: req.InstallmentNumber,
		Status:            ds.LedgerPending,
		Notes:             trimmedOrNil(req.Notes),
	}
	if req.VATRate != nil {
		inv.VATRate = money(*req.VATRate)
	}
	if req.MarkAsPaid {
		inv.Status = ds.LedgerPaid
		inv.PaidAt = billing.ResolvePaidAt(inv.Status, nil, paymentDate, h.now())
	}

	if err := h.Repository.CreateInvoice(c.Request.Context(), inv, h.Config.Contract.InvoicePrefix); err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, ok := h.paramID(c, msgInvoiceNotFound)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	if errs := invoiceAmountErrors(req.TotalAmount, req.VATRate); errs != nil {
		h.fieldErrors(c, errs)
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

	inv, err := h.Repository.GetInvoice(ctx, id)
	if err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}

	if req.InvoiceDate != nil {
		t, err := parseTime(*req.InvoiceDate)
		if err != nil {
			h.fieldError(c, "invoice_date", msgInvalidDate)
			return
		}
		inv.InvoiceDate = t
	}
	if req.Description != nil {
		inv.Description = strings.TrimSpace(*req.Description)
	}
	if req.TotalAmount != nil {
		inv.TotalAmount = money(*req.TotalAmount)
	}
	if req.VATRate != nil {
		inv.VATRate = money(*req.VATRate)
	}
	if req.InstallmentNumber.Set {
		inv.InstallmentNumber = req.InstallmentNumber.Value
	}
	if req.Status != nil {
		inv.Status = *req.Status
	}
	if req.Notes.Set {
		inv.Notes = trimmedOrNil(req.Notes.Value)
	}

	if req.PaidAt.Set && supplied == nil {
		inv.PaidAt = nil
	} else {
		inv.PaidAt = billing.ResolvePaidAt(inv.Status, inv.PaidAt, supplied, h.now())
	}

	if err := h.Repository.SaveInvoice(ctx, inv); err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, ok := h.paramID(c, msgInvoiceNotFound)
	if !ok {
		return
	}
	if err := h.Repository.DeleteInvoice(c.Request.Context(), id); err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkInvoicePaid(c *gin.Context) {
	id, ok := h.paramID(c, msgInvoiceNotFound)
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

	inv, err := h.Repository.GetInvoice(ctx, id)
	if err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}

	inv.Status = ds.LedgerPaid
	inv.PaidAt = billing.ResolvePaidAt(inv.Status, inv.PaidAt, supplied, h.now())
	if notes := trimmedOrNil(req.Notes); notes != nil {
		inv.Notes = notes
	}

	if err := h.Repository.SaveInvoice(ctx, inv); err != nil {
		h.handleError(c, err, msgInvoiceNotFound)
		return
	}
	c.JSON(http.StatusOK, inv)
}
