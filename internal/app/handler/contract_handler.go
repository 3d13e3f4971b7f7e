package handler

import (
	"fmt"
	"net/http"

	"academy/internal/app/contract"
	"academy/internal/app/dto"
	"academy/internal/app/notify"
	"academy/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const msgContractNotFound = "Ugovor nije pronađen"

// PreviewContract renders the contract text without storing anything
// @Summary Contract preview
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body dto.PreviewContractRequest true "student"
// @Success 200 {object} dto.PreviewContractResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/contracts/preview [post]
func (h *Handler) PreviewContract(c *gin.Context) {
	var req dto.PreviewContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	student, pkg, err := h.Repository.ContractContext(c.Request.Context(), uuid.MustParse(req.StudentID))
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}

	content, err := contract.Render(student, pkg, h.now(), h.Config.Contract.Currency)
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}
	c.JSON(http.StatusOK, dto.PreviewContractResponse{Content: content})
}

// SignContract stores the signed contract and queues the notification mails
// @Summary Sign a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body dto.SignContractRequest true "signature"
// @Success 201 {object} ds.Contract
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/contracts [post]
func (h *Handler) SignContract(c *gin.Context) {
	var req dto.SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	ip := c.ClientIP()
	ua := c.Request.UserAgent()
	res, err := h.Repository.SignContract(c.Request.Context(), repository.SignInput{
		StudentID:     uuid.MustParse(req.StudentID),
		SignatureData: req.SignatureData,
		IPAddress:     trimmedOrNil(&ip),
		UserAgent:     trimmedOrNil(&ua),
		SignedAt:      h.now(),
		NumberPrefix:  h.Config.Contract.NumberPrefix,
		Currency:      h.Config.Contract.Currency,
	})
	if err != nil {
		h.handleError(c, err, msgStudentNotFound)
		return
	}

	logrus.WithFields(logrus.Fields{
		"contract": res.Contract.ContractNumber,
		"student":  res.Student.ID,
	}).Info("contract signed")

	if h.Notifier != nil {
		h.Notifier.Enqueue(notify.ContractSigned{
			Contract:    res.Contract,
			Student:     res.Student,
			PackageName: res.Package.Name,
			PackageSlug: res.Package.Slug,
		})
	}

	c.JSON(http.StatusCreated, res.Contract)
}

func (h *Handler) ListContracts(c *gin.Context) {
	contracts, err := h.Repository.ListContracts(c.Request.Context())
	if err != nil {
		h.handleError(c, err, msgContractNotFound)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) GetContract(c *gin.Context) {
	id, ok := h.paramID(c, msgContractNotFound)
	if !ok {
		return
	}

	contract, err := h.Repository.GetContract(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, msgContractNotFound)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// DownloadContractPDF serves the frozen contract text as PDF
func (h *Handler) DownloadContractPDF(c *gin.Context) {
	id, ok := h.paramID(c, msgContractNotFound)
	if !ok {
		return
	}
	if h.Documents == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, "Generiranje PDF-a nije dostupno")
		return
	}
	ctx := c.Request.Context()

	ct, err := h.Repository.GetContract(ctx, id)
	if err != nil {
		h.handleError(c, err, msgContractNotFound)
		return
	}
	if ct.Student == nil {
		h.errorResponse(c, http.StatusNotFound, msgStudentNotFound)
		return
	}

	var packageName, packageSlug string
	if slug := ct.Student.PackageSlug(); slug != "" {
		if p, err := h.Repository.GetPackageBySlug(ctx, slug); err == nil {
			packageName, packageSlug = p.Name, p.Slug
		}
	}

	data, err := h.Documents.ContractPDF(ctx, ct, ct.Student, packageName)
	if err != nil {
		logrus.Errorf("contract %s pdf: %v", ct.ContractNumber, err)
		h.errorResponse(c, http.StatusBadGateway, "PDF nije moguće generirati")
		return
	}

	fileName := contract.FileName(packageSlug, ct.Student.FirstName, ct.Student.LastName, ct.SignedAt)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", data)
}
