package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"academy/internal/app/apperr"
	"academy/internal/app/ds"
	"academy/internal/app/dto"
	"academy/internal/app/repository"
	"academy/internal/app/slug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgPackageNotFound = "Paket nije pronađen"
	msgSlugTaken       = "Slug je već zauzet"
	defaultDuration    = 60
	slugAttempts       = 5
)

// ListPackages returns active packages, all of them with ?include_inactive
// @Summary Package catalog
// @Tags Packages
// @Produce json
// @Param include_inactive query string false "any value includes inactive packages"
// @Success 200 {array} ds.Package
// @Router /api/packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	_, includeInactive := c.GetQuery("include_inactive")

	packages, err := h.Repository.ListPackages(c.Request.Context(), includeInactive)
	if err != nil {
		h.handleError(c, err, msgPackageNotFound)
		return
	}
	c.JSON(http.StatusOK, packages)
}

func (h *Handler) GetPackage(c *gin.Context) {
	id, ok := h.paramID(c, msgPackageNotFound)
	if !ok {
		return
	}

	p, err := h.Repository.GetPackageByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, msgPackageNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPackageBySlug(c *gin.Context) {
	p, err := h.Repository.GetPackageBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err, msgPackageNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePackage
// @Summary Create a package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePackageRequest true "package"
// @Success 201 {object} ds.Package
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	var req dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	ctx := c.Request.Context()

	if errs := negativeAmounts(map[string]*decimal.Decimal{"price": req.Price, "discount_price": req.DiscountPrice}); errs != nil {
		h.fieldErrors(c, errs)
		return
	}
	installments, errs := buildInstallments(req.Installments)
	if errs != nil {
		h.fieldErrors(c, errs)
		return
	}

	packageSlug, err := h.resolveSlug(c, req.Name, req.Slug, nil)
	if err != nil || packageSlug == "" {
		return
	}

	features, err := featuresJSON(req.Features)
	if err != nil {
		h.fieldError(c, "features", "Neispravan popis")
		return
	}

	p := &ds.Package{
		Name:                         strings.TrimSpace(req.Name),
		Slug:                         packageSlug,
		Price:                        money(*req.Price),
		DiscountPrice:                decimalPtr(req.DiscountPrice),
		PaymentType:                  req.PaymentType,
		Description:                  req.Description,
		ImageURL:                     trimmedOrNil(req.ImageURL),
		DurationDays:                 defaultDuration,
		Features:                     features,
		IsActive:                     boolOr(req.IsActive, true),
		ShowOnLanding:                boolOr(req.ShowOnLanding, false),
		ShowFirstInstallmentReminder: boolOr(req.ShowFirstInstallmentReminder, true),
		HasContract:                  boolOr(req.HasContract, true),
		ContractTemplateIndividual:   req.ContractTemplateIndividual,
		ContractTemplateCompany:      req.ContractTemplateCompany,
		Installments:                 installments,
	}
	if req.DurationDays != nil {
		p.DurationDays = *req.DurationDays
	}

	// SlugExists and the insert are not atomic: a derived slug lost to a
	// concurrent create is derived again
	explicit := req.Slug != nil && strings.TrimSpace(*req.Slug) != ""
	for attempt := 1; ; attempt++ {
		err = h.Repository.CreatePackage(ctx, p)
		if !repository.IsDuplicate(err) {
			break
		}
		if explicit || attempt == slugAttempts {
			h.fieldError(c, "slug", msgSlugTaken)
			return
		}
		if p.Slug, err = h.resolveSlug(c, req.Name, nil, nil); err != nil || p.Slug == "" {
			return
		}
	}
	if err != nil {
		h.handleError(c, err, msgPackageNotFound)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePackage applies a partial update. A supplied installments list
// replaces the whole plan.
func (h *Handler) UpdatePackage(c *gin.Context) {
	id, ok := h.paramID(c, msgPackageNotFound)
	if !ok {
		return
	}

	var req dto.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}
	ctx := c.Request.Context()

	p, err := h.Repository.GetPackageByID(ctx, id)
	if err != nil {
		h.handleError(c, err, msgPackageNotFound)
		return
	}
	prevSlug := p.Slug

	var plan *[]ds.PackageInstallment
	if req.Installments != nil {
		installments, errs := buildInstallments(req.Installments)
		if errs != nil {
			h.fieldErrors(c, errs)
			return
		}
		plan = &installments
	}

	if errs := negativeAmounts(map[string]*decimal.Decimal{"price": req.Price, "discount_price": req.DiscountPrice.Value}); errs != nil {
		h.fieldErrors(c, errs)
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		newSlug, err := h.resolveSlug(c, p.Name, req.Slug, &p.ID)
		if err != nil || newSlug == "" {
			return
		}
		p.Slug = newSlug
	}
	if req.Price != nil {
		p.Price = money(*req.Price)
	}
	if req.DiscountPrice.Set {
		p.DiscountPrice = decimalPtr(req.DiscountPrice.Value)
	}
	if req.PaymentType != nil {
		p.PaymentType = *req.PaymentType
	}
	if req.Description.Set {
		p.Description = req.Description.Value
	}
	if req.ImageURL.Set {
		p.ImageURL = trimmedOrNil(req.ImageURL.Value)
	}
	if req.DurationDays != nil {
		p.DurationDays = *req.DurationDays
	}
	if req.Features.Set {
		var list []string
		if req.Features.Value != nil {
			list = *req.Features.Value
		}
		if p.Features, err = featuresJSON(list); err != nil {
			h.fieldError(c, "features", "Neispravan popis")
			return
		}
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.ShowOnLanding != nil {
		p.ShowOnLanding = *req.ShowOnLanding
	}
	if req.ShowFirstInstallmentReminder != nil {
		p.ShowFirstInstallmentReminder = *req.ShowFirstInstallmentReminder
	}
	if req.HasContract != nil {
		p.HasContract = *req.HasContract
	}
	if req.ContractTemplateIndividual.Set {
		p.ContractTemplateIndividual = req.ContractTemplateIndividual.Value
	}
	if req.ContractTemplateCompany.Set {
		p.ContractTemplateCompany = req.ContractTemplateCompany.Value
	}

	if err := h.Repository.UpdatePackage(ctx, p, prevSlug, plan); err != nil {
		if repository.IsDuplicate(err) {
			h.fieldError(c, "slug", msgSlugTaken)
			return
		}
		h.handleError(c, err, msgPackageNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePackage
// @Summary Delete a package
// @Description Referenced packages answer 422 with student_count unless force=true
// @Tags Packages
// @Security BearerAuth
// @Param force query bool false "detach students and delete anyway"
// @Success 204
// @Failure 422 {object} map[string]interface{}
// @Router /api/packages/{id} [delete]
func (h *Handler) DeletePackage(c *gin.Context) {
	id, ok := h.paramID(c, msgPackageNotFound)
	if !ok {
		return
	}
	force := c.Query("force") == "true" || c.Query("force") == "1"

	err := h.Repository.DeletePackage(c.Request.Context(), id, force)
	var inUse *repository.PackageInUseError
	if errors.As(err, &inUse) {
		noun := "studenata"
		if inUse.StudentCount == 1 {
			noun = "student"
		}
		err = apperr.Domain("Ne možete obrisati paket koji koriste studenti", map[string]any{
			"message":          fmt.Sprintf("Ovaj paket koristi %d %s. Označite 'Prisilno brisanje' da nastavite.", inUse.StudentCount, noun),
			"student_count":    inUse.StudentCount,
			"can_force_delete": true,
		})
	}
	if err != nil {
		h.handleError(c, err, msgPackageNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveSlug returns an explicit slug after a uniqueness check, or derives
// a free one from name. On failure the response is already written.
func (h *Handler) resolveSlug(c *gin.Context, name string, explicit *string, except *uuid.UUID) (string, error) {
	ctx := c.Request.Context()

	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		candidate := strings.TrimSpace(*explicit)
		taken, err := h.Repository.SlugExists(ctx, candidate, except)
		if err != nil {
			h.handleError(c, err, msgPackageNotFound)
			return "", err
		}
		if taken {
			h.fieldError(c, "slug", msgSlugTaken)
			return "", nil
		}
		return candidate, nil
	}

	base := slug.Make(name)
	if base == "" {
		base = "paket"
	}
	candidate, err := slug.Unique(base, func(s string) (bool, error) {
		return h.Repository.SlugExists(ctx, s, except)
	})
	if err != nil {
		h.handleError(c, err, msgPackageNotFound)
		return "", err
	}
	return candidate, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
