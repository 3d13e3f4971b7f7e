package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"academy/internal/app/apperr"
	"academy/internal/app/contract"
	"academy/internal/app/dto"
	"academy/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var registerOnce sync.Once

// registerValidatorTagNames makes validation errors report json field names
func registerValidatorTagNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// ============ Responses ============

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status: "fail",
		Error:  message,
	})
}

func (h *Handler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// fieldErrors answers 422 with a field -> message map
func (h *Handler) fieldErrors(c *gin.Context, errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
		Status: "fail",
		Error:  "Podaci nisu ispravni",
		Errors: errs,
	})
}

func (h *Handler) fieldError(c *gin.Context, field, message string) {
	h.fieldErrors(c, map[string]string{field: message})
}

// bindingError turns ShouldBindJSON failures into a response
func (h *Handler) bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = validationMessage(fe)
		}
		h.fieldErrors(c, out)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		h.fieldError(c, typeErr.Field, "Neispravan tip vrijednosti")
		return
	}

	if errors.Is(err, io.EOF) {
		h.errorResponse(c, http.StatusBadRequest, "Tijelo zahtjeva je prazno")
		return
	}
	h.errorResponse(c, http.StatusBadRequest, "Neispravan JSON")
}

// fieldPath drops the request type and embedded structs from the namespace:
// CreatePackageRequest.installments[0].amount -> installments[0].amount
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	out := parts[:0]
	for _, p := range parts[1:] {
		if p != "" && unicode.IsUpper([]rune(p)[0]) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return fe.Field()
	}
	return strings.Join(out, ".")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Polje je obavezno"
	case "email":
		return "Neispravna email adresa"
	case "oneof":
		return fmt.Sprintf("Dozvoljene vrijednosti: %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("Najmanja vrijednost je %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Najveća vrijednost je %s", fe.Param())
	case "uuid":
		return "Neispravan identifikator"
	case "datetime":
		return fmt.Sprintf("Datum mora biti u formatu %s", fe.Param())
	}
	return fmt.Sprintf("Neispravna vrijednost (%s)", fe.Tag())
}

// handleError maps repository and domain errors to HTTP answers
func (h *Handler) handleError(c *gin.Context, err error, notFound string) {
	if e, ok := apperr.As(err); ok {
		body := gin.H{"status": "fail", "error": e.Message}
		for k, v := range e.Meta {
			body[k] = v
		}
		c.JSON(e.Status, body)
		return
	}

	switch {
	case errors.Is(err, contract.ErrPackageNotFound), errors.Is(err, contract.ErrTemplateNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case repository.IsNotFound(err):
		h.errorResponse(c, http.StatusNotFound, notFound)
	default:
		logrus.WithField("path", c.FullPath()).Error(err)
		h.errorResponse(c, http.StatusInternalServerError, "Interna greška servera")
	}
}

// paramID parses :id, answering 404 for values that cannot be ids
func (h *Handler) paramID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}
