package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"academy/internal/app/ds"
	"academy/internal/app/dto"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// parseTime accepts RFC3339, "Y-m-d H:i:s" and plain dates
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time %q", s)
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const msgNegative = "Najmanja vrijednost je 0"

func decimalPtr(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := money(*v)
	return &d
}

// money rounds a bound amount to cents
func money(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// negativeAmounts returns a field error for every negative amount, nil when all are fine
func negativeAmounts(amounts map[string]*decimal.Decimal) map[string]string {
	var errs map[string]string
	for field, v := range amounts {
		if v == nil || !v.IsNegative() {
			continue
		}
		if errs == nil {
			errs = map[string]string{}
		}
		errs[field] = msgNegative
	}
	return errs
}

func featuresJSON(features []string) (datatypes.JSON, error) {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// trimmedOrNil treats blank strings as absent
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// buildInstallments validates the plan rows, returning field errors keyed like the request
func buildInstallments(in []dto.InstallmentRequest) ([]ds.PackageInstallment, map[string]string) {
	errs := map[string]string{}
	seen := make(map[int]bool, len(in))
	out := make([]ds.PackageInstallment, 0, len(in))

	for i, req := range in {
		if seen[req.InstallmentNumber] {
			errs[fmt.Sprintf("installments[%d].installment_number", i)] = "Broj rate se ponavlja"
			continue
		}
		seen[req.InstallmentNumber] = true

		if req.Amount.IsNegative() {
			errs[fmt.Sprintf("installments[%d].amount", i)] = msgNegative
			continue
		}
		dueDate, err := parseOptionalTime(req.DueDate)
		if err != nil {
			errs[fmt.Sprintf("installments[%d].due_date", i)] = "Neispravan datum"
			continue
		}
		out = append(out, ds.PackageInstallment{
			InstallmentNumber: req.InstallmentNumber,
			Amount:            money(*req.Amount),
			DueDescription:    req.DueDescription,
			DueDate:           dueDate,
			DueDays:           req.DueDays,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
