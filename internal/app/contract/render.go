// Package contract turns package templates into student contract text.
package contract

import (
	"errors"
	"strings"
	"time"

	"academy/internal/app/ds"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	ErrPackageNotFound  = errors.New("Paket nije pronađen")
	ErrTemplateNotFound = errors.New("Ugovor nije pronađen za ovaj paket")
)

const dateLayout = "02.01.2006"

// Tokens builds the placeholder map for a student and package.
// Missing company data renders as an empty string.
func Tokens(s *ds.Student, p *ds.Package, now time.Time, currency string) map[string]string {
	return map[string]string{
		"{ime}":                 s.FirstName,
		"{prezime}":             s.LastName,
		"{adresa}":              s.Address,
		"{postanskiBroj}":       s.PostalCode,
		"{mjesto}":              s.City,
		"{grad}":                s.City,
		"{drzava}":              s.Country,
		"{brojLicnogDokumenta}": str(s.IDDocumentNumber),
		"{telefon}":             s.Phone,
		"{email}":               s.Email,
		"{nazivFirme}":          str(s.CompanyName),
		"{pdvBroj}":             str(s.VATNumber),
		"{adresaFirme}":         str(s.CompanyAddress),
		"{postanskiBrojFirme}":  str(s.CompanyPostalCode),
		"{mjestoFirme}":         str(s.CompanyCity),
		"{drzavaFirme}":         str(s.CompanyCountry),
		"{registracijaFirme}":   str(s.CompanyRegistration),
		"{cijena}":              FormatPrice(p.Price, currency),
		"{datum}":               now.Format(dateLayout),
	}
}

// Substitute replaces every known token in one pass, so values that
// look like tokens are never expanded again. Unknown tokens stay as written.
func Substitute(template string, tokens map[string]string) string {
	pairs := make([]string, 0, len(tokens)*2)
	for k, v := range tokens {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render resolves the template for the student's entity type and fills it in
func Render(s *ds.Student, p *ds.Package, now time.Time, currency string) (string, error) {
	if p == nil {
		return "", ErrPackageNotFound
	}
	tpl := p.ContractTemplate(s.EntityType)
	if tpl == "" {
		return "", ErrTemplateNotFound
	}
	return Substitute(tpl, Tokens(s, p, now, currency)), nil
}

// German number symbols match Croatian: '.' groups thousands, ',' marks decimals
var pricePrinter = message.NewPrinter(language.German)

// FormatPrice prints 1234.5 as "1.234,50 EUR". The amount is rounded to
// cents first, well inside the exact range of a float64 for decimal(10,2).
func FormatPrice(amount decimal.Decimal, currency string) string {
	f, _ := amount.Round(2).Float64()
	out := pricePrinter.Sprint(number.Decimal(f, number.Scale(2)))
	if currency != "" {
		out += " " + currency
	}
	return out
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
