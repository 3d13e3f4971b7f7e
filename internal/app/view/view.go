// Package view holds the HTML documents sent to the PDF renderer and mail provider.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date":       func(t time.Time) string { return t.Format("02.01.2006") },
	"paragraphs": paragraphs,
	"signature":  signatureURL,
}).ParseFS(files, "templates/*.html"))

// ContractPage is the data behind the printable contract
type ContractPage struct {
	ContractNumber string
	StudentName    string
	PackageName    string
	Content        string
	SignatureData  string
	SignedAt       time.Time
}

// ContractMail is used for both the student and the admin notification
type ContractMail struct {
	StudentName    string
	StudentEmail   string
	PackageName    string
	ContractNumber string
	SignedAt       time.Time
}

func ContractHTML(p ContractPage) ([]byte, error) {
	return execute("contract.html", p)
}

func StudentMailHTML(m ContractMail) (string, error) {
	b, err := execute("student_mail.html", m)
	return string(b), err
}

func AdminMailHTML(m ContractMail) (string, error) {
	b, err := execute("admin_mail.html", m)
	return string(b), err
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// paragraphs splits frozen contract text on blank lines
func paragraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// signatureURL lets inline image data through html/template's URL filter
func signatureURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}
