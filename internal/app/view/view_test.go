package view

import (
	"strings"
	"testing"
	"time"
)

func TestContractHTMLEscapesContent(t *testing.T) {
	out, err := ContractHTML(ContractPage{
		ContractNumber: "UG-2026-000001",
		StudentName:    "Ana Anić",
		PackageName:    "B kategorija",
		Content:        "Članak 1.\n\n<script>alert(1)</script>",
		SignedAt:       time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ContractHTML: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script>") {
		t.Fatalf("contract content must be escaped")
	}
	if !strings.Contains(html, "UG-2026-000001") || !strings.Contains(html, "03.02.2026") {
		t.Fatalf("missing number or date in output")
	}
	if strings.Count(html, "<p>") != 2 {
		t.Fatalf("expected two paragraphs, got %d", strings.Count(html, "<p>"))
	}
}

func TestMailTemplates(t *testing.T) {
	m := ContractMail{
		StudentName:    "Ana Anić",
		StudentEmail:   "ana@example.com",
		PackageName:    "B kategorija",
		ContractNumber: "UG-2026-000001",
		SignedAt:       time.Now(),
	}
	student, err := StudentMailHTML(m)
	if err != nil || !strings.Contains(student, "Ana Anić") {
		t.Fatalf("student mail: %v %q", err, student)
	}
	admin, err := AdminMailHTML(m)
	if err != nil || !strings.Contains(admin, "ana@example.com") {
		t.Fatalf("admin mail: %v %q", err, admin)
	}
}
