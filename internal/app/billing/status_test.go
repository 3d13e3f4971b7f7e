package billing

import (
	"testing"
	"time"

	"academy/internal/app/ds"
)

func num(n int) *int { return &n }

func TestReconcileFullPayment(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		plan    int
		want    string
	}{
		{"no entries", nil, 0, "0/1"},
		{"pending only", []Entry{{Paid: false}}, 0, "0/1"},
		{"one paid", []Entry{{Paid: true}}, 0, "1/1"},
		{"several paid still one", []Entry{{Paid: true}, {Paid: true, InstallmentNumber: num(2)}}, 0, "1/1"},
		{"plan overrides total", []Entry{{Paid: true}}, 2, "1/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(ds.PaymentMethodFull, tt.entries, tt.plan)
			if got.String() != tt.want {
				t.Fatalf("got %q want %q", got.String(), tt.want)
			}
			if got.Paid > 1 {
				t.Fatalf("full payers count at most one, got %d", got.Paid)
			}
		})
	}
}

func TestReconcileInstallments(t *testing.T) {
	entries := []Entry{
		{InstallmentNumber: num(1), Paid: true},
		{InstallmentNumber: num(2), Paid: true},
		{InstallmentNumber: num(3), Paid: false},
	}
	if got := Reconcile(ds.PaymentMethodInstallments, entries, 3).String(); got != "2/3" {
		t.Fatalf("got %q want 2/3", got)
	}
}

func TestReconcileInstallmentsCountsDistinctNumbers(t *testing.T) {
	entries := []Entry{
		{InstallmentNumber: num(1), Paid: true},
		{InstallmentNumber: num(1), Paid: true},
		{InstallmentNumber: nil, Paid: true},
	}
	got := Reconcile(ds.PaymentMethodInstallments, entries, 0)
	if got.Paid != 1 {
		t.Fatalf("paid = %d, want 1", got.Paid)
	}
	if got.Total != DefaultInstallments {
		t.Fatalf("total = %d, want fallback %d", got.Total, DefaultInstallments)
	}
}

func TestReconcileDoesNotClamp(t *testing.T) {
	entries := []Entry{
		{InstallmentNumber: num(1), Paid: true},
		{InstallmentNumber: num(2), Paid: true},
		{InstallmentNumber: num(3), Paid: true},
	}
	if got := Reconcile(ds.PaymentMethodInstallments, entries, 2).String(); got != "3/2" {
		t.Fatalf("got %q want 3/2", got)
	}
}

func TestInvoiceEntries(t *testing.T) {
	invoices := []ds.Invoice{
		{Status: ds.LedgerPaid, InstallmentNumber: num(1)},
		{Status: ds.LedgerPending, InstallmentNumber: num(2)},
	}
	entries := InvoiceEntries(invoices)
	if len(entries) != 2 || !entries[0].Paid || entries[1].Paid {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestResolvePaidAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)
	explicit := now.Add(-time.Hour)

	if got := ResolvePaidAt(ds.LedgerPaid, nil, nil, now); got == nil || !got.Equal(now) {
		t.Fatalf("first transition should default to now, got %v", got)
	}
	if got := ResolvePaidAt(ds.LedgerPaid, &earlier, nil, now); got == nil || !got.Equal(earlier) {
		t.Fatalf("existing paid_at must be kept, got %v", got)
	}
	if got := ResolvePaidAt(ds.LedgerPaid, &earlier, &explicit, now); got == nil || !got.Equal(explicit) {
		t.Fatalf("explicit paid_at must win, got %v", got)
	}
	if got := ResolvePaidAt(ds.LedgerPending, nil, nil, now); got != nil {
		t.Fatalf("pending record without paid_at should stay empty, got %v", got)
	}
}
