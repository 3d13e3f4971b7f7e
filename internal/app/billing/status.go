// Package billing derives payment progress from the invoice ledger.
package billing

import (
	"fmt"

	"academy/internal/app/ds"
)

// Installment count assumed when a student has no plan to look at
const DefaultInstallments = 3

// Entry is the part of a ledger row the reconciler looks at
type Entry struct {
	InstallmentNumber *int
	Paid              bool
}

// Status is "paid of total" for one student. Never stored, always recomputed.
type Status struct {
	Paid  int
	Total int
}

func (s Status) String() string {
	return fmt.Sprintf("%d/%d", s.Paid, s.Total)
}

// PaidCount counts distinct paid installment numbers for installment payers,
// and 0/1 for full payers.
func PaidCount(paymentMethod string, entries []Entry) int {
	if paymentMethod == ds.PaymentMethodInstallments {
		seen := make(map[int]struct{})
		for _, e := range entries {
			if e.Paid && e.InstallmentNumber != nil {
				seen[*e.InstallmentNumber] = struct{}{}
			}
		}
		return len(seen)
	}

	for _, e := range entries {
		if e.Paid {
			return 1
		}
	}
	return 0
}

// TotalCount uses the package plan size when there is one
func TotalCount(paymentMethod string, planSize int) int {
	if planSize > 0 {
		return planSize
	}
	if paymentMethod == ds.PaymentMethodInstallments {
		return DefaultInstallments
	}
	return 1
}

// Reconcile computes the payment status. Paid may exceed Total when the
// ledger holds more installment numbers than the plan.
func Reconcile(paymentMethod string, entries []Entry, planSize int) Status {
	return Status{
		Paid:  PaidCount(paymentMethod, entries),
		Total: TotalCount(paymentMethod, planSize),
	}
}

// InvoiceEntries adapts invoices to reconciler entries
func InvoiceEntries(invoices []ds.Invoice) []Entry {
	entries := make([]Entry, len(invoices))
	for i, inv := range invoices {
		entries[i] = Entry{
			InstallmentNumber: inv.InstallmentNumber,
			Paid:              inv.Status == ds.LedgerPaid,
		}
	}
	return entries
}
