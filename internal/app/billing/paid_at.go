package billing

import (
	"time"

	"academy/internal/app/ds"
)

// ResolvePaidAt applies the paid_at rule shared by payments and invoices:
// an explicit value wins, an existing timestamp is never reset, and a
// record becoming paid without either gets now.
func ResolvePaidAt(status string, current, supplied *time.Time, now time.Time) *time.Time {
	if supplied != nil {
		return supplied
	}
	if current != nil {
		return current
	}
	if status == ds.LedgerPaid {
		return &now
	}
	return nil
}
