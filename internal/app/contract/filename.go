package contract

import (
	"fmt"
	"strings"
	"time"
)

// FileName builds the download name of a contract PDF:
// slug upper-cased with underscores, student name and signing date.
func FileName(packageSlug, firstName, lastName string, signedAt time.Time) string {
	prefix := strings.ToUpper(strings.ReplaceAll(packageSlug, "-", "_"))
	if prefix == "" {
		prefix = "UGOVOR"
	}
	name := fmt.Sprintf("%s_%s_%s_%s.pdf", prefix, firstName, lastName, signedAt.Format("2006-01-02"))
	return strings.ReplaceAll(name, " ", "_")
}
