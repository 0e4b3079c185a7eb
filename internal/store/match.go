package store

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// containsFold reports whether substr occurs in s, ignoring case.
// Both sides are NFC normalized and lowercased with Unicode rules.
// An empty substr matches everything.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	// A Caser is stateful; one per call keeps this safe for concurrent use.
	lower := cases.Lower(language.Und)
	return strings.Contains(
		lower.String(norm.NFC.String(s)),
		lower.String(norm.NFC.String(substr)),
	)
}
