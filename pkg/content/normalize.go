package content

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize canonicalizes a key, alias, or query for matching: leading and
// trailing whitespace is trimmed, interior whitespace runs (including
// ideographic spaces) collapse to a single space, and the result is Unicode
// case folded. The same policy is applied at catalog build time and at
// resolve time, so a query matches exactly when its folded form matches.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// cases.Fold casers are stateful and must not be shared across goroutines.
	return cases.Fold().String(s)
}
