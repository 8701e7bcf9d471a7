package resolver

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns a normalized string-similarity score in [0,1] based on
// Levenshtein edit distance over runes: 1 minus the distance divided by the
// longer string's length. Identical strings score 1, and the score is
// deterministic for identical inputs. Two empty strings are identical.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
