// Package resolver implements the tiered matching algorithm that turns a
// free-text query into the single best catalog entry. The tiers run in a
// fixed order and the first one that yields any candidate short-circuits
// the rest: exact key, alias, prefix/substring, then fuzzy similarity.
//
// Resolve is a pure function of its inputs, performs no I/O, and is safe to
// call concurrently from any number of goroutines against one snapshot.
package resolver

import (
	"strings"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/content"
)

// Tier identifies which stage of the resolution algorithm produced a match.
type Tier int

const (
	// TierNone means no tier matched.
	TierNone Tier = iota
	// TierExact is a direct key hit.
	TierExact
	// TierAlias is a hit through the alias table.
	TierAlias
	// TierPrefix is a prefix or substring hit on the key list.
	TierPrefix
	// TierFuzzy is a similarity hit at or above the threshold.
	TierFuzzy
)

// String implements fmt.Stringer.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierAlias:
		return "alias"
	case TierPrefix:
		return "prefix"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Match is the outcome of one resolution: the entry and the tier that found
// it, plus the similarity score when the fuzzy tier decided.
type Match struct {
	Tier  Tier
	Entry content.Entry
	Score float64
}

// Found reports whether any tier matched.
func (m Match) Found() bool {
	return m.Tier != TierNone
}

// DefaultFuzzyThreshold is the minimum similarity score the fuzzy tier
// accepts when no explicit threshold is configured.
const DefaultFuzzyThreshold = 0.6

// Options configures resolution behavior.
type Options struct {
	// FuzzyThreshold is the minimum similarity in [0,1] for a fuzzy match.
	// Zero or negative values fall back to DefaultFuzzyThreshold.
	FuzzyThreshold float64
}

// Resolve runs the tiered algorithm for query against the given catalog
// snapshot. An empty or whitespace-only query, or a nil catalog, returns a
// not-found match without scanning anything. Resolve never fails; absence
// is expressed as Match.Tier == TierNone.
func Resolve(query string, cat *catalog.Catalog, opts ...*Options) Match {
	threshold := DefaultFuzzyThreshold
	if len(opts) > 0 && opts[0] != nil && opts[0].FuzzyThreshold > 0 {
		threshold = opts[0].FuzzyThreshold
	}

	q := content.Normalize(query)
	if q == "" || cat == nil {
		return Match{Tier: TierNone}
	}

	// Tier 1: exact key.
	if e, ok := cat.Entry(q); ok {
		return Match{Tier: TierExact, Entry: e}
	}

	// Tier 2: alias table.
	if key, ok := cat.ResolveAlias(q); ok {
		if e, ok := cat.Entry(key); ok {
			return Match{Tier: TierAlias, Entry: e}
		}
	}

	keys := cat.Keys()

	// Tier 3: prefix, falling back to substring when no key has the query
	// as a prefix. Multiple candidates resolve to the shortest key; ties
	// keep the earliest in catalog order.
	if key, ok := scanKeys(keys, q); ok {
		if e, ok := cat.Entry(key); ok {
			return Match{Tier: TierPrefix, Entry: e}
		}
	}

	// Tier 4: fuzzy similarity over the full key pool. Highest score wins;
	// ties keep the earliest in catalog order.
	best, bestScore := "", 0.0
	for _, key := range keys {
		if score := Similarity(q, key); score > bestScore {
			best, bestScore = key, score
		}
	}
	if best != "" && bestScore >= threshold {
		if e, ok := cat.Entry(best); ok {
			return Match{Tier: TierFuzzy, Entry: e, Score: bestScore}
		}
	}

	return Match{Tier: TierNone}
}

// scanKeys collects prefix candidates, then substring candidates if no
// prefix matched, and picks the shortest key (earliest on ties).
func scanKeys(keys []string, q string) (string, bool) {
	pick := func(match func(key string) bool) (string, bool) {
		best, found := "", false
		for _, key := range keys {
			if !match(key) {
				continue
			}
			if !found || len(key) < len(best) {
				best, found = key, true
			}
		}
		return best, found
	}

	if key, ok := pick(func(key string) bool { return strings.HasPrefix(key, q) }); ok {
		return key, true
	}
	return pick(func(key string) bool { return strings.Contains(key, q) })
}
