package catalog

import (
	"sort"

	"github.com/guildhall/lorepack/pkg/content"
)

// Build constructs a Catalog from loaded entries and an explicit alias table.
// It is pure and deterministic: identical inputs always yield an identical
// catalog and identical diagnostics.
//
// Policies, all recorded as diagnostics and never fatal:
//   - duplicate key: the later entry wins; the key keeps its original
//     position in the ordered key list
//   - alias collision: the first registration wins (entry self-aliases and
//     authored aliases are registered in key order, before the explicit
//     alias table, which is applied in sorted alias order)
//   - dangling alias: an alias whose target key is absent is dropped
func Build(entries []content.Entry, aliases map[string]string) (*Catalog, []Diagnostic) {
	cat := &Catalog{
		entries: make(map[string]content.Entry, len(entries)),
		aliases: make(map[string]string),
	}
	var diags []Diagnostic

	for _, e := range entries {
		key := content.Normalize(e.Key)
		if key == "" {
			diags = append(diags, Warnf(KindSourceRead, "", "entry with empty key skipped"))
			continue
		}
		if _, exists := cat.entries[key]; exists {
			diags = append(diags, Warnf(KindDuplicateKey, "", "key %q defined more than once; later entry wins", key))
		} else {
			cat.keys = append(cat.keys, key)
		}
		cat.entries[key] = e
	}

	register := func(alias, target string) {
		if alias == "" {
			return
		}
		if _, ok := cat.entries[target]; !ok {
			diags = append(diags, Warnf(KindDanglingAlias, "", "alias %q dropped: target key %q not in catalog", alias, target))
			return
		}
		if existing, ok := cat.aliases[alias]; ok {
			if existing != target {
				diags = append(diags, Warnf(KindAliasConflict, "", "alias %q maps to both %q and %q; keeping %q", alias, existing, target, existing))
			}
			return
		}
		cat.aliases[alias] = target
	}

	// Each key is an implicit alias of itself; authored aliases follow in
	// key order so collisions resolve the same way on every build.
	for _, key := range cat.keys {
		register(key, key)
		for _, a := range cat.entries[key].Aliases {
			register(content.Normalize(a), key)
		}
	}

	// The explicit alias table is applied last, in sorted order, because
	// map iteration order would make collision diagnostics nondeterministic.
	sorted := make([]string, 0, len(aliases))
	for a := range aliases {
		sorted = append(sorted, a)
	}
	sort.Strings(sorted)
	for _, a := range sorted {
		register(content.Normalize(a), content.Normalize(aliases[a]))
	}

	return cat, diags
}
