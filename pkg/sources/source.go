// Package sources loads content packs from disk and produces the entries
// and alias table the catalog is built from. Sources are heterogeneous:
// directories of structured entry documents (Markdown with YAML front
// matter, YAML, JSON) and flat alias/text/image map files.
//
// Loading is tolerant of partial failure: a malformed file yields a
// diagnostic and is excluded, and a load only fails outright when every
// configured source is unusable.
package sources

import (
	"context"
	"sort"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/content"
	"github.com/guildhall/lorepack/pkg/errors"
)

// Result is the outcome of loading one or more sources: a fresh value each
// time, with no shared state, ready for the catalog builder to consume.
type Result struct {
	Entries []content.Entry
	Aliases map[string]string
	Diags   []catalog.Diagnostic
}

// Source is one location content can be loaded from.
type Source interface {
	// Name identifies the source in diagnostics.
	Name() string

	// Load reads the source and returns its entries, aliases, and per-file
	// diagnostics. An error means the source as a whole was unusable.
	Load(ctx context.Context) (*Result, error)
}

// Load reads every source in declaration order and merges the results.
// Entry order follows source order, so a key defined by a later source
// supersedes an earlier one when the catalog is built (last-wins). Alias
// tables merge first-wins, matching the catalog's alias collision policy.
//
// A failed source becomes a diagnostic; Load returns an error only when
// the context is done or no source loaded at all.
func Load(ctx context.Context, srcs ...Source) (*Result, error) {
	merged := &Result{Aliases: make(map[string]string)}

	if len(srcs) == 0 {
		return merged, errors.WrapSource("load", errors.ErrNoUsableSource)
	}

	failed := 0
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return merged, err
		}

		res, err := src.Load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return merged, err
			}
			merged.Diags = append(merged.Diags,
				catalog.Errorf(catalog.KindSourceFailed, src.Name(), "%v", err))
			failed++
			continue
		}

		merged.Entries = append(merged.Entries, res.Entries...)
		mergeAliases(merged, res, src.Name())
		merged.Diags = append(merged.Diags, res.Diags...)
	}

	if failed == len(srcs) {
		return merged, errors.WrapSource("load", errors.ErrNoUsableSource)
	}
	return merged, nil
}

// mergeAliases folds a source's alias table into the merged table,
// first-wins. Aliases are visited in sorted order so collision diagnostics
// are deterministic.
func mergeAliases(merged, res *Result, source string) {
	keys := make([]string, 0, len(res.Aliases))
	for a := range res.Aliases {
		keys = append(keys, a)
	}
	sort.Strings(keys)

	for _, a := range keys {
		target := res.Aliases[a]
		if existing, ok := merged.Aliases[a]; ok {
			if existing != target {
				merged.Diags = append(merged.Diags,
					catalog.Warnf(catalog.KindAliasConflict, source,
						"alias %q maps to both %q and %q; keeping %q", a, existing, target, existing))
			}
			continue
		}
		merged.Aliases[a] = target
	}
}
