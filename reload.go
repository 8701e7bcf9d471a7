package lorepack

import (
	"context"
	"time"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/sources"
)

// Reload implements Lorepack. The load and build run entirely off the
// lookup path; lookups keep reading the previous snapshot until the new
// catalog is published with a single pointer swap. A failed reload — every
// source unusable, or ctx done — leaves the previous snapshot in place.
//
// Callers that need a bound on reload time pass a context with a deadline;
// a timed-out reload counts as failed.
func (s *lorepack) Reload(ctx context.Context) (*catalog.Report, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	report := &catalog.Report{}

	res, err := sources.Load(ctx, s.sources...)
	if res != nil {
		report.Add(res.Diags...)
	}
	if err != nil {
		report.Duration = time.Since(start)
		s.logger.Warn().Err(err).Msg("Reload failed; previous catalog retained")
		return report, err
	}

	cat, diags := catalog.Build(res.Entries, res.Aliases)
	report.Add(diags...)
	report.Entries = cat.Len()
	report.Aliases = cat.AliasCount()
	report.Duration = time.Since(start)

	old := s.current.Swap(cat)

	s.logger.Info().
		Int("entries", report.Entries).
		Int("aliases", report.Aliases).
		Int("skipped_files", report.SkippedFiles).
		Int("dropped_aliases", report.DroppedAliases).
		Dur("duration", report.Duration).
		Msg("Catalog published")

	s.hooks.fire(old, cat, report)
	return report, nil
}
