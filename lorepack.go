// Package lorepack resolves free-text keywords into pre-authored sequences
// of text and image content drawn from on-disk content packs, without
// invoking any generative model. Packs are merged into an immutable catalog
// snapshot which concurrent lookups read lock-free; a reload builds a fresh
// catalog off the read path and publishes it with one atomic swap.
package lorepack

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/content"
	"github.com/guildhall/lorepack/pkg/errors"
	"github.com/guildhall/lorepack/pkg/resolver"
	"github.com/guildhall/lorepack/pkg/sources"
)

// Lorepack manages a content catalog with atomic hot-reload and resolves
// queries against the current snapshot.
type Lorepack interface {
	// Lookup resolves a raw query string against the current catalog.
	// A miss is a Result with Found == false and a nil error; the error is
	// non-nil only when no catalog has ever been loaded (ErrNoCatalog).
	Lookup(query string) (Result, error)

	// Entry returns the entry for an exact key, if present.
	Entry(key string) (content.Entry, bool)

	// Keys returns all catalog keys in stable order, optionally filtered
	// to those whose normalized form starts with prefix.
	Keys(prefix string) []string

	// Catalog returns the current snapshot, or nil before the first
	// successful load. The snapshot is immutable and safe to retain.
	Catalog() *catalog.Catalog

	// Reload re-reads every configured source, builds a new catalog, and
	// publishes it atomically. On failure the previous snapshot stays
	// published and the report carries the failure diagnostics.
	Reload(ctx context.Context) (*catalog.Report, error)

	// OnReload registers a hook invoked after each successful publish.
	OnReload(ReloadHook)

	// WatchOn starts watching the configured pack locations and reloading
	// on changes, until ctx is done or WatchOff is called.
	WatchOn(ctx context.Context) error

	// WatchOff stops the watcher started by WatchOn.
	WatchOff()
}

// Result is the structured outcome of one lookup: the ordered content
// blocks of the matched entry plus split text/image views, and the tier
// that produced the match. Image values are relative paths or URLs, never
// binary payloads.
type Result struct {
	Found  bool
	Tier   resolver.Tier
	Key    string
	Score  float64
	Blocks []content.Block
	Texts  []string
	Images []string
}

// lorepack is the internal implementation of the Lorepack interface.
type lorepack struct {
	config  *config
	sources []sources.Source
	logger  *zerolog.Logger

	// current is the published snapshot: written once per reload by a
	// single writer, read freely by any number of lookups.
	current atomic.Pointer[catalog.Catalog]

	// reloadMu serializes reloads; it is never taken on the lookup path.
	reloadMu sync.Mutex

	hooks *hooks

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

// New creates a Lorepack instance with the given options. Unless
// WithAutoLoad(false) is set, the configured sources are loaded before New
// returns, so the instance starts with a usable catalog or fails loudly.
func New(opts ...Option) (Lorepack, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	lp := &lorepack{
		config: cfg,
		logger: cfg.logger,
		hooks:  newHooks(),
	}

	lp.sources = cfg.buildSources()
	if len(lp.sources) == 0 {
		return nil, errors.NewValidationError("sources", nil, "at least one content source is required")
	}

	if cfg.autoLoad {
		report, err := lp.Reload(context.Background())
		if err != nil {
			return nil, err
		}
		lp.logger.Debug().Str("report", report.String()).Msg("Initial catalog loaded")
	}

	return lp, nil
}

// Lookup implements Lorepack. It borrows the current snapshot for the
// duration of one resolution and never blocks on a reload in progress.
func (s *lorepack) Lookup(query string) (Result, error) {
	cat := s.current.Load()
	if cat == nil {
		return Result{}, errors.ErrNoCatalog
	}

	m := resolver.Resolve(query, cat, &resolver.Options{FuzzyThreshold: s.config.fuzzyThreshold})
	if !m.Found() {
		return Result{}, nil
	}

	return Result{
		Found:  true,
		Tier:   m.Tier,
		Key:    m.Entry.Key,
		Score:  m.Score,
		Blocks: m.Entry.Blocks,
		Texts:  m.Entry.Texts(),
		Images: m.Entry.Images(),
	}, nil
}

// Entry implements Lorepack.
func (s *lorepack) Entry(key string) (content.Entry, bool) {
	cat := s.current.Load()
	if cat == nil {
		return content.Entry{}, false
	}
	return cat.Entry(key)
}

// Keys implements Lorepack.
func (s *lorepack) Keys(prefix string) []string {
	cat := s.current.Load()
	if cat == nil {
		return nil
	}

	display := cat.DisplayKeys()
	p := content.Normalize(prefix)
	if p == "" {
		return display
	}

	normalized := cat.Keys()
	out := make([]string, 0, len(display))
	for i, k := range normalized {
		if strings.HasPrefix(k, p) {
			out = append(out, display[i])
		}
	}
	return out
}

// Catalog implements Lorepack.
func (s *lorepack) Catalog() *catalog.Catalog {
	return s.current.Load()
}
