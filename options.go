package lorepack

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/guildhall/lorepack/pkg/errors"
	"github.com/guildhall/lorepack/pkg/logging"
	"github.com/guildhall/lorepack/pkg/resolver"
	"github.com/guildhall/lorepack/pkg/sources"
)

// Option is a function that configures a Lorepack instance
type Option func(*config) error

// config holds the assembled configuration for a Lorepack instance.
type config struct {
	packDirs     []string
	flat         sources.FlatConfig
	extraSources []sources.Source

	fuzzyThreshold float64
	autoLoad       bool
	watchDebounce  time.Duration

	logger *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		fuzzyThreshold: resolver.DefaultFuzzyThreshold,
		autoLoad:       true,
		logger:         logging.Default(),
	}
}

// buildSources materializes the configured sources in declaration order:
// pack directories first, then the flat map files, then any custom sources.
// Load order is the conflict order — a later source wins on duplicate keys.
func (c *config) buildSources() []sources.Source {
	var srcs []sources.Source
	for _, dir := range c.packDirs {
		srcs = append(srcs, sources.NewDir(dir))
	}
	if len(c.flat.AliasFiles)+len(c.flat.TextFiles)+len(c.flat.ImageFiles) > 0 {
		srcs = append(srcs, sources.NewFlatMaps(c.flat))
	}
	return append(srcs, c.extraSources...)
}

// WithPackDir adds one or more directories of structured entry documents.
func WithPackDir(dirs ...string) Option {
	return func(c *config) error {
		c.packDirs = append(c.packDirs, dirs...)
		return nil
	}
}

// WithAliasFile adds flat alias map files ({aliases: alias -> key}).
func WithAliasFile(paths ...string) Option {
	return func(c *config) error {
		c.flat.AliasFiles = append(c.flat.AliasFiles, paths...)
		return nil
	}
}

// WithTextFile adds flat text map files ({entries: key -> text}).
func WithTextFile(paths ...string) Option {
	return func(c *config) error {
		c.flat.TextFiles = append(c.flat.TextFiles, paths...)
		return nil
	}
}

// WithImageFile adds flat image map files ({entries: key -> [images]}).
func WithImageFile(paths ...string) Option {
	return func(c *config) error {
		c.flat.ImageFiles = append(c.flat.ImageFiles, paths...)
		return nil
	}
}

// WithSource adds a custom content source, loaded after all configured
// directories and map files.
func WithSource(src sources.Source) Option {
	return func(c *config) error {
		if src == nil {
			return errors.NewValidationError("source", nil, "source must not be nil")
		}
		c.extraSources = append(c.extraSources, src)
		return nil
	}
}

// WithFuzzyThreshold sets the minimum similarity score in (0,1] the fuzzy
// tier accepts.
func WithFuzzyThreshold(threshold float64) Option {
	return func(c *config) error {
		if threshold <= 0 || threshold > 1 {
			return errors.NewValidationError("fuzzy threshold", threshold, "must be in (0,1]")
		}
		c.fuzzyThreshold = threshold
		return nil
	}
}

// WithAutoLoad configures whether New loads the catalog before returning.
// When disabled, lookups return ErrNoCatalog until Reload succeeds once.
func WithAutoLoad(enabled bool) Option {
	return func(c *config) error {
		c.autoLoad = enabled
		return nil
	}
}

// WithWatchDebounce sets the quiet period the watcher waits after the last
// filesystem event before triggering a reload.
func WithWatchDebounce(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return errors.NewValidationError("watch debounce", d, "must not be negative")
		}
		c.watchDebounce = d
		return nil
	}
}

// WithLogger sets the logger used for reload and watch events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}
