package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/guildhall/lorepack"
	"github.com/guildhall/lorepack/pkg/errors"
	"github.com/guildhall/lorepack/pkg/wiki"
)

// App carries the lorepack CLI's dependencies: configuration, the logger,
// and lazily constructed lorepack and wiki clients.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger zerolog.Logger

	// Lorepack instance (lazy-initialized, singleton)
	mu sync.Mutex
	lp lorepack.Lorepack
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  NewLogger(config),
	}, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the loaded configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return &a.logger
}

// RebuildLogger reconstructs the logger after flag parsing has updated
// the verbosity settings in the configuration.
func (a *App) RebuildLogger() {
	a.logger = NewLogger(a.config)
}

// Lorepack returns the shared Lorepack instance, constructing and loading
// it from the configured sources on first use.
func (a *App) Lorepack() (lorepack.Lorepack, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lp != nil {
		return a.lp, nil
	}

	opts := []lorepack.Option{
		lorepack.WithPackDir(a.config.PackDirs...),
		lorepack.WithFuzzyThreshold(a.config.FuzzyThreshold),
		lorepack.WithWatchDebounce(a.config.WatchDebounce),
		lorepack.WithLogger(&a.logger),
	}
	if len(a.config.AliasFiles) > 0 {
		opts = append(opts, lorepack.WithAliasFile(a.config.AliasFiles...))
	}
	if len(a.config.TextFiles) > 0 {
		opts = append(opts, lorepack.WithTextFile(a.config.TextFiles...))
	}
	if len(a.config.ImageFiles) > 0 {
		opts = append(opts, lorepack.WithImageFile(a.config.ImageFiles...))
	}

	lp, err := lorepack.New(opts...)
	if err != nil {
		return nil, errors.WrapSource("packs", err)
	}

	a.lp = lp
	return lp, nil
}

// Wiki returns a wiki client built from the configuration.
func (a *App) Wiki() *wiki.Client {
	return wiki.New(wiki.Config{
		Mode:       wiki.Mode(a.config.WikiMode),
		Lang:       a.config.WikiLang,
		Host:       a.config.WikiHost,
		FandomSite: a.config.FandomSite,
		PathPrefix: a.config.WikiPathPrefix,
	})
}

// ContextWithSignals creates a context that is cancelled when the
// application receives an interrupt or termination signal.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ExitOnError prints the error to stderr and exits with a non-zero status.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
