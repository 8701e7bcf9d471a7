// Package watch provides debounced filesystem watching for content pack
// locations. Events within the debounce window are coalesced so the
// callback fires once per burst with the full set of changed paths, which
// keeps an editor's write-then-rename dance from triggering double reloads.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/guildhall/lorepack/pkg/errors"
	"github.com/guildhall/lorepack/pkg/logging"
)

// DefaultDebounce is the quiet period after the last filesystem event
// before the callback fires.
const DefaultDebounce = 500 * time.Millisecond

// defaultPatterns select the content file types that trigger callbacks.
var defaultPatterns = []string{
	"**/*.md",
	"**/*.yaml",
	"**/*.yml",
	"**/*.json",
}

// defaultIgnores excludes VCS metadata, editor swap files, and OS noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Dirs are the directories to watch, each registered recursively.
	Dirs []string

	// Files are individual files to watch (flat map files live outside
	// the pack directories). Their parent directories are registered and
	// events are filtered to the named files.
	Files []string

	// Patterns are doublestar glob patterns selecting which changed files
	// trigger the callback. Empty means the default content file types.
	Patterns []string

	// Ignore are additional patterns that never trigger the callback,
	// merged with the built-in defaults.
	Ignore []string

	// Debounce is the quiet period after the last event before the
	// callback fires. Zero or negative falls back to DefaultDebounce.
	Debounce time.Duration

	// OnChange is called after the debounce window closes with the sorted,
	// deduplicated list of changed paths. A nil callback is a no-op.
	OnChange func(ctx context.Context, changed []string) error

	// Logger receives watch lifecycle and error events.
	Logger *zerolog.Logger
}

// Watcher monitors pack locations and fires a debounced callback when
// matching files change. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	patterns []string
	ignores  []string
	files    map[string]bool
	debounce time.Duration
	logger   *zerolog.Logger
	started  atomic.Bool
}

// New creates a Watcher and registers every directory under the configured
// roots. At least one existing location is required.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Dirs) == 0 && len(cfg.Files) == 0 {
		return nil, errors.NewValidationError("watch", nil, "nothing to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapIO("watch", "", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: cfg.Patterns,
		ignores:  append(append([]string{}, defaultIgnores...), cfg.Ignore...),
		files:    make(map[string]bool),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if len(w.patterns) == 0 {
		w.patterns = defaultPatterns
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = logging.Default()
	}

	registered := 0
	for _, dir := range cfg.Dirs {
		if err := w.addTree(dir); err != nil {
			w.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot watch directory")
			continue
		}
		registered++
	}
	for _, file := range cfg.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			continue
		}
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			w.logger.Warn().Err(err).Str("file", file).Msg("Cannot watch file")
			continue
		}
		w.files[abs] = true
		registered++
	}

	if registered == 0 {
		_ = fsw.Close()
		return nil, errors.NewValidationError("watch", nil, "no watchable location")
	}

	return w, nil
}

// addTree registers dir and every subdirectory beneath it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return fs.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run blocks, dispatching debounced change callbacks until ctx is done.
// Calling Run a second time returns an error.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.NewValidationError("watch", nil, "watcher already running")
	}
	defer func() { _ = w.fsw.Close() }()

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories inside a watched tree are registered so
			// entries added later are still seen.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("dir", ev.Name).Msg("Cannot watch new directory")
					}
					continue
				}
			}
			if !w.matches(ev.Name) {
				continue
			}
			pending[ev.Name] = true

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watch error")

		case <-timerC:
			timer, timerC = nil, nil
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			if w.cfg.OnChange != nil {
				if err := w.cfg.OnChange(ctx, changed); err != nil {
					w.logger.Error().Err(err).Strs("changed", changed).Msg("Change callback failed")
				}
			}
		}
	}
}

// matches reports whether a changed path should trigger the callback.
func (w *Watcher) matches(path string) bool {
	if abs, err := filepath.Abs(path); err == nil && w.files[abs] {
		return true
	}
	if w.ignored(path) {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.patterns {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// ignored reports whether a path matches any ignore pattern.
func (w *Watcher) ignored(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.ignores {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
