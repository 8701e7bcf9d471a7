package lorepack

import (
	"context"

	"github.com/guildhall/lorepack/internal/watch"
	"github.com/guildhall/lorepack/pkg/errors"
)

// WatchOn implements Lorepack. It watches the configured pack directories
// and flat map files, triggering a reload after each debounced burst of
// changes. The watcher stops when ctx is done or WatchOff is called.
func (s *lorepack) WatchOn(ctx context.Context) error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	if s.watchCancel != nil {
		return errors.NewValidationError("watch", nil, "watch already running")
	}

	files := make([]string, 0,
		len(s.config.flat.AliasFiles)+len(s.config.flat.TextFiles)+len(s.config.flat.ImageFiles))
	files = append(files, s.config.flat.AliasFiles...)
	files = append(files, s.config.flat.TextFiles...)
	files = append(files, s.config.flat.ImageFiles...)

	w, err := watch.New(watch.Config{
		Dirs:     s.config.packDirs,
		Files:    files,
		Debounce: s.config.watchDebounce,
		Logger:   s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Debug().Strs("changed", changed).Msg("Pack change detected")
			_, err := s.Reload(ctx)
			return err
		},
	})
	if err != nil {
		return err
	}

	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.watchCancel = cancel
	s.watchDone = done

	go func() {
		defer close(done)
		if err := w.Run(wctx); err != nil && wctx.Err() == nil {
			s.logger.Error().Err(err).Msg("Watcher stopped")
		}
	}()

	return nil
}

// WatchOff implements Lorepack. It is a no-op when no watch is running.
func (s *lorepack) WatchOff() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	if s.watchCancel == nil {
		return
	}
	s.watchCancel()
	<-s.watchDone
	s.watchCancel = nil
	s.watchDone = nil
}
