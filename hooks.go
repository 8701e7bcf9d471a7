package lorepack

import (
	"sync"

	"github.com/guildhall/lorepack/pkg/catalog"
)

// ReloadHook is called after each successful reload with the previous and
// newly published snapshots. old is nil on the first load. Hooks run on the
// reloading goroutine; long work should be handed off.
type ReloadHook func(old, new *catalog.Catalog, report *catalog.Report)

// hooks manages reload event callbacks
type hooks struct {
	mu       sync.RWMutex
	onReload []ReloadHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnReload registers a callback for successful reloads
func (h *hooks) OnReload(fn ReloadHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = append(h.onReload, fn)
}

// fire invokes every registered hook in registration order
func (h *hooks) fire(old, new *catalog.Catalog, report *catalog.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onReload {
		fn(old, new, report)
	}
}

// OnReload implements Lorepack.
func (s *lorepack) OnReload(fn ReloadHook) {
	s.hooks.OnReload(fn)
}
