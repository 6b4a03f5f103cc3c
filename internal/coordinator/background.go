package coordinator

import (
	"context"
	"sync"
)

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Registry tracks cancellable background goroutines by key, so the
// server can stop a session's helpers individually or join everything
// at shutdown.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*handle
}

// NewRegistry creates an empty background registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*handle)}
}

// Go starts fn under a cancellable child of parent, registered under
// id. An existing entry with the same id is cancelled and awaited
// first, so at most one goroutine runs per id.
func (r *Registry) Go(parent context.Context, id string, fn func(context.Context)) {
	r.Cancel(id)

	ctx, cancel := context.WithCancel(parent)
	h := &handle{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	r.entries[id] = h
	r.mu.Unlock()

	go func() {
		defer func() {
			close(h.done)
			r.remove(id, h)
		}()
		fn(ctx)
	}()
}

// remove drops the entry only while it still maps to h; a replacement
// registered under the same id stays.
func (r *Registry) remove(id string, h *handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[id] == h {
		delete(r.entries, id)
	}
}

// Cancel stops the goroutine registered under id and waits for it to
// exit. Returns false when nothing was registered.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	h, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	h.cancel()
	<-h.done
	return true
}

// Wait blocks until the goroutine registered under id exits, or
// returns immediately when nothing is registered.
func (r *Registry) Wait(id string) {
	r.mu.Lock()
	h, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	<-h.done
}

// CancelAll stops every registered goroutine and waits for all of
// them.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	handles := make([]*handle, 0, len(r.entries))
	for _, h := range r.entries {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
	for _, h := range handles {
		<-h.done
	}
}
