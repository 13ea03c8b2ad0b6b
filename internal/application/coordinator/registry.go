package coordinator

import (
	"sync"
	"time"
)

type entry struct {
	coord    *Coordinator
	lastUsed time.Time
}

// Registry keeps one Coordinator per client session token.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	opts    Options
}

// NewRegistry creates an empty registry; opts configure every coordinator it creates.
func NewRegistry(opts Options) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{entries: make(map[string]*entry), opts: opts}
}

// Get returns the coordinator for token, creating a fresh one on first use.
// PRE: token is non-empty
// POST: the same token yields the same coordinator until Drop or Sweep
func (r *Registry) Get(token string) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[token]
	if !ok {
		e = &entry{coord: New(r.opts)}
		r.entries[token] = e
	}
	e.lastUsed = r.opts.Now()
	return e.coord
}

// Drop forgets the coordinator for token.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

// Sweep removes coordinators idle for longer than maxIdle and returns how many it removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.opts.Now().Add(-maxIdle)
	removed := 0
	for token, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of live coordinators.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
