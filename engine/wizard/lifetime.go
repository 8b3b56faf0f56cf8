package wizard

import (
	"context"
	"sync"
)

// Lifetime scopes the fetches of one mounted view. Begin starts a new load
// and cancels the previous one; End cancels whatever is outstanding when the
// view goes away. Alive tells a completion whether it may still be applied.
type Lifetime struct {
	mu     sync.Mutex
	parent context.Context
	cancel context.CancelFunc
	gen    uint64
	ended  bool
}

// NewLifetime returns a lifetime bound to parent.
func NewLifetime(parent context.Context) *Lifetime {
	if parent == nil {
		parent = context.Background()
	}
	return &Lifetime{parent: parent}
}

// Begin cancels the previous load and returns the context and generation of
// the next one. After End the returned context is already cancelled.
func (l *Lifetime) Begin() (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	ctx, cancel := context.WithCancel(l.parent)
	l.cancel = cancel
	if l.ended {
		cancel()
	}
	return ctx, l.gen
}

// Alive reports whether a completion of generation gen may still touch
// view state.
func (l *Lifetime) Alive(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.ended && gen == l.gen
}

// End cancels the outstanding load. Later completions are never Alive.
func (l *Lifetime) End() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ended = true
	if l.cancel != nil {
		l.cancel()
	}
}
