package scoreboard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Registry lazily creates one Tracker per quiz id. A tracker that never
// loaded is dropped as soon as a lookup through it fails, and trackers
// left unused for Options.IdleTimeout are swept when new ones are made.
type Registry struct {
	fetcher Fetcher
	opts    Options

	mu        sync.RWMutex
	trackers  map[string]*Tracker
	lastSweep time.Time
	closed    bool
}

func NewRegistry(f Fetcher, opts Options) *Registry {
	opts = opts.withDefaults()
	return &Registry{
		fetcher:   f,
		opts:      opts,
		trackers:  make(map[string]*Tracker),
		lastSweep: opts.Now(),
	}
}

func (r *Registry) Tracker(quizID string) (*Tracker, error) {
	r.mu.RLock()
	t, ok := r.trackers[quizID]
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if ok {
		return t, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	// Double-check after acquiring write lock.
	if t, ok := r.trackers[quizID]; ok {
		return t, nil
	}

	r.sweepLocked()
	t = NewTracker(quizID, r.fetcher, r.opts)
	r.trackers[quizID] = t
	return t, nil
}

// sweepLocked closes trackers idle for longer than IdleTimeout. It runs
// at most once per IdleTimeout.
func (r *Registry) sweepLocked() {
	now := r.opts.Now()
	if now.Sub(r.lastSweep) < r.opts.IdleTimeout {
		return
	}
	r.lastSweep = now
	for id, t := range r.trackers {
		if now.Sub(t.LastUsed()) >= r.opts.IdleTimeout {
			t.Close()
			delete(r.trackers, id)
		}
	}
}

// evict drops the tracker if it is still the one registered for quizID.
func (r *Registry) evict(quizID string, t *Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.trackers[quizID] == t {
		delete(r.trackers, quizID)
		t.Close()
	}
}

func (r *Registry) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// lookup runs get against the quiz's tracker. A tracker evicted by a
// concurrent request is replaced once.
func lookup[T any](r *Registry, quizID string, get func(*Tracker) (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		t, err := r.Tracker(quizID)
		if err != nil {
			var zero T
			return zero, err
		}

		v, err := get(t)
		if errors.Is(err, ErrClosed) && attempt == 0 && !r.isClosed() {
			continue
		}
		if err != nil && !t.Loaded() {
			r.evict(quizID, t)
		}
		return v, err
	}
}

// View returns the quiz's current view, refreshing it when stale.
func (r *Registry) View(ctx context.Context, quizID string) (*View, error) {
	return lookup(r, quizID, func(t *Tracker) (*View, error) { return t.Get(ctx) })
}

// Roster returns the quiz's team list without waiting on answers or
// judgments.
func (r *Registry) Roster(ctx context.Context, quizID string) (*Roster, error) {
	return lookup(r, quizID, func(t *Tracker) (*Roster, error) { return t.Roster(ctx) })
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trackers)
}

// Close tears down every tracker. Later lookups fail with ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, t := range r.trackers {
		t.Close()
		delete(r.trackers, id)
	}
	return nil
}
