package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// TransitionFunc produces the next stage object. It runs only on a cache
// miss. Its result must be safe to alias across future callers: it must not
// share mutable internal state with anything the producer later mutates.
type TransitionFunc func(ctx context.Context) (any, error)

// Recorder receives transition outcomes for telemetry. Implementations must
// be safe for concurrent use and must not panic.
type Recorder interface {
	RecordTransition(ctx context.Context, kind string, hit bool, duration time.Duration, err error)
}

// Middleware wraps stage transitions with memoization. On a hit the
// underlying transition does not run at all, including any side effects it
// would have had. On a miss it runs once, and concurrent calls with the
// same key wait for that one result instead of duplicating the work.
// Errors propagate unchanged and are never cached.
type Middleware struct {
	registry *Registry
	recorder Recorder
	group    singleflight.Group
}

// NewMiddleware creates a middleware over registry. A nil registry selects
// the process default; recorder may be nil.
func NewMiddleware(registry *Registry, recorder Recorder) *Middleware {
	if registry == nil {
		registry = Default()
	}
	return &Middleware{registry: registry, recorder: recorder}
}

// Registry returns the registry the middleware resolves stores from.
func (m *Middleware) Registry() *Registry { return m.registry }

// Do returns the cached next stage for key, or runs transition and caches
// its result.
func (m *Middleware) Do(ctx context.Context, key Key, transition TransitionFunc) (any, error) {
	store := m.registry.StoreFor(key.Kind)
	start := time.Now()

	if store.Has(key) {
		next, err := store.Get(key)
		if err == nil {
			m.record(ctx, key, true, time.Since(start), nil)
			return next, nil
		}
		// Evicted between Has and Get by a concurrent writer; fall
		// through to the miss path.
	}

	// ran distinguishes leading a flight from joining one: singleflight
	// runs the function at most once, in the leading caller.
	ran, fromStore := false, false
	next, err, _ := m.group.Do(key.String(), func() (any, error) {
		ran = true
		// A concurrent flight may have completed while this call was
		// queued behind it.
		if v, ok := store.Lookup(key); ok {
			fromStore = true
			return v, nil
		}
		v, err := transition(ctx)
		if err != nil {
			return nil, err
		}
		store.Put(key, v)
		return v, nil
	})
	// Joining a flight or finding the store already filled is a hit: the
	// transition did not run for this caller.
	hit := err == nil && (!ran || fromStore)
	m.record(ctx, key, hit, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (m *Middleware) record(ctx context.Context, key Key, hit bool, d time.Duration, err error) {
	if m.recorder == nil {
		return
	}
	m.recorder.RecordTransition(ctx, string(key.Kind), hit, d, err)
}
