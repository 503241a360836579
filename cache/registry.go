package cache

import "sync"

// DefaultCapacity is the per-stage-kind store capacity used when the
// registry was constructed without an explicit one.
const DefaultCapacity = 128

// Registry owns one Store per stage kind, created lazily on first use.
// Keying by stage kind bounds the number of stores to the number of
// pipeline stage types; instance identity lives inside each Key, so stage
// instances never collide within a shared store.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Lifecycle: starts empty; Reset discards every store, dropping all
//   memoized work. Reset exists for test isolation, not the hot path.
type Registry struct {
	mu       sync.Mutex
	capacity int
	stores   map[Kind]*Store
}

// NewRegistry creates an empty registry. A non-positive capacity selects
// DefaultCapacity for the stores it creates.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		stores:   make(map[Kind]*Store),
	}
}

// StoreFor returns the store for kind, creating it on first request.
func (r *Registry) StoreFor(kind Kind) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[kind]
	if !ok {
		// capacity is validated positive, NewStore cannot fail here.
		s, _ = NewStore(r.capacity)
		r.stores[kind] = s
	}
	return s
}

// Reset discards every store for every stage kind. Previously cached
// transitions become fresh misses.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores = make(map[Kind]*Store)
}

var defaultRegistry = NewRegistry(0)

// Default returns the process-wide registry used by pipelines that were
// not given an explicit one.
func Default() *Registry { return defaultRegistry }
