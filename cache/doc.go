// Package cache provides memoization for staged-pipeline transitions.
//
// It provides a bounded LRU Store per stage kind, a Registry owning the
// stores, structural TransitionKey derivation, and a Middleware that wraps a
// stage transition so repeated calls with structurally-equivalent arguments
// return the previously produced stage object instead of re-running the
// transition. Failed transitions are never cached.
package cache
