package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrInvalidSize rejects store construction with a non-positive
	// capacity.
	ErrInvalidSize = errors.New("cache: store size must be positive")

	// ErrKeyNotFound is returned by Get for a key absent from the store.
	// Reaching it through the public API is a programming error; callers
	// should check Has first or go through the Middleware.
	ErrKeyNotFound = errors.New("cache: key not found")

	// ErrInvalidArguments rejects a malformed transition call shape before
	// any fingerprinting happens: named-argument maps on the lowering
	// transition, or more than one options map on the compile transition.
	ErrInvalidArguments = errors.New("cache: invalid transition arguments")
)
