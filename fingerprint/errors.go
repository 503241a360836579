package fingerprint

import "errors"

// Sentinel errors for fingerprint derivation.
var (
	// ErrUnsupportedKind marks an argument that cannot be fingerprinted at
	// all, such as a distributed array or an unrecognized container.
	ErrUnsupportedKind = errors.New("fingerprint: unsupported argument kind")

	// ErrNotCacheable marks a value with no stable structural identity
	// across calls, such as a traced placeholder.
	ErrNotCacheable = errors.New("fingerprint: value is not cacheable")

	// ErrCannotAbstract marks a value that could not be reduced to an
	// abstract shape+dtype description, even after one resolver escalation.
	ErrCannotAbstract = errors.New("fingerprint: cannot abstract value")

	// ErrUnhashable marks an option value that is not hashable and
	// equality-comparable.
	ErrUnhashable = errors.New("fingerprint: option value is not hashable")
)
