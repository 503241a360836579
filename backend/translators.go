package backend

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors for translator registration.
var (
	ErrNilTranslator      = errors.New("backend: translator is nil")
	ErrEmptyPrimitiveName = errors.New("backend: primitive name is empty")
	ErrTranslatorExists   = errors.New("backend: translator already registered for primitive")
)

var (
	registryMu        sync.Mutex
	activeTranslators = map[string]OpTranslator{}
)

// RegisterTranslator adds t as the process-wide translator for the named
// primitive. A second registration for the same primitive fails with
// ErrTranslatorExists unless overwrite is set, so an accidental collision
// between independently registered primitive sets surfaces loudly.
func RegisterTranslator(name string, t OpTranslator, overwrite bool) error {
	if name == "" {
		return ErrEmptyPrimitiveName
	}
	if t == nil {
		return fmt.Errorf("%w: %q", ErrNilTranslator, name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := activeTranslators[name]; ok && !overwrite {
		return fmt.Errorf("%w: %q", ErrTranslatorExists, name)
	}
	activeTranslators[name] = t
	return nil
}

// RegisteredTranslators returns a snapshot copy of the process-wide
// translator table. Mutating the returned map does not affect later
// registrations or pipelines constructed from the registry.
func RegisteredTranslators() map[string]OpTranslator {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make(map[string]OpTranslator, len(activeTranslators))
	for name, t := range activeTranslators {
		out[name] = t
	}
	return out
}

// SetRegisteredTranslators replaces the process-wide table with a copy of
// table and returns the previous table, so callers can scope a replacement
// and restore what was active before.
func SetRegisteredTranslators(table map[string]OpTranslator) map[string]OpTranslator {
	next := make(map[string]OpTranslator, len(table))
	for name, t := range table {
		next[name] = t
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	previous := activeTranslators
	activeTranslators = next
	return previous
}
