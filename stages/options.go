package stages

import "sync"

// CompilerOptions is a set of named, concrete option values consumed by the
// optimizer+compiler. Values must be hashable (bool, integer, float or
// string) so they can participate in compile-transition keys.
type CompilerOptions map[string]any

// DefaultCompilerOptions are the options applied when neither the active
// global set nor the call supplies a value.
var DefaultCompilerOptions = CompilerOptions{
	"auto_optimize": true,
	"simplify":      true,
}

// Clone returns an independent copy of the option set.
func (o CompilerOptions) Clone() CompilerOptions {
	out := make(CompilerOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

var (
	activeMu sync.Mutex
	// Global set of currently active compiler options. Read through
	// FinalizeCompilerOptions by the compile transition's key derivation
	// and by the compiler invocation itself.
	activeOptions = DefaultCompilerOptions.Clone()
)

// ActiveCompilerOptions returns a copy of the currently active global
// compiler options. The copy prevents aliasing of the live global state.
func ActiveCompilerOptions() CompilerOptions {
	activeMu.Lock()
	defer activeMu.Unlock()
	return activeOptions.Clone()
}

// UpdateActiveCompilerOptions merges updates into the active global set,
// key by key, and returns a copy of the set that was active before the
// call so callers can restore it.
func UpdateActiveCompilerOptions(updates CompilerOptions) CompilerOptions {
	activeMu.Lock()
	defer activeMu.Unlock()
	previous := activeOptions.Clone()
	for k, v := range updates {
		activeOptions[k] = v
	}
	return previous
}

// ResetCompilerOptions restores the active global set to the defaults.
// Intended for test isolation.
func ResetCompilerOptions() {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeOptions = DefaultCompilerOptions.Clone()
}

// FinalizeCompilerOptions resolves the final options for one compile
// transition: the active global set, overridden key by key by the
// call-supplied options. The result is a fresh copy owned by the caller.
func FinalizeCompilerOptions(local CompilerOptions) CompilerOptions {
	final := ActiveCompilerOptions()
	for k, v := range local {
		final[k] = v
	}
	return final
}
