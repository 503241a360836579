package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonwraymond/stagedjit/fingerprint"
)

// Kind identifies a stage kind. Each kind owns one store in the registry.
type Kind string

const (
	// KindLower is the trace→IR transition.
	KindLower Kind = "lower"
	// KindCompile is the IR→executable transition.
	KindCompile Kind = "compile"
)

// Key is a transition key: the identity of the stage instance that was
// asked to advance, plus the canonical encoding of the call arguments.
// Equality is structural except for Stage, which is per-instance, so two
// different stage objects never collide inside the shared store. Keys are
// value types built fresh on every call attempt.
type Key struct {
	Stage   uuid.UUID
	Kind    Kind
	Payload string
}

func (k Key) String() string {
	return string(k.Kind) + "|" + k.Stage.String() + "|" + k.Payload
}

// LowerKey builds the key for a trace→IR transition. Arguments are
// fingerprinted independently, in positional order; order is semantically
// meaningful because it must match the order the transition consumes.
// Named-argument maps are rejected with ErrInvalidArguments before any
// fingerprinting starts.
func LowerKey(stage uuid.UUID, args []any, resolve fingerprint.Resolver) (Key, error) {
	for i, a := range args {
		if _, ok := a.(map[string]any); ok {
			return Key{}, fmt.Errorf("%w: named arguments are not supported by lower (argument %d)", ErrInvalidArguments, i)
		}
	}
	var sb strings.Builder
	for i, a := range args {
		fp, err := fingerprint.FromValue(a, resolve)
		if err != nil {
			return Key{}, fmt.Errorf("argument %d: %w", i, err)
		}
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(fp.Canonical())
	}
	return Key{Stage: stage, Kind: KindLower, Payload: sb.String()}, nil
}

// CompileKey builds the key for an IR→executable transition. The options
// must already be finalized (global defaults merged in); pairs are sorted by
// option name so two differently-ordered maps of the same options produce
// the same key. Names are quoted so a name containing the pair separators
// cannot make two different option sets encode identically. The IR snapshot
// digest taken at Lowered construction participates so the key is tied to
// the artifact it compiles.
func CompileKey(stage uuid.UUID, irDigest uint64, options map[string]any) (Key, error) {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("ir:")
	sb.WriteString(strconv.FormatUint(irDigest, 16))
	for _, name := range names {
		fp, err := fingerprint.FromOption(options[name])
		if err != nil {
			return Key{}, fmt.Errorf("option %q: %w", name, err)
		}
		sb.WriteByte(';')
		sb.WriteString(strconv.Quote(name))
		sb.WriteByte('=')
		sb.WriteString(fp.Canonical())
	}
	return Key{Stage: stage, Kind: KindCompile, Payload: sb.String()}, nil
}
