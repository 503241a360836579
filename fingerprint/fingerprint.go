package fingerprint

import (
	"fmt"
	"strconv"

	"github.com/jonwraymond/stagedjit/array"
)

// Kind discriminates the fingerprint variants.
type Kind int

const (
	// KindAbstract describes structure only: shape, dtype, layout, storage.
	KindAbstract Kind = iota
	// KindConcrete encodes an option value verbatim.
	KindConcrete
)

// Resolver is the front end's escalation hook: it reduces an otherwise
// unrecognized value to an abstract shape+dtype description. Derivation
// consults it exactly once per value.
type Resolver func(v any) (array.Abstract, error)

// Fingerprint is the immutable structural descriptor of one call argument.
// It is a value type with canonical, collision-free equality: two
// fingerprints are equal iff their canonical encodings are identical.
type Fingerprint struct {
	kind    Kind
	shape   string
	dtype   array.DType
	layout  string
	storage array.Storage
	value   string
}

// Kind returns the variant tag.
func (f Fingerprint) Kind() Kind { return f.kind }

// Canonical returns the canonical textual encoding. The encoding is exact:
// it is the fingerprint's identity, not a hash of it.
func (f Fingerprint) Canonical() string {
	if f.kind == KindConcrete {
		return "c|" + f.value
	}
	return fmt.Sprintf("a|%s|%s|%s|%s", f.shape, f.dtype, f.layout, f.storage)
}

// Equal reports canonical equality.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return f.kind == o.kind && f.Canonical() == o.Canonical()
}

func (f Fingerprint) String() string { return f.Canonical() }

func abstract(shape array.Shape, dtype array.DType, layout array.Layout, storage array.Storage) Fingerprint {
	return Fingerprint{
		kind:    KindAbstract,
		shape:   shape.String(),
		dtype:   dtype,
		layout:  layout.String(),
		storage: storage,
	}
}

// FromValue derives the fingerprint of one positional call argument.
//
// Concrete arrays keep their full structure including layout and storage.
// Abstract values and plain scalars reduce to shape+dtype with an undefined
// layout. Traced placeholders fail with ErrNotCacheable, distributed arrays
// with ErrUnsupportedKind. Anything else is handed to resolve once; if that
// fails too the error is ErrCannotAbstract.
func FromValue(v any, resolve Resolver) (Fingerprint, error) {
	switch val := v.(type) {
	case *array.Array:
		if val == nil {
			return Fingerprint{}, fmt.Errorf("%w: nil array", ErrUnsupportedKind)
		}
		return fromArray(val)
	case array.Array:
		return fromArray(&val)
	case *array.Traced:
		return Fingerprint{}, fmt.Errorf("%w: traced placeholder", ErrNotCacheable)
	case array.Traced:
		return Fingerprint{}, fmt.Errorf("%w: traced placeholder", ErrNotCacheable)
	case *array.Abstract:
		if val == nil {
			return Fingerprint{}, fmt.Errorf("%w: nil abstract", ErrUnsupportedKind)
		}
		return abstract(val.Shape, val.DType, array.UnknownLayout(), array.Host), nil
	case array.Abstract:
		return abstract(val.Shape, val.DType, array.UnknownLayout(), array.Host), nil
	case map[string]any:
		return Fingerprint{}, fmt.Errorf("%w: named-argument map", ErrUnsupportedKind)
	}

	if av, ok := array.AbstractOf(v); ok {
		return abstract(av.Shape, av.DType, array.UnknownLayout(), array.Host), nil
	}

	// Unrecognized: escalate to the front end once.
	if resolve != nil {
		av, err := resolve(v)
		if err != nil {
			return Fingerprint{}, fmt.Errorf("%w: %T: %v", ErrCannotAbstract, v, err)
		}
		return abstract(av.Shape, av.DType, array.UnknownLayout(), array.Host), nil
	}
	return Fingerprint{}, fmt.Errorf("%w: %T", ErrCannotAbstract, v)
}

func fromArray(a *array.Array) (Fingerprint, error) {
	if !a.Addressable {
		return Fingerprint{}, fmt.Errorf("%w: array is not fully addressable", ErrUnsupportedKind)
	}
	return abstract(a.Shape, a.DType, a.Layout, a.Storage), nil
}

// FromOption derives the concrete fingerprint of one option value. Equality
// is value equality: the encoding carries a type tag so 1 and uint(1) and
// "1" stay distinct.
func FromOption(v any) (Fingerprint, error) {
	var enc string
	switch val := v.(type) {
	case nil:
		enc = "n"
	case bool:
		enc = "b:" + strconv.FormatBool(val)
	case int:
		enc = "i:" + strconv.FormatInt(int64(val), 10)
	case int8:
		enc = "i:" + strconv.FormatInt(int64(val), 10)
	case int16:
		enc = "i:" + strconv.FormatInt(int64(val), 10)
	case int32:
		enc = "i:" + strconv.FormatInt(int64(val), 10)
	case int64:
		enc = "i:" + strconv.FormatInt(val, 10)
	case uint:
		enc = "u:" + strconv.FormatUint(uint64(val), 10)
	case uint8:
		enc = "u:" + strconv.FormatUint(uint64(val), 10)
	case uint16:
		enc = "u:" + strconv.FormatUint(uint64(val), 10)
	case uint32:
		enc = "u:" + strconv.FormatUint(uint64(val), 10)
	case uint64:
		enc = "u:" + strconv.FormatUint(val, 10)
	case float32:
		enc = "f:" + strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		enc = "f:" + strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		enc = "s:" + strconv.Quote(val)
	default:
		return Fingerprint{}, fmt.Errorf("%w: %T", ErrUnhashable, v)
	}
	return Fingerprint{kind: KindConcrete, value: enc}, nil
}
