package array

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for value classification.
var (
	ErrUnknownDType = errors.New("array: unknown element type")
	ErrBadShape     = errors.New("array: shape has negative dimension")
)

// DType identifies the element type of an array or scalar.
type DType int

const (
	DTypeInvalid DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128
)

var dtypeNames = map[DType]string{
	Bool:       "bool",
	Int8:       "i8",
	Int16:      "i16",
	Int32:      "i32",
	Int64:      "i64",
	Uint8:      "u8",
	Uint16:     "u16",
	Uint32:     "u32",
	Uint64:     "u64",
	Float32:    "f32",
	Float64:    "f64",
	Complex64:  "c64",
	Complex128: "c128",
}

func (d DType) String() string {
	if s, ok := dtypeNames[d]; ok {
		return s
	}
	return fmt.Sprintf("dtype(%d)", int(d))
}

// Valid reports whether d names a known element type.
func (d DType) Valid() bool {
	_, ok := dtypeNames[d]
	return ok
}

// Storage identifies where an array's buffer lives.
type Storage int

const (
	// Host memory, directly addressable by the CPU.
	Host Storage = iota
	// Device memory on an accelerator.
	Device
)

func (s Storage) String() string {
	if s == Device {
		return "device"
	}
	return "host"
}

// Shape is an ordered sequence of non-negative dimension extents.
// A nil or empty Shape denotes a scalar.
type Shape []int

// Validate checks that every dimension extent is non-negative.
func (s Shape) Validate() error {
	for _, d := range s {
		if d < 0 {
			return fmt.Errorf("%w: %v", ErrBadShape, []int(s))
		}
	}
	return nil
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// Size returns the total number of elements.
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal reports whether two shapes have identical rank and extents.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

func (s Shape) String() string {
	if len(s) == 0 {
		return "()"
	}
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Layout describes the stride ordering of an array's buffer. A layout with
// Known=false is the explicit "unsupported or undefined" marker used for
// values that carry no physical placement, such as traced abstracts.
type Layout struct {
	Known   bool
	Strides []int
}

// RowMajor returns the dense row-major layout for a shape with the given
// element size in bytes.
func RowMajor(shape Shape, elemSize int) Layout {
	strides := make([]int, len(shape))
	step := elemSize
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
	}
	return Layout{Known: true, Strides: strides}
}

// UnknownLayout is the undefined-layout marker.
func UnknownLayout() Layout { return Layout{} }

// Equal reports stride-for-stride layout equality. Two unknown layouts are
// equal regardless of any residual stride data.
func (l Layout) Equal(o Layout) bool {
	if l.Known != o.Known {
		return false
	}
	if !l.Known {
		return true
	}
	if len(l.Strides) != len(o.Strides) {
		return false
	}
	for i := range l.Strides {
		if l.Strides[i] != o.Strides[i] {
			return false
		}
	}
	return true
}

func (l Layout) String() string {
	if !l.Known {
		return "?"
	}
	parts := make([]string, len(l.Strides))
	for i, s := range l.Strides {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, ",")
}

// Array is a concrete n-dimensional array: metadata plus a flat host or
// device buffer. The caching layer only ever inspects the metadata.
type Array struct {
	Shape   Shape
	DType   DType
	Layout  Layout
	Storage Storage

	// Addressable is false for distributed arrays whose buffer is not
	// entirely reachable from this process.
	Addressable bool

	// Data is the flat element buffer. It is opaque to the caching layer.
	Data []float64
}

// New constructs a host-resident, fully addressable array with a dense
// row-major layout.
func New(shape Shape, dtype DType, data []float64) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownDType, dtype)
	}
	return &Array{
		Shape:       shape.Clone(),
		DType:       dtype,
		Layout:      RowMajor(shape, dtype.elemSize()),
		Storage:     Host,
		Addressable: true,
		Data:        data,
	}, nil
}

func (d DType) elemSize() int {
	switch d {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Complex128:
		return 16
	default:
		return 8
	}
}

// Abstract is a value that exists only as shape and dtype, the form the
// tracing front end hands back for symbolic results. It has no layout and no
// buffer.
type Abstract struct {
	Shape Shape
	DType DType
}

// Traced is a placeholder standing in for a value while a symbolic
// evaluation is in progress. Traced values have no stable structural
// identity across calls and therefore cannot participate in cache keys.
type Traced struct {
	// ID is only meaningful within a single trace.
	ID int
	// Aval is the abstract value the placeholder represents.
	Aval Abstract
}

// AbstractOf derives the abstract value of a plain Go scalar. Scalars reduce
// to rank-0 abstracts. The second return is false for non-scalar values.
func AbstractOf(v any) (Abstract, bool) {
	var dt DType
	switch v.(type) {
	case bool:
		dt = Bool
	case int, int64:
		dt = Int64
	case int8:
		dt = Int8
	case int16:
		dt = Int16
	case int32:
		dt = Int32
	case uint8:
		dt = Uint8
	case uint16:
		dt = Uint16
	case uint32:
		dt = Uint32
	case uint, uint64:
		dt = Uint64
	case float32:
		dt = Float32
	case float64:
		dt = Float64
	case complex64:
		dt = Complex64
	case complex128:
		dt = Complex128
	default:
		return Abstract{}, false
	}
	return Abstract{Shape: nil, DType: dt}, true
}

// IsScalar reports whether v is a plain Go scalar the pipeline understands.
func IsScalar(v any) bool {
	_, ok := AbstractOf(v)
	return ok
}
