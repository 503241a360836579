package array

import (
	"errors"
	"testing"
)

// TestShape_Validate tests dimension validation rules.
func TestShape_Validate(t *testing.T) {
	tests := []struct {
		name    string
		shape   Shape
		wantErr bool
	}{
		{"nil scalar", nil, false},
		{"empty scalar", Shape{}, false},
		{"vector", Shape{4}, false},
		{"matrix", Shape{4, 3}, false},
		{"zero extent", Shape{4, 0}, false},
		{"negative extent", Shape{4, -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if tt.wantErr && !errors.Is(err, ErrBadShape) {
				t.Errorf("Validate(%v) = %v, want ErrBadShape", tt.shape, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate(%v) = %v, want nil", tt.shape, err)
			}
		})
	}
}

// TestShape_Equal tests structural shape equality.
func TestShape_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Shape
		want bool
	}{
		{"both scalars", nil, Shape{}, true},
		{"same matrix", Shape{4, 3}, Shape{4, 3}, true},
		{"different extent", Shape{4, 3}, Shape{4, 4}, false},
		{"different rank", Shape{4, 3}, Shape{4, 3, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestRowMajor verifies dense stride computation.
func TestRowMajor(t *testing.T) {
	l := RowMajor(Shape{4, 3}, 8)
	want := []int{24, 8}
	if len(l.Strides) != len(want) {
		t.Fatalf("strides = %v, want %v", l.Strides, want)
	}
	for i := range want {
		if l.Strides[i] != want[i] {
			t.Errorf("strides[%d] = %d, want %d", i, l.Strides[i], want[i])
		}
	}
	if !l.Known {
		t.Error("row-major layout must be known")
	}
}

// TestLayout_Equal tests the unsupported-layout marker semantics.
func TestLayout_Equal(t *testing.T) {
	known := RowMajor(Shape{2, 2}, 8)
	if !UnknownLayout().Equal(UnknownLayout()) {
		t.Error("two unknown layouts must compare equal")
	}
	if known.Equal(UnknownLayout()) {
		t.Error("known layout must differ from unknown")
	}
	if !known.Equal(RowMajor(Shape{2, 2}, 8)) {
		t.Error("identical stride layouts must compare equal")
	}
}

// TestNew validates array construction.
func TestNew(t *testing.T) {
	a, err := New(Shape{2, 3}, Float64, make([]float64, 6))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.Storage != Host || !a.Addressable {
		t.Errorf("New() = storage %v addressable %v, want host addressable", a.Storage, a.Addressable)
	}

	if _, err := New(Shape{-1}, Float64, nil); !errors.Is(err, ErrBadShape) {
		t.Errorf("New(negative shape) error = %v, want ErrBadShape", err)
	}
	if _, err := New(Shape{1}, DTypeInvalid, nil); !errors.Is(err, ErrUnknownDType) {
		t.Errorf("New(invalid dtype) error = %v, want ErrUnknownDType", err)
	}
}

// TestAbstractOf classifies scalars.
func TestAbstractOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		dtype DType
		ok    bool
	}{
		{"bool", true, Bool, true},
		{"int", 7, Int64, true},
		{"float64", 1.5, Float64, true},
		{"string", "nope", DTypeInvalid, false},
		{"slice", []int{1}, DTypeInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av, ok := AbstractOf(tt.value)
			if ok != tt.ok {
				t.Fatalf("AbstractOf(%v) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok {
				if av.DType != tt.dtype {
					t.Errorf("dtype = %v, want %v", av.DType, tt.dtype)
				}
				if av.Shape.Rank() != 0 {
					t.Errorf("scalar abstract must be rank 0, got %v", av.Shape)
				}
			}
		})
	}
}
