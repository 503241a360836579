package fingerprint

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jonwraymond/stagedjit/array"
)

func mustArray(t *testing.T, shape array.Shape) *array.Array {
	t.Helper()
	a, err := array.New(shape, array.Float64, make([]float64, shape.Size()))
	if err != nil {
		t.Fatalf("array.New(%v): %v", shape, err)
	}
	return a
}

// TestFromValue_StructureOnly verifies value desensitization: two arrays of
// the same structure but different contents fingerprint identically.
func TestFromValue_StructureOnly(t *testing.T) {
	a := mustArray(t, array.Shape{4, 3})
	b := mustArray(t, array.Shape{4, 3})
	for i := range b.Data {
		b.Data[i] = float64(i) + 0.5
	}

	fa, err := FromValue(a, nil)
	if err != nil {
		t.Fatalf("FromValue(a): %v", err)
	}
	fb, err := FromValue(b, nil)
	if err != nil {
		t.Fatalf("FromValue(b): %v", err)
	}
	if !fa.Equal(fb) {
		t.Errorf("same-structure arrays must fingerprint equal: %v vs %v", fa, fb)
	}
	if fa.Kind() != KindAbstract {
		t.Errorf("array fingerprint kind = %v, want KindAbstract", fa.Kind())
	}
}

// TestFromValue_StructuralMiss verifies shape sensitivity.
func TestFromValue_StructuralMiss(t *testing.T) {
	fa, _ := FromValue(mustArray(t, array.Shape{4, 3}), nil)
	fb, _ := FromValue(mustArray(t, array.Shape{4, 4}), nil)
	if fa.Equal(fb) {
		t.Errorf("(4,3) and (4,4) must fingerprint differently, both %v", fa)
	}
}

// TestFromValue_Rejections covers the failure taxonomy.
func TestFromValue_Rejections(t *testing.T) {
	distributed := mustArray(t, array.Shape{8})
	distributed.Addressable = false

	tests := []struct {
		name    string
		value   any
		wantErr error
	}{
		{"distributed array", distributed, ErrUnsupportedKind},
		{"traced placeholder", &array.Traced{ID: 1}, ErrNotCacheable},
		{"traced value", array.Traced{ID: 2}, ErrNotCacheable},
		{"named-argument map", map[string]any{"x": 1}, ErrUnsupportedKind},
		{"unresolvable", struct{ x int }{1}, ErrCannotAbstract},
		{"nil array", (*array.Array)(nil), ErrUnsupportedKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromValue(tt.value, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromValue(%T) error = %v, want %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

// TestFromValue_ResolverEscalation verifies the single escalation to the
// front end's own abstraction mechanism.
func TestFromValue_ResolverEscalation(t *testing.T) {
	type opaque struct{ n int }

	calls := 0
	resolve := func(v any) (array.Abstract, error) {
		calls++
		if _, ok := v.(opaque); ok {
			return array.Abstract{Shape: array.Shape{2}, DType: array.Int64}, nil
		}
		return array.Abstract{}, fmt.Errorf("unknown value %T", v)
	}

	fp, err := FromValue(opaque{1}, resolve)
	if err != nil {
		t.Fatalf("FromValue with resolver: %v", err)
	}
	if calls != 1 {
		t.Errorf("resolver called %d times, want exactly 1", calls)
	}
	want, _ := FromValue(array.Abstract{Shape: array.Shape{2}, DType: array.Int64}, nil)
	if !fp.Equal(want) {
		t.Errorf("resolved fingerprint = %v, want %v", fp, want)
	}

	// Resolver failure surfaces as ErrCannotAbstract.
	_, err = FromValue("not-a-value", resolve)
	if !errors.Is(err, ErrCannotAbstract) {
		t.Errorf("failing resolver error = %v, want ErrCannotAbstract", err)
	}
	if calls != 2 {
		t.Errorf("resolver called %d times, want 2 (one per value)", calls)
	}
}

// TestFromValue_Scalars verifies scalars reduce to rank-0 abstracts.
func TestFromValue_Scalars(t *testing.T) {
	fi, err := FromValue(3, nil)
	if err != nil {
		t.Fatalf("FromValue(3): %v", err)
	}
	fj, _ := FromValue(99, nil)
	if !fi.Equal(fj) {
		t.Error("scalars of the same type must fingerprint equal regardless of value")
	}
	ff, _ := FromValue(3.0, nil)
	if fi.Equal(ff) {
		t.Error("int and float scalars must fingerprint differently")
	}
}

// TestFromValue_AbstractLayoutUndefined verifies traced-shape inputs record
// an undefined layout distinct from any concrete layout.
func TestFromValue_AbstractLayoutUndefined(t *testing.T) {
	av, _ := FromValue(array.Abstract{Shape: array.Shape{4, 3}, DType: array.Float64}, nil)
	cv, _ := FromValue(mustArray(t, array.Shape{4, 3}), nil)
	if av.Equal(cv) {
		t.Error("abstract (no layout) and concrete (row-major) fingerprints must differ")
	}
}

// TestFromOption covers concrete value encoding.
func TestFromOption(t *testing.T) {
	tests := []struct {
		name    string
		a, b    any
		equal   bool
		wantErr error
	}{
		{"same bool", true, true, true, nil},
		{"different bool", true, false, false, nil},
		{"same string", "O2", "O2", true, nil},
		{"int vs uint", 1, uint(1), false, nil},
		{"int vs string", 1, "1", false, nil},
		{"unhashable", []int{1}, nil, false, ErrUnhashable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa, err := FromOption(tt.a)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FromOption(%T) error = %v, want %v", tt.a, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromOption(%v): %v", tt.a, err)
			}
			fb, err := FromOption(tt.b)
			if err != nil {
				t.Fatalf("FromOption(%v): %v", tt.b, err)
			}
			if got := fa.Equal(fb); got != tt.equal {
				t.Errorf("Equal(%v, %v) = %v, want %v", fa, fb, got, tt.equal)
			}
		})
	}
}

// TestCanonical_Distinct verifies the variants cannot alias each other.
func TestCanonical_Distinct(t *testing.T) {
	ab, _ := FromValue(1, nil)
	co, _ := FromOption(1)
	if ab.Equal(co) {
		t.Errorf("abstract and concrete fingerprints of 1 must differ: %v vs %v", ab, co)
	}
}
