package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/stagedjit/array"
)

// Sentinel errors for translation.
var (
	ErrNoTranslator = errors.New("backend: no translator registered for op")
	ErrEmptyTrace   = errors.New("backend: trace has no operations")
)

// Callable is the user computation the pipeline stages, lowers, and
// compiles. Arguments are concrete values on a direct call and traced
// placeholders during a symbolic evaluation.
type Callable func(args ...any) (any, error)

// TraceVar is one symbolic value inside a trace. IDs are only meaningful
// within their trace.
type TraceVar struct {
	ID   int
	Aval array.Abstract
}

// TraceOp is one primitive application recorded by the front end.
type TraceOp struct {
	Name    string
	Inputs  []TraceVar
	Outputs []TraceVar
	Attrs   map[string]string
}

// Trace is the symbolic program representation produced by the front end:
// the ordered primitive applications plus the trace-level inputs/outputs.
type Trace struct {
	Inputs  []TraceVar
	Outputs []TraceVar
	Ops     []TraceOp
}

// OutputSpec describes how to unflatten the flattened results of an
// execution back into the shape the traced callable returned.
type OutputSpec struct {
	// Single is true when the callable returned one value rather than a
	// tuple of values.
	Single bool
	// Names are the flattened output names, in result order.
	Names []string
}

// Unflatten reassembles flattened results according to the spec.
func (s *OutputSpec) Unflatten(flat []any) any {
	if len(flat) == 0 {
		return nil
	}
	if s.Single {
		return flat[0]
	}
	out := make([]any, len(flat))
	copy(out, flat)
	return out
}

// Tracer is the front-end collaborator. Trace runs fn symbolically against
// the structure of args and returns the symbolic program plus the output
// structure descriptor. Abstract is the escalation hook fingerprinting uses
// to reduce unrecognized values to shape+dtype.
type Tracer interface {
	Trace(ctx context.Context, fn Callable, args []any) (*Trace, *OutputSpec, error)
	Abstract(v any) (array.Abstract, error)
}

// OpTranslator translates one primitive application into IR instructions.
type OpTranslator interface {
	Translate(b *Builder, op TraceOp) error
}

// OpTranslatorFunc adapts a function to the OpTranslator interface.
type OpTranslatorFunc func(b *Builder, op TraceOp) error

func (f OpTranslatorFunc) Translate(b *Builder, op TraceOp) error { return f(b, op) }

// Compiler is the optimizer+compiler collaborator. It may mutate prog in
// place while optimizing; callers that cache prog must hand over a private
// copy. It returns the executable together with the input and output
// variable names, in call order.
type Compiler interface {
	Compile(ctx context.Context, prog *Program, options map[string]any) (exec Executable, inputs, outputs []string, err error)
}

// Executable is a compiled program ready to run. Inputs and results are
// flattened; the stage layer unflattens per the OutputSpec captured at
// trace time.
type Executable interface {
	Execute(ctx context.Context, inputs []any) ([]any, error)
}

// Translate lowers a symbolic trace to IR by dispatching every primitive
// application to its registered translator. A primitive without a handler
// fails the whole translation with ErrNoTranslator.
func Translate(tr *Trace, handlers map[string]OpTranslator) (*Program, error) {
	if len(tr.Ops) == 0 {
		return nil, ErrEmptyTrace
	}
	b := NewBuilder()
	for _, in := range tr.Inputs {
		b.DeclareInput(varName(in), in.Aval)
	}
	for _, op := range tr.Ops {
		h, ok := handlers[op.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoTranslator, op.Name)
		}
		if err := h.Translate(b, op); err != nil {
			return nil, fmt.Errorf("backend: translating %q: %w", op.Name, err)
		}
	}
	for _, out := range tr.Outputs {
		b.DeclareOutput(varName(out), out.Aval)
	}
	return b.Finish(), nil
}

func varName(v TraceVar) string { return fmt.Sprintf("v%d", v.ID) }

// VarName returns the canonical IR name of a trace variable.
func VarName(v TraceVar) string { return varName(v) }
