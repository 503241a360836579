package stages

import (
	"context"
	"fmt"

	"github.com/jonwraymond/stagedjit/backend"
)

// Compiled is the last stage: a directly invocable executable plus the
// names of its inputs and outputs. The stage assumes ownership of its
// constructor arguments.
type Compiled struct {
	exec     backend.Executable
	inNames  []string
	outNames []string
	outSpec  *backend.OutputSpec
}

func newCompiled(exec backend.Executable, inNames, outNames []string, outSpec *backend.OutputSpec) (*Compiled, error) {
	if len(inNames) == 0 || len(outNames) == 0 {
		return nil, ErrNoBindings
	}
	if outSpec == nil {
		return nil, ErrNoOutputSpec
	}
	return &Compiled{
		exec:     exec,
		inNames:  append([]string(nil), inNames...),
		outNames: append([]string(nil), outNames...),
		outSpec:  outSpec,
	}, nil
}

// InputNames returns the executable's input variable names, in call order.
func (c *Compiled) InputNames() []string {
	return append([]string(nil), c.inNames...)
}

// OutputNames returns the executable's output variable names, in result order.
func (c *Compiled) OutputNames() []string {
	return append([]string(nil), c.outNames...)
}

// Call runs the embedded computation. Arguments must be structurally
// compatible with the ones used for lowering; the flattened results are
// reassembled per the output structure captured at trace time.
func (c *Compiled) Call(ctx context.Context, args ...any) (any, error) {
	if len(args) != len(c.inNames) {
		return nil, fmt.Errorf("stages: executable takes %d arguments, got %d", len(c.inNames), len(args))
	}
	flat, err := c.exec.Execute(ctx, args)
	if err != nil {
		return nil, err
	}
	return c.outSpec.Unflatten(flat), nil
}
