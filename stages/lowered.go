package stages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonwraymond/stagedjit/backend"
	"github.com/jonwraymond/stagedjit/cache"
	"github.com/jonwraymond/stagedjit/observe"
)

// Lowered holds the computation as an intermediate representation: the
// output of Wrapped.Lower and the input of Compile. The stage manages its
// Program exclusively; mutating anything returned by CompilerIR is
// undefined behavior.
type Lowered struct {
	id      uuid.UUID
	name    string
	prog    *backend.Program
	digest  uint64
	outSpec *backend.OutputSpec

	compiler backend.Compiler
	mw       *cache.Middleware
	logger   observe.Logger
	spans    observe.Tracer
}

// newLowered takes ownership of prog. The snapshot digest is computed here,
// while the program is still guaranteed untouched, and reused verbatim in
// every compile key derived from this stage.
func newLowered(prog *backend.Program, outSpec *backend.OutputSpec, compiler backend.Compiler, mw *cache.Middleware, logger observe.Logger, spans observe.Tracer, name string) *Lowered {
	return &Lowered{
		id:       uuid.New(),
		name:     name,
		prog:     prog,
		digest:   prog.Digest(),
		outSpec:  outSpec,
		compiler: compiler,
		mw:       mw,
		logger:   logger,
		spans:    spans,
	}
}

// ID returns the stage instance identity used in its cache keys.
func (l *Lowered) ID() uuid.UUID { return l.id }

// CompilerIR returns the internal program for the requested dialect ("" or
// "ir"). Direct modification of the returned program is forbidden.
func (l *Lowered) CompilerIR(dialect string) (*backend.Program, error) {
	if dialect == "" || dialect == "ir" {
		return l.prog, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
}

// Digest returns the IR snapshot digest taken at construction.
func (l *Lowered) Digest() uint64 { return l.digest }

// OutputSpec returns the output structure descriptor captured at trace time.
func (l *Lowered) OutputSpec() *backend.OutputSpec { return l.outSpec }

func (l *Lowered) meta() observe.StageMeta {
	return observe.StageMeta{Kind: string(cache.KindCompile), Name: l.name, Instance: l.id.String()}
}

// Compile optimizes and compiles the IR under the finalized options: the
// active global set overridden key by key by options. At most one options
// map may be given; none means defaults. The transition is cached on the
// concrete option values, canonicalized by name, so differently-ordered
// maps of the same options hit one entry while any differing value misses.
func (l *Lowered) Compile(ctx context.Context, options ...CompilerOptions) (*Compiled, error) {
	if len(options) > 1 {
		return nil, fmt.Errorf("%w: compile accepts at most one options map, got %d", cache.ErrInvalidArguments, len(options))
	}
	var local CompilerOptions
	if len(options) == 1 {
		local = options[0]
	}
	final := FinalizeCompilerOptions(local)

	key, err := cache.CompileKey(l.id, l.digest, final)
	if err != nil {
		return nil, err
	}

	next, err := l.mw.Do(ctx, key, func(ctx context.Context) (any, error) {
		return l.compile(ctx, final)
	})
	if err != nil {
		return nil, err
	}
	compiled, ok := next.(*Compiled)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongStage, next)
	}
	return compiled, nil
}

// compile is the real IR→executable transition; it runs only on a cache
// miss. The program is deep-copied first because optimization rewrites it
// in place and the cached stage must stay immutable.
func (l *Lowered) compile(ctx context.Context, final CompilerOptions) (*Compiled, error) {
	ctx, span := l.spans.StartSpan(ctx, l.meta())
	private := l.prog.Clone()
	exec, inputs, outputs, err := l.compiler.Compile(ctx, private, final)
	l.spans.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	compiled, err := newCompiled(exec, inputs, outputs, l.outSpec)
	if err != nil {
		return nil, err
	}
	l.logger.WithStage(l.meta()).Debug(ctx, "compiled computation",
		observe.Field{Key: "inputs", Value: len(inputs)},
		observe.Field{Key: "outputs", Value: len(outputs)},
	)
	return compiled, nil
}
