package stages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonwraymond/stagedjit/array"
	"github.com/jonwraymond/stagedjit/backend"
	"github.com/jonwraymond/stagedjit/cache"
	"github.com/jonwraymond/stagedjit/observe"
)

// Option configures a pipeline at construction time.
type Option func(*config)

type config struct {
	name     string
	registry *cache.Registry
	recorder cache.Recorder
	logger   observe.Logger
	spans    observe.Tracer
}

// WithName labels the pipeline in logs, spans and metrics.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithRegistry injects the cache registry owning the transition stores.
// Without it the process-wide default registry is used.
func WithRegistry(r *cache.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithRecorder injects a transition-outcome recorder, typically an
// observe.Metrics.
func WithRecorder(rec cache.Recorder) Option {
	return func(c *config) { c.recorder = rec }
}

// WithLogger injects a structured logger for transition events.
func WithLogger(l observe.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithObserver wires an Observer's metrics, spans and logger in one step.
func WithObserver(obs observe.Observer) Option {
	return func(c *config) {
		c.recorder = obs.Metrics()
		c.logger = obs.Logger()
		c.spans = observe.NewTracer(obs.Tracer())
	}
}

// Wrapped is a callable ready to be specialized, lowered and compiled: the
// first stage of the pipeline. Construct it with New; it is immutable after
// construction. Lowering is cached, so lowering again with
// structurally-equivalent arguments returns the cached Lowered object.
type Wrapped struct {
	id          uuid.UUID
	name        string
	fn          backend.Callable
	translators map[string]backend.OpTranslator
	tracer      backend.Tracer
	compiler    backend.Compiler
	mw          *cache.Middleware
	logger      observe.Logger
	spans       observe.Tracer
}

// New wraps fn into the first pipeline stage. The translator table maps
// primitive names to their IR translators; a nil table selects a snapshot
// of the process-wide registered translators. Tracer and compiler are the
// front-end and back-end collaborators. The table is copied, so later
// mutation of the argument (or later registrations) does not reach the
// stage.
func New(fn backend.Callable, translators map[string]backend.OpTranslator, tracer backend.Tracer, compiler backend.Compiler, opts ...Option) (*Wrapped, error) {
	if fn == nil {
		return nil, ErrNilCallable
	}
	if tracer == nil {
		return nil, ErrNilTracer
	}
	if compiler == nil {
		return nil, ErrNilCompiler
	}

	cfg := config{logger: observe.NewNoopLogger(), spans: observe.NewNoopTracer()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var table map[string]backend.OpTranslator
	if translators == nil {
		table = backend.RegisteredTranslators()
	} else {
		table = make(map[string]backend.OpTranslator, len(translators))
		for name, h := range translators {
			table[name] = h
		}
	}

	return &Wrapped{
		id:          uuid.New(),
		name:        cfg.name,
		fn:          fn,
		translators: table,
		tracer:      tracer,
		compiler:    compiler,
		mw:          cache.NewMiddleware(cfg.registry, cfg.recorder),
		logger:      cfg.logger,
		spans:       cfg.spans,
	}, nil
}

// Fn returns the underlying callable.
func (w *Wrapped) Fn() backend.Callable { return w.fn }

// ID returns the stage instance identity used in its cache keys.
func (w *Wrapped) ID() uuid.UUID { return w.id }

func (w *Wrapped) meta() observe.StageMeta {
	return observe.StageMeta{Kind: string(cache.KindLower), Name: w.name, Instance: w.id.String()}
}

// Lower traces the callable against the structure of args and translates
// the trace to IR, producing the Lowered stage. The transition is cached on
// the structural fingerprints of args: two calls whose arguments differ
// only in value reuse one Lowered object, and on a hit the front-end tracer
// is not consulted at all.
func (w *Wrapped) Lower(ctx context.Context, args ...any) (*Lowered, error) {
	key, err := cache.LowerKey(w.id, args, w.tracer.Abstract)
	if err != nil {
		return nil, err
	}

	next, err := w.mw.Do(ctx, key, func(ctx context.Context) (any, error) {
		return w.lower(ctx, args)
	})
	if err != nil {
		return nil, err
	}
	lowered, ok := next.(*Lowered)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWrongStage, next)
	}
	return lowered, nil
}

// lower is the real trace→IR transition; it runs only on a cache miss. It
// returns a freshly constructed Lowered that shares no mutable state with
// the trace or this stage.
func (w *Wrapped) lower(ctx context.Context, args []any) (*Lowered, error) {
	ctx, span := w.spans.StartSpan(ctx, w.meta())
	tr, outSpec, err := w.tracer.Trace(ctx, w.fn, args)
	if err != nil {
		w.spans.EndSpan(span, err)
		return nil, err
	}
	prog, err := backend.Translate(tr, w.translators)
	if err != nil {
		w.spans.EndSpan(span, err)
		return nil, err
	}
	w.spans.EndSpan(span, nil)

	lowered := newLowered(prog, outSpec, w.compiler, w.mw, w.logger, w.spans, w.name)
	w.logger.WithStage(w.meta()).Debug(ctx, "lowered computation",
		observe.Field{Key: "ops", Value: len(prog.Body)},
		observe.Field{Key: "ir_digest", Value: lowered.digest},
	)
	return lowered, nil
}

// Call lowers, compiles and executes in one step, accepting the same
// arguments as the original computation. When a symbolic evaluation is
// already in progress (any argument is a traced placeholder) the pipeline
// steps aside and the wrapped callable runs directly, so nested invocation
// composes with an outer trace.
func (w *Wrapped) Call(ctx context.Context, args ...any) (any, error) {
	if tracingOngoing(args) {
		return w.fn(args...)
	}
	lowered, err := w.Lower(ctx, args...)
	if err != nil {
		return nil, err
	}
	compiled, err := lowered.Compile(ctx)
	if err != nil {
		return nil, err
	}
	return compiled.Call(ctx, args...)
}

func tracingOngoing(args []any) bool {
	for _, a := range args {
		switch a.(type) {
		case array.Traced, *array.Traced:
			return true
		}
	}
	return false
}
