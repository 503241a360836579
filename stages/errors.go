package stages

import "errors"

// Sentinel errors for pipeline construction and execution.
var (
	ErrNilCallable    = errors.New("stages: callable is nil")
	ErrNilTracer      = errors.New("stages: tracer is nil")
	ErrNilCompiler    = errors.New("stages: compiler is nil")
	ErrNoBindings     = errors.New("stages: executable has no input or output bindings")
	ErrNoOutputSpec   = errors.New("stages: executable has no output structure")
	ErrWrongStage     = errors.New("stages: cached entry is not the expected stage type")
	ErrUnknownDialect = errors.New("stages: unknown IR dialect")
)
