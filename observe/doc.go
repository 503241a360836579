// Package observe provides telemetry for the staged pipeline: OpenTelemetry
// tracing and metrics around stage transitions, and structured logging.
//
// Telemetry is opt-in per subsystem through Config; disabled subsystems use
// no-op implementations so instrumented code needs no branching.
package observe
