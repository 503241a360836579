// Package array defines the value model for staged-pipeline call arguments.
//
// It provides shape, dtype, layout and storage metadata for concrete arrays,
// abstract shape+dtype values produced by tracing, and traced placeholders
// that stand in for values during a symbolic evaluation.
package array
