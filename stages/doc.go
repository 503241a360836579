// Package stages implements the Wrapped→Lowered→Compiled pipeline.
//
// A Wrapped stage holds a callable ready to be specialized; Lower traces
// and translates it into a Lowered stage holding the intermediate
// representation; Compile optimizes and compiles that into a Compiled stage
// that can be called with concrete arguments. Both transitions are
// memoized: lowering keys on the structure of the call arguments, never
// their values, while compilation keys on the concrete option values.
package stages
