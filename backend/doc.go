// Package backend defines the boundary to the pipeline's external
// collaborators: the front-end tracer that stages a callable out into a
// symbolic trace, the translator that turns a trace into the intermediate
// representation, the optimizer+compiler that produces an executable, and
// the executable itself.
//
// The caching core treats all of these as ordinary synchronous calls; it
// never retries them and never caches their failures.
package backend
