// Package fingerprint derives structural descriptors of call arguments for
// cache-key comparison.
//
// A fingerprint is a tagged variant: Abstract fingerprints describe an
// argument's structure (shape, dtype, layout, storage) and never its
// contents, so calls that differ only in values compare equal; Concrete
// fingerprints encode an option value verbatim, so different options compare
// unequal. Two fingerprints compare equal exactly when an artifact produced
// for one is safe to reuse for the other.
package fingerprint
