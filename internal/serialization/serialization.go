// Package serialization implements the SerializationOracle (C3): a thin
// adapter over an external pkg/marshal.Marshaller that the rest of the
// planning pipeline queries without ever touching the marshaller directly.
package serialization

import "github.com/iamNilotpal/latticemap/pkg/marshal"

// Oracle answers the three questions configuration resolution
// (pkg/options.Resolve) asks about a key or value type: is its size statically known, is it constant at
// runtime, and (failing both) how big is a given sample.
type Oracle struct {
	m marshal.Marshaller
}

// New wraps a marshaller. A nil marshaller is valid and reports "unknown" for
// every query; callers must supply an explicit size through configuration in
// that case.
func New(m marshal.Marshaller) *Oracle {
	return &Oracle{m: m}
}

// StaticallyKnown reports whether the wrapped type has a size fixed by the
// type itself.
func (o *Oracle) StaticallyKnown() bool {
	return o.m != nil && o.m.StaticallyKnown()
}

// ConstantSizeMarshaller reports whether the wrapped marshaller always
// produces the same size, even if only known at runtime.
func (o *Oracle) ConstantSizeMarshaller() bool {
	return o.m != nil && o.m.ConstantSizeMarshaller()
}

// ConstantSize returns the fixed size in bytes if StaticallyKnown or
// ConstantSizeMarshaller holds.
func (o *Oracle) ConstantSize() (int, bool) {
	if o.m == nil {
		return 0, false
	}
	return o.m.ConstantSize()
}

// SerializationSize measures a concrete sample, failing with the
// marshaller's ErrBadSample if it cannot be measured.
func (o *Oracle) SerializationSize(sample any) (int, error) {
	if o.m == nil {
		return 0, marshal.ErrBadSample
	}
	return o.m.SerializationSize(sample)
}
