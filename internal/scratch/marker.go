// Package scratch implements the magic expansion marker: the mechanism by
// which a stage action replaces one record with an ordered sequence of
// successor records.
package scratch

import "github.com/cloudlens/cloudlens/value"

// reservedKey identifies an expansion-marker object. It is built from two
// code points in the Unicode Tags block (U+E0000, U+E0001) — invisible,
// never produced by any text a log line would realistically contain, and
// not a legal field name a user would type by hand. These code points are
// reserved for exactly this kind of private in-band signaling and appear
// in no normal corpus of log messages.
const reservedKey = "\U000E0000\U000E0001"

// Wrap produces the expansion-marker value that emit(seq) returns:
// assigning it to a stage's bound record requests that the record be
// replaced by children, in order.
func Wrap(children []value.Value) value.Value {
	marker := value.NewObject()
	marker.Set(value.Path{{Kind: value.FieldStep, Field: reservedKey}}, value.NewArray(children...))
	return marker
}

// Unwrap reports whether v is an expansion marker and, if so, returns its
// children.
func Unwrap(v value.Value) ([]value.Value, bool) {
	keys, ok := v.Keys()
	if !ok || len(keys) != 1 || keys[0] != reservedKey {
		return nil, false
	}
	wrapped, ok := v.Get(value.Path{{Kind: value.FieldStep, Field: reservedKey}})
	if !ok {
		return nil, false
	}
	children, ok := wrapped.AsArray()
	if !ok {
		return nil, false
	}
	return children, true
}
