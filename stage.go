package cloudlens

import (
	"github.com/cloudlens/cloudlens/internal/scratch"
	"github.com/cloudlens/cloudlens/value"
)

// Action is the user callback a Stage invokes for each record it accepts.
// It receives the current record by mutable reference: assigning *rec to
// null suppresses the record, assigning it to the result of Emit expands
// it into successors, and any other mutation simply augments the record
// in place.
type Action func(rec *value.Value)

// Emit wraps values using the library-private expansion marker. Assigning
// the result to the current record inside an Action replaces that record
// with the members of values, in order.
func Emit(values ...value.Value) value.Value {
	return scratch.Wrap(values)
}
