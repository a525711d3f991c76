// Package source provides the pull-based producers a CloudLens Stream
// drains: an in-memory sequence, a line-oriented text file, a JSON file,
// and an arbitrary user function, plus the always-empty source installed
// after a plain run() and the Replay source installed after
// run(with_history=true).
//
// The Source interface mirrors StreamSource in
// github.com/arnodel/jsonstream/pipeline.go, but pulls one fully
// materialized value.Value at a time with a simple two-return Next()
// rather than pushing StreamItem tokens down a channel — CloudLens runs
// every stage synchronously on the calling goroutine, so the channel
// plumbing jsonstream uses to decouple producer from consumer has no job
// to do here.
package source

import "github.com/cloudlens/cloudlens/value"

// Source is a single-pass pull function. Next returns the next value and
// true, or an arbitrary zero value.Value and false once the source is
// permanently exhausted.
type Source interface {
	Next() (value.Value, bool)
}

// Func adapts a plain function to the Source interface, for
// FromFunc-style user-supplied generators.
type Func func() (value.Value, bool)

func (f Func) Next() (value.Value, bool) { return f() }

// FromFunc wraps an arbitrary pull function as a Source.
func FromFunc(next func() (value.Value, bool)) Source {
	return Func(next)
}

// sliceSource drains a fixed, pre-materialized sequence of values in
// order.
type sliceSource struct {
	values []value.Value
	pos    int
}

func (s *sliceSource) Next() (value.Value, bool) {
	if s.pos >= len(s.values) {
		return value.Value{}, false
	}
	v := s.values[s.pos]
	s.pos++
	return v, true
}

// FromValues returns a Source that yields the given values, in order, then
// exhausts.
func FromValues(values []value.Value) Source {
	return &sliceSource{values: append([]value.Value(nil), values...)}
}

// FromStrings returns a Source that yields one record per string, each
// wrapped as {"message": s}.
func FromStrings(messages []string) Source {
	values := make([]value.Value, len(messages))
	for i, m := range messages {
		rec := value.NewObject()
		rec.Set(value.MustParsePath("message"), value.NewString(m))
		values[i] = rec
	}
	return FromValues(values)
}

// empty is a Source that is immediately and permanently exhausted; a plain
// Run installs this as the new current source.
type empty struct{}

func (empty) Next() (value.Value, bool) { return value.Value{}, false }

// Empty returns the always-exhausted Source.
func Empty() Source { return empty{} }
