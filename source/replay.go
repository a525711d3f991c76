package source

import "github.com/cloudlens/cloudlens/value"

// Replay is the source installed after a history-preserving run: it owns
// a buffer of already-drained values and serves them back in order on
// demand.
//
// The "drained buffer with a position index" shape is grounded on
// github.com/arnodel/jsonstream/token/cursor.go's Cursor, simplified to a
// single reader over a fixed slice: CloudLens buffers one finished run at
// a time and hands it to exactly one successor source, so there is no
// need for jsonstream's multi-cursor window management over a live,
// still-growing stream.
type Replay struct {
	values []value.Value
	pos    int
}

// NewReplay buffers values and returns a Source that replays them in
// order.
func NewReplay(values []value.Value) *Replay {
	return &Replay{values: values}
}

func (r *Replay) Next() (value.Value, bool) {
	if r.pos >= len(r.values) {
		return value.Value{}, false
	}
	v := r.values[r.pos]
	r.pos++
	return v, true
}

// Len reports how many values the replay buffer holds.
func (r *Replay) Len() int { return len(r.values) }

// Drain pulls every remaining value from s into a new slice, in order,
// until s is exhausted. It is the primitive Run uses both to discard a
// source and to build a Replay's buffer.
func Drain(s Source) []value.Value {
	var values []value.Value
	for {
		v, ok := s.Next()
		if !ok {
			return values
		}
		values = append(values, v)
	}
}
