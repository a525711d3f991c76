package cloudlens

import (
	"github.com/cloudlens/cloudlens/internal/debugtrace"
	"github.com/cloudlens/cloudlens/internal/scratch"
	"github.com/cloudlens/cloudlens/pattern"
	"github.com/cloudlens/cloudlens/source"
	"github.com/cloudlens/cloudlens/value"
)

// guardedSource wraps an upstream source.Source and, for each pulled
// record, optionally runs a key/pattern-guarded action before passing the
// (possibly mutated, suppressed, or expanded) record downstream.
//
// The shape — a layer holding a reference to the prior source plus
// private queue state, composed one process() call at a time — mirrors
// github.com/arnodel/jsonstream/iterator/transformer.go's
// valueTransformerAdapter wrapping one StreamedValue source inside
// another, adapted from a channel-driven iterator to a direct two-return
// pull since CloudLens stages run synchronously in the caller's
// goroutine.
type guardedSource struct {
	upstream source.Source
	label    string
	trace    bool

	hasKey  bool
	key     value.Path
	pattern pattern.Compiled
	action  Action

	pending    []value.Value
	pendingPos int
}

func newGuardedSource(upstream source.Source, label string, trace bool, hasKey bool, key value.Path, pat pattern.Compiled, action Action) *guardedSource {
	return &guardedSource{
		upstream: upstream,
		label:    label,
		trace:    trace,
		hasKey:   hasKey,
		key:      key,
		pattern:  pat,
		action:   action,
	}
}

func (s *guardedSource) Next() (value.Value, bool) {
	for {
		if s.pendingPos < len(s.pending) {
			v := s.pending[s.pendingPos]
			s.pendingPos++
			return v, true
		}
		s.pending, s.pendingPos = nil, 0

		v, ok := s.upstream.Next()
		if !ok {
			return value.Value{}, false
		}

		proceed := true
		if s.hasKey && !v.Exists(s.key) {
			proceed = false
		}
		if proceed && s.pattern.Kind != pattern.Empty {
			proceed = s.matchesPattern(&v)
		}

		if proceed {
			if s.trace && debugtrace.On {
				debugtrace.Tracef("stage %s: firing on %s", s.label, v)
			}
			if s.action != nil {
				s.action(&v)
			}
			if v.IsNull() {
				if s.trace && debugtrace.On {
					debugtrace.Tracef("stage %s: suppressed record", s.label)
				}
				continue
			}
			if children, ok := scratch.Unwrap(v); ok {
				if s.trace && debugtrace.On {
					debugtrace.Tracef("stage %s: expanded into %d record(s)", s.label, len(children))
				}
				s.pending = children
				s.pendingPos = 0
				continue
			}
		}
		return v, true
	}
}

// matchesPattern evaluates s.pattern against the string found at s.key
// inside v, applying captures into v when it matches. A non-string value
// at the key never matches a non-empty pattern.
func (s *guardedSource) matchesPattern(v *value.Value) bool {
	subjectVal, ok := v.Get(s.key)
	if !ok {
		return false
	}
	subject, isString := subjectVal.AsString()
	if !isString {
		return false
	}
	return pattern.Evaluate(s.pattern, subject, v)
}

// atEndSource is the end-of-stream layer: it passes every upstream record
// through verbatim until upstream is exhausted,
// then fires action exactly once against a fresh scratch record and
// serves whatever it produced before permanently exhausting itself.
type atEndSource struct {
	upstream source.Source
	label    string
	trace    bool
	action   Action

	drained    bool
	pending    []value.Value
	pendingPos int
}

func newAtEndSource(upstream source.Source, label string, trace bool, action Action) *atEndSource {
	return &atEndSource{upstream: upstream, label: label, trace: trace, action: action}
}

func (s *atEndSource) Next() (value.Value, bool) {
	if !s.drained {
		if v, ok := s.upstream.Next(); ok {
			return v, true
		}
		s.drained = true
		if s.trace && debugtrace.On {
			debugtrace.Tracef("stage %s: upstream exhausted, firing end-of-stream action", s.label)
		}

		scratchRec := value.NewNull()
		if s.action != nil {
			s.action(&scratchRec)
		}
		switch {
		case scratchRec.IsNull():
			// nothing to enqueue
		default:
			if children, ok := scratch.Unwrap(scratchRec); ok {
				s.pending = children
			} else {
				s.pending = []value.Value{scratchRec}
			}
		}
	}

	if s.pendingPos < len(s.pending) {
		v := s.pending[s.pendingPos]
		s.pendingPos++
		return v, true
	}
	return value.Value{}, false
}
