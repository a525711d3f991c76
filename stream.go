package cloudlens

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cloudlens/cloudlens/pattern"
	"github.com/cloudlens/cloudlens/source"
	"github.com/cloudlens/cloudlens/value"
)

// Stream holds a mutable reference to the current Source. Registering a
// stage replaces the current source with a layered one; running drains
// it.
type Stream struct {
	current source.Source
	closer  closer
	id      string
	traceOn bool
	stages  int
}

// closer is satisfied by file-backed sources so Stream.Close can release
// an unexhausted handle early.
type closer interface {
	Close() error
}

func newStream(s source.Source) *Stream {
	st := &Stream{current: s, id: uuid.New().String()}
	if c, ok := s.(closer); ok {
		st.closer = c
	}
	return st
}

// New wraps an already-constructed source.Source as a Stream. Most
// callers use one of the named constructors below instead.
func New(s source.Source) *Stream { return newStream(s) }

// FromValues constructs a Stream over an in-memory ordered sequence of
// values.
func FromValues(values []value.Value) *Stream {
	return newStream(source.FromValues(values))
}

// FromStrings constructs a Stream where each string becomes
// {"message": s}.
func FromStrings(messages ...string) *Stream {
	return newStream(source.FromStrings(messages))
}

// FromTextFile constructs a Stream over a line-oriented text file, opened
// immediately (fail-fast) but read lazily one line per pull.
func FromTextFile(path string) (*Stream, error) {
	s, err := source.FromTextFile(path)
	if err != nil {
		return nil, err
	}
	return newStream(s), nil
}

// MustFromTextFile is FromTextFile for callers that want a construction
// error to be fatal immediately, mirroring regexp.MustCompile.
func MustFromTextFile(path string) *Stream {
	s, err := FromTextFile(path)
	if err != nil {
		panic(err)
	}
	return s
}

// FromJSONFile constructs a Stream over a JSON-encoded file: if the root
// is an array, its elements stream individually; otherwise the document
// is a single-element sequence.
func FromJSONFile(path string) (*Stream, error) {
	s, err := source.FromJSONFile(path)
	if err != nil {
		return nil, err
	}
	return newStream(s), nil
}

// MustFromJSONFile is FromJSONFile with a panic on construction error.
func MustFromJSONFile(path string) *Stream {
	s, err := FromJSONFile(path)
	if err != nil {
		panic(err)
	}
	return s
}

// FromFunc constructs a Stream over an arbitrary user pull function.
func FromFunc(next func() (value.Value, bool)) *Stream {
	return newStream(source.FromFunc(next))
}

// ID returns a per-Stream identifier, stable for the Stream's lifetime.
// The library does not write it into trace output or into any record.
func (s *Stream) ID() string { return s.id }

// Trace enables or disables stage-firing diagnostics written through
// internal/debugtrace for stages registered after the call; stages already
// registered keep the setting they were registered with. It is a no-op
// unless the binary was built with the "debug" build tag.
func (s *Stream) Trace(enabled bool) *Stream {
	s.traceOn = enabled
	return s
}

func (s *Stream) nextLabel(kind string) string {
	s.stages++
	return fmt.Sprintf("%s#%d", kind, s.stages)
}

// Process appends an unconditional stage: action fires on every record.
func (s *Stream) Process(action Action) *Stream {
	s.current = newGuardedSource(s.current, s.nextLabel("plain"), s.traceOn, false, nil, pattern.Compiled{Kind: pattern.Empty}, action)
	return s
}

// ProcessKey appends a stage guarded by key alone: action fires only when
// key exists in the record.
func (s *Stream) ProcessKey(key string, action Action) (*Stream, error) {
	path, err := value.ParsePath(key)
	if err != nil {
		return nil, err
	}
	s.current = newGuardedSource(s.current, s.nextLabel("key:"+key), s.traceOn, true, path, pattern.Compiled{Kind: pattern.Empty}, action)
	return s, nil
}

// MustProcessKey is ProcessKey with a panic on error.
func (s *Stream) MustProcessKey(key string, action Action) *Stream {
	st, err := s.ProcessKey(key, action)
	if err != nil {
		panic(err)
	}
	return st
}

// ProcessPattern appends a stage guarded by a pattern at the default key
// "message", the implicit key used when a pattern is given without an
// explicit key.
func (s *Stream) ProcessPattern(userPattern string, action Action) (*Stream, error) {
	return s.ProcessMatch(userPattern, "message", action)
}

// MustProcessPattern is ProcessPattern with a panic on error.
func (s *Stream) MustProcessPattern(userPattern string, action Action) *Stream {
	st, err := s.ProcessPattern(userPattern, action)
	if err != nil {
		panic(err)
	}
	return st
}

// ProcessMatch appends a stage guarded by both a key and a pattern: the
// key must exist and, if the pattern is non-empty, the string found there
// must match it. Named captures declared in userPattern augment the
// record before action runs, and are still applied when action is nil.
func (s *Stream) ProcessMatch(userPattern, key string, action Action) (*Stream, error) {
	path, err := value.ParsePath(key)
	if err != nil {
		return nil, err
	}
	compiled, err := pattern.Compile(userPattern)
	if err != nil {
		return nil, err
	}
	s.current = newGuardedSource(s.current, s.nextLabel("match:"+key), s.traceOn, true, path, compiled, action)
	return s, nil
}

// MustProcessMatch is ProcessMatch with a panic on error.
func (s *Stream) MustProcessMatch(userPattern, key string, action Action) *Stream {
	st, err := s.ProcessMatch(userPattern, key, action)
	if err != nil {
		panic(err)
	}
	return st
}

// ProcessAtEnd appends a deferred stage: action fires exactly once, after
// the upstream source is exhausted, against a fresh scratch record. This
// is the Go equivalent of registering with key=END_OF_STREAM.
func (s *Stream) ProcessAtEnd(action Action) *Stream {
	s.current = newAtEndSource(s.current, s.nextLabel("at-end"), s.traceOn, action)
	return s
}

// Run drives the pipeline: it drains the current source completely. If
// withHistory is true, the drained values are buffered and reinstalled as
// a fresh replaying source, so a subsequent Run (or further stage
// registration) observes exactly what this run produced; otherwise the
// source is replaced with one that is already exhausted.
func (s *Stream) Run(withHistory bool) *Stream {
	drained := source.Drain(s.current)
	if cl := s.closer; cl != nil {
		cl.Close()
		s.closer = nil
	}
	if withHistory {
		s.current = source.NewReplay(drained)
	} else {
		s.current = source.Empty()
	}
	return s
}

// Close releases any still-open file-backed source early, before
// exhaustion. It is a no-op if the Stream was not constructed over a
// file-backed source, or if that source was already closed by Close or
// Run.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
