package value

import (
	"fmt"
	"strconv"
	"strings"
)

// StepKind distinguishes the two ways a Path can address into a Value.
type StepKind uint8

const (
	FieldStep StepKind = iota
	IndexStep
	endOfStreamStep
)

// Step is one element of a Path: either a named object field or an array
// index.
type Step struct {
	Kind  StepKind
	Field string
	Index int
}

// Path is an ordered, non-empty sequence of steps. The zero Path is not a
// valid path; use ParsePath or MessagePath/EndOfStream.
type Path []Step

// MessagePath is the well-known single-step path "message", the implicit
// key used when a pattern is registered without an explicit key.
var MessagePath = Path{{Kind: FieldStep, Field: "message"}}

// EndOfStream is the sentinel path used only to register deferred
// (end-of-stream) stages. It never compares equal to a path produced by
// ParsePath, since ParsePath never emits a step of kind endOfStreamStep.
var EndOfStream = Path{{Kind: endOfStreamStep}}

// IsEndOfStream reports whether p is the end-of-stream sentinel.
func (p Path) IsEndOfStream() bool {
	return len(p) == 1 && p[0].Kind == endOfStreamStep
}

// String renders p in the dotted/bracketed notation ParsePath accepts.
func (p Path) String() string {
	if p.IsEndOfStream() {
		return "<end-of-stream>"
	}
	var b strings.Builder
	for i, step := range p {
		switch step.Kind {
		case FieldStep:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(step.Field)
		case IndexStep:
			fmt.Fprintf(&b, "[%d]", step.Index)
		}
	}
	return b.String()
}

// ParsePath parses a dotted/bracketed path expression such as "a.b[2]" or
// "message" into a Path. A bare field name (no dots or brackets) is the
// common case: a one-step Path.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("value: empty path")
	}
	var path Path
	i := 0
	n := len(s)
	for i < n {
		switch {
		case s[i] == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("value: unterminated '[' in path %q", s)
			}
			end += i
			idxStr := s[i+1 : end]
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, fmt.Errorf("value: invalid array index %q in path %q: %w", idxStr, s, err)
			}
			path = append(path, Step{Kind: IndexStep, Index: idx})
			i = end + 1
			if i < n && s[i] == '.' {
				i++
			}
		default:
			start := i
			for i < n && s[i] != '.' && s[i] != '[' {
				i++
			}
			field := s[start:i]
			if field == "" {
				return nil, fmt.Errorf("value: empty field name in path %q", s)
			}
			path = append(path, Step{Kind: FieldStep, Field: field})
			if i < n && s[i] == '.' {
				i++
			}
		}
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("value: path %q has no steps", s)
	}
	return path, nil
}

// MustParsePath is ParsePath for package-internal and test use where the
// path is known to be well-formed.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Get resolves path against v, returning the value found and whether every
// step in the path resolved. A path exists in a value iff each prefix
// resolves and the final step is present.
func (v Value) Get(path Path) (Value, bool) {
	cur := v
	for _, step := range path {
		switch step.Kind {
		case FieldStep:
			if cur.kind != Object {
				return Value{}, false
			}
			next, ok := cur.obj.get(step.Field)
			if !ok {
				return Value{}, false
			}
			cur = next
		case IndexStep:
			if cur.kind != Array {
				return Value{}, false
			}
			if step.Index < 0 || step.Index >= len(cur.arr) {
				return Value{}, false
			}
			cur = cur.arr[step.Index]
		default:
			return Value{}, false
		}
	}
	return cur, true
}

// Exists reports whether path resolves in v without returning the value.
func (v Value) Exists(path Path) bool {
	_, ok := v.Get(path)
	return ok
}

// Set writes val at path inside v, auto-vivifying intermediate objects and
// arrays as needed (growing arrays with null padding when an index is
// beyond the current length). It mutates the receiver in place, so that
// actions can rewrite the record they were handed rather than return a
// replacement.
func (v *Value) Set(path Path, val Value) error {
	if len(path) == 0 {
		return fmt.Errorf("value: cannot set at empty path")
	}
	return setStep(v, path, val)
}

func setStep(v *Value, path Path, val Value) error {
	step := path[0]
	rest := path[1:]

	switch step.Kind {
	case FieldStep:
		if v.kind != Object {
			*v = NewObject()
		}
		if len(rest) == 0 {
			v.obj.set(step.Field, val)
			return nil
		}
		child, ok := v.obj.get(step.Field)
		if !ok {
			child = NewNull()
		}
		if err := setStep(&child, rest, val); err != nil {
			return err
		}
		v.obj.set(step.Field, child)
		return nil
	case IndexStep:
		if step.Index < 0 {
			return fmt.Errorf("value: negative array index %d", step.Index)
		}
		if v.kind != Array {
			*v = NewArray()
		}
		for len(v.arr) <= step.Index {
			v.arr = append(v.arr, NewNull())
		}
		if len(rest) == 0 {
			v.arr[step.Index] = val
			return nil
		}
		child := v.arr[step.Index]
		if err := setStep(&child, rest, val); err != nil {
			return err
		}
		v.arr[step.Index] = child
		return nil
	default:
		return fmt.Errorf("value: invalid path step")
	}
}

// Remove deletes the value at path from v, reporting whether it was
// present. Only the final step is removed; intermediate containers are
// left in place even if they become empty.
func (v *Value) Remove(path Path) bool {
	if len(path) == 0 {
		return false
	}
	return removeStep(v, path)
}

func removeStep(v *Value, path Path) bool {
	step := path[0]
	rest := path[1:]

	switch step.Kind {
	case FieldStep:
		if v.kind != Object {
			return false
		}
		if len(rest) == 0 {
			return v.obj.remove(step.Field)
		}
		child, ok := v.obj.get(step.Field)
		if !ok {
			return false
		}
		removed := removeStep(&child, rest)
		if removed {
			v.obj.set(step.Field, child)
		}
		return removed
	case IndexStep:
		if v.kind != Array {
			return false
		}
		if step.Index < 0 || step.Index >= len(v.arr) {
			return false
		}
		if len(rest) == 0 {
			v.arr = append(v.arr[:step.Index], v.arr[step.Index+1:]...)
			return true
		}
		child := v.arr[step.Index]
		removed := removeStep(&child, rest)
		if removed {
			v.arr[step.Index] = child
		}
		return removed
	default:
		return false
	}
}

// AppendTo appends item to the array found at path (treating an absent or
// null value at that path as an empty array), writing the result back.
func (v *Value) AppendTo(path Path, item Value) error {
	cur, ok := v.Get(path)
	if !ok {
		cur = NewNull()
	}
	next, err := cur.Append(item)
	if err != nil {
		return err
	}
	return v.Set(path, next)
}
