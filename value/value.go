// Package value implements the JSON-like tagged value that flows through a
// CloudLens pipeline: a tree of null/bool/number/string/array/object nodes
// with path-based get/set/remove and a canonical string rendering.
//
// It plays the role github.com/arnodel/jsonstream gives to its
// token/iterator packages, but at record granularity rather than
// token-stream granularity: a CloudLens record is always fully
// materialized in memory so stage actions can mutate it in place, whereas
// jsonstream's Value types stay lazy over a token cursor. The tagging
// scheme (a small Kind enum distinguishing the four scalar kinds) mirrors
// token.ScalarType in github.com/arnodel/jsonstream/token/tokens.go.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// object is an order-preserving string-keyed map. Key order is preserved on
// both construction and mutation, matching the field order a canonical
// rendering must reproduce (see gronencoder.go/jpvencoder.go in
// github.com/arnodel/jsonstream, which both traverse object keys in
// declaration order).
type object struct {
	keys []string
	vals map[string]Value
}

func newObject() *object {
	return &object{vals: make(map[string]Value)}
}

func (o *object) clone() *object {
	c := &object{
		keys: append([]string(nil), o.keys...),
		vals: make(map[string]Value, len(o.vals)),
	}
	for k, v := range o.vals {
		c.vals[k] = v
	}
	return c
}

func (o *object) get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

func (o *object) set(key string, v Value) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

func (o *object) remove(key string) bool {
	if _, ok := o.vals[key]; !ok {
		return false
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Value is a JSON-like tagged value. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  *object
}

// NewNull returns the null value.
func NewNull() Value { return Value{kind: Null} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewNumber returns a numeric value.
func NewNumber(n float64) Value { return Value{kind: Number, n: n} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewArray returns an array value holding the given items in order.
func NewArray(items ...Value) Value {
	return Value{kind: Array, arr: append([]Value(nil), items...)}
}

// NewObject returns an empty object value. Use Set to populate it.
func NewObject() Value {
	return Value{kind: Object, obj: newObject()}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == Null }

// AsBool returns the boolean payload and whether v is a Bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == Bool }

// AsNumber returns the numeric payload and whether v is a Number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == Number }

// AsString returns the string payload and whether v is a String.
func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

// AsArray returns the backing slice and whether v is an Array. The returned
// slice must not be mutated; use Append to grow an array value.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	return v.arr, true
}

// Keys returns the object's field names in insertion order, and whether v
// is an Object.
func (v Value) Keys() ([]string, bool) {
	if v.kind != Object {
		return nil, false
	}
	return append([]string(nil), v.obj.keys...), true
}

// Append returns a new array value with item appended. If v is null it is
// treated as an empty array, matching the spec's "array append" operation.
func (v Value) Append(item Value) (Value, error) {
	switch v.kind {
	case Null:
		return NewArray(item), nil
	case Array:
		items := append(append([]Value(nil), v.arr...), item)
		return NewArray(items...), nil
	default:
		return Value{}, fmt.Errorf("value: cannot append to a %s", v.kind)
	}
}

// Equal reports structural equality. Two null values are always equal; a
// null value equals nothing else, even another null-kinded container.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case Number:
		return v.n == other.n
	case String:
		return v.s == other.s
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.obj.keys) != len(other.obj.keys) {
			return false
		}
		for _, k := range v.obj.keys {
			a, _ := v.obj.get(k)
			b, ok := other.obj.get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders v using CloudLens's canonical single-line JSON-like
// syntax. It is intentionally simpler than a full JSON encoder (no escape
// table beyond quotes/backslash/control characters) since pipeline records
// are short, human-authored log lines rather than arbitrary binary data;
// compare with the indent/newline model of printer.go in
// github.com/arnodel/jsonstream, which this trades for single-line output
// by default.
func (v Value) String() string {
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.kind {
	case Null:
		b.WriteString("null")
	case Bool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(strconv.FormatFloat(v.n, 'g', -1, 64))
	case String:
		b.WriteString(strconv.Quote(v.s))
	case Array:
		b.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			item.render(b)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			val, _ := v.obj.get(k)
			val.render(b)
		}
		b.WriteByte('}')
	}
}

// sortedKeys returns a sorted copy of keys, giving an ordering
// independent of insertion order.
func sortedKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}
