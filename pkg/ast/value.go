// Package ast defines the AST node kinds produced by the parser, the
// structured error taxonomy, and the handful of runtime value wrappers
// (Null, Sequence, Object) that the evaluator needs but that do not fit
// Go's native JSON types (spec §3.1–§3.2).
package ast

import (
	"bytes"
	"encoding/json"
)

// Null is the JSONata null literal, kept distinct from Go's untyped nil
// (which this implementation uses for Undefined/"absent", spec §3.1). A
// bare `interface{}(nil)` is never round-tripped to the host as "null";
// only a Null value is.
type Null struct{}

// NullValue is the singleton Null value produced by the null literal and
// by any operation whose JSONata semantics yield null.
var NullValue = Null{}

// MarshalJSON renders Null as the JSON literal null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Object is an insertion-ordered string-keyed map (spec §3.1: "Object
// preserves insertion order of keys"). Plain Go maps cannot make that
// guarantee, so every JSONata object — input, literal, or computed — is
// represented as an *Object rather than a map[string]interface{}.
type Object struct {
	Keys   []string
	Values map[string]interface{}
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{Values: make(map[string]interface{})}
}

// Get retrieves a value by key, reporting whether the key is present —
// callers must use this rather than a zero-value check, since a present
// key may legitimately hold JSON null or Undefined-free falsy values
// (spec §4.5.3, §9: "Object key presence tests must use explicit
// 'contains key', not 'value is null'").
func (o *Object) Get(key string) (interface{}, bool) {
	v, ok := o.Values[key]
	return v, ok
}

// Set inserts or overwrites a key, appending it to Keys only if new.
func (o *Object) Set(key string, value interface{}) {
	if _, exists := o.Values[key]; !exists {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = value
}

// Delete removes a key, if present, preserving the order of the rest.
func (o *Object) Delete(key string) {
	if _, exists := o.Values[key]; !exists {
		return
	}
	delete(o.Values, key)
	kept := o.Keys[:0]
	for _, k := range o.Keys {
		if k != key {
			kept = append(kept, k)
		}
	}
	o.Keys = kept
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.Keys)
}

// Clone returns a deep copy (nested Objects/arrays are cloned too).
func (o *Object) Clone() *Object {
	clone := &Object{
		Keys:   append([]string(nil), o.Keys...),
		Values: make(map[string]interface{}, len(o.Values)),
	}
	for k, v := range o.Values {
		clone.Values[k] = CloneValue(v)
	}
	return clone
}

// CloneValue deep-copies a runtime value (scalars are returned as-is,
// since they are immutable in Go).
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case *Object:
		return val.Clone()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return val
	}
}

// MarshalJSON renders the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Sequence is the internal carrier for a path step's multi-value result
// (spec §3.2). Its presence (as opposed to a plain []interface{}) is what
// lets the evaluator tell "a single array value" apart from "a projection
// that happened to produce one array" — a literal array is never a
// Sequence, and a Sequence is always flattened or collapsed before it can
// be observed as a JSONata array by a consuming expression.
type Sequence struct {
	Items []interface{}
	// Keep forces the sequence to remain an array even when it collapses
	// to a single item (set by the `expr[]` KeepArray construct, spec
	// §4.5.1 "Singleton-array preservation").
	Keep bool
}

// NewSequence wraps items as a Sequence.
func NewSequence(items []interface{}, keep bool) *Sequence {
	return &Sequence{Items: items, Keep: keep}
}

// Collapse applies the sequence-normalization rule (spec §3.2, §4.6):
// zero items → Undefined (nil); one item and not Keep → that item;
// otherwise → the backing slice, handed back as a plain JSONata array.
func (s *Sequence) Collapse() interface{} {
	if len(s.Items) == 0 {
		return nil
	}
	if len(s.Items) == 1 && !s.Keep {
		return s.Items[0]
	}
	return s.Items
}

// IsUndefined reports whether v is the internal Undefined sentinel. This
// project represents Undefined as Go's untyped nil, so this is mostly a
// readability helper, but it also absorbs an empty Sequence.
func IsUndefined(v interface{}) bool {
	if v == nil {
		return true
	}
	if seq, ok := v.(*Sequence); ok {
		return len(seq.Items) == 0
	}
	return false
}

// Flatten collapses any Sequence in v to its plain-array/singleton form,
// recursively, so that no *Sequence ever reaches the host (spec §4.6).
func Flatten(v interface{}) interface{} {
	switch val := v.(type) {
	case *Sequence:
		return Flatten(val.Collapse())
	case []interface{}:
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			f := Flatten(item)
			if f == nil {
				continue
			}
			out = append(out, f)
		}
		return out
	case *Object:
		for _, k := range val.Keys {
			val.Values[k] = Flatten(val.Values[k])
		}
		return val
	default:
		return v
	}
}
