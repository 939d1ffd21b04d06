package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// FromJSON decodes a single JSON value from data into this package's
// runtime representation: objects become *Object (preserving source key
// order via token-level decoding, per spec §3.1's "ordered object"
// requirement — decoding straight into map[string]interface{} as the
// teacher does would lose that order), arrays become []interface{},
// JSON null becomes NullValue, and numbers become float64 (spec §3.1's
// single numeric kind).
func FromJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// NewJSONDecoder wraps r for repeated DecodeNext calls (one JSON value
// per call), for a host streaming many documents through the same
// compiled expression (spec §5's Non-goals note on EvalStream).
func NewJSONDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// DecodeNext decodes the next top-level JSON value from dec, returning
// io.EOF once the stream is exhausted.
func DecodeNext(dec *json.Decoder) (interface{}, error) {
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (interface{}, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("ast: expected object key, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []interface{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			if arr == nil {
				arr = []interface{}{}
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("ast: unexpected delimiter %v", v)
		}
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case string, bool:
		return v, nil
	case nil:
		return NullValue, nil
	default:
		return nil, fmt.Errorf("ast: unexpected JSON token %T", tok)
	}
}

// FromGo converts an already-decoded Go value (e.g. the output of
// json.Unmarshal into interface{}, or a value a host built by hand) into
// this package's runtime representation. Go's map[string]interface{}
// carries no key order, so FromGo falls back to sorting keys
// alphabetically for determinism; a host that cares about preserving the
// original document's key order should decode with FromJSON instead.
func FromGo(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return NullValue
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromGo(val[k]))
		}
		return obj
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = FromGo(item)
		}
		return out
	case *Object, []byte:
		return val
	default:
		return val
	}
}

// ToGo converts this package's runtime representation back to plain Go
// values (map[string]interface{}/[]interface{}/nil/scalars) for a host
// that wants json.Marshal-compatible output without depending on
// *Object's own MarshalJSON.
func ToGo(v interface{}) interface{} {
	switch val := v.(type) {
	case Null:
		return nil
	case *Object:
		out := make(map[string]interface{}, val.Len())
		for _, k := range val.Keys {
			out[k] = ToGo(val.Values[k])
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = ToGo(item)
		}
		return out
	default:
		return val
	}
}
