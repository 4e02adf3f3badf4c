// Package jsonx decodes JSON while keeping the key order of objects.
//
// Decoded values use *orderedmap.OrderedMap for objects, []any for arrays,
// float64 for numbers, and string, bool or nil for the remaining kinds.
// Every object produced here encodes without HTML escaping.
package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// wrapKey holds the document when Decode parses it as a member of an
// enclosing object, which lets non-object documents go through the same
// ordered decoder.
const wrapKey = "v"

// NewObject returns an empty ordered object that encodes without HTML
// escaping.
func NewObject() *orderedmap.OrderedMap {
	o := orderedmap.New()
	o.SetEscapeHTML(false)
	return o
}

// Len returns the number of keys in o. A nil object has none.
func Len(o *orderedmap.OrderedMap) int {
	if o == nil {
		return 0
	}
	return len(o.Keys())
}

// Decode parses a single JSON document.
func Decode(data []byte) (any, error) {
	// The document must stand alone before it is spliced into the wrapper.
	if !json.Valid(data) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("jsonx: %w", err)
		}
		return nil, errors.New("jsonx: invalid document")
	}

	wrapped := make([]byte, 0, len(data)+len(wrapKey)+5)
	wrapped = append(wrapped, `{"`+wrapKey+`":`...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, '}')

	root := NewObject()
	if err := json.Unmarshal(wrapped, root); err != nil {
		return nil, fmt.Errorf("jsonx: %w", err)
	}
	v, _ := root.Get(wrapKey)
	return normalize(v), nil
}

// DecodeObject parses data and requires the top-level value to be an object.
func DecodeObject(data []byte) (*orderedmap.OrderedMap, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*orderedmap.OrderedMap)
	if !ok {
		return nil, fmt.Errorf("jsonx: top-level value is %s, want object", Kind(v))
	}
	return obj, nil
}

// normalize replaces the nested OrderedMap values the decoder stores with
// pointers so callers only ever see one object type.
func normalize(v any) any {
	switch t := v.(type) {
	case orderedmap.OrderedMap:
		return normalizeObject(&t)
	case *orderedmap.OrderedMap:
		return normalizeObject(t)
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	default:
		return v
	}
}

func normalizeObject(o *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	if o == nil {
		return nil
	}
	out := NewObject()
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		out.Set(k, normalize(v))
	}
	return out
}

// Marshal encodes a decoded value compactly, keeping object key order and
// leaving HTML characters unescaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalIndent is Marshal with two-space indentation.
func MarshalIndent(v any) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Kind names the JSON kind of a decoded value.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// String renders a decoded value as display text: strings as-is, null as
// the empty string, and everything else as compact JSON.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	data, err := Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(string(data))
}
