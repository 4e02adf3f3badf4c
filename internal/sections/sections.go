// Package sections resolves the logical parts of a governance analysis
// whose key names have drifted between producer versions.
package sections

import (
	"github.com/iancoleman/orderedmap"

	"dganalyzer/internal/jsonx"
)

// Section identifiers.
const (
	Summary  = "summary"
	Fields   = "fields"
	Controls = "controls"
)

// Table maps each section to its candidate keys in priority order.
type Table map[string][]string

// DefaultTable lists every key name a producer has used for each section.
func DefaultTable() Table {
	return Table{
		Summary:  {"resumen", "resumen_ejecutivo", "executive_summary", "summary"},
		Fields:   {"campos_metadata", "metadata_campos", "campos", "fields", "field_metadata", "metadata"},
		Controls: {"controles", "controles_gobierno_minimo", "governance_controls", "minimum_controls"},
	}
}

// WithOverrides returns a copy of t where every non-empty override replaces
// the candidate list of its section.
func (t Table) WithOverrides(overrides map[string][]string) Table {
	out := make(Table, len(t))
	for name, keys := range t {
		out[name] = append([]string(nil), keys...)
	}
	for name, keys := range overrides {
		if len(keys) > 0 {
			out[name] = append([]string(nil), keys...)
		}
	}
	return out
}

// Candidates returns the keys tried for a section.
func (t Table) Candidates(section string) []string {
	return t[section]
}

// IsEmpty reports whether v carries no content: null, "", [] or {}.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case *orderedmap.OrderedMap:
		return jsonx.Len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// PickFirst returns the value of the first key in keys that is present in
// obj and not empty, or def when none is.
func PickFirst(obj *orderedmap.OrderedMap, keys []string, def any) any {
	if obj == nil {
		return def
	}
	for _, k := range keys {
		if v, ok := obj.Get(k); ok && !IsEmpty(v) {
			return v
		}
	}
	return def
}

// Resolve looks a section up in obj and reports the key that matched.
func (t Table) Resolve(obj *orderedmap.OrderedMap, section string) (key string, value any, found bool) {
	if obj == nil {
		return "", nil, false
	}
	for _, k := range t.Candidates(section) {
		if v, ok := obj.Get(k); ok && !IsEmpty(v) {
			return k, v, true
		}
	}
	return "", nil, false
}
