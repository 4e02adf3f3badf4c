package sections

import (
	"github.com/iancoleman/orderedmap"

	"dganalyzer/internal/jsonx"
)

// FieldNameKey is the column added when metadata arrives keyed by field.
const FieldNameKey = "field_name"

// ValueKey holds scalar metadata and non-object rows.
const ValueKey = "value"

// NormalizeFields turns the field-metadata section into one record per field.
//
// A mapping of field name to properties becomes {field_name, props...}; a
// mapping of field name to a scalar becomes {field_name, value}. A sequence
// is kept as-is, with non-object rows wrapped as {value}. Order follows the
// source document.
func NormalizeFields(v any) []*orderedmap.OrderedMap {
	switch t := v.(type) {
	case nil:
		return nil
	case *orderedmap.OrderedMap:
		if t == nil {
			return nil
		}
		rows := make([]*orderedmap.OrderedMap, 0, jsonx.Len(t))
		for _, name := range t.Keys() {
			row := jsonx.NewObject()
			row.Set(FieldNameKey, name)
			inner, _ := t.Get(name)
			if props, ok := inner.(*orderedmap.OrderedMap); ok {
				for _, k := range props.Keys() {
					pv, _ := props.Get(k)
					row.Set(k, pv)
				}
			} else {
				row.Set(ValueKey, inner)
			}
			rows = append(rows, row)
		}
		return rows
	case []any:
		rows := make([]*orderedmap.OrderedMap, 0, len(t))
		for _, item := range t {
			rows = append(rows, wrapRow(item))
		}
		return rows
	default:
		return []*orderedmap.OrderedMap{wrapRow(t)}
	}
}

func wrapRow(item any) *orderedmap.OrderedMap {
	if obj, ok := item.(*orderedmap.OrderedMap); ok && obj != nil {
		return obj
	}
	row := jsonx.NewObject()
	row.Set(ValueKey, item)
	return row
}

// Grid is a table of display strings ready for an HTML grid.
type Grid struct {
	Columns []string
	Rows    [][]string
}

// BuildGrid lays rows out under the union of their keys in first-seen
// order. Nested arrays and objects become compact JSON strings so every
// cell is a flat string.
func BuildGrid(rows []*orderedmap.OrderedMap) Grid {
	var (
		columns []string
		seen    = make(map[string]bool)
	)
	for _, row := range rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	grid := Grid{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row.Get(col); ok {
				cells[i] = jsonx.String(v)
			}
		}
		grid.Rows = append(grid.Rows, cells)
	}
	return grid
}
