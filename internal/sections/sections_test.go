package sections

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iancoleman/orderedmap"

	"dganalyzer/internal/jsonx"
)

func mustObject(t *testing.T, s string) *orderedmap.OrderedMap {
	t.Helper()
	obj, err := jsonx.DecodeObject([]byte(s))
	if err != nil {
		t.Fatalf("DecodeObject(%s) error = %v", s, err)
	}
	return obj
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := jsonx.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return string(data)
}

func TestPickFirst(t *testing.T) {
	t.Run("second candidate wins", func(t *testing.T) {
		obj := mustObject(t, `{"resumen_ejecutivo": {"x": 1}}`)
		got := PickFirst(obj, []string{"resumen", "resumen_ejecutivo"}, nil)
		if marshal(t, got) != `{"x":1}` {
			t.Errorf("PickFirst() = %s, want {\"x\":1}", marshal(t, got))
		}
	})

	t.Run("empty object returns default", func(t *testing.T) {
		obj := mustObject(t, `{}`)
		if got := PickFirst(obj, DefaultTable()[Summary], nil); got != nil {
			t.Errorf("PickFirst() = %#v, want nil", got)
		}
	})

	t.Run("caller default", func(t *testing.T) {
		obj := mustObject(t, `{"other": 1}`)
		if got := PickFirst(obj, []string{"a"}, "fallback"); got != "fallback" {
			t.Errorf("PickFirst() = %#v, want fallback", got)
		}
	})

	t.Run("priority order beats document order", func(t *testing.T) {
		obj := mustObject(t, `{"summary": "late", "resumen": "early"}`)
		if got := PickFirst(obj, DefaultTable()[Summary], nil); got != "early" {
			t.Errorf("PickFirst() = %#v, want early", got)
		}
	})

	t.Run("empty values are skipped", func(t *testing.T) {
		obj := mustObject(t, `{"resumen": null, "resumen_ejecutivo": "", "executive_summary": [], "summary": {}}`)
		if got := PickFirst(obj, DefaultTable()[Summary], "none"); got != "none" {
			t.Errorf("PickFirst() = %#v, want none", got)
		}
	})

	t.Run("falsy scalars are content", func(t *testing.T) {
		obj := mustObject(t, `{"a": false, "b": 0}`)
		if got := PickFirst(obj, []string{"a"}, nil); got != false {
			t.Errorf("PickFirst() = %#v, want false", got)
		}
		if got := PickFirst(obj, []string{"b"}, nil); got != float64(0) {
			t.Errorf("PickFirst() = %#v, want 0", got)
		}
	})
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"empty array", []any{}, true},
		{"empty object", jsonx.NewObject(), true},
		{"empty map", map[string]any{}, true},
		{"string", "x", false},
		{"array", []any{nil}, false},
		{"false", false, false},
		{"zero", float64(0), false},
		{"nil object", (*orderedmap.OrderedMap)(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.v); got != tt.want {
				t.Errorf("IsEmpty(%#v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestNilObjectIsAbsent(t *testing.T) {
	if got := PickFirst(nil, []string{"a"}, "def"); got != "def" {
		t.Errorf("PickFirst(nil) = %#v, want def", got)
	}
	if _, _, found := DefaultTable().Resolve(nil, Summary); found {
		t.Error("Resolve(nil) found a section")
	}
	if rows := NormalizeFields((*orderedmap.OrderedMap)(nil)); len(rows) != 0 {
		t.Errorf("NormalizeFields(nil object) = %d rows, want 0", len(rows))
	}
}

func TestResolve(t *testing.T) {
	table := DefaultTable()
	obj := mustObject(t, `{"metadata": [], "field_metadata": [{"campo": "id"}], "governance_controls": {"owner": "x"}}`)

	key, _, found := table.Resolve(obj, Fields)
	if !found || key != "field_metadata" {
		t.Errorf("Resolve(fields) = %q, %v; want field_metadata, true", key, found)
	}

	key, _, found = table.Resolve(obj, Controls)
	if !found || key != "governance_controls" {
		t.Errorf("Resolve(controls) = %q, %v; want governance_controls, true", key, found)
	}

	if _, _, found := table.Resolve(obj, Summary); found {
		t.Error("Resolve(summary) found a value in an analysis without one")
	}
}

func TestWithOverrides(t *testing.T) {
	base := DefaultTable()
	got := base.WithOverrides(map[string][]string{
		Summary:  {"sintesis"},
		Controls: nil,
	})

	if diff := cmp.Diff([]string{"sintesis"}, got[Summary]); diff != "" {
		t.Errorf("summary override mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(base[Controls], got[Controls]); diff != "" {
		t.Errorf("empty override replaced controls (-want +got):\n%s", diff)
	}
	if base[Summary][0] != "resumen" {
		t.Error("WithOverrides modified the receiver")
	}
}

func TestNormalizeFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "mapping of properties and scalars",
			input: `{"age": {"type": "int"}, "name": "str"}`,
			want:  []string{`{"field_name":"age","type":"int"}`, `{"field_name":"name","value":"str"}`},
		},
		{
			name:  "mapping order follows source",
			input: `{"zeta": 1, "alpha": {"pii": true, "tipo": "texto"}}`,
			want:  []string{`{"field_name":"zeta","value":1}`, `{"field_name":"alpha","pii":true,"tipo":"texto"}`},
		},
		{
			name:  "sequence used as-is",
			input: `[{"campo": "id", "tipo": "int"}, {"campo": "email"}]`,
			want:  []string{`{"campo":"id","tipo":"int"}`, `{"campo":"email"}`},
		},
		{
			name:  "non-object rows wrapped",
			input: `["id", 3, {"campo": "x"}, null]`,
			want:  []string{`{"value":"id"}`, `{"value":3}`, `{"campo":"x"}`, `{"value":null}`},
		},
		{
			name:  "scalar section",
			input: `"solo texto"`,
			want:  []string{`{"value":"solo texto"}`},
		},
		{
			name:  "mapping value that is a list",
			input: `{"tags": ["a", "b"]}`,
			want:  []string{`{"field_name":"tags","value":["a","b"]}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := jsonx.Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			var got []string
			for _, row := range NormalizeFields(v) {
				got = append(got, marshal(t, row))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeFields() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeFieldsNil(t *testing.T) {
	if rows := NormalizeFields(nil); len(rows) != 0 {
		t.Errorf("NormalizeFields(nil) = %d rows, want 0", len(rows))
	}
}

func TestBuildGrid(t *testing.T) {
	v, err := jsonx.Decode([]byte(`[
		{"campo": "id", "tipo": "int", "reglas": ["not_null", "unique"]},
		{"campo": "email", "pii": true, "detalle": {"mask": "hash"}},
		"suelto"
	]`))
	if err != nil {
		t.Fatal(err)
	}

	got := BuildGrid(NormalizeFields(v))
	want := Grid{
		Columns: []string{"campo", "tipo", "reglas", "pii", "detalle", "value"},
		Rows: [][]string{
			{"id", "int", `["not_null","unique"]`, "", "", ""},
			{"email", "", "", "true", `{"mask":"hash"}`, ""},
			{"", "", "", "", "", "suelto"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildGrid() mismatch (-want +got):\n%s", diff)
	}
}
