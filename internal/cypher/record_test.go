package cypher

import (
	"encoding/json"
	"testing"
)

func TestRecordAccessors(t *testing.T) {
	rec := NewRecord([]string{"b", "a"}, []any{1, "x"})
	if rec.Len() != 2 || rec.Index(1) != "x" {
		t.Errorf("record = %v", rec)
	}
	if v, ok := rec.Get("b"); !ok || v != 1 {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
	if _, ok := rec.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}
	if m := rec.AsMap(); len(m) != 2 || m["a"] != "x" {
		t.Errorf("AsMap() = %v", m)
	}
}

func TestRecordMarshalJSONKeepsOrder(t *testing.T) {
	rec := NewRecord(
		[]string{"n.name", "age", "node"},
		[]any{"marko", int64(29), Node{ID: int64(1), Labels: []string{"person"}, Properties: map[string]any{"name": "marko"}}},
	)
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"n.name":"marko","age":29,"node":{"id":1,"labels":["person"],"properties":{"name":"marko"}}}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestNewRecordPanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewRecord([]string{"a"}, nil)
}
