// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func decodeValue(t *testing.T, doc string) any {
	t.Helper()
	tree, err := decodeDocument([]byte(doc))
	if err != nil {
		t.Fatalf("decodeDocument(%s) error = %v", doc, err)
	}
	v, err := fromGraphSON(tree)
	if err != nil {
		t.Fatalf("fromGraphSON(%s) error = %v", doc, err)
	}
	return v
}

func TestFromGraphSONScalars(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want any
	}{
		{name: "int32", doc: `{"@type":"g:Int32","@value":29}`, want: int64(29)},
		{name: "int64", doc: `{"@type":"g:Int64","@value":1}`, want: int64(1)},
		{name: "int16", doc: `{"@type":"gx:Int16","@value":-3}`, want: int64(-3)},
		{name: "double", doc: `{"@type":"g:Double","@value":0.5}`, want: 0.5},
		{name: "big decimal", doc: `{"@type":"gx:BigDecimal","@value":1.25}`, want: 1.25},
		{name: "uuid", doc: `{"@type":"g:UUID","@value":"41d2e28a-20a4-4ab0-b379-d810dede3786"}`, want: "41d2e28a-20a4-4ab0-b379-d810dede3786"},
		{name: "enum", doc: `{"@type":"g:T","@value":"label"}`, want: "label"},
		{name: "date", doc: `{"@type":"g:Date","@value":1481750076295}`, want: time.UnixMilli(1481750076295).UTC()},
		{name: "untyped integer", doc: `42`, want: int64(42)},
		{name: "untyped float", doc: `4.5`, want: 4.5},
		{name: "string", doc: `"marko"`, want: "marko"},
		{name: "null", doc: `null`, want: nil},
		{name: "unknown type unwraps", doc: `{"@type":"x:Custom","@value":"raw"}`, want: "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeValue(t, tt.doc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFromGraphSONSpecialDoubles(t *testing.T) {
	if v := decodeValue(t, `{"@type":"g:Double","@value":"NaN"}`).(float64); !math.IsNaN(v) {
		t.Errorf("NaN decoded as %v", v)
	}
	if v := decodeValue(t, `{"@type":"g:Double","@value":"-Infinity"}`).(float64); !math.IsInf(v, -1) {
		t.Errorf("-Infinity decoded as %v", v)
	}
}

func TestFromGraphSONObjectWithExtraKeysIsPlainMap(t *testing.T) {
	got := decodeValue(t, `{"@type":"g:Int32","@value":1,"other":true}`)
	m, ok := got.(*Map)
	if !ok {
		t.Fatalf("got %T, want *Map", got)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestFromGraphSONMapKeepsOrder(t *testing.T) {
	doc := `{"@type":"g:Map","@value":["z",{"@type":"g:Int32","@value":1},"a","x","m",{"@type":"g:List","@value":[1,2]}]}`
	m, ok := decodeValue(t, doc).(*Map)
	if !ok {
		t.Fatal("expected *Map")
	}
	var keys []string
	for _, e := range m.Entries() {
		keys = append(keys, KeyString(e.Key))
	}
	if want := []string{"z", "a", "m"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if v, _ := m.Get("m"); !reflect.DeepEqual(v, []any{int64(1), int64(2)}) {
		t.Errorf("m = %#v", v)
	}
}

func TestFromGraphSONMapOddPairs(t *testing.T) {
	tree, err := decodeDocument([]byte(`{"@type":"g:Map","@value":["a"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fromGraphSON(tree); err == nil {
		t.Fatal("expected error for odd pair count")
	}
}

func TestFromGraphSONUntypedObjectKeepsOrder(t *testing.T) {
	m := decodeValue(t, `{"b":1,"a":2}`).(*Map)
	entries := m.Entries()
	if len(entries) != 2 || entries[0].Key != "b" || entries[1].Key != "a" {
		t.Errorf("entries = %#v", entries)
	}
}

func TestFromGraphSONVertex(t *testing.T) {
	doc := `{"@type":"g:Vertex","@value":{
		"id":{"@type":"g:Int64","@value":1},
		"label":"person",
		"properties":{
			"name":[{"@type":"g:VertexProperty","@value":{"id":{"@type":"g:Int64","@value":0},"value":"marko","label":"name"}}],
			"age":[{"@type":"g:VertexProperty","@value":{"id":{"@type":"g:Int64","@value":2},"value":{"@type":"g:Int32","@value":29},"label":"age"}}]
		}}}`
	v, ok := decodeValue(t, doc).(Vertex)
	if !ok {
		t.Fatal("expected Vertex")
	}
	if v.ID != int64(1) || v.Label != "person" {
		t.Errorf("vertex = %+v", v)
	}
	if got := v.Properties["name"]; len(got) != 1 || got[0].Value != "marko" {
		t.Errorf("name = %+v", got)
	}
	if got := v.Properties["age"]; len(got) != 1 || got[0].Value != int64(29) {
		t.Errorf("age = %+v", got)
	}
}

func TestFromGraphSONEdge(t *testing.T) {
	doc := `{"@type":"g:Edge","@value":{
		"id":{"@type":"g:Int32","@value":7},
		"label":"knows",
		"inVLabel":"person","outVLabel":"person",
		"inV":{"@type":"g:Int32","@value":2},
		"outV":{"@type":"g:Int32","@value":1},
		"properties":{"weight":{"@type":"g:Property","@value":{"key":"weight","value":{"@type":"g:Double","@value":0.5}}}}
	}}`
	e, ok := decodeValue(t, doc).(Edge)
	if !ok {
		t.Fatal("expected Edge")
	}
	want := Edge{
		ID: int64(7), Label: "knows",
		OutV: int64(1), OutVLabel: "person",
		InV: int64(2), InVLabel: "person",
		Properties: map[string]any{"weight": 0.5},
	}
	if !reflect.DeepEqual(e, want) {
		t.Errorf("edge = %+v, want %+v", e, want)
	}
}

func TestFromGraphSONPath(t *testing.T) {
	doc := `{"@type":"g:Path","@value":{
		"labels":{"@type":"g:List","@value":[{"@type":"g:Set","@value":["a"]},{"@type":"g:Set","@value":[]}]},
		"objects":{"@type":"g:List","@value":["marko","lop"]}
	}}`
	p, ok := decodeValue(t, doc).(Path)
	if !ok {
		t.Fatal("expected Path")
	}
	if !reflect.DeepEqual(p.Objects, []any{"marko", "lop"}) {
		t.Errorf("objects = %#v", p.Objects)
	}
	if len(p.Labels) != 2 || !reflect.DeepEqual(p.Labels[0], []string{"a"}) || p.Labels[1] != nil {
		t.Errorf("labels = %#v", p.Labels)
	}
}

func TestFromGraphSONTraverser(t *testing.T) {
	got := decodeValue(t, `{"@type":"g:Traverser","@value":{"bulk":{"@type":"g:Int64","@value":1},"value":"josh"}}`)
	if got != "josh" {
		t.Errorf("got %#v, want josh", got)
	}
}

func TestFromGraphSONExpandsBulk(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []any
	}{
		{
			name: "bulked traverser in list",
			doc:  `{"@type":"g:List","@value":[{"@type":"g:Traverser","@value":{"bulk":{"@type":"g:Int64","@value":3},"value":"josh"}},"lop"]}`,
			want: []any{"josh", "josh", "josh", "lop"},
		},
		{
			name: "traverser without bulk",
			doc:  `[{"@type":"g:Traverser","@value":{"value":"marko"}}]`,
			want: []any{"marko"},
		},
		{
			name: "bulk set",
			doc:  `{"@type":"g:BulkSet","@value":["marko",{"@type":"g:Int64","@value":2},"vadas",{"@type":"g:Int64","@value":1}]}`,
			want: []any{"marko", "marko", "vadas"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeValue(t, tt.doc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSerializeRequestFrame(t *testing.T) {
	s := NewGraphSONSerializer(3)
	frame, err := s.SerializeRequest(RequestMessage{
		RequestID: "41d2e28a-20a4-4ab0-b379-d810dede3786",
		Op:        OpEval,
		Processor: "cypher",
		Args: map[string]any{
			ArgGremlin:  "MATCH (n) RETURN n",
			ArgBindings: map[string]any{"limit": 2},
		},
	})
	if err != nil {
		t.Fatalf("SerializeRequest() error = %v", err)
	}
	if int(frame[0]) != len(MimeGraphSONv3) {
		t.Fatalf("mime length byte = %d, want %d", frame[0], len(MimeGraphSONv3))
	}
	if got := string(frame[1 : 1+len(MimeGraphSONv3)]); got != MimeGraphSONv3 {
		t.Fatalf("mime = %q", got)
	}

	var body map[string]any
	if err := json.Unmarshal(frame[1+len(MimeGraphSONv3):], &body); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	id := body["requestId"].(map[string]any)
	if id["@type"] != "g:UUID" || id["@value"] != "41d2e28a-20a4-4ab0-b379-d810dede3786" {
		t.Errorf("requestId = %v", id)
	}
	if body["processor"] != "cypher" || body["op"] != "eval" {
		t.Errorf("processor/op = %v/%v", body["processor"], body["op"])
	}
	args := body["args"].(map[string]any)
	if args["gremlin"] != "MATCH (n) RETURN n" {
		t.Errorf("gremlin = %v", args["gremlin"])
	}
	bindings := args["bindings"].(map[string]any)
	if bindings["@type"] != "g:Map" {
		t.Errorf("bindings type = %v", bindings["@type"])
	}
	pairs := bindings["@value"].([]any)
	if len(pairs) != 2 || pairs[0] != "limit" {
		t.Fatalf("bindings pairs = %v", pairs)
	}
	limit := pairs[1].(map[string]any)
	if limit["@type"] != "g:Int64" || limit["@value"] != float64(2) {
		t.Errorf("limit = %v", limit)
	}
}

func TestSerializeRequestV1IsUntyped(t *testing.T) {
	s := NewGraphSONSerializer(1)
	frame, err := s.SerializeRequest(RequestMessage{
		RequestID: "id-1",
		Op:        OpEval,
		Args:      map[string]any{ArgBindings: map[string]any{"n": 3, "f": 1.5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	payload := string(frame[1+len(MimeGraphSONv1):])
	if strings.Contains(payload, "@type") {
		t.Errorf("v1 payload carries type tags: %s", payload)
	}
	if !strings.Contains(payload, `"requestId":"id-1"`) {
		t.Errorf("payload = %s", payload)
	}
}

func TestSerializeRequestV2UsesPlainCollections(t *testing.T) {
	w := graphsonWriter{version: 2}
	got, err := w.write([]any{int32(1), "a"})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{typed("g:Int32", int32(1)), "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestDeserializeResponse(t *testing.T) {
	s := NewGraphSONSerializer(3)
	resp, err := s.DeserializeResponse([]byte(`{
		"requestId":"abc",
		"status":{"message":"","code":206,"attributes":{"@type":"g:Map","@value":["host","/127.0.0.1:1"]}},
		"result":{"data":{"@type":"g:List","@value":[
			{"@type":"g:Map","@value":["n.name","marko"]}
		]},"meta":{"@type":"g:Map","@value":[]}}
	}`))
	if err != nil {
		t.Fatalf("DeserializeResponse() error = %v", err)
	}
	if resp.RequestID != "abc" || resp.Status.Code != StatusPartialContent {
		t.Errorf("id/code = %s/%d", resp.RequestID, resp.Status.Code)
	}
	if resp.Status.Attributes["host"] != "/127.0.0.1:1" {
		t.Errorf("attributes = %v", resp.Status.Attributes)
	}
	items := resp.Items()
	if len(items) != 1 {
		t.Fatalf("items = %#v", items)
	}
	row := items[0].(*Map)
	if v, _ := row.Get("n.name"); v != "marko" {
		t.Errorf("n.name = %v", v)
	}
}

func TestDeserializeResponseRejectsNonObject(t *testing.T) {
	s := NewGraphSONSerializer(2)
	if _, err := s.DeserializeResponse([]byte(`[1,2]`)); err == nil {
		t.Fatal("expected error")
	}
	if _, err := s.DeserializeResponse([]byte(`{"status":`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestSerializerByName(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{name: "", want: 3},
		{name: "graphson-v3", want: 3},
		{name: "GraphSONv2", want: 2},
		{name: "v1", want: 1},
		{name: "2.0", want: 2},
		{name: "gryo", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SerializerByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.Version() != tt.want {
				t.Errorf("Version() = %d, want %d", s.Version(), tt.want)
			}
		})
	}
}

func TestResponseItems(t *testing.T) {
	tests := []struct {
		name string
		data any
		want []any
	}{
		{name: "nil", data: nil, want: nil},
		{name: "list", data: []any{"a", "b"}, want: []any{"a", "b"}},
		{name: "scalar", data: int64(3), want: []any{int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResponseMessage{Result: Result{Data: tt.data}}.Items()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Items() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
