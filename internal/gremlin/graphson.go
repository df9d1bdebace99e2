// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gremlin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// jsonObject is a decoded JSON object that keeps key order.
type jsonObject struct {
	keys   []string
	values []any
}

func (o *jsonObject) get(key string) (any, bool) {
	for i, k := range o.keys {
		if k == key {
			return o.values[i], true
		}
	}
	return nil, false
}

// decodeDocument parses JSON into a tree of *jsonObject, []any, json.Number,
// string, bool and nil.
func decodeDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("graphson: %w", err)
	}
	return v, nil
}

func readJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := &jsonObject{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T", kt)
			}
			v, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			obj.keys = append(obj.keys, key)
			obj.values = append(obj.values, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// fromGraphSON converts a decoded JSON tree into Go values, resolving
// {"@type", "@value"} wrappers.
func fromGraphSON(v any) (any, error) {
	val, err := decodeGraphSON(v)
	if t, ok := val.(traverser); ok {
		return t.value, err
	}
	return val, err
}

// traverser is a decoded g:Traverser. Lists expand it into bulk copies of
// its value; everywhere else it collapses to the value.
type traverser struct {
	bulk  int64
	value any
}

func decodeGraphSON(v any) (any, error) {
	switch t := v.(type) {
	case *jsonObject:
		if name, raw, ok := typedValue(t); ok {
			return fromTyped(name, raw)
		}
		m := &Map{}
		for i, k := range t.keys {
			val, err := fromGraphSON(t.values[i])
			if err != nil {
				return nil, err
			}
			m.entries = append(m.entries, MapEntry{Key: k, Value: val})
		}
		return m, nil
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			val, err := decodeGraphSON(e)
			if err != nil {
				return nil, err
			}
			if tr, ok := val.(traverser); ok {
				for range tr.bulk {
					out = append(out, tr.value)
				}
				continue
			}
			out = append(out, val)
		}
		return out, nil
	case json.Number:
		return numberValue(t), nil
	default:
		return v, nil
	}
}

func typedValue(o *jsonObject) (string, any, bool) {
	if len(o.keys) != 2 {
		return "", nil, false
	}
	tv, ok := o.get("@type")
	if !ok {
		return "", nil, false
	}
	name, ok := tv.(string)
	if !ok {
		return "", nil, false
	}
	raw, ok := o.get("@value")
	if !ok {
		return "", nil, false
	}
	return name, raw, true
}

func fromTyped(name string, raw any) (any, error) {
	switch name {
	case "g:Int32", "g:Int64", "gx:Int16", "gx:Byte":
		return toInt64(raw)
	case "gx:BigInteger":
		if n, err := toInt64(raw); err == nil {
			return n, nil
		}
		return toFloat64(raw)
	case "g:Double", "g:Float", "gx:BigDecimal":
		return toFloat64(raw)
	case "g:UUID", "g:T", "g:Direction", "g:Class", "g:Cardinality", "g:Column", "g:Order", "g:Pop":
		return fmt.Sprint(raw), nil
	case "g:Date", "g:Timestamp":
		ms, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		return time.UnixMilli(ms).UTC(), nil
	case "g:List", "g:Set":
		list, err := fromGraphSON(raw)
		if err != nil {
			return nil, err
		}
		if l, ok := list.([]any); ok {
			return l, nil
		}
		return nil, fmt.Errorf("graphson: %s payload is %T", name, list)
	case "g:BulkSet":
		return bulkSetFrom(raw)
	case "g:Map":
		return mapFromPairs(raw)
	case "g:Traverser":
		obj, ok := raw.(*jsonObject)
		if !ok {
			return nil, fmt.Errorf("graphson: g:Traverser payload is %T", raw)
		}
		raw, _ := obj.get("value")
		val, err := fromGraphSON(raw)
		if err != nil {
			return nil, err
		}
		tr := traverser{bulk: 1, value: val}
		if b, ok := obj.get("bulk"); ok {
			bulk, err := fromGraphSON(b)
			if err != nil {
				return nil, err
			}
			if n, err := toInt64(bulk); err == nil && n > 1 {
				tr.bulk = n
			}
		}
		return tr, nil
	case "g:Vertex":
		return vertexFrom(raw)
	case "g:Edge":
		return edgeFrom(raw)
	case "g:VertexProperty":
		return vertexPropertyFrom(raw)
	case "g:Property":
		return propertyFrom(raw)
	case "g:Path":
		return pathFrom(raw)
	default:
		return fromGraphSON(raw)
	}
}

func mapFromPairs(raw any) (*Map, error) {
	pairs, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("graphson: g:Map payload is %T", raw)
	}
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("graphson: g:Map has odd number of items (%d)", len(pairs))
	}
	m := &Map{entries: make([]MapEntry, 0, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		k, err := fromGraphSON(pairs[i])
		if err != nil {
			return nil, err
		}
		v, err := fromGraphSON(pairs[i+1])
		if err != nil {
			return nil, err
		}
		m.entries = append(m.entries, MapEntry{Key: k, Value: v})
	}
	return m, nil
}

func objectField(raw any, typ string) (*jsonObject, error) {
	obj, ok := raw.(*jsonObject)
	if !ok {
		return nil, fmt.Errorf("graphson: %s payload is %T", typ, raw)
	}
	return obj, nil
}

func convertField(obj *jsonObject, key string) (any, error) {
	v, ok := obj.get(key)
	if !ok {
		return nil, nil
	}
	return fromGraphSON(v)
}

func stringField(obj *jsonObject, key string) string {
	v, ok := obj.get(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func vertexFrom(raw any) (Vertex, error) {
	obj, err := objectField(raw, "g:Vertex")
	if err != nil {
		return Vertex{}, err
	}
	id, err := convertField(obj, "id")
	if err != nil {
		return Vertex{}, err
	}
	v := Vertex{ID: id, Label: stringField(obj, "label")}
	props, err := convertField(obj, "properties")
	if err != nil {
		return Vertex{}, err
	}
	if pm, ok := props.(*Map); ok {
		v.Properties = make(map[string][]VertexProperty, pm.Len())
		for _, e := range pm.Entries() {
			list, _ := e.Value.([]any)
			for _, item := range list {
				if vp, ok := item.(VertexProperty); ok {
					v.Properties[KeyString(e.Key)] = append(v.Properties[KeyString(e.Key)], vp)
				}
			}
		}
	}
	return v, nil
}

func edgeFrom(raw any) (Edge, error) {
	obj, err := objectField(raw, "g:Edge")
	if err != nil {
		return Edge{}, err
	}
	e := Edge{
		Label:     stringField(obj, "label"),
		OutVLabel: stringField(obj, "outVLabel"),
		InVLabel:  stringField(obj, "inVLabel"),
	}
	if e.ID, err = convertField(obj, "id"); err != nil {
		return Edge{}, err
	}
	if e.OutV, err = convertField(obj, "outV"); err != nil {
		return Edge{}, err
	}
	if e.InV, err = convertField(obj, "inV"); err != nil {
		return Edge{}, err
	}
	props, err := convertField(obj, "properties")
	if err != nil {
		return Edge{}, err
	}
	if pm, ok := props.(*Map); ok {
		e.Properties = make(map[string]any, pm.Len())
		for _, entry := range pm.Entries() {
			if p, ok := entry.Value.(Property); ok {
				e.Properties[KeyString(entry.Key)] = p.Value
			} else {
				e.Properties[KeyString(entry.Key)] = entry.Value
			}
		}
	}
	return e, nil
}

func vertexPropertyFrom(raw any) (VertexProperty, error) {
	obj, err := objectField(raw, "g:VertexProperty")
	if err != nil {
		return VertexProperty{}, err
	}
	vp := VertexProperty{Label: stringField(obj, "label")}
	if vp.ID, err = convertField(obj, "id"); err != nil {
		return VertexProperty{}, err
	}
	if vp.Value, err = convertField(obj, "value"); err != nil {
		return VertexProperty{}, err
	}
	return vp, nil
}

func propertyFrom(raw any) (Property, error) {
	obj, err := objectField(raw, "g:Property")
	if err != nil {
		return Property{}, err
	}
	val, err := convertField(obj, "value")
	if err != nil {
		return Property{}, err
	}
	return Property{Key: stringField(obj, "key"), Value: val}, nil
}

func pathFrom(raw any) (Path, error) {
	obj, err := objectField(raw, "g:Path")
	if err != nil {
		return Path{}, err
	}
	var p Path
	labels, err := convertField(obj, "labels")
	if err != nil {
		return Path{}, err
	}
	if ls, ok := labels.([]any); ok {
		for _, set := range ls {
			var names []string
			if items, ok := set.([]any); ok {
				for _, n := range items {
					names = append(names, fmt.Sprint(n))
				}
			}
			p.Labels = append(p.Labels, names)
		}
	}
	objects, err := convertField(obj, "objects")
	if err != nil {
		return Path{}, err
	}
	p.Objects, _ = objects.([]any)
	return p, nil
}

func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// bulkSetFrom expands alternating value, bulk pairs.
func bulkSetFrom(raw any) ([]any, error) {
	pairs, ok := raw.([]any)
	if !ok || len(pairs)%2 != 0 {
		return nil, fmt.Errorf("graphson: g:BulkSet payload is %T", raw)
	}
	var out []any
	for i := 0; i < len(pairs); i += 2 {
		val, err := fromGraphSON(pairs[i])
		if err != nil {
			return nil, err
		}
		b, err := fromGraphSON(pairs[i+1])
		if err != nil {
			return nil, err
		}
		n, err := toInt64(b)
		if err != nil {
			return nil, err
		}
		for range n {
			out = append(out, val)
		}
	}
	return out, nil
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("graphson: invalid integer %q", v.String())
		}
		return int64(f), nil
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("graphson: invalid integer %q", v)
		}
		return i, nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, fmt.Errorf("graphson: expected integer, got %T", raw)
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Float64()
	case string:
		switch v {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		return strconv.ParseFloat(v, 64)
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("graphson: expected number, got %T", raw)
}

// graphsonWriter turns Go values into JSON-marshalable GraphSON trees.
type graphsonWriter struct {
	version int
}

func typed(name string, value any) map[string]any {
	return map[string]any{"@type": name, "@value": value}
}

func (w graphsonWriter) write(v any) (any, error) {
	typedScalars := w.version >= 2
	switch t := v.(type) {
	case nil, bool, string:
		return t, nil
	case json.Number:
		return w.write(numberValue(t))
	case int:
		return w.int64(int64(t)), nil
	case int8:
		return w.int32(int32(t)), nil
	case int16:
		return w.int32(int32(t)), nil
	case int32:
		return w.int32(t), nil
	case int64:
		return w.int64(t), nil
	case uint8:
		return w.int32(int32(t)), nil
	case uint16:
		return w.int32(int32(t)), nil
	case uint32:
		return w.int64(int64(t)), nil
	case uint:
		return w.int64(int64(t)), nil
	case uint64:
		return w.int64(int64(t)), nil
	case float32:
		if typedScalars {
			return typed("g:Float", t), nil
		}
		return t, nil
	case float64:
		if typedScalars {
			return typed("g:Double", t), nil
		}
		return t, nil
	case time.Time:
		if typedScalars {
			return typed("g:Date", t.UnixMilli()), nil
		}
		return t.UnixMilli(), nil
	case uuid.UUID:
		if typedScalars {
			return typed("g:UUID", t.String()), nil
		}
		return t.String(), nil
	case []any:
		return w.list(t)
	case map[string]any:
		return w.stringMap(t)
	case *Map:
		return w.orderedMap(t)
	}
	return w.reflectValue(reflect.ValueOf(v))
}

func (w graphsonWriter) int32(n int32) any {
	if w.version >= 2 {
		return typed("g:Int32", n)
	}
	return n
}

func (w graphsonWriter) int64(n int64) any {
	if w.version >= 2 {
		return typed("g:Int64", n)
	}
	return n
}

func (w graphsonWriter) list(items []any) (any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		v, err := w.write(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	if w.version >= 3 {
		return typed("g:List", out), nil
	}
	return out, nil
}

func (w graphsonWriter) stringMap(m map[string]any) (any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if w.version >= 3 {
		pairs := make([]any, 0, 2*len(keys))
		for _, k := range keys {
			v, err := w.write(m[k])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, k, v)
		}
		return typed("g:Map", pairs), nil
	}
	out := make(map[string]any, len(m))
	for _, k := range keys {
		v, err := w.write(m[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (w graphsonWriter) orderedMap(m *Map) (any, error) {
	if w.version >= 3 {
		pairs := make([]any, 0, 2*m.Len())
		for _, e := range m.Entries() {
			k, err := w.write(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := w.write(e.Value)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, k, v)
		}
		return typed("g:Map", pairs), nil
	}
	return w.stringMap(m.StringMap())
}

func (w graphsonWriter) reflectValue(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return w.list(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("graphson: unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return w.stringMap(m)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return w.write(rv.Elem().Interface())
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.int64(rv.Int()), nil
	case reflect.Float32, reflect.Float64:
		return w.write(rv.Float())
	}
	return nil, fmt.Errorf("graphson: unsupported value type %s", rv.Type())
}
