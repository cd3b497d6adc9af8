package toon

import (
	"encoding/json"
	"reflect"
	"sort"
)

// normalize coerces an arbitrary Go value into the codec's internal JSON
// model: nil, bool, float64, string, []any, or *Object. Undefined
// (nil interface), non-finite numbers, and values with no JSON
// representation (channels, funcs) become nil. Maps are normalized into
// *Object with a deterministic (sorted) key order, since Go gives no
// other order to an unordered map; objects that need to preserve a
// specific member order should be built as *Object directly, which
// normalize passes through unchanged aside from normalizing its values.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t := v.(type) {
	case *Object:
		out := NewObject()
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			nv, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out.Set(k, nv)
		}
		return out, nil
	case map[string]any:
		return normalizeMap(t)
	case []any:
		return normalizeSlice(t)
	case bool:
		return t, nil
	case string:
		return t, nil
	case float64:
		if !isFiniteNumber(t) {
			return nil, nil
		}
		return t, nil
	case float32:
		f := float64(t)
		if !isFiniteNumber(f) {
			return nil, nil
		}
		return f, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return reflectNumber(reflect.ValueOf(t)), nil
	}

	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Ptr:
		if val.IsNil() {
			return nil, nil
		}
		return normalize(val.Elem().Interface())
	case reflect.Interface:
		if val.IsNil() {
			return nil, nil
		}
		return normalize(val.Elem().Interface())
	case reflect.Map:
		m := make(map[string]any, val.Len())
		for _, key := range val.MapKeys() {
			m[toMapKey(key)] = val.MapIndex(key).Interface()
		}
		return normalizeMap(m)
	case reflect.Slice, reflect.Array:
		s := make([]any, val.Len())
		for i := range s {
			s[i] = val.Index(i).Interface()
		}
		return normalizeSlice(s)
	case reflect.Struct:
		return normalizeViaJSON(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return reflectNumber(val), nil
	default:
		// Channels, funcs, unsafe pointers, and anything else with no
		// JSON representation normalize to null.
		return nil, nil
	}
}

func toMapKey(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return jsonStringify(v.Interface())
}

func jsonStringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func reflectNumber(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// normalizeViaJSON round-trips a struct through encoding/json so that
// json tags, omitempty, and embedding are honored exactly as they would
// be for ordinary JSON marshaling.
func normalizeViaJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, err
	}
	return normalize(decoded)
}

func normalizeMap(m map[string]any) (any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := NewObject()
	for _, k := range keys {
		nv, err := normalize(m[k])
		if err != nil {
			return nil, err
		}
		out.Set(k, nv)
	}
	return out, nil
}

func normalizeSlice(s []any) (any, error) {
	out := make([]any, len(s))
	for i, v := range s {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}
