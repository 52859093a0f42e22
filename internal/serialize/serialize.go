// Package serialize converts typed resource declarations into CloudFormation
// property maps.
//
// Property names come from json tags. Fields tagged omitempty are dropped
// when empty; every other field is always written, so a meaningful zero such
// as MinimumHealthyPercent: 0 survives. Nil pointers and interfaces are
// always dropped. Values implementing json.Marshaler (the intrinsics) are
// rendered through their own encoding.
package serialize

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// field is the serialization plan for one struct field.
type field struct {
	index     int
	name      string
	omitEmpty bool
}

// plans caches the field plan of every struct type seen.
var plans sync.Map // reflect.Type -> []field

func planFor(t reflect.Type) []field {
	if cached, ok := plans.Load(t); ok {
		return cached.([]field)
	}

	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, omitEmpty := tagOptions(sf)
		if name == "-" {
			continue
		}
		fields = append(fields, field{index: i, name: name, omitEmpty: omitEmpty})
	}

	actual, _ := plans.LoadOrStore(t, fields)
	return actual.([]field)
}

// tagOptions returns the property name for sf and whether it is tagged
// omitempty. Untagged fields keep their Go name.
func tagOptions(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok || tag == "" {
		return sf.Name, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" {
			return name, true
		}
	}
	return name, false
}

// Resource serializes a resource struct, or a pointer to one, to
// CloudFormation properties. Anything else yields a nil map.
func Resource(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, nil
	}
	return structValue(rv)
}

func structValue(rv reflect.Value) (map[string]any, error) {
	props := make(map[string]any)
	for _, f := range planFor(rv.Type()) {
		fv := rv.Field(f.index)
		if f.omitEmpty && empty(fv) {
			continue
		}
		out, err := value(fv)
		if err != nil {
			return nil, err
		}
		if out != nil {
			props[f.name] = out
		}
	}
	return props, nil
}

// empty reports whether v is empty in the omitempty sense. Structs are
// empty only when they say so through IsZero.
func empty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Struct:
		if z, ok := asInterface(v).(interface{ IsZero() bool }); ok {
			return z.IsZero()
		}
		return false
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v.IsZero()
	default:
		return false
	}
}

func asInterface(v reflect.Value) any {
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// value converts v to a JSON-compatible value: map[string]any, []any,
// string, bool, int or float64.
func value(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if k := v.Kind(); k == reflect.Ptr || k == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		return value(v.Elem())
	}
	if m, ok := asInterface(v).(json.Marshaler); ok {
		return viaJSON(m)
	}

	switch v.Kind() {
	case reflect.Struct:
		return structValue(v)
	case reflect.Slice, reflect.Array:
		items := make([]any, v.Len())
		for i := range items {
			item, err := value(v.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case reflect.Map:
		entries := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			entry, err := value(iter.Value())
			if err != nil {
				return nil, err
			}
			entries[iter.Key().String()] = entry
		}
		return entries, nil
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	default:
		return viaJSON(asInterface(v))
	}
}

// viaJSON round-trips v through encoding/json.
func viaJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
