package amf

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"time"
)

// Circular replaces a container in ToNative output when it is reached again
// while it is still being converted.
const Circular = "[Circular]"

// FromNative converts plain Go values into a Value graph.
//
// Supported inputs are nil, Value, bool, the integer and float types, string,
// time.Time, []any and map[string]any. Maps become anonymous objects with
// their keys in sorted order. A map or slice reached more than once becomes
// one shared *Object or *Array, so cyclic input converts to a cyclic graph.
func FromNative(v any) (Value, error) {
	return newNativeConverter().convert(v)
}

// nativeKey identifies a Go container: the map pointer, or the slice data
// pointer together with its length.
type nativeKey struct {
	ptr uintptr
	len int
}

type nativeConverter struct {
	seen map[nativeKey]Value
}

func newNativeConverter() *nativeConverter {
	return &nativeConverter{seen: make(map[nativeKey]Value)}
}

// lookup returns the Value already built for the container v, if any.
// Empty containers have no stable identity and are never shared.
func (c *nativeConverter) lookup(v any, n int) (nativeKey, Value, bool) {
	if n == 0 {
		return nativeKey{}, nil, false
	}
	key := nativeKey{ptr: reflect.ValueOf(v).Pointer(), len: n}
	out, ok := c.seen[key]
	return key, out, ok
}

func (c *nativeConverter) convert(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Boolean(v), nil
	case int:
		return Number(v), nil
	case int8:
		return Number(v), nil
	case int16:
		return Number(v), nil
	case int32:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint:
		return Number(v), nil
	case uint8:
		return Number(v), nil
	case uint16:
		return Number(v), nil
	case uint32:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case float32:
		return Number(v), nil
	case float64:
		return Number(v), nil
	case string:
		return String(v), nil
	case time.Time:
		return NewDate(v), nil
	case []any:
		key, out, ok := c.lookup(v, len(v))
		if ok {
			return out, nil
		}
		arr := &Array{Dense: make([]Value, len(v))}
		if len(v) > 0 {
			c.seen[key] = arr // registered before its elements
		}
		for i, item := range v {
			elem, err := c.convert(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr.Dense[i] = elem
		}
		return arr, nil
	case map[string]any:
		key, out, ok := c.lookup(v, len(v))
		if ok {
			return out, nil
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		obj := &Object{Properties: make([]Property, 0, len(keys))}
		if len(v) > 0 {
			c.seen[key] = obj
		}
		for _, k := range keys {
			elem, err := c.convert(v[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj.Properties = append(obj.Properties, Property{Name: k, Value: elem})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: unsupported AMF type: %T", ErrType, v)
	}
}

// ToNative converts a Value graph into plain Go values: nil, bool, float64,
// string, time.Time, []any and map[string]any. Arrays with associative
// entries become maps keyed by index and name.
func ToNative(v Value) any {
	return toNative(v, make(map[Value]bool))
}

func toNative(v Value, active map[Value]bool) any {
	if isNil(v) {
		return nil
	}
	switch v := v.(type) {
	case Undefined, Null:
		return nil
	case Boolean:
		return bool(v)
	case Number:
		return float64(v)
	case String:
		return string(v)
	case *Date:
		return v.Time
	}

	if active[v] {
		return Circular
	}
	active[v] = true
	defer delete(active, v)

	switch v := v.(type) {
	case *Array:
		if v.IsStrict() {
			out := make([]any, len(v.Dense))
			for i, item := range v.Dense {
				out[i] = toNative(item, active)
			}
			return out
		}
		out := make(map[string]any, len(v.Dense)+len(v.Assoc))
		for i, item := range v.Dense {
			out[strconv.Itoa(i)] = toNative(item, active)
		}
		for _, p := range v.Assoc {
			out[p.Name] = toNative(p.Value, active)
		}
		return out
	case *Object:
		return propertiesToNative(v.Properties, active)
	case Typed:
		return propertiesToNative(v.Properties(), active)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func propertiesToNative(props []Property, active map[Value]bool) map[string]any {
	out := make(map[string]any, len(props))
	for _, p := range props {
		out[p.Name] = toNative(p.Value, active)
	}
	return out
}
