package config

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a configuration value: string, number, bool, list or map.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	m    map[string]Value
}

// Null is the absent value
var Null = Value{}

// StringValue wraps a string
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a number
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// BoolValue wraps a bool
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ListValue wraps a list of values
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), items...)}
}

// MapValue wraps a map of values
func MapValue(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

// ValueOf converts a decoded configuration value (as produced by the
// TOML/YAML/JSON parsers or passed by callers) into a Value.
func ValueOf(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Null
	case Value:
		return v
	case string:
		return StringValue(v)
	case bool:
		return BoolValue(v)
	case int:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case int32:
		return NumberValue(float64(v))
	case uint64:
		return NumberValue(float64(v))
	case float64:
		return NumberValue(v)
	case float32:
		return NumberValue(float64(v))
	case []interface{}:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = ValueOf(item)
		}
		return Value{kind: KindList, list: items}
	case []string:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = StringValue(item)
		}
		return Value{kind: KindList, list: items}
	case map[string]interface{}:
		m := make(map[string]Value, len(v))
		for key, item := range v {
			m[key] = ValueOf(item)
		}
		return Value{kind: KindMap, m: m}
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = ValueOf(rv.Index(i).Interface())
		}
		return Value{kind: KindList, list: items}
	case reflect.Map:
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = ValueOf(iter.Value().Interface())
		}
		return Value{kind: KindMap, m: m}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		f, _ := strconv.ParseFloat(fmt.Sprint(raw), 64)
		return NumberValue(f)
	}
	return StringValue(fmt.Sprint(raw))
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is absent
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) typeError(want string) error {
	return errors.Newf(errors.ErrValueType, "expected %s, got %s", want, v.kind).
		WithDetail("value", v.String())
}

// AsString returns a string for any scalar value
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindNumber, KindBool:
		return v.String(), nil
	}
	return "", v.typeError("string")
}

// AsFloat returns the number held by v, parsing numeric strings
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, v.typeError("number")
}

// AsInt returns the integral number held by v
func (v Value) AsInt() (int, error) {
	f, err := v.AsFloat()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, v.typeError("integer")
	}
	return int(f), nil
}

// AsBool returns the bool held by v, parsing "true"/"false" strings
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.str))
		if err == nil {
			return b, nil
		}
	}
	return false, v.typeError("bool")
}

// AsList returns the items of a list value
func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, v.typeError("list")
	}
	return append([]Value(nil), v.list...), nil
}

// AsStrings accepts either a single scalar or a list of scalars
func (v Value) AsStrings() ([]string, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindList:
		out := make([]string, 0, len(v.list))
		for _, item := range v.list {
			s, err := item.AsString()
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	s, err := v.AsString()
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// AsMap returns the entries of a map value
func (v Value) AsMap() (map[string]Value, error) {
	if v.kind != KindMap {
		return nil, v.typeError("map")
	}
	cp := make(map[string]Value, len(v.m))
	for k, item := range v.m {
		cp[k] = item
	}
	return cp, nil
}

// Interface converts v back to plain Go values
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53 {
			return int64(v.num)
		}
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

// String renders v for display and for string substitution
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + v.m[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}
