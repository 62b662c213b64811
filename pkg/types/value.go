package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind identifies which variant a ConfigValue holds.
type ValueKind int

const (
	// KindInvalid is the zero value; it marks a configuration that was never
	// set, which is distinct from an explicit null.
	KindInvalid ValueKind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the string representation of the kind
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// ConfigValue is a tagged union over the JSON-like value space used for
// resource configurations: null, bool, number, string, array, object.
// It replaces ad hoc map[string]interface{} trees so that comparison code
// can switch on an explicit kind instead of reflecting on runtime types.
type ConfigValue struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	arr  []ConfigValue
	obj  map[string]ConfigValue
}

// Null returns an explicit null value.
func Null() ConfigValue { return ConfigValue{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) ConfigValue { return ConfigValue{kind: KindBool, b: b} }

// Number wraps a numeric value.
func Number(n float64) ConfigValue { return ConfigValue{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) ConfigValue { return ConfigValue{kind: KindString, s: s} }

// Array wraps a list of values.
func Array(items ...ConfigValue) ConfigValue {
	return ConfigValue{kind: KindArray, arr: items}
}

// Object wraps a map of values.
func Object(fields map[string]ConfigValue) ConfigValue {
	if fields == nil {
		fields = map[string]ConfigValue{}
	}
	return ConfigValue{kind: KindObject, obj: fields}
}

// Kind returns which variant this value holds.
func (v ConfigValue) Kind() ValueKind { return v.kind }

// IsValid reports whether the value was ever set.
func (v ConfigValue) IsValid() bool { return v.kind != KindInvalid }

// BoolVal returns the boolean payload (false for non-bool kinds).
func (v ConfigValue) BoolVal() bool { return v.b }

// NumberVal returns the numeric payload (0 for non-number kinds).
func (v ConfigValue) NumberVal() float64 { return v.n }

// StringVal returns the string payload ("" for non-string kinds).
func (v ConfigValue) StringVal() string { return v.s }

// Items returns the array elements, or nil for non-array kinds.
func (v ConfigValue) Items() []ConfigValue { return v.arr }

// Len returns the number of array elements or object fields.
func (v ConfigValue) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Fields returns the object fields, or nil for non-object kinds.
func (v ConfigValue) Fields() map[string]ConfigValue { return v.obj }

// Field returns a single object field by name.
func (v ConfigValue) Field(name string) (ConfigValue, bool) {
	if v.kind != KindObject {
		return ConfigValue{}, false
	}
	f, ok := v.obj[name]
	return f, ok
}

// Lookup resolves a dot-separated path of object keys, e.g.
// "BillingModeSummary.BillingMode". It does not traverse arrays.
func (v ConfigValue) Lookup(path string) (ConfigValue, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.Field(part)
		if !ok {
			return ConfigValue{}, false
		}
		cur = next
	}
	return cur, true
}

// StringAt is a convenience for Lookup on string-valued fields.
func (v ConfigValue) StringAt(path string) string {
	f, ok := v.Lookup(path)
	if !ok || f.kind != KindString {
		return ""
	}
	return f.s
}

// NumberAt is a convenience for Lookup on number-valued fields.
func (v ConfigValue) NumberAt(path string) (float64, bool) {
	f, ok := v.Lookup(path)
	if !ok || f.kind != KindNumber {
		return 0, false
	}
	return f.n, true
}

// Equal reports deep equality. Values of different kinds are never equal;
// in particular a string "123" never equals the number 123.
func (v ConfigValue) Equal(o ConfigValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, f := range v.obj {
			of, ok := o.obj[k]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	default:
		// null == null, invalid == invalid
		return true
	}
}

// FromAny converts a decoded JSON tree (maps, slices, scalars) into a
// ConfigValue. Integer types are widened to float64 so that values decoded
// from JSON and values built from SDK responses compare equal.
func FromAny(v interface{}) (ConfigValue, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Number(float64(val)), nil
	case int32:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return ConfigValue{}, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return Number(f), nil
	case string:
		return String(val), nil
	case []interface{}:
		items := make([]ConfigValue, 0, len(val))
		for i, item := range val {
			cv, err := FromAny(item)
			if err != nil {
				return ConfigValue{}, fmt.Errorf("element %d: %w", i, err)
			}
			items = append(items, cv)
		}
		return Array(items...), nil
	case map[string]interface{}:
		fields := make(map[string]ConfigValue, len(val))
		for k, item := range val {
			cv, err := FromAny(item)
			if err != nil {
				return ConfigValue{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = cv
		}
		return Object(fields), nil
	case map[string]string:
		fields := make(map[string]ConfigValue, len(val))
		for k, s := range val {
			fields[k] = String(s)
		}
		return Object(fields), nil
	default:
		return ConfigValue{}, fmt.Errorf("unsupported configuration value type %T", v)
	}
}

// MustFromAny is FromAny for literals in tests and fixtures; it panics on
// unsupported input.
func MustFromAny(v interface{}) ConfigValue {
	cv, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return cv
}

// ToAny converts the value back to the generic JSON representation.
func (v ConfigValue) ToAny() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(v.obj))
		for k, f := range v.obj {
			out[k] = f.ToAny()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler. Invalid values serialize as null.
func (v ConfigValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *ConfigValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cv, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = cv
	return nil
}

// String returns a compact JSON rendering, for log and error messages.
func (v ConfigValue) String() string {
	data, err := json.Marshal(v.ToAny())
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(data)
}
