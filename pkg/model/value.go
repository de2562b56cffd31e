package model

import "fmt"

// Value is a small tagged-variant metadata value. Participants, Events,
// Rounds, and Schedules all carry a map from string key to Value so that
// constraints and diagnostics can retrieve domain-specific data (seeds,
// divisions, venues, ...) without the core engine knowing about it.
type Value struct {
	kind  valueKind
	i     int64
	f     float64
	b     bool
	s     string
	m     map[string]Value
}

type valueKind int

const (
	kindNone valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindString
	kindMap
)

// IntValue wraps an integer.
func IntValue(v int64) Value { return Value{kind: kindInt, i: v} }

// FloatValue wraps a float.
func FloatValue(v float64) Value { return Value{kind: kindFloat, f: v} }

// BoolValue wraps a boolean.
func BoolValue(v bool) Value { return Value{kind: kindBool, b: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{kind: kindString, s: v} }

// MapValue wraps a small nested mapping.
func MapValue(v map[string]Value) Value { return Value{kind: kindMap, m: v} }

// AsInt returns the wrapped integer and whether the value held one.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == kindInt
}

// AsFloat returns the wrapped float. Integers are also returned as floats
// since numeric comparisons in constraints are expected to work across
// both representations.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case kindFloat:
		return v.f, true
	case kindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsBool returns the wrapped boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == kindBool
}

// AsString returns the wrapped string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == kindString
}

// AsMap returns the wrapped nested mapping.
func (v Value) AsMap() (map[string]Value, bool) {
	return v.m, v.kind == kindMap
}

// IsZero reports whether the value is the absent/falsy variant. Missing
// metadata keys resolve to the zero Value, which is falsy everywhere.
func (v Value) IsZero() bool { return v.kind == kindNone }

// Equal reports whether two values carry the same kind and content. Value
// is not a comparable Go type (it can wrap a map), so this — not == — is
// the supported way to compare two values, e.g. for
// MetadataConstraint.RequireSameValue/RequireDifferentValues.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case kindInt:
		return v.i == other.i
	case kindFloat:
		return v.f == other.f
	case kindBool:
		return v.b == other.b
	case kindString:
		return v.s == other.s
	case kindMap:
		return v.Key() == other.Key()
	default:
		return true // both kindNone
	}
}

// Key returns a canonical, comparable string representation of the value,
// suitable for use as a map key when deduplicating values (distinct from
// String(), which is meant for human-readable diagnostic output and does
// not disambiguate kind).
func (v Value) Key() string {
	switch v.kind {
	case kindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		// Insertion sort: metadata maps are small.
		for i := 1; i < len(keys); i++ {
			for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
				keys[j-1], keys[j] = keys[j], keys[j-1]
			}
		}
		out := fmt.Sprintf("map:%d:", v.kind)
		for _, k := range keys {
			out += k + "=" + v.m[k].Key() + ";"
		}
		return out
	default:
		return fmt.Sprintf("%d:%s", v.kind, v.String())
	}
}

func (v Value) String() string {
	switch v.kind {
	case kindInt:
		return fmt.Sprintf("%d", v.i)
	case kindFloat:
		return fmt.Sprintf("%g", v.f)
	case kindBool:
		return fmt.Sprintf("%t", v.b)
	case kindString:
		return v.s
	case kindMap:
		return fmt.Sprintf("%v", v.m)
	default:
		return "<none>"
	}
}

// Metadata is a mapping from string key to Value with insertion order
// treated as irrelevant.
type Metadata map[string]Value

// Get returns the value at key, or the zero Value (falsy) if absent.
func (m Metadata) Get(key string) Value {
	if m == nil {
		return Value{}
	}
	return m[key]
}

// GetOrDefault returns the value at key, or def if the key is absent.
func (m Metadata) GetOrDefault(key string, def Value) Value {
	if m == nil {
		return def
	}
	if v, ok := m[key]; ok {
		return v
	}
	return def
}
