// Package variable models typed process variables in the engine's
// {"type": ..., "value": ...} shape and typed definitions to access them.
package variable

import (
	"time"
)

type Type string

const (
	TypeString  Type = "String"
	TypeBoolean Type = "Boolean"
	TypeInteger Type = "Integer"
	TypeLong    Type = "Long"
	TypeDouble  Type = "Double"
	TypeDate    Type = "Date"
	TypeJSON    Type = "Json"
	TypeObject  Type = "Object"
	TypeNull    Type = "Null"
)

// DateLayout is the engine's wire format for Date variables and timestamps.
const DateLayout = "2006-01-02T15:04:05.000-0700"

type Value struct {
	Type      Type           `json:"type" yaml:"type"`
	Value     any            `json:"value" yaml:"value"`
	ValueInfo map[string]any `json:"valueInfo,omitempty" yaml:"value_info,omitempty"`
}

// Map is a set of variables keyed by name.
type Map map[string]Value

// Names returns the subset of m whose keys are in names. A nil names slice
// returns m unchanged.
func (m Map) Names(names []string) Map {
	if names == nil {
		return m
	}
	out := make(Map, len(names))
	for _, n := range names {
		if v, ok := m[n]; ok {
			out[n] = v
		}
	}
	return out
}

// Untyped infers a Value from a plain JSON value, the way callers submit form
// data without type information.
func Untyped(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{Type: TypeNull}
	case string:
		return Value{Type: TypeString, Value: x}
	case bool:
		return Value{Type: TypeBoolean, Value: x}
	case int, int32, int64:
		return Value{Type: TypeLong, Value: x}
	case float64:
		if x == float64(int64(x)) {
			return Value{Type: TypeLong, Value: int64(x)}
		}
		return Value{Type: TypeDouble, Value: x}
	case time.Time:
		return Value{Type: TypeDate, Value: x.Format(DateLayout)}
	default:
		return Value{Type: TypeJSON, Value: x}
	}
}

func isNumeric(t Type) bool {
	return t == TypeInteger || t == TypeLong || t == TypeDouble
}
