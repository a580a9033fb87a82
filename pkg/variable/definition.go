package variable

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Definition is a typed key into a Map.
type Definition[T any] struct {
	name string
	typ  Type
}

func New[T any](name string, typ Type) Definition[T] {
	return Definition[T]{name: name, typ: typ}
}

func (d Definition[T]) Name() string { return d.name }
func (d Definition[T]) Type() Type   { return d.typ }

// Get reads the variable from m. ok is false when it is absent or null.
func (d Definition[T]) Get(m Map) (value T, ok bool, err error) {
	v, found := m[d.name]
	if !found || v.Type == TypeNull || v.Value == nil {
		return value, false, nil
	}
	if v.Type != "" && v.Type != d.typ && !(isNumeric(v.Type) && isNumeric(d.typ)) {
		return value, false, fmt.Errorf("variable %q has type %s, want %s", d.name, v.Type, d.typ)
	}
	value, err = convert[T](v.Value)
	if err != nil {
		return value, false, fmt.Errorf("variable %q: %w", d.name, err)
	}
	return value, true, nil
}

// Set writes value into m under the definition's name and type.
func (d Definition[T]) Set(m Map, value T) {
	var raw any = value
	if t, ok := raw.(time.Time); ok {
		raw = t.Format(DateLayout)
	}
	m[d.name] = Value{Type: d.typ, Value: raw}
}

func convert[T any](raw any) (T, error) {
	var out T
	if v, ok := raw.(T); ok {
		return v, nil
	}
	var err error
	switch p := any(&out).(type) {
	case *int64:
		*p, err = toInt64(raw)
	case *int:
		var n int64
		n, err = toInt64(raw)
		*p = int(n)
	case *int32:
		var n int64
		n, err = toInt64(raw)
		if err == nil && (n > math.MaxInt32 || n < math.MinInt32) {
			err = fmt.Errorf("%d overflows int32", n)
		}
		*p = int32(n)
	case *float64:
		*p, err = toFloat64(raw)
	case *time.Time:
		s, isString := raw.(string)
		if !isString {
			return out, fmt.Errorf("cannot convert %T to time", raw)
		}
		*p, err = time.Parse(DateLayout, s)
	default:
		// Structured (Json/Object) variables arrive as generic maps.
		var data []byte
		data, err = json.Marshal(raw)
		if err == nil {
			err = json.Unmarshal(data, &out)
		}
	}
	return out, err
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to integer", raw)
}

func toFloat64(raw any) (float64, error) {
	switch n := raw.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to float", raw)
}
