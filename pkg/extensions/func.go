package extensions

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-j2/pkg/render/template"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Func is a callable harvested from an extension file.
type Func struct {
	name   string
	symbol string
	fn     reflect.Value
}

// Name returns the name the callable is registered under.
func (f Func) Name() string { return f.name }

// Call invokes the underlying function with the piped value followed by any
// extra arguments, converting each to the parameter type it lands on. A
// trailing error return is split off; at most two return values are allowed.
func (f Func) Call(in any, args ...any) (any, error) {
	all := append([]any{in}, args...)
	t := f.fn.Type()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
		if len(all) < fixed {
			return nil, fmt.Errorf("extensions: %s expects at least %d arguments, got %d", f.symbol, fixed, len(all))
		}
	} else if len(all) != fixed {
		return nil, fmt.Errorf("extensions: %s expects %d arguments, got %d", f.symbol, fixed, len(all))
	}

	values := make([]reflect.Value, len(all))
	for idx, arg := range all {
		var want reflect.Type
		if idx < fixed {
			want = t.In(idx)
		} else {
			want = t.In(fixed).Elem()
		}
		value, err := convert(arg, want)
		if err != nil {
			return nil, fmt.Errorf("extensions: %s argument %d: %w", f.symbol, idx, err)
		}
		values[idx] = value
	}

	return splitResults(f.symbol, f.fn.Call(values))
}

// Filter adapts the callable to the engine's filter contract.
func (f Func) Filter() template.FilterFunc {
	return func(in any, args ...any) (any, error) {
		return f.Call(in, args...)
	}
}

// Test adapts the callable to the engine's test contract. Non-boolean results
// are reduced to their truthiness, the way template conditionals treat
// values.
func (f Func) Test() template.TestFunc {
	return func(in any, args ...any) (bool, error) {
		out, err := f.Call(in, args...)
		if err != nil {
			return false, err
		}
		return truthy(out), nil
	}
}

func convert(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}
	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(want) {
		return value, nil
	}
	if value.Type().ConvertibleTo(want) {
		return value.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", value.Type(), want)
}

func splitResults(symbol string, results []reflect.Value) (any, error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		if results[0].Type().Implements(errorType) {
			if results[0].IsNil() {
				return nil, nil
			}
			return nil, results[0].Interface().(error)
		}
		return results[0].Interface(), nil
	case 2:
		if !results[1].Type().Implements(errorType) {
			return nil, fmt.Errorf("extensions: %s: second return value must be an error", symbol)
		}
		if !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	default:
		return nil, fmt.Errorf("extensions: %s returns %d values, want at most 2", symbol, len(results))
	}
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}
