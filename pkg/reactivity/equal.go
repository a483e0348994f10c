package reactivity

import (
	"math"
	"reflect"
)

// HasChanged reports whether writing newValue over oldValue is a change
// that should notify subscribers.
//
// NaN is considered equal to NaN. Maps, slices, pointers and channels
// compare by identity. Funcs have no identity in Go and always count as
// changed. Other non-comparable values compare deeply.
func HasChanged(oldValue, newValue any) bool {
	if isNaN(oldValue) && isNaN(newValue) {
		return false
	}
	if oldValue == nil || newValue == nil {
		return oldValue != nil || newValue != nil
	}

	ov := reflect.ValueOf(oldValue)
	nv := reflect.ValueOf(newValue)
	if ov.Type() != nv.Type() {
		return true
	}

	switch ov.Kind() {
	case reflect.Func:
		return true
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return ov.Pointer() != nv.Pointer()
	case reflect.Slice:
		return ov.Pointer() != nv.Pointer() || ov.Len() != nv.Len()
	}

	if ov.Type().Comparable() {
		return oldValue != newValue
	}
	return !reflect.DeepEqual(oldValue, newValue)
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}
