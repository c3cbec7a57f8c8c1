package enum

import (
	"fmt"
	"reflect"
)

// registry maps a concrete enum type to its known string values.
var registry = map[reflect.Type]map[string]any{}

// New registers value as a member of its enum type and returns it, so a
// declaration defines and registers in one line.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	if registry[t] == nil {
		registry[t] = map[string]any{}
	}

	registry[t][reflect.ValueOf(value).String()] = value
	return value
}

// ToEnum resolves a raw string back to the registered member of T.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	value, ok := registry[reflect.TypeOf(zero)][s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value.(T), nil
}
