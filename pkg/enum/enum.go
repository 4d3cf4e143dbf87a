package enum

import (
	"fmt"
	"reflect"
	"sort"
)

// Enums are registered at package initialization, registration is not safe
// for concurrent use.
var enumManager = map[reflect.Type]map[string]any{}

// New registers value as a member of its type and returns it.
func New[T ~string](value T) T {
	t := reflect.TypeOf(value)
	if _, ok := enumManager[t]; !ok {
		enumManager[t] = map[string]any{}
	}

	enumManager[t][string(value)] = value
	return value
}

// ToEnum returns the registered member of T equal to s.
func ToEnum[T ~string](s string) (T, error) {
	var defaultT T
	members, ok := enumManager[reflect.TypeOf(defaultT)]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	v, ok := members[s]
	if !ok {
		return defaultT, fmt.Errorf("invalid value %q for %T", s, defaultT)
	}

	return v.(T), nil
}

// Values returns the registered members of T in lexical order.
func Values[T ~string]() []T {
	var defaultT T
	result := []T{}
	for _, v := range enumManager[reflect.TypeOf(defaultT)] {
		result = append(result, v.(T))
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
