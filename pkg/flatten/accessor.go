package flatten

import (
	"fmt"
	"reflect"
	"strings"
)

// Internal accessor signatures. Caller-supplied accessors (Options.GetID,
// Options.GetChildren) cannot fail; the reflection-based defaults can, when a
// node does not have the shape they expect. Errors surface from Flatten at the
// point of use, never at construction.
type idFunc[T any] func(T) (string, error)
type childrenFunc[T any] func(T) ([]T, error)

// defaultGetID resolves a node's identity without a caller-supplied accessor.
// It reads an `ID` (or `Id`) struct field, or the "id" key of a string-keyed
// map. Non-string values are formatted with fmt.Sprint so numeric ids still
// produce stable keys.
func defaultGetID[T any](node T) (string, error) {
	v := baseValue(reflect.ValueOf(node))
	if !v.IsValid() {
		return "", fmt.Errorf("flatten: cannot derive an id from a nil node; set Options.GetID")
	}

	switch v.Kind() {
	case reflect.Struct:
		for _, name := range []string{"ID", "Id"} {
			if f := v.FieldByName(name); f.IsValid() {
				return stringifyValue(f)
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			for _, key := range []string{"id", "ID"} {
				mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
				if mv.IsValid() {
					return stringifyValue(baseValue(mv))
				}
			}
		}
	}
	return "", fmt.Errorf("flatten: cannot derive an id from %T; set Options.GetID", node)
}

// defaultGetChildren resolves a node's child list without a caller-supplied
// accessor: a `Children` struct field or the "children" key of a string-keyed
// map. A missing field or nil value means the node is childless; a value that
// exists but is not a list is a configuration error.
func defaultGetChildren[T any](node T) ([]T, error) {
	v := baseValue(reflect.ValueOf(node))
	if !v.IsValid() {
		return nil, nil
	}

	var raw reflect.Value
	switch v.Kind() {
	case reflect.Struct:
		raw = v.FieldByName("Children")
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			raw = v.MapIndex(reflect.ValueOf("children").Convert(v.Type().Key()))
		}
	}
	if !raw.IsValid() {
		return nil, nil
	}

	raw = baseValue(raw)
	if !raw.IsValid() {
		return nil, nil
	}
	if raw.Kind() != reflect.Slice && raw.Kind() != reflect.Array {
		return nil, fmt.Errorf("flatten: children of %T is %s, not a list", node, raw.Kind())
	}

	out := make([]T, 0, raw.Len())
	for i := 0; i < raw.Len(); i++ {
		ev := baseValue(raw.Index(i))
		if !ev.IsValid() {
			continue
		}
		child, ok := valueAs[T](raw.Index(i))
		if !ok {
			return nil, fmt.Errorf("flatten: child %d of %T is %s, want %s",
				i, node, raw.Index(i).Type(), reflect.TypeFor[T]())
		}
		out = append(out, child)
	}
	return out, nil
}

// defaultMatch is the search matcher used when Options.Match is nil:
// case-insensitive substring match on a `Name` field (or "name" map key).
// Nodes without a resolvable name never match.
func defaultMatch[T any](node T, term string) bool {
	v := baseValue(reflect.ValueOf(node))
	if !v.IsValid() {
		return false
	}

	var raw reflect.Value
	switch v.Kind() {
	case reflect.Struct:
		raw = v.FieldByName("Name")
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			raw = v.MapIndex(reflect.ValueOf("name").Convert(v.Type().Key()))
		}
	}
	if !raw.IsValid() {
		return false
	}
	name, err := stringifyValue(baseValue(raw))
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

// baseValue unwraps interfaces and pointers down to the underlying value.
// Returns an invalid Value for nil pointers/interfaces.
func baseValue(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func stringifyValue(v reflect.Value) (string, error) {
	if !v.IsValid() {
		return "", fmt.Errorf("flatten: id value is nil")
	}
	if v.Kind() == reflect.String {
		return v.String(), nil
	}
	if !v.CanInterface() {
		return "", fmt.Errorf("flatten: id field is unexported")
	}
	return fmt.Sprint(v.Interface()), nil
}

// valueAs converts a reflected child element back to the engine's node type.
func valueAs[T any](v reflect.Value) (T, bool) {
	var zero T
	if !v.IsValid() || !v.CanInterface() {
		return zero, false
	}
	child, ok := v.Interface().(T)
	if ok {
		return child, true
	}
	// Direct assertion failed; a convertible static type still counts
	// (e.g. a slice of a named node type under an interface).
	want := reflect.TypeFor[T]()
	bv := baseValue(v)
	if bv.IsValid() && bv.Type().ConvertibleTo(want) && bv.Type().Kind() == want.Kind() {
		child, ok = bv.Convert(want).Interface().(T)
		return child, ok
	}
	return zero, false
}
