package conditional

import (
	"fmt"
	"reflect"
	"strings"
)

// Object lets domain values expose named attributes to expressions without
// reflection. Env roots commonly implement it.
type Object interface {
	Attr(name string) (any, bool)
}

// truthy follows the conventions the stored expressions were written
// against: nil, false, zero numbers, and empty strings/lists/maps are false.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// attrOf reads a named attribute: Object first, then string-keyed maps,
// then exported struct fields (through pointers) by exact or
// case-insensitive match.
func attrOf(v any, name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	if obj, ok := v.(Object); ok {
		return obj.Attr(name)
	}
	if m, ok := v.(map[string]any); ok {
		val, ok := m[name]
		return val, ok
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	field := rv.FieldByName(name)
	if !field.IsValid() {
		field = rv.FieldByNameFunc(func(candidate string) bool {
			return strings.EqualFold(candidate, name)
		})
	}
	if !field.IsValid() || !field.CanInterface() {
		return nil, false
	}
	return normalize(field.Interface()), true
}

// normalize folds Go numeric kinds into the interpreter's int64/float64
// model so comparisons behave uniformly.
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return float64(val)
	}
	return v
}

func indexOf(recv, idx any) (any, error) {
	switch container := recv.(type) {
	case map[string]any:
		key, ok := idx.(string)
		if !ok {
			return nil, fmt.Errorf("map index must be a string, got %T", idx)
		}
		return container[key], nil
	case []any:
		i, ok := idx.(int64)
		if !ok {
			return nil, fmt.Errorf("list index must be an integer, got %T", idx)
		}
		if i < 0 || i >= int64(len(container)) {
			return nil, fmt.Errorf("list index %d out of range", i)
		}
		return container[i], nil
	case string:
		i, ok := idx.(int64)
		if !ok {
			return nil, fmt.Errorf("string index must be an integer, got %T", idx)
		}
		if i < 0 || i >= int64(len(container)) {
			return nil, fmt.Errorf("string index %d out of range", i)
		}
		return string(container[i]), nil
	}
	return nil, fmt.Errorf("value of type %T is not indexable", recv)
}

func lengthOf(v any) (int64, error) {
	switch val := v.(type) {
	case string:
		return int64(len(val)), nil
	case []any:
		return int64(len(val)), nil
	case map[string]any:
		return int64(len(val)), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return int64(rv.Len()), nil
	}
	return 0, fmt.Errorf("value of type %T has no length", v)
}

func equal(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}

func compare(op string, a, b any) (bool, error) {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		if !bok {
			return false, fmt.Errorf("cannot order %T against %T", a, b)
		}
		switch op {
		case "<":
			return af < bf, nil
		case "<=":
			return af <= bf, nil
		case ">":
			return af > bf, nil
		case ">=":
			return af >= bf, nil
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch op {
		case "<":
			return as < bs, nil
		case "<=":
			return as <= bs, nil
		case ">":
			return as > bs, nil
		case ">=":
			return as >= bs, nil
		}
	}
	return false, fmt.Errorf("cannot order %T against %T", a, b)
}

func contains(needle, haystack any) (bool, error) {
	switch container := haystack.(type) {
	case string:
		sub, ok := needle.(string)
		if !ok {
			return false, fmt.Errorf("substring check needs a string, got %T", needle)
		}
		return strings.Contains(container, sub), nil
	case []any:
		for _, item := range container {
			if equal(needle, item) {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		key, ok := needle.(string)
		if !ok {
			return false, fmt.Errorf("map membership needs a string key, got %T", needle)
		}
		_, present := container[key]
		return present, nil
	}
	return false, fmt.Errorf("value of type %T does not support membership", haystack)
}

func arith(op string, a, b any) (any, error) {
	if op == "+" {
		if as, ok := a.(string); ok {
			bs, ok := b.(string)
			if !ok {
				return nil, fmt.Errorf("cannot concatenate string with %T", b)
			}
			return as + bs, nil
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, fmt.Errorf("arithmetic needs numbers, got %T and %T", a, b)
	}
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	bothInt := aInt && bInt
	switch op {
	case "+":
		if bothInt {
			return ai + bi, nil
		}
		return af + bf, nil
	case "-":
		if bothInt {
			return ai - bi, nil
		}
		return af - bf, nil
	case "*":
		if bothInt {
			return ai * bi, nil
		}
		return af * bf, nil
	case "/":
		if bf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return af / bf, nil
	case "%":
		if !bothInt {
			return nil, fmt.Errorf("modulo needs integers, got %T and %T", a, b)
		}
		if bi == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return ai % bi, nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

// Lookup reads a named attribute or map key from a value, using the same
// access rules expressions use. Property-path resolution shares it.
func Lookup(v any, name string) (any, bool) {
	return attrOf(v, name)
}

// Element reads a list element by position, tolerating out-of-range and
// non-list receivers by reporting false.
func Element(v any, index int) (any, bool) {
	out, err := indexOf(normalize(v), int64(index))
	if err != nil {
		return nil, false
	}
	return out, true
}
