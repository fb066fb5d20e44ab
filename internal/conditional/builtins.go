package conditional

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type builtin func(sc *scope, args []any) (any, error)

// builtins is the complete callable surface of the language. Anything not
// listed here is a compile-visible evaluation error.
var builtins = map[string]builtin{
	"len":            fnLen,
	"bool":           fnBool,
	"int":            fnInt,
	"float":          fnFloat,
	"str":            fnStr,
	"abs":            fnAbs,
	"min":            fnMin,
	"max":            fnMax,
	"sum":            fnSum,
	"any":            fnAny,
	"all":            fnAll,
	"getattr":        fnGetattr,
	"hasattr":        fnHasattr,
	"is_str":         typePredicate(func(v any) bool { _, ok := v.(string); return ok }),
	"is_num":         typePredicate(func(v any) bool { _, ok := asFloat(v); return ok }),
	"is_list":        typePredicate(func(v any) bool { _, ok := v.([]any); return ok }),
	"is_none":        typePredicate(func(v any) bool { return v == nil }),
	"attr":           fnAttr,
	"has_capability": fnHasCapability,
	"has_chain":      fnHasChain,
	"panel_exists":   fnPanelExists,
}

func wantArgs(args []any, low, high int) error {
	if len(args) < low || len(args) > high {
		if low == high {
			return fmt.Errorf("want %d argument(s), got %d", low, len(args))
		}
		return fmt.Errorf("want %d to %d arguments, got %d", low, high, len(args))
	}
	return nil
}

func fnLen(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	return lengthOf(args[0])
}

func fnBool(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	return truthy(args[0]), nil
}

func fnInt(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as integer", v)
		}
		return i, nil
	}
	return nil, fmt.Errorf("cannot convert %T to integer", args[0])
}

func fnFloat(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as float", v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert %T to float", args[0])
}

func fnStr(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case nil:
		return "None", nil
	case string:
		return v, nil
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	return fmt.Sprintf("%v", args[0]), nil
}

func fnAbs(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	}
	return nil, fmt.Errorf("abs needs a number, got %T", args[0])
}

func extremum(args []any, pickGreater bool) (any, error) {
	// min/max accept either a single list or two-plus scalars.
	items := args
	if len(args) == 1 {
		list, ok := args[0].([]any)
		if !ok {
			return nil, fmt.Errorf("single argument must be a list, got %T", args[0])
		}
		items = list
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty sequence")
	}
	best := items[0]
	for _, item := range items[1:] {
		greater, err := compare(">", item, best)
		if err != nil {
			return nil, err
		}
		if greater == pickGreater {
			best = item
		}
	}
	return best, nil
}

func fnMin(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 64); err != nil {
		return nil, err
	}
	return extremum(args, false)
}

func fnMax(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 64); err != nil {
		return nil, err
	}
	return extremum(args, true)
}

func fnSum(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	list, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("sum needs a list, got %T", args[0])
	}
	var total any = int64(0)
	for _, item := range list {
		next, err := arith("+", total, item)
		if err != nil {
			return nil, err
		}
		total = next
	}
	return total, nil
}

func fnAny(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	list, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("any needs a list, got %T", args[0])
	}
	for _, item := range list {
		if truthy(item) {
			return true, nil
		}
	}
	return false, nil
}

func fnAll(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	list, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("all needs a list, got %T", args[0])
	}
	for _, item := range list {
		if !truthy(item) {
			return false, nil
		}
	}
	return true, nil
}

func fnGetattr(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 2, 3); err != nil {
		return nil, err
	}
	name, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("attribute name must be a string, got %T", args[1])
	}
	val, found := attrOf(args[0], name)
	if !found {
		if len(args) == 3 {
			return args[2], nil
		}
		return nil, fmt.Errorf("no attribute %q", name)
	}
	return val, nil
}

func fnHasattr(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 2, 2); err != nil {
		return nil, err
	}
	name, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("attribute name must be a string, got %T", args[1])
	}
	_, found := attrOf(args[0], name)
	return found, nil
}

func typePredicate(pred func(any) bool) builtin {
	return func(_ *scope, args []any) (any, error) {
		if err := wantArgs(args, 1, 1); err != nil {
			return nil, err
		}
		return pred(args[0]), nil
	}
}

// fnAttr is the safe nested getter: attr(obj, "a.b.c", default). Any missing
// step yields the default (or nil) instead of an error.
func fnAttr(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 2, 3); err != nil {
		return nil, err
	}
	path, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("attribute path must be a string, got %T", args[1])
	}
	var fallback any
	if len(args) == 3 {
		fallback = args[2]
	}
	current := args[0]
	for _, step := range strings.Split(path, ".") {
		if current == nil {
			return fallback, nil
		}
		next, found := attrOf(current, step)
		if !found {
			return fallback, nil
		}
		current = next
	}
	if current == nil {
		return fallback, nil
	}
	return current, nil
}

func fnHasCapability(sc *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("capability name must be a string, got %T", args[0])
	}
	return sc.env.Capabilities[name], nil
}

// fnHasChain checks an attribute chain step by step: has_chain(obj, "a",
// "b") is true only when every link exists and is non-nil.
func fnHasChain(_ *scope, args []any) (any, error) {
	if err := wantArgs(args, 2, 16); err != nil {
		return nil, err
	}
	current := args[0]
	for _, raw := range args[1:] {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("chain links must be strings, got %T", raw)
		}
		if current == nil {
			return false, nil
		}
		next, found := attrOf(current, name)
		if !found || next == nil {
			return false, nil
		}
		current = next
	}
	return true, nil
}

func fnPanelExists(sc *scope, args []any) (any, error) {
	if err := wantArgs(args, 1, 1); err != nil {
		return nil, err
	}
	id, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("panel id must be a string, got %T", args[0])
	}
	if sc.env.PanelExists == nil {
		return false, nil
	}
	return sc.env.PanelExists(id), nil
}
