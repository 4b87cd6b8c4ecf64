package condition

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type node interface {
	eval(values map[string]any) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) bool {
	return n.left.eval(values) || n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) bool {
	return n.left.eval(values) && n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) bool {
	return !n.inner.eval(values)
}

type truthNode struct{ path string }

func (n truthNode) eval(values map[string]any) bool {
	return truthy(lookup(values, n.path))
}

type compareNode struct {
	path   string
	negate bool
	want   value
}

func (n compareNode) eval(values map[string]any) bool {
	return n.want.matches(lookup(values, n.path)) != n.negate
}

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindBool
	kindNull
)

// value is a literal from the right-hand side of a comparison.
type value struct {
	kind valueKind
	s    string
	n    float64
	b    bool
}

// matches compares a literal with an answer. Multi-valued answers match when
// any element does.
func (v value) matches(actual any) bool {
	if v.kind == kindNull {
		return isNull(actual)
	}
	if items, ok := asList(actual); ok {
		for _, item := range items {
			if v.matches(item) {
				return true
			}
		}
		return false
	}
	if isNull(actual) {
		return false
	}

	switch v.kind {
	case kindBool:
		b, ok := asBool(actual)
		return ok && b == v.b
	case kindNumber:
		n, ok := asNumber(actual)
		return ok && n == v.n
	default:
		return asString(actual) == v.s
	}
}

func lookup(values map[string]any, path string) any {
	if values == nil {
		return nil
	}
	var current any = values
	for _, segment := range strings.Split(path, ".") {
		switch m := current.(type) {
		case map[string]any:
			current = m[segment]
		case map[string]string:
			current = m[segment]
		default:
			return nil
		}
	}
	return current
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func asList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []string:
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}

func truthy(v any) bool {
	if isNull(v) {
		return false
	}
	if items, ok := asList(v); ok {
		return len(items) > 0
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		trimmed := strings.TrimSpace(t)
		return trimmed != "" && !strings.EqualFold(trimmed, "false") && trimmed != "0"
	case map[string]any:
		return len(t) > 0
	}
	if n, ok := asNumber(v); ok {
		return n != 0
	}
	return true
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	return false, false
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil
	}
	return 0, false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	}
	if n, ok := asNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
