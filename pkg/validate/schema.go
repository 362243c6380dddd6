package validate

import (
	"encoding/json"
	"fmt"
	"sort"
)

// path addresses a value inside the decoded document.
type path string

func (p path) key(k string) path {
	if p == "" {
		return path(k)
	}
	return path(string(p) + "." + k)
}

func (p path) index(i int) path {
	return path(fmt.Sprintf("%s[%d]", p, i))
}

func fail(p path, format string, args ...any) error {
	return &ValidationError{Path: string(p), Reason: fmt.Sprintf(format, args...)}
}

func object(p path, v any, what string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fail(p, "must be %s", what)
	}
	return obj, nil
}

func array(p path, v any, what string) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fail(p, "must be %s", what)
	}
	return list, nil
}

// present returns the field value, treating an explicit null as absent.
func present(obj map[string]any, field string) (any, bool) {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func nonEmptyString(p path, obj map[string]any, field string) (string, error) {
	v, ok := present(obj, field)
	if !ok {
		return "", fail(p.key(field), "is missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", fail(p.key(field), "must be a string")
	}
	if s == "" {
		return "", fail(p.key(field), "must not be empty")
	}
	return s, nil
}

func number(p path, v any) (float64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fail(p, "must be a number")
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fail(p, "must be a number: %v", err)
	}
	return f, nil
}

func positive(p path, obj map[string]any, field string) (float64, error) {
	v, ok := present(obj, field)
	if !ok {
		return 0, fail(p.key(field), "is missing")
	}
	f, err := number(p.key(field), v)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fail(p.key(field), "must be a positive number")
	}
	return f, nil
}

func optionalNumber(p path, obj map[string]any, field string) (float64, bool, error) {
	v, ok := present(obj, field)
	if !ok {
		return 0, false, nil
	}
	f, err := number(p.key(field), v)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

// keyed visits the members of obj in sorted key order, rejecting keys that
// fail accept. Sorting makes "first violation" independent of map order.
func keyed(p path, obj map[string]any, accept func(string) bool, keyRule string, each func(path, string, any) error) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !accept(k) {
			return fail(p.key(k), "key must be %s", keyRule)
		}
		if err := each(p.key(k), k, obj[k]); err != nil {
			return err
		}
	}
	return nil
}
