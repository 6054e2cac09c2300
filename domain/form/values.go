package form

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Values maps field names to their current value. A value is a string,
// a number (float64), a bool, or a string set ([]string).
type Values map[string]any

// Clone returns a deep copy so callers can hand values to other goroutines
// without sharing slices.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		if list, ok := val.([]string); ok {
			out[k] = append([]string(nil), list...)
			continue
		}
		out[k] = val
	}
	return out
}

// String returns the trimmed string value of a field, or "".
func (v Values) String(name string) string {
	s, _ := asString(v[name])
	return strings.TrimSpace(s)
}

// Number returns the numeric value of a field.
func (v Values) Number(name string) (float64, bool) {
	return asNumber(v[name])
}

// Bool returns the boolean value of a field, false when unset.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// List returns the string-set value of a field.
func (v Values) List(name string) []string {
	list, _ := asList(v[name])
	return list
}

// normalize coerces transport representations (JSON numbers, []any, "true")
// into the canonical Go type for the field. Values that cannot be coerced
// are kept as-is and fail validation later.
func normalize(t FieldType, raw any) any {
	switch t {
	case TypeNumber:
		if n, ok := asNumber(raw); ok {
			return n
		}
	case TypeBool:
		switch b := raw.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
				return parsed
			}
		}
	case TypeMulti:
		if list, ok := asList(raw); ok {
			return dedupe(list)
		}
	case TypeText:
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return raw
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// isEmpty reports whether a value counts as untouched. Optional fields are
// only validated when non-empty.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case bool:
		return !val
	}
	return false
}

// Errors maps field names to the message of their first failing rule.
type Errors map[string]string

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
