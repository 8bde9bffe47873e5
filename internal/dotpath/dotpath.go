// Package dotpath resolves dot-separated paths such as
// "properties.Film.multi_select.0.name" inside decoded JSON values.
package dotpath

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Lookup walks v one segment at a time. A segment is a key when the current
// node is a JSON object and an index when it is a JSON array. Any missing key,
// unexpected node kind, bad index, or a null result yields (nil, false).
func Lookup(v any, path string) (any, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// String resolves path and reports false unless the value is a string.
func String(v any, path string) (string, bool) {
	got, ok := Lookup(v, path)
	if !ok {
		return "", false
	}
	s, ok := got.(string)
	return s, ok
}

// Number resolves path and reports false unless the value is numeric.
func Number(v any, path string) (float64, bool) {
	got, ok := Lookup(v, path)
	if !ok {
		return 0, false
	}
	switch n := got.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
