// Package wire provides bounds-checked access to the positional JSON arrays
// the form document is made of. Missing or short arrays are never an error:
// every accessor falls back to a zero value and reports whether the field
// was present.
package wire

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Decode parses a JSON document keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return v, nil
}

// Array returns v as an array.
func Array(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// Get walks the nested arrays along path.
// It returns nil as soon as a step is not an array or is out of range.
func Get(v any, path ...int) any {
	cur := v
	for _, i := range path {
		arr, ok := cur.([]any)
		if !ok || i < 0 || i >= len(arr) {
			return nil
		}
		cur = arr[i]
	}
	return cur
}

// Len returns the length of v if it is an array, 0 otherwise.
func Len(v any) int {
	arr, _ := v.([]any)
	return len(arr)
}

// Int converts a wire number (or a numeric string) to int64.
func Int(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), true
		}
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// IntOr is Int with a default.
func IntOr(v any, def int64) int64 {
	if i, ok := Int(v); ok {
		return i
	}
	return def
}

// String returns v as a string.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// StringOr returns v as a string, or def when v is missing or not a string.
func StringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// Truthy mirrors the loose boolean flags of the document:
// null, false, 0, "" and [] are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	}
	return true
}

// Strings collects the string items of an array, skipping anything else.
func Strings(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case json.Number:
			out = append(out, s.String())
		}
	}
	return out
}
