// Package normalize maps raw spreadsheet cells to canonical field values.
//
// Every function here is total: malformed input degrades to a missing or
// default value and never returns an error.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reSpace = regexp.MustCompile(`\s+`)

// Space collapses runs of whitespace into one space and trims the ends.
func Space(s string) string {
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

// Text renders a raw cell as a string. ok is false for nil, NaN and blank cells.
func Text(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case float64:
		if math.IsNaN(t) {
			return "", false
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(t)) {
			return "", false
		}
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	case []byte:
		s = string(t)
	default:
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Present reports whether a raw cell carries any value at all.
func Present(v any) bool {
	_, ok := Text(v)
	return ok
}

// number returns the numeric value of v when v is a Go number.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case float32:
		return float64(t), !math.IsNaN(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
