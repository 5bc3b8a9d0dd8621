package normalize

import (
	"strconv"
	"strings"
)

// Bool interprets yes/no style flags. Anything unrecognised is false.
func Bool(v any) bool {
	if n, ok := number(v); ok {
		return n == 1
	}
	if b, ok := v.(bool); ok {
		return b
	}
	s, ok := Text(v)
	if !ok {
		return false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true", "yes", "y", "1":
		return true
	case "false", "no", "n", "0":
		return false
	}
	// numeric text such as "1.0" behaves like the number it spells
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f == 1
	}
	return false
}
