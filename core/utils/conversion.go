package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString converts an arbitrary JSON-decoded value to a string.
// Floats that carry an integral value are rendered without a decimal part,
// since source ids frequently arrive as JSON numbers.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToFloat converts an arbitrary value to a float pointer.
// Empty strings and the literal "null" yield nil, matching the source
// system's habit of sending numeric fields as quoted placeholders.
func ToFloat(val any) *float64 {
	switch v := val.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "null") {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// ToInt converts an arbitrary value to an int, returning 0 on failure.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	case []byte:
		i, _ := strconv.Atoi(string(v))
		return i
	default:
		return 0
	}
}

// ToBool converts an arbitrary value to a bool.
// Numeric 1 and the strings "1"/"true" are truthy, everything else is not.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, float64:
		return ToInt(v) == 1
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}

// Truncate trims surrounding whitespace and cuts the string to max runes.
// Destination fields enforce hard length limits (e.g. 140 for names).
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// NormalizeCode coerces a source identifier into a destination item code.
// Numeric-looking values lose leading zeros and any decimal part ("007.0"
// becomes "7"); anything else is passed through trimmed.
func NormalizeCode(val any) string {
	s := strings.TrimSpace(ToString(val))
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
