package listing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number coerces an attribute value to float64.
// JSON numbers, Go numeric types and numeric strings are accepted;
// anything else (including NaN and ±Inf) degrades to 0.
func Number(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Text coerces an attribute value to a string. Numbers are formatted,
// other non-string values yield "".
func Text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64, int, int64, json.Number:
		return strconv.FormatFloat(Number(s), 'f', -1, 64)
	default:
		return ""
	}
}

// Strings coerces an attribute value to a string list.
// A single string becomes a comma-separated split; non-string items are skipped.
func Strings(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	case string:
		var out []string
		for part := range strings.SplitSeq(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}
