package evaluator

import (
	"cmp"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// compareValues orders a record value against a rule value. Both sides are
// compared as numbers when the record value is numeric and the rule value is
// a decimal literal; otherwise their string forms are compared.
func compareValues(actual any, expected string) int {
	if n, ok := toFloat(actual); ok && numberPattern.MatchString(expected) {
		want, err := strconv.ParseFloat(expected, 64)
		if err == nil {
			return cmp.Compare(n, want)
		}
	}
	return strings.Compare(textOf(actual), expected)
}

// toFloat converts numeric record values. Strings are never numeric.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// textOf renders a record value the way rule literals are written.
func textOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
