package lang

import "strconv"

// formatInt renders an integer without exponent notation.
func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatFloat renders a float with the shortest representation that
// round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Canonical returns the canonical scalar text form of an evaluated
// value for the host platform's string-only output channel: "true" or
// "false" for booleans, the empty string for null, and shortest
// round-trip forms for numbers. Strings pass through verbatim.
func Canonical(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case int64:
		return formatInt(val)
	case float64:
		return formatFloat(val)
	default:
		return Stringify(val)
	}
}
