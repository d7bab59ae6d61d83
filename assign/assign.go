// Package assign parses multiline key=value text into ordered raw
// variable assignments.
//
// Parsing is best-effort: a malformed line is reported and skipped
// without voiding the rest of the input. Blank lines and lines whose
// first non-space character is '#' are ignored. Each remaining line is
// split on its first '=' character; the name is the trimmed text
// before it, and the value is the trimmed text after it (which may
// itself contain further '=' characters). [Parse] additionally strips
// one pair of matching surrounding quotes from each value; [ParseRaw]
// does not.
//
// Empty values are retained so downstream coalescing can distinguish
// an "empty" candidate from an "absent" one. Repeated names are
// retained in declaration order as fallback candidates.
package assign

import (
	"log/slog"
	"strings"
)

// Assignment is a single raw name=value pair parsed from input text.
type Assignment struct {
	// Name is the trimmed text left of the first '='.
	Name string
	// Value is the trimmed text right of the first '='. [Parse]
	// removes at most one pair of surrounding quotes; [ParseRaw]
	// keeps it verbatim. It may be empty.
	Value string
	// Line is the 1-based source line the assignment appeared on.
	Line int
}

// List is an ordered sequence of assignments. Names need not be
// unique; duplicates are fallback candidates for coalescing.
type List []Assignment

// Parse splits text into assignments, one per non-blank, non-comment
// line. It returns every well-formed assignment in declaration order
// along with one [*Error] per malformed line. A non-empty error slice
// does not invalidate the returned assignments.
//
// Each value is stripped of one pair of matching surrounding quotes.
// Use [ParseRaw] for sources whose values must survive verbatim.
func Parse(text string) (List, []error) {
	return parse(text, true)
}

// ParseRaw splits text like [Parse] but keeps each value verbatim,
// with no surrounding quote stripping. Expression sources are parsed
// this way: a value such as `'' or 'default'` is itself quoted text,
// and removing the outer pair would corrupt the expression.
func ParseRaw(text string) (List, []error) {
	return parse(text, false)
}

func parse(text string, unquote bool) (List, []error) {
	var (
		list List
		errs []error
	)

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		name, value, found := strings.Cut(trimmed, "=")
		if !found {
			errs = append(errs, ErrMalformedAssignment.
				With(
					slog.Int("line", i+1),
					slog.String("text", trimmed),
				))

			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			errs = append(errs, ErrMalformedAssignment.
				With(
					slog.Int("line", i+1),
					slog.String("text", trimmed),
				))

			continue
		}

		value = strings.TrimSpace(value)
		if unquote {
			value = Unquote(value)
		}

		list = append(list, Assignment{
			Name:  name,
			Value: value,
			Line:  i + 1,
		})
	}

	return list, errs
}

// Unquote removes a single pair of matching surrounding quote
// characters (single or double) from s, if present. Inner quotes are
// preserved verbatim.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}

	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}

	return s
}

// Coalesce returns the first assignment of name with a non-empty
// value, or, when every candidate is empty, the first assignment of
// name. The boolean reports whether name appeared at all.
func (l List) Coalesce(name string) (Assignment, bool) {
	var (
		first Assignment
		seen  bool
	)

	for _, a := range l {
		if a.Name != name {
			continue
		}

		if a.Value != "" {
			return a, true
		}

		if !seen {
			first, seen = a, true
		}
	}

	return first, seen
}

// Names returns the distinct assignment names in declaration order.
func (l List) Names() []string {
	var (
		names []string
		seen  = make(map[string]struct{}, len(l))
	)

	for _, a := range l {
		if _, ok := seen[a.Name]; ok {
			continue
		}

		seen[a.Name] = struct{}{}
		names = append(names, a.Name)
	}

	return names
}
