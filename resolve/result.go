// Package resolve merges parsed static assignments, evaluated
// template expressions, and the resolved standard-context catalog
// into one ordered, typed result set.
//
// Merge precedence per output name is fixed and documented: static
// input candidates first, then expression candidates, then
// standard-context defaults. Within a single family, declaration
// order is the tiebreak and the first non-empty candidate wins
// (coalescing). Alias input names designate the same logical output
// as their canonical name, with the canonical name's candidates
// evaluated first. Precedence is never write-order: a name defined by
// two families resolves by family rank, not by whichever wrote last.
package resolve

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ardnew/civar/lang"
)

//go:generate go tool stringer --linecomment --type Source --output source_string.go

// Source identifies which resolution family produced a variable.
type Source int

const (
	SourceStatic     Source = iota // static
	SourceExpression               // expression
	SourceStandard                 // standard-context
	SourceAlias                    // alias
)

// Variable is one resolved output: exactly one per output name after
// merging.
type Variable struct {
	// Name is the output name.
	Name string
	// Value is nil, bool, int64, float64, or string.
	Value any
	// Source is the family whose candidate won.
	Source Source
}

// ResultSet is the final ordered mapping of resolved variables. It is
// constructed once per invocation and never mutated after projection.
type ResultSet struct {
	// Variables holds user-declared names in declaration order
	// followed by remaining standard-context names in catalog order.
	Variables []Variable

	// Warnings holds recovered per-value errors (malformed lines,
	// failed expressions) surfaced during merging.
	Warnings []error

	index map[string]int
}

// Get returns the variable of name and whether name resolved at all.
func (s *ResultSet) Get(name string) (Variable, bool) {
	i, ok := s.index[name]
	if !ok {
		return Variable{}, false
	}

	return s.Variables[i], true
}

// Len returns the number of resolved variables.
func (s *ResultSet) Len() int { return len(s.Variables) }

// MarshalJSON encodes the result set as a single JSON object whose
// keys appear in result order. Types are preserved: booleans encode
// as booleans and null values as JSON null.
func (s *ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, v := range s.Variables {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(v.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Env exposes the result set as an expression environment. Each name
// is available under its identifier-safe form (hyphens replaced with
// underscores) so expressions can reference resolved variables.
func (s *ResultSet) Env() lang.Env {
	env := make(lang.Env, len(s.Variables))

	for _, v := range s.Variables {
		env[identName(v.Name)] = v.Value
	}

	return env
}

// identName maps an output name onto a valid expression identifier.
func identName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
