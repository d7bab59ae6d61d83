package resolve

import (
	"log/slog"

	"github.com/ardnew/civar/assign"
	"github.com/ardnew/civar/lang"
	"github.com/ardnew/civar/stdvars"
)

// settings collects the optional merge behaviors.
type settings struct {
	aliases         map[string]string
	standardOutputs bool
}

// Option configures Merge.
type Option func(*settings)

// WithAliases declares alias input names: each key is a legacy name
// whose assignments become candidates for the canonical output name
// it maps to. Canonical candidates are always evaluated first.
func WithAliases(aliases map[string]string) Option {
	return func(s *settings) { s.aliases = aliases }
}

// WithStandardOutputs controls whether standard-context variables are
// included in the result set. Even when disabled, standard values
// remain visible to expressions as environment defaults.
func WithStandardOutputs(enable bool) Option {
	return func(s *settings) { s.standardOutputs = enable }
}

// Merge combines the parsed static assignments, the expression
// assignments, and the resolved standard-context catalog into one
// ResultSet. std may be nil when no ambient context is available.
//
// Expressions are evaluated in declaration order against an
// environment seeded with standard-context values and already-merged
// static values; each resolved expression joins the environment so
// later expressions can reference it.
func Merge(
	static assign.List,
	exprs assign.List,
	std *stdvars.Resolved,
	opts ...Option,
) *ResultSet {
	cfg := settings{standardOutputs: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := merger{
		cfg:    cfg,
		static: static,
		exprs:  exprs,
		env:    make(lang.Env),
		result: &ResultSet{index: make(map[string]int)},
	}

	if std != nil {
		for _, v := range std.Values {
			m.env[identName(v.Name)] = v.Value
		}
	}

	// Static values join the environment before any expression is
	// evaluated, so evaluation is contextual rather than textual.
	for _, name := range m.outputNames(static) {
		if value, source, ok := m.coalesceStatic(name); ok {
			m.add(name, value, source)
		}
	}

	for _, name := range m.outputNames(exprs) {
		m.mergeExpression(name)
	}

	if std != nil && cfg.standardOutputs {
		for _, v := range std.Values {
			if _, ok := m.result.index[v.Name]; !ok {
				m.add(v.Name, v.Value, SourceStandard)
			}
		}
	}

	return m.result
}

// merger carries the in-progress merge state.
type merger struct {
	cfg    settings
	static assign.List
	exprs  assign.List
	env    lang.Env
	result *ResultSet
}

// add records one resolved output and exposes it to later
// expressions.
func (m *merger) add(name string, value any, source Source) {
	m.result.index[name] = len(m.result.Variables)
	m.result.Variables = append(m.result.Variables, Variable{
		Name:   name,
		Value:  value,
		Source: source,
	})

	m.env[identName(name)] = value
}

// canonical maps an input name onto its output name, folding aliases.
func (m *merger) canonical(name string) string {
	if canon, ok := m.cfg.aliases[name]; ok {
		return canon
	}

	return name
}

// outputNames returns the distinct canonical output names declared in
// list, ordered by first appearance, excluding names already merged.
func (m *merger) outputNames(list assign.List) []string {
	var names []string

	seen := make(map[string]struct{})

	for _, a := range list {
		canon := m.canonical(a.Name)
		if _, ok := seen[canon]; ok {
			continue
		}

		if _, ok := m.result.index[canon]; ok {
			continue
		}

		seen[canon] = struct{}{}
		names = append(names, canon)
	}

	return names
}

// candidates returns list entries for output name canon: canonical
// assignments first, then alias assignments, each family in
// declaration order.
func (m *merger) candidates(list assign.List, canon string) []candidate {
	var direct, aliased []candidate

	for _, a := range list {
		switch {
		case a.Name == canon:
			direct = append(direct, candidate{assignment: a})

		case m.canonical(a.Name) == canon:
			aliased = append(aliased, candidate{assignment: a, alias: true})
		}
	}

	return append(direct, aliased...)
}

type candidate struct {
	assignment assign.Assignment
	alias      bool
}

// coalesceStatic selects the first non-empty static candidate for
// canon. When every candidate is empty, the name still resolves to an
// empty value so it remains distinct from an absent name — unless an
// expression candidate later supplies a non-empty value.
func (m *merger) coalesceStatic(canon string) (string, Source, bool) {
	cands := m.candidates(m.static, canon)
	if len(cands) == 0 {
		return "", SourceStatic, false
	}

	for _, c := range cands {
		if c.assignment.Value != "" {
			return c.assignment.Value, staticSource(c), true
		}
	}

	// All empty: only claim the name now if no expression family
	// candidate can still supply a value.
	if len(m.candidates(m.exprs, canon)) > 0 {
		return "", SourceStatic, false
	}

	return "", staticSource(cands[0]), true
}

func staticSource(c candidate) Source {
	if c.alias {
		return SourceAlias
	}

	return SourceStatic
}

// mergeExpression resolves one expression-family output: candidates
// are evaluated in order and the first non-empty result wins. A
// failed candidate is reported and skipped; it never aborts the
// resolution of other variables.
func (m *merger) mergeExpression(canon string) {
	// Static candidates rank above expression candidates for a shared
	// name, so try them first even though the name was deferred.
	if value, source, ok := m.coalesceStaticOnly(canon); ok {
		m.add(canon, value, source)

		return
	}

	var (
		fallback    any
		haveResult  bool
		fallbackSrc Source
	)

	for _, c := range m.candidates(m.exprs, canon) {
		value, err := lang.Evaluate(c.assignment.Value, m.env)
		if err != nil {
			m.result.Warnings = append(m.result.Warnings,
				lang.WrapError(err).
					With(
						slog.String("name", c.assignment.Name),
						slog.Int("line", c.assignment.Line),
					))

			continue
		}

		if nonEmpty(value) {
			m.add(canon, value, exprSource(c))

			return
		}

		if !haveResult {
			fallback, fallbackSrc, haveResult = value, exprSource(c), true
		}
	}

	switch {
	case haveResult:
		m.add(canon, fallback, fallbackSrc)

	default:
		// Every candidate failed. The output resolves to null rather
		// than disappearing, so callers can distinguish "declared but
		// unresolvable" from "never declared".
		m.add(canon, nil, SourceExpression)
	}
}

// coalesceStaticOnly is coalesceStatic without the expression-family
// deferral: by the time expressions merge, a non-empty static
// candidate wins outright and an all-empty static family loses to any
// non-empty expression result.
func (m *merger) coalesceStaticOnly(canon string) (string, Source, bool) {
	for _, c := range m.candidates(m.static, canon) {
		if c.assignment.Value != "" {
			return c.assignment.Value, staticSource(c), true
		}
	}

	return "", SourceStatic, false
}

func exprSource(c candidate) Source {
	if c.alias {
		return SourceAlias
	}

	return SourceExpression
}

// nonEmpty reports whether a resolved value is a coalescing winner.
// Only null and the empty string count as empty; boolean false and
// numeric zero are values.
func nonEmpty(v any) bool {
	return v != nil && v != ""
}
