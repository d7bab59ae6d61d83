package lang

import (
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Env is the variable environment an expression is evaluated against.
// Values may be nil, bool, int64, float64, or string.
type Env map[string]any

// Evaluate parses source and evaluates it against env.
func Evaluate(source string, env Env) (any, error) {
	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}

	return expr.Eval(env)
}

// Eval evaluates the expression against env. A result that is an
// unresolved name reference collapses to nil, matching how Jinja
// renders Undefined as empty output.
func (e *Expr) Eval(env Env) (any, error) {
	ev := &evaluator{env: env}

	result, err := e.root.eval(ev)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).
			With(slog.String("source", e.source))
	}

	if _, ok := result.(undefined); ok {
		return nil, nil
	}

	return result, nil
}

// evaluator carries the environment through node evaluation.
type evaluator struct {
	env Env
}

// undefined is the value of a name absent from the environment. It is
// falsy, compares unequal to everything, and errors when operated on.
type undefined struct {
	name string
}

func (n *litNode) eval(*evaluator) (any, error) {
	return n.value, nil
}

func (n *identNode) eval(ev *evaluator) (any, error) {
	if v, ok := ev.env[n.name]; ok {
		return v, nil
	}

	return undefined{name: n.name}, nil
}

func (n *unaryNode) eval(ev *evaluator) (any, error) {
	v, err := n.operand.eval(ev)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "not":
		return !Truthy(v), nil

	case "-":
		switch num := v.(type) {
		case int64:
			return -num, nil
		case float64:
			return -num, nil
		}

		return nil, ev.operandError("-", v)

	default:
		return nil, ErrEvaluate.
			With(slog.String("operator", n.op))
	}
}

func (n *condNode) eval(ev *evaluator) (any, error) {
	cond, err := n.cond.eval(ev)
	if err != nil {
		return nil, err
	}

	if Truthy(cond) {
		return n.then.eval(ev)
	}

	return n.otherwise.eval(ev)
}

func (n *binaryNode) eval(ev *evaluator) (any, error) {
	left, err := n.left.eval(ev)
	if err != nil {
		return nil, err
	}

	// or/and short-circuit and return an operand, never a coerced
	// boolean. This is what makes first-non-empty coalescing chains
	// evaluate to the winning value itself.
	switch n.op {
	case "or":
		if Truthy(left) {
			return left, nil
		}

		return n.right.eval(ev)

	case "and":
		if !Truthy(left) {
			return left, nil
		}

		return n.right.eval(ev)
	}

	right, err := n.right.eval(ev)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return looseEqual(left, right), nil

	case "!=":
		return !looseEqual(left, right), nil

	case "<", "<=", ">", ">=":
		return ev.order(n.op, left, right)

	case "in":
		return ev.contains(left, right)

	case "not in":
		ok, err := ev.contains(left, right)
		if err != nil {
			return nil, err
		}

		return !ok, nil

	case "+":
		return ev.add(left, right)

	case "-", "*", "/", "%":
		return ev.arith(n.op, left, right)

	case "~":
		return Stringify(left) + Stringify(right), nil

	default:
		return nil, ErrEvaluate.
			With(slog.String("operator", n.op))
	}
}

// Truthy reports Python truthiness: None, False, empty strings,
// numeric zero, and unresolved names are falsy.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case undefined:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// Stringify renders a value the way Jinja's string concatenation does.
// None renders empty; booleans render as Python's True/False do in
// lowercase template output.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil, undefined:
		return ""
	case bool:
		if val {
			return "true"
		}

		return "false"
	case string:
		return val
	case int64:
		return formatInt(val)
	case float64:
		return formatFloat(val)
	default:
		return ""
	}
}

// looseEqual compares values across numeric types; values of
// unrelated types are simply unequal, and unresolved names equal
// nothing (Jinja's Undefined semantics).
func looseEqual(a, b any) bool {
	if _, ok := a.(undefined); ok {
		return false
	}

	if _, ok := b.(undefined); ok {
		return false
	}

	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)

	if aNum && bNum {
		return af == bf
	}

	return a == b
}

// order evaluates <, <=, >, >= over two numbers or two strings.
func (ev *evaluator) order(op string, a, b any) (any, error) {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return nil, ev.operandError(op, b)
		}

		return orderResult(op, strings.Compare(as, bs)), nil
	}

	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)

	if !aNum {
		return nil, ev.operandError(op, a)
	}

	if !bNum {
		return nil, ev.operandError(op, b)
	}

	switch {
	case af < bf:
		return orderResult(op, -1), nil
	case af > bf:
		return orderResult(op, 1), nil
	default:
		return orderResult(op, 0), nil
	}
}

func orderResult(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	default:
		return cmp >= 0
	}
}

// contains evaluates substring membership. Only string operands are
// part of the closed grammar.
func (ev *evaluator) contains(needle, haystack any) (bool, error) {
	ns, ok := needle.(string)
	if !ok {
		return false, ev.operandError("in", needle)
	}

	hs, ok := haystack.(string)
	if !ok {
		return false, ev.operandError("in", haystack)
	}

	return strings.Contains(hs, ns), nil
}

// add evaluates +: numeric addition for two numbers, concatenation
// for two strings. Mixed operands are an error, as in Python.
func (ev *evaluator) add(a, b any) (any, error) {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return nil, ev.operandError("+", b)
		}

		return as + bs, nil
	}

	return ev.arith("+", a, b)
}

// arith evaluates numeric -, *, /, % (and + for two numbers).
// Integer operands stay integral except for /, which always divides
// as floats, matching Python 3.
func (ev *evaluator) arith(op string, a, b any) (any, error) {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)

	if aInt && bInt && op != "/" {
		switch op {
		case "+":
			return ai + bi, nil
		case "-":
			return ai - bi, nil
		case "*":
			return ai * bi, nil
		default: // %
			if bi == 0 {
				return nil, ErrDivisionByZero
			}

			return ai % bi, nil
		}
	}

	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)

	if !aNum {
		return nil, ev.operandError(op, a)
	}

	if !bNum {
		return nil, ev.operandError(op, b)
	}

	switch op {
	case "+":
		return af + bf, nil
	case "-":
		return af - bf, nil
	case "*":
		return af * bf, nil
	case "/":
		if bf == 0 {
			return nil, ErrDivisionByZero
		}

		return af / bf, nil
	default: // %
		if bf == 0 {
			return nil, ErrDivisionByZero
		}

		return math.Mod(af, bf), nil
	}
}

// asFloat widens numeric values to float64.
func asFloat(v any) (float64, bool) {
	switch num := v.(type) {
	case int64:
		return float64(num), true
	case float64:
		return num, true
	default:
		return 0, false
	}
}

// operandError builds the error for an operand an operator cannot
// accept. For unresolved names it reports the name and suggests the
// closest environment variables.
func (ev *evaluator) operandError(op string, v any) error {
	if u, ok := v.(undefined); ok {
		err := ErrUndefinedName.
			With(
				slog.String("name", u.name),
				slog.String("operator", op),
			)

		if hints := ev.suggest(u.name); len(hints) > 0 {
			err = err.With(
				slog.String("did_you_mean", strings.Join(hints, ", ")),
			)
		}

		return err
	}

	return ErrInvalidOperand.
		With(
			slog.String("operator", op),
			slog.Any("operand", v),
		)
}

// maxSuggestions caps the number of "did you mean" candidates.
const maxSuggestions = 3

// suggest returns up to maxSuggestions environment names that fuzzily
// match name.
func (ev *evaluator) suggest(name string) []string {
	names := slices.Sorted(func(yield func(string) bool) {
		for k := range ev.env {
			if !yield(k) {
				return
			}
		}
	})

	matches := fuzzy.Find(name, names)

	hints := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		hints = append(hints, m.Str)
		if len(hints) == maxSuggestions {
			break
		}
	}

	return hints
}
