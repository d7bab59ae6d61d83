package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Expr is a parsed expression ready for evaluation.
type Expr struct {
	root   node
	source string
}

// Source returns the original expression text.
func (e *Expr) Source() string { return e.source }

// Parse compiles source into an evaluable expression.
func Parse(source string) (*Expr, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, WrapError(err).
			With(slog.String("source", source))
	}

	p := parser{tokens: tokens}

	root, err := p.parseConditional()
	if err != nil {
		return nil, WrapError(err).
			With(slog.String("source", source))
	}

	if tok := p.peek(); tok.kind != kindEOF {
		return nil, ErrSyntax.
			With(
				slog.String("source", source),
				slog.String("unexpected", tok.text),
				slog.Int("offset", tok.pos),
			)
	}

	return &Expr{root: root, source: source}, nil
}

// parser is a recursive-descent parser over a lexed token stream.
// Productions follow Python's expression precedence, lowest first:
// conditional, or, and, not, comparison, additive, multiplicative,
// unary minus, primary.
type parser struct {
	tokens []token
	i      int
}

func (p *parser) peek() token { return p.tokens[p.i] }

func (p *parser) next() token {
	tok := p.tokens[p.i]
	if tok.kind != kindEOF {
		p.i++
	}

	return tok
}

// acceptIdent consumes the next token if it is the given keyword or
// identifier text.
func (p *parser) acceptIdent(text string) bool {
	if tok := p.peek(); tok.kind == kindIdent && tok.text == text {
		p.next()

		return true
	}

	return false
}

// acceptOp consumes the next token if it is the given operator.
func (p *parser) acceptOp(text string) bool {
	if tok := p.peek(); tok.kind == kindOp && tok.text == text {
		p.next()

		return true
	}

	return false
}

// parseConditional parses "then if cond else otherwise". The else
// branch is itself a conditional, so the form is right-associative as
// in Python.
func (p *parser) parseConditional() (node, error) {
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.acceptIdent("if") {
		return then, nil
	}

	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.acceptIdent("else") {
		return nil, ErrSyntax.
			With(
				slog.String("expected", "else"),
				slog.Int("offset", p.peek().pos),
			)
	}

	otherwise, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	return &condNode{cond: cond, then: then, otherwise: otherwise}, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.acceptIdent("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &binaryNode{op: "or", left: left, right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.acceptIdent("and") {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		left = &binaryNode{op: "and", left: left, right: right}
	}

	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.acceptIdent("not") {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return &unaryNode{op: "not", operand: operand}, nil
	}

	return p.parseComparison()
}

// comparisonOps maps operator text to itself for lookup. "in" and
// "not in" are handled separately since they lex as identifiers.
//
//nolint:gochecknoglobals
var comparisonOps = map[string]struct{}{
	"==": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

// parseComparison parses chained comparisons. As in Python,
// "a < b < c" means "a < b and b < c".
func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	var chain node

	operand := left

	for {
		op, ok := p.peekComparisonOp()
		if !ok {
			break
		}

		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		link := node(&binaryNode{op: op, left: operand, right: right})
		if chain == nil {
			chain = link
		} else {
			chain = &binaryNode{op: "and", left: chain, right: link}
		}

		operand = right
	}

	if chain == nil {
		return left, nil
	}

	return chain, nil
}

// peekComparisonOp consumes and returns the next comparison operator,
// if any. It recognizes "in", "not in", and "is not"/"is" (mapped to
// equality as Jinja templates commonly use them for none tests).
func (p *parser) peekComparisonOp() (string, bool) {
	tok := p.peek()

	if tok.kind == kindOp {
		if _, ok := comparisonOps[tok.text]; ok {
			p.next()

			return tok.text, true
		}

		return "", false
	}

	if tok.kind != kindIdent {
		return "", false
	}

	switch tok.text {
	case "in":
		p.next()

		return "in", true

	case "not":
		// "not in" is the only valid continuation here; a bare "not"
		// in operand position is a syntax error caught downstream.
		if next := p.tokens[p.i+1]; next.kind == kindIdent &&
			next.text == "in" {
			p.next()
			p.next()

			return "not in", true
		}

		return "", false

	case "is":
		p.next()

		if p.acceptIdent("not") {
			return "!=", true
		}

		return "==", true

	default:
		return "", false
	}
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		var op string

		switch {
		case p.acceptOp("+"):
			op = "+"
		case p.acceptOp("-"):
			op = "-"
		case p.acceptOp("~"):
			op = "~"
		default:
			return left, nil
		}

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		var op string

		switch {
		case p.acceptOp("*"):
			op = "*"
		case p.acceptOp("/"):
			op = "/"
		case p.acceptOp("%"):
			op = "%"
		default:
			return left, nil
		}

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.acceptOp("-") {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &unaryNode{op: "-", operand: operand}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()

	switch tok.kind {
	case kindString:
		return &litNode{value: tok.text}, nil

	case kindNumber:
		return parseNumberLit(tok)

	case kindIdent:
		return parseIdentLit(tok)

	case kindLParen:
		inner, err := p.parseConditional()
		if err != nil {
			return nil, err
		}

		if tok := p.next(); tok.kind != kindRParen {
			return nil, ErrSyntax.
				With(
					slog.String("expected", ")"),
					slog.Int("offset", tok.pos),
				)
		}

		return inner, nil

	default:
		return nil, ErrSyntax.
			With(
				slog.String("unexpected", tok.text),
				slog.Int("offset", tok.pos),
			)
	}
}

// parseNumberLit converts a number token into an int64 or float64
// literal node.
func parseNumberLit(tok token) (node, error) {
	if !strings.Contains(tok.text, ".") {
		i, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, ErrInvalidNumber.Wrap(err).
				With(slog.String("text", tok.text))
		}

		return &litNode{value: i}, nil
	}

	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		return nil, ErrInvalidNumber.Wrap(err).
			With(slog.String("text", tok.text))
	}

	return &litNode{value: f}, nil
}

// parseIdentLit converts an identifier token into a literal node for
// reserved constants or an identifier node otherwise.
func parseIdentLit(tok token) (node, error) {
	switch tok.text {
	case "True", "true":
		return &litNode{value: true}, nil

	case "False", "false":
		return &litNode{value: false}, nil

	case "None", "none", "null":
		return &litNode{value: nil}, nil
	}

	if isKeyword(tok.text) {
		return nil, ErrSyntax.
			With(
				slog.String("unexpected", tok.text),
				slog.Int("offset", tok.pos),
			)
	}

	return &identNode{name: tok.text}, nil
}
