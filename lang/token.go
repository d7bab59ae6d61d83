package lang

import (
	"log/slog"
	"strings"
	"unicode"
)

// kind classifies a lexical token.
type kind int

const (
	kindEOF kind = iota
	kindIdent
	kindNumber
	kindString
	kindOp
	kindLParen
	kindRParen
)

// token is a single lexical token with its source position.
type token struct {
	kind kind
	text string
	pos  int // byte offset into the source
}

// keywords recognized by the parser. Identifiers matching these are
// never treated as variable references.
//
//nolint:gochecknoglobals
var keywords = map[string]struct{}{
	"or": {}, "and": {}, "not": {}, "if": {}, "else": {},
	"in": {}, "is": {},
	"True": {}, "False": {}, "None": {},
	"true": {}, "false": {}, "none": {}, "null": {},
}

// isKeyword reports whether text is a reserved word.
func isKeyword(text string) bool {
	_, ok := keywords[text]

	return ok
}

// lex scans source into a token stream terminated by a kindEOF token.
func lex(source string) ([]token, error) {
	var tokens []token

	i := 0
	for i < len(source) {
		c := source[i]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++

		case c == '(':
			tokens = append(tokens, token{kindLParen, "(", i})
			i++

		case c == ')':
			tokens = append(tokens, token{kindRParen, ")", i})
			i++

		case c == '\'' || c == '"':
			text, next, err := lexString(source, i)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, token{kindString, text, i})
			i = next

		case c >= '0' && c <= '9':
			text, next := lexNumber(source, i)
			tokens = append(tokens, token{kindNumber, text, i})
			i = next

		case c == '_' || unicode.IsLetter(rune(c)):
			text, next := lexIdent(source, i)
			tokens = append(tokens, token{kindIdent, text, i})
			i = next

		default:
			text, next, err := lexOperator(source, i)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, token{kindOp, text, i})
			i = next
		}
	}

	return append(tokens, token{kindEOF, "", len(source)}), nil
}

// lexString scans a quoted string literal starting at i, returning the
// unescaped contents and the offset past the closing quote.
func lexString(source string, i int) (string, int, error) {
	quote := source[i]

	var sb strings.Builder

	j := i + 1
	for j < len(source) {
		c := source[j]

		switch c {
		case quote:
			return sb.String(), j + 1, nil

		case '\\':
			if j+1 >= len(source) {
				return "", 0, ErrUnterminated.
					With(slog.Int("offset", i))
			}

			switch esc := source[j+1]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			default:
				// Unknown escapes pass through verbatim, as Python does.
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}

			j += 2

		default:
			sb.WriteByte(c)
			j++
		}
	}

	return "", 0, ErrUnterminated.
		With(slog.Int("offset", i))
}

// lexNumber scans an integer or float literal starting at i.
func lexNumber(source string, i int) (string, int) {
	j := i
	seenDot := false

	for j < len(source) {
		c := source[j]
		if c >= '0' && c <= '9' {
			j++

			continue
		}

		if c == '.' && !seenDot {
			seenDot = true
			j++

			continue
		}

		break
	}

	return source[i:j], j
}

// lexIdent scans an identifier starting at i.
func lexIdent(source string, i int) (string, int) {
	j := i
	for j < len(source) {
		c := rune(source[j])
		if c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) {
			j++

			continue
		}

		break
	}

	return source[i:j], j
}

// operators recognized by lexOperator, longest first so that two-byte
// operators win over their one-byte prefixes.
//
//nolint:gochecknoglobals
var operators = []string{
	"==", "!=", "<=", ">=",
	"<", ">", "+", "-", "~", "*", "/", "%",
}

// lexOperator scans a punctuation operator starting at i.
func lexOperator(source string, i int) (string, int, error) {
	for _, op := range operators {
		if strings.HasPrefix(source[i:], op) {
			return op, i + len(op), nil
		}
	}

	return "", 0, ErrInvalidToken.
		With(
			slog.String("text", string(source[i])),
			slog.Int("offset", i),
		)
}
