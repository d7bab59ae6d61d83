package lang

import (
	"errors"
	"testing"
)

func TestParse_EmptySource(t *testing.T) {
	_, err := Parse("")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax for empty source, got %v", err)
	}
}

func TestParse_UnterminatedString(t *testing.T) {
	_, err := Parse(`'never closed`)
	if !errors.Is(err, ErrUnterminated) {
		t.Errorf("expected ErrUnterminated, got %v", err)
	}
}

func TestParse_TrailingTokens(t *testing.T) {
	_, err := Parse(`1 2`)
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax for trailing tokens, got %v", err)
	}
}

func TestParse_UnbalancedParens(t *testing.T) {
	_, err := Parse(`(1 + 2`)
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax for unbalanced parens, got %v", err)
	}
}

func TestParse_InvalidNumber(t *testing.T) {
	_, err := Parse(`1.2.3`)
	if err == nil {
		t.Error("expected error for malformed number")
	}
}

func TestParse_ConditionalRequiresElse(t *testing.T) {
	_, err := Parse(`'a' if cond`)
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax for missing else, got %v", err)
	}
}

func TestParse_StringEscapes(t *testing.T) {
	got, err := Evaluate(`'line\nbreak \'quoted\''`, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if got != "line\nbreak 'quoted'" {
		t.Errorf("escapes not decoded: %q", got)
	}
}

func TestParse_UnknownRune(t *testing.T) {
	_, err := Parse(`a @ b`)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_ValidSources(t *testing.T) {
	sources := []string{
		`a or b or 'default'`,
		`'x' if flag else 'y'`,
		`not (a and b)`,
		`count % 2 == 0`,
		`'pre' ~ num ~ 'post'`,
		`ref is not None and 'heads' in ref`,
		`-1.5 + 2`,
	}

	for _, source := range sources {
		if _, err := Parse(source); err != nil {
			t.Errorf("parse %q: %v", source, err)
		}
	}
}
