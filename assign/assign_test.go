package assign

import (
	"errors"
	"testing"
)

func TestParse_Simple(t *testing.T) {
	list, errs := Parse("name=value")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(list) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(list))
	}

	if list[0].Name != "name" || list[0].Value != "value" {
		t.Errorf("expected name=value, got %s=%s", list[0].Name, list[0].Value)
	}
}

func TestParse_SkipsBlankAndComments(t *testing.T) {
	input := "\n# comment line\n  \na=1\n\n# another\nb=2\n"

	list, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(list))
	}

	if list[0].Name != "a" || list[1].Name != "b" {
		t.Errorf("expected names a, b; got %s, %s", list[0].Name, list[1].Name)
	}
}

func TestParse_SplitsOnFirstEquals(t *testing.T) {
	list, errs := Parse("url=http://host/path?q=1")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if list[0].Value != "http://host/path?q=1" {
		t.Errorf("value split on wrong '=': %q", list[0].Value)
	}
}

func TestParse_TrimsAndUnquotes(t *testing.T) {
	list, errs := Parse(`  key  =  'quoted value'  `)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if list[0].Name != "key" {
		t.Errorf("name not trimmed: %q", list[0].Name)
	}

	if list[0].Value != "quoted value" {
		t.Errorf("value not unquoted: %q", list[0].Value)
	}
}

func TestParse_OnlyOneQuotePairStripped(t *testing.T) {
	list, _ := Parse(`key="'nested'"`)
	if list[0].Value != "'nested'" {
		t.Errorf("expected inner quotes preserved, got %q", list[0].Value)
	}
}

func TestParse_MismatchedQuotesPreserved(t *testing.T) {
	list, _ := Parse(`key="half`)
	if list[0].Value != `"half` {
		t.Errorf("mismatched quote stripped: %q", list[0].Value)
	}
}

func TestParseRaw_KeepsSurroundingQuotes(t *testing.T) {
	list, errs := ParseRaw("team='' or 'default_team'\nk='from expr'")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if list[0].Value != "'' or 'default_team'" {
		t.Errorf("quoted expression altered: %q", list[0].Value)
	}

	if list[1].Value != "'from expr'" {
		t.Errorf("quoted literal altered: %q", list[1].Value)
	}
}

func TestParseRaw_StillTrimsAndRecovers(t *testing.T) {
	list, errs := ParseRaw("  k  =  'v'  \nnot an assignment")
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want one", errs)
	}

	if list[0].Name != "k" || list[0].Value != "'v'" {
		t.Errorf("parsed %q=%q", list[0].Name, list[0].Value)
	}
}

func TestParse_EmptyValueRetained(t *testing.T) {
	list, errs := Parse("empty=")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(list) != 1 || list[0].Value != "" {
		t.Fatalf("empty value not retained: %+v", list)
	}
}

func TestParse_MalformedLineContinues(t *testing.T) {
	list, errs := Parse("good=1\nno equals here\nalso=2")

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}

	if !errors.Is(errs[0], ErrMalformedAssignment) {
		t.Errorf("expected ErrMalformedAssignment, got %v", errs[0])
	}

	if len(list) != 2 {
		t.Fatalf("expected parsing to continue, got %d assignments", len(list))
	}
}

func TestParse_RepeatedNamesRetained(t *testing.T) {
	list, _ := Parse("k=first\nk=second")
	if len(list) != 2 {
		t.Fatalf("repeated names collapsed: %d assignments", len(list))
	}
}

func TestParse_LineNumbers(t *testing.T) {
	list, _ := Parse("\n# comment\na=1\n\nb=2")

	if list[0].Line != 3 {
		t.Errorf("expected a on line 3, got %d", list[0].Line)
	}

	if list[1].Line != 5 {
		t.Errorf("expected b on line 5, got %d", list[1].Line)
	}
}

func TestCoalesce_FirstNonEmptyWins(t *testing.T) {
	list, _ := Parse("k=\nk=winner\nk=loser")

	a, ok := list.Coalesce("k")
	if !ok {
		t.Fatal("expected a coalesced assignment")
	}

	if a.Value != "winner" {
		t.Errorf("expected first non-empty value, got %q", a.Value)
	}
}

func TestCoalesce_AllEmptyYieldsFirst(t *testing.T) {
	list, _ := Parse("k=\nk=")

	a, ok := list.Coalesce("k")
	if !ok {
		t.Fatal("expected a coalesced assignment")
	}

	if a.Value != "" || a.Line != 1 {
		t.Errorf("expected first empty assignment, got %+v", a)
	}
}

func TestCoalesce_AbsentName(t *testing.T) {
	list, _ := Parse("k=1")

	if _, ok := list.Coalesce("missing"); ok {
		t.Error("expected no assignment for absent name")
	}
}

func TestNames_DistinctOrdered(t *testing.T) {
	list, _ := Parse("b=1\na=2\nb=3\nc=4")

	names := list.Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 distinct names, got %d", len(names))
	}

	for i, want := range []string{"b", "a", "c"} {
		if names[i] != want {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want)
		}
	}
}
