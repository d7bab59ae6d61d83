package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardnew/civar/stdvars"
)

func TestCatalog_Text(t *testing.T) {
	var buf bytes.Buffer

	cmd := &Catalog{Format: "text"}
	if err := cmd.writeText(&buf); err != nil {
		t.Fatalf("write text: %v", err)
	}

	text := buf.String()

	for _, want := range []string{
		"repo-full-name", "resolved-git-branch", "pr-number",
		"comment-id", "run-url",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("catalog missing %q", want)
		}
	}

	if !strings.Contains(text, "null for:") {
		t.Error("catalog missing nullability listing")
	}
}

func TestCatalog_YAML(t *testing.T) {
	var buf bytes.Buffer

	cmd := &Catalog{Format: "yaml"}
	if err := cmd.writeYAML(&buf); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	text := buf.String()

	if !strings.Contains(text, "repo-full-name:") {
		t.Errorf("yaml catalog missing entries:\n%s", text)
	}

	if !strings.Contains(text, "null-for:") {
		t.Errorf("yaml catalog missing nullability:\n%s", text)
	}
}

func TestNullTriggers(t *testing.T) {
	for _, def := range stdvars.Catalog() {
		if def.Name != "pr-number" {
			continue
		}

		nulls := nullTriggers(def)

		// pr-number is null for every trigger but pull-request.
		if len(nulls) != len(catalogTriggers)-1 {
			t.Fatalf("pr-number null triggers = %v", nulls)
		}

		for _, name := range nulls {
			if name == "pull-request" {
				t.Errorf("pr-number must not be null for pull-request: %v", nulls)
			}
		}

		return
	}

	t.Fatal("pr-number not in catalog")
}
