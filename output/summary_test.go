package output

import (
	"strings"
	"testing"

	"github.com/ardnew/civar/assign"
	"github.com/ardnew/civar/resolve"
)

func TestTable_ContainsAllVariables(t *testing.T) {
	list, _ := assign.Parse("env=prod\nregion=eu")
	exprs, _ := assign.Parse("flag=True")

	set := resolve.Merge(list, exprs, nil)

	table := Table(set)

	for _, want := range []string{"env", "prod", "region", "eu", "flag", "true"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}

	if !strings.Contains(table, "[static]") {
		t.Errorf("table missing source column:\n%s", table)
	}

	if !strings.Contains(table, "[expression]") {
		t.Errorf("table missing expression source:\n%s", table)
	}
}

func TestTable_NullPlaceholder(t *testing.T) {
	exprs, _ := assign.Parse("unset=missing")

	set := resolve.Merge(nil, exprs, nil)

	if !strings.Contains(Table(set), "(null)") {
		t.Errorf("null value not marked:\n%s", Table(set))
	}
}

func TestYAML_OrderedDocument(t *testing.T) {
	list, _ := assign.Parse("zeta=1\nalpha=2")

	set := resolve.Merge(list, nil, nil)

	doc, err := YAML(set)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}

	zeta := strings.Index(doc, "zeta:")
	alpha := strings.Index(doc, "alpha:")

	if zeta < 0 || alpha < 0 || zeta > alpha {
		t.Errorf("declaration order not preserved:\n%s", doc)
	}
}

func TestSummary_FencedYAML(t *testing.T) {
	list, _ := assign.Parse("env=prod")

	set := resolve.Merge(list, nil, nil)

	md, err := Summary(set)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if !strings.Contains(md, "```yaml\n") || !strings.Contains(md, "\n```\n") {
		t.Errorf("summary not fenced:\n%s", md)
	}

	if !strings.Contains(md, "env: prod") {
		t.Errorf("summary missing variable:\n%s", md)
	}
}
