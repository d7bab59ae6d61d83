package resolve

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ardnew/civar/assign"
	"github.com/ardnew/civar/event"
	"github.com/ardnew/civar/stdvars"
)

func parse(t *testing.T, text string) assign.List {
	t.Helper()

	list, errs := assign.Parse(text)
	if len(errs) != 0 {
		t.Fatalf("parse %q: %v", text, errs)
	}

	return list
}

func parseRaw(t *testing.T, text string) assign.List {
	t.Helper()

	list, errs := assign.ParseRaw(text)
	if len(errs) != 0 {
		t.Fatalf("parse %q: %v", text, errs)
	}

	return list
}

func resolveStd(t *testing.T, eventName, payload string) *stdvars.Resolved {
	t.Helper()

	ev, err := event.Decode(eventName, []byte(payload))
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}

	return stdvars.Resolve(t.Context(), ev)
}

func value(t *testing.T, set *ResultSet, name string) any {
	t.Helper()

	v, ok := set.Get(name)
	if !ok {
		t.Fatalf("variable %q not resolved", name)
	}

	return v.Value
}

func TestMerge_StaticOnly(t *testing.T) {
	set := Merge(parse(t, "env=prod\nregion=us-east-1"), nil, nil)

	if got := value(t, set, "env"); got != "prod" {
		t.Errorf("env = %v", got)
	}

	if got := value(t, set, "region"); got != "us-east-1" {
		t.Errorf("region = %v", got)
	}

	v, _ := set.Get("env")
	if v.Source != SourceStatic {
		t.Errorf("env source = %v", v.Source)
	}
}

func TestMerge_ExpressionSeesStatic(t *testing.T) {
	static := parse(t, "env=prod")
	exprs := parseRaw(t, "deploy=env == 'prod'")

	set := Merge(static, exprs, nil)

	if got := value(t, set, "deploy"); got != true {
		t.Errorf("deploy = %v", got)
	}

	v, _ := set.Get("deploy")
	if v.Source != SourceExpression {
		t.Errorf("deploy source = %v", v.Source)
	}
}

func TestMerge_ExpressionSeesEarlierExpression(t *testing.T) {
	exprs := parseRaw(t, "base='v1'\ntag=base ~ '-rc'")

	set := Merge(nil, exprs, nil)

	if got := value(t, set, "tag"); got != "v1-rc" {
		t.Errorf("tag = %v", got)
	}
}

func TestMerge_UsernameScenario(t *testing.T) {
	// The canonical coalescing scenario: an explicit value wins, and
	// without one the expression default applies.
	static := parse(t, "username=alice")
	exprs := parseRaw(t, "username=username or 'guest'")

	set := Merge(static, exprs, nil)

	if got := value(t, set, "username"); got != "alice" {
		t.Errorf("username = %v, want alice", got)
	}

	set = Merge(nil, exprs, nil)

	if got := value(t, set, "username"); got != "guest" {
		t.Errorf("username = %v, want guest", got)
	}
}

func TestMerge_StaticCoalescesFirstNonEmpty(t *testing.T) {
	static := parse(t, "k=\nk=winner\nk=loser")

	set := Merge(static, nil, nil)

	if got := value(t, set, "k"); got != "winner" {
		t.Errorf("k = %v", got)
	}
}

func TestMerge_EmptyStaticLosesToExpression(t *testing.T) {
	static := parse(t, "k=")
	exprs := parseRaw(t, "k='from expr'")

	set := Merge(static, exprs, nil)

	if got := value(t, set, "k"); got != "from expr" {
		t.Errorf("k = %v", got)
	}
}

func TestMerge_QuotedLiteralExpression(t *testing.T) {
	// An expression that begins and ends with a quote is still one
	// expression, not a quoted value: its outer quotes belong to the
	// string literals inside it.
	exprs := parseRaw(t, "team='' or 'default_team'")

	set := Merge(nil, exprs, nil)

	if got := value(t, set, "team"); got != "default_team" {
		t.Errorf("team = %v, want default_team", got)
	}

	exprs = parseRaw(t, "greeting='Hello, ' + 'World!'")

	set = Merge(nil, exprs, nil)

	if got := value(t, set, "greeting"); got != "Hello, World!" {
		t.Errorf("greeting = %v", got)
	}
}

func TestMerge_AllEmptyStaticStaysEmpty(t *testing.T) {
	set := Merge(parse(t, "k="), nil, nil)

	got, ok := set.Get("k")
	if !ok {
		t.Fatal("empty static variable should still resolve")
	}

	if got.Value != "" {
		t.Errorf("k = %v, want empty string", got.Value)
	}
}

func TestMerge_ExpressionFailureRecovered(t *testing.T) {
	exprs := parseRaw(t, "bad=missing + 1\ngood='ok'")

	set := Merge(nil, exprs, nil)

	if len(set.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(set.Warnings), set.Warnings)
	}

	if got := value(t, set, "bad"); got != nil {
		t.Errorf("bad = %v, want null", got)
	}

	if got := value(t, set, "good"); got != "ok" {
		t.Errorf("good = %v", got)
	}
}

func TestMerge_ExpressionCandidatesCoalesce(t *testing.T) {
	exprs := parseRaw(t, "k=''\nk='second'")

	set := Merge(nil, exprs, nil)

	if got := value(t, set, "k"); got != "second" {
		t.Errorf("k = %v", got)
	}
}

func TestMerge_Aliases(t *testing.T) {
	static := parse(t, "legacy-name=old value")

	set := Merge(static, nil, nil,
		WithAliases(map[string]string{"legacy-name": "new-name"}))

	got, ok := set.Get("new-name")
	if !ok {
		t.Fatal("alias did not resolve to canonical name")
	}

	if got.Value != "old value" {
		t.Errorf("new-name = %v", got.Value)
	}

	if got.Source != SourceAlias {
		t.Errorf("source = %v, want alias", got.Source)
	}

	if _, ok := set.Get("legacy-name"); ok {
		t.Error("alias name must not appear as its own output")
	}
}

func TestMerge_CanonicalBeatsAlias(t *testing.T) {
	static := parse(t, "legacy-name=from alias\nnew-name=canonical")

	set := Merge(static, nil, nil,
		WithAliases(map[string]string{"legacy-name": "new-name"}))

	got, _ := set.Get("new-name")
	if got.Value != "canonical" {
		t.Errorf("new-name = %v, want canonical candidate first", got.Value)
	}

	if got.Source != SourceStatic {
		t.Errorf("source = %v, want static", got.Source)
	}
}

const mergePushPayload = `{
	"ref": "refs/heads/main",
	"after": "abc123",
	"repository": {"name": "repo", "full_name": "owner/repo",
		"default_branch": "main",
		"html_url": "https://github.com/owner/repo",
		"owner": {"login": "owner"}}
}`

func TestMerge_StandardContextAppended(t *testing.T) {
	std := resolveStd(t, "push", mergePushPayload)

	set := Merge(parse(t, "env=prod"), nil, std)

	if got := value(t, set, "env"); got != "prod" {
		t.Errorf("env = %v", got)
	}

	v, ok := set.Get("repo-full-name")
	if !ok {
		t.Fatal("standard variable missing from result set")
	}

	if v.Value != "owner/repo" || v.Source != SourceStandard {
		t.Errorf("repo-full-name = %v (%v)", v.Value, v.Source)
	}

	// User-declared names come first, standard names after.
	if set.Variables[0].Name != "env" {
		t.Errorf("first variable = %q, want env", set.Variables[0].Name)
	}
}

func TestMerge_UserValueShadowsStandard(t *testing.T) {
	std := resolveStd(t, "push", mergePushPayload)

	set := Merge(parse(t, "git-sha=overridden"), nil, std)

	v, _ := set.Get("git-sha")
	if v.Value != "overridden" || v.Source != SourceStatic {
		t.Errorf("git-sha = %v (%v)", v.Value, v.Source)
	}

	count := 0

	for _, variable := range set.Variables {
		if variable.Name == "git-sha" {
			count++
		}
	}

	if count != 1 {
		t.Errorf("git-sha appears %d times", count)
	}
}

func TestMerge_ExpressionSeesStandardContext(t *testing.T) {
	std := resolveStd(t, "push", mergePushPayload)

	// Hyphenated standard names are reachable through their
	// underscored identifier forms.
	exprs := parseRaw(t, "tag=resolved_git_branch ~ '-' ~ git_sha")

	set := Merge(nil, exprs, std)

	if got := value(t, set, "tag"); got != "main-abc123" {
		t.Errorf("tag = %v", got)
	}
}

func TestMerge_StandardOutputsDisabled(t *testing.T) {
	std := resolveStd(t, "push", mergePushPayload)

	exprs := parseRaw(t, "branch=resolved_git_branch or 'unknown'")

	set := Merge(nil, exprs, std, WithStandardOutputs(false))

	// Standard values stay visible to expressions.
	if got := value(t, set, "branch"); got != "main" {
		t.Errorf("branch = %v", got)
	}

	// But they are excluded from the outputs themselves.
	if _, ok := set.Get("repo-full-name"); ok {
		t.Error("standard variable leaked into disabled outputs")
	}
}

func TestResultSet_MarshalPreservesOrderAndTypes(t *testing.T) {
	std := resolveStd(t, "push", mergePushPayload)

	set := Merge(parse(t, "zeta=1\nalpha=2"), parseRaw(t, "flag=True"), std)

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	text := string(data)

	zeta := strings.Index(text, `"zeta"`)
	alpha := strings.Index(text, `"alpha"`)
	flag := strings.Index(text, `"flag"`)
	repo := strings.Index(text, `"repo-full-name"`)

	if zeta < 0 || alpha < 0 || flag < 0 || repo < 0 {
		t.Fatalf("missing keys in %s", text)
	}

	if !(zeta < alpha && alpha < flag && flag < repo) {
		t.Errorf("declaration order not preserved: %s", text)
	}

	if !strings.Contains(text, `"flag":true`) {
		t.Errorf("boolean not preserved as JSON bool: %s", text)
	}

	if !strings.Contains(text, `"pr-number":null`) {
		t.Errorf("null not preserved: %s", text)
	}
}

func TestResultSet_Env(t *testing.T) {
	set := Merge(parse(t, "my-var=x"), nil, nil)

	env := set.Env()
	if env["my_var"] != "x" {
		t.Errorf("env[my_var] = %v", env["my_var"])
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	set := Merge(nil, nil, nil)

	if set.Len() != 0 {
		t.Errorf("expected empty result set, got %d variables", set.Len())
	}

	if data, err := json.Marshal(set); err != nil || string(data) != "{}" {
		t.Errorf("empty marshal = %s, %v", data, err)
	}
}
