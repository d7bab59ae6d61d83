package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pushPayload = `{
	"ref": "refs/heads/main",
	"after": "abc123",
	"repository": {"name": "repo", "full_name": "owner/repo",
		"default_branch": "main",
		"html_url": "https://github.com/owner/repo",
		"owner": {"login": "owner"}}
}`

// setupActionEnv points the host adapter at temp files so a full run
// is observable without a real runner.
func setupActionEnv(t *testing.T, eventName, payload string) (outPath string) {
	t.Helper()

	dir := t.TempDir()

	eventPath := filepath.Join(dir, "event.json")
	if err := os.WriteFile(eventPath, []byte(payload), 0o600); err != nil {
		t.Fatalf("write event payload: %v", err)
	}

	outPath = filepath.Join(dir, "output")
	if err := os.WriteFile(outPath, nil, 0o600); err != nil {
		t.Fatalf("create output file: %v", err)
	}

	t.Setenv("GITHUB_EVENT_NAME", eventName)
	t.Setenv("GITHUB_EVENT_PATH", eventPath)
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("GITHUB_REF", "refs/heads/main")
	t.Setenv("GITHUB_SHA", "abc123")
	t.Setenv("GITHUB_SERVER_URL", "https://github.com")
	t.Setenv("GITHUB_OUTPUT", outPath)
	t.Setenv("GITHUB_STEP_SUMMARY", filepath.Join(dir, "summary.md"))

	return outPath
}

func TestResolveRun_WritesOutputs(t *testing.T) {
	outPath := setupActionEnv(t, "push", pushPayload)

	cmd := &Resolve{
		StaticInputs:   "env=prod",
		JinjaInputs:    "user=login or 'guest'",
		Var1:           "'v-' ~ env",
		StandardCIVars: true,
	}

	if err := cmd.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}

	text := string(data)

	for _, want := range []string{
		"all", "env", "user", "var1", "var2", "var3", "repo-full-name",
		"prod", "guest", "v-prod",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("outputs missing %q:\n%s", want, text)
		}
	}
}

func TestResolveRun_StandardVarsDisabled(t *testing.T) {
	outPath := setupActionEnv(t, "push", pushPayload)

	cmd := &Resolve{
		StaticInputs:   "env=prod",
		StandardCIVars: false,
	}

	if err := cmd.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}

	if strings.Contains(string(data), "repo-full-name") {
		t.Errorf("standard variable leaked into outputs:\n%s", data)
	}
}

func TestResolveRun_MalformedInputsRecovered(t *testing.T) {
	outPath := setupActionEnv(t, "push", pushPayload)

	cmd := &Resolve{
		StaticInputs:   "good=1\nthis line has no equals",
		JinjaInputs:    "broken=1 +\nfine='ok'",
		StandardCIVars: true,
	}

	if err := cmd.Run(t.Context()); err != nil {
		t.Fatalf("expected value-level failures to recover, got %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}

	text := string(data)

	if !strings.Contains(text, "good") || !strings.Contains(text, "fine") {
		t.Errorf("well-formed inputs not resolved:\n%s", text)
	}
}

func TestResolveRun_MissingEventPayload(t *testing.T) {
	outPath := setupActionEnv(t, "schedule", "")

	// Point at a payload file that does not exist.
	t.Setenv("GITHUB_EVENT_PATH", filepath.Join(t.TempDir(), "absent.json"))

	cmd := &Resolve{
		StaticInputs:   "env=prod",
		StandardCIVars: true,
	}

	if err := cmd.Run(t.Context()); err != nil {
		t.Fatalf("missing payload must degrade, got %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read outputs: %v", err)
	}

	if !strings.Contains(string(data), "env") {
		t.Errorf("explicit inputs not resolved without payload:\n%s", data)
	}
}
