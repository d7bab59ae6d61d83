package event

import (
	"errors"
	"testing"
)

func TestDetectTrigger(t *testing.T) {
	cases := map[string]Trigger{
		"push":                TriggerPush,
		"pull_request":        TriggerPullRequest,
		"pull_request_target": TriggerPullRequest,
		"issues":              TriggerIssues,
		"issue_comment":       TriggerIssueComment,
		"workflow_dispatch":   TriggerWorkflowDispatch,
		"schedule":            TriggerSchedule,
		"release":             TriggerOther,
		"":                    TriggerOther,
	}

	for name, want := range cases {
		if got := DetectTrigger(name); got != want {
			t.Errorf("DetectTrigger(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTrigger_Predicates(t *testing.T) {
	if !TriggerPullRequest.IsPR() {
		t.Error("pull-request trigger should report IsPR")
	}

	if TriggerPush.IsPR() {
		t.Error("push trigger should not report IsPR")
	}

	if !TriggerIssueComment.HasComment() {
		t.Error("issue-comment trigger should report HasComment")
	}

	if TriggerIssues.HasComment() {
		t.Error("issues trigger should not report HasComment")
	}
}

func TestTrigger_String(t *testing.T) {
	cases := map[Trigger]string{
		TriggerOther:            "other",
		TriggerPush:             "push",
		TriggerPullRequest:      "pull-request",
		TriggerIssues:           "issues",
		TriggerIssueComment:     "issue-comment",
		TriggerWorkflowDispatch: "workflow-dispatch",
		TriggerSchedule:         "schedule",
	}

	for trigger, want := range cases {
		if got := trigger.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", trigger, got, want)
		}
	}
}

func TestDecode_EmptyPayload(t *testing.T) {
	ctx, err := Decode("schedule", nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if ctx.Trigger != TriggerSchedule {
		t.Errorf("expected schedule trigger, got %v", ctx.Trigger)
	}

	if ctx.Payload == nil {
		t.Fatal("expected zero payload, got nil")
	}

	if ctx.ServerURL != DefaultServerURL {
		t.Errorf("expected default server URL, got %q", ctx.ServerURL)
	}
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode("push", []byte(`{not json`))
	if !errors.Is(err, ErrDecodePayload) {
		t.Errorf("expected ErrDecodePayload, got %v", err)
	}
}

func TestDecode_PullRequest(t *testing.T) {
	payload := []byte(`{
		"action": "opened",
		"number": 7,
		"pull_request": {
			"number": 7,
			"state": "open",
			"title": "Add feature",
			"user": {"login": "octocat"},
			"head": {"ref": "feature", "sha": "abc123",
				"repo": {"full_name": "octocat/fork"}},
			"base": {"ref": "main", "sha": "def456",
				"repo": {"full_name": "owner/repo"}}
		},
		"repository": {"name": "repo", "full_name": "owner/repo",
			"default_branch": "main",
			"html_url": "https://github.com/owner/repo"}
	}`)

	ctx, err := Decode("pull_request", payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	pr := ctx.Payload.PullRequest
	if pr == nil {
		t.Fatal("expected pull_request object")
	}

	if pr.Number != 7 || pr.Title != "Add feature" {
		t.Errorf("unexpected PR fields: %+v", pr)
	}

	if pr.Head.Repo.FullName != "octocat/fork" {
		t.Errorf("head repo not fork-aware: %q", pr.Head.Repo.FullName)
	}

	if ctx.Repository != "owner/repo" {
		t.Errorf("repository fallback not set: %q", ctx.Repository)
	}
}

func TestDecode_GenericViewInLockstep(t *testing.T) {
	payload := []byte(`{"repository": {"full_name": "owner/repo"}}`)

	ctx, err := Decode("push", payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	v, ok := ctx.Lookup("repository.full_name")
	if !ok || v != "owner/repo" {
		t.Errorf("Lookup(repository.full_name) = %v, %v", v, ok)
	}
}

func TestLookup(t *testing.T) {
	payload := []byte(`{
		"pull_request": {
			"head": {"ref": "feature", "sha": "abc"},
			"number": 3
		},
		"empty": null
	}`)

	ctx, err := Decode("pull_request", payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if v, ok := ctx.Lookup("pull_request.head.ref"); !ok || v != "feature" {
		t.Errorf("nested lookup = %v, %v", v, ok)
	}

	if v, ok := ctx.Lookup("pull_request.number"); !ok || v != float64(3) {
		t.Errorf("numeric lookup = %v (%T), %v", v, v, ok)
	}

	if _, ok := ctx.Lookup("pull_request.base.ref"); ok {
		t.Error("expected absent path to report !ok")
	}

	if _, ok := ctx.Lookup("missing.path"); ok {
		t.Error("expected missing root to report !ok")
	}

	if _, ok := ctx.Lookup("pull_request.head.ref.deeper"); ok {
		t.Error("expected traversal through scalar to report !ok")
	}
}
