package stdvars

import (
	"errors"
	"testing"

	"github.com/ardnew/civar/event"
)

func decodeEvent(t *testing.T, name string, payload string) *event.Context {
	t.Helper()

	ev, err := event.Decode(name, []byte(payload))
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}

	return ev
}

func get(t *testing.T, res *Resolved, name string) any {
	t.Helper()

	v, ok := res.Get(name)
	if !ok {
		t.Fatalf("variable %q not in catalog", name)
	}

	return v
}

const pushPayload = `{
	"ref": "refs/heads/main",
	"after": "abc123",
	"repository": {
		"name": "repo",
		"full_name": "owner/repo",
		"default_branch": "main",
		"html_url": "https://github.com/owner/repo",
		"owner": {"login": "owner"}
	}
}`

func TestResolve_Push(t *testing.T) {
	ev := decodeEvent(t, "push", pushPayload)

	res := Resolve(t.Context(), ev)

	if len(res.Violations) != 0 {
		t.Errorf("unexpected violations: %v", res.Violations)
	}

	if got := get(t, res, "repo-full-name"); got != "owner/repo" {
		t.Errorf("repo-full-name = %v", got)
	}

	if got := get(t, res, "repo-owner"); got != "owner" {
		t.Errorf("repo-owner = %v", got)
	}

	if got := get(t, res, "git-ref"); got != "refs/heads/main" {
		t.Errorf("git-ref = %v", got)
	}

	if got := get(t, res, "git-sha"); got != "abc123" {
		t.Errorf("git-sha = %v", got)
	}

	if got := get(t, res, "resolved-git-branch"); got != "main" {
		t.Errorf("resolved-git-branch = %v", got)
	}

	if got := get(t, res, "resolved-git-sha"); got != "abc123" {
		t.Errorf("resolved-git-sha = %v", got)
	}

	if got := get(t, res, "is-pr"); got != false {
		t.Errorf("is-pr = %v", got)
	}

	if got := get(t, res, "pr-number"); got != nil {
		t.Errorf("pr-number should be null for push, got %v", got)
	}

	// Null without a violation: the catalog must not source a
	// PR-family value from the plain repository object.
	if got := get(t, res, "pr-target-repo-full-name"); got != nil {
		t.Errorf("pr-target-repo-full-name should be null for push, got %v", got)
	}

	if got := get(t, res, "trigger-type"); got != "push" {
		t.Errorf("trigger-type = %v", got)
	}
}

const forkPRPayload = `{
	"action": "synchronize",
	"number": 12,
	"pull_request": {
		"number": 12,
		"state": "open",
		"title": "Fix bug",
		"body": "closes #11",
		"user": {"login": "contributor"},
		"html_url": "https://github.com/owner/repo/pull/12",
		"head": {
			"ref": "bugfix",
			"sha": "feed01",
			"repo": {"full_name": "contributor/repo-fork",
				"html_url": "https://github.com/contributor/repo-fork"}
		},
		"base": {
			"ref": "main",
			"sha": "base02",
			"repo": {"full_name": "owner/repo",
				"html_url": "https://github.com/owner/repo"}
		}
	},
	"repository": {
		"name": "repo",
		"full_name": "owner/repo",
		"default_branch": "main",
		"html_url": "https://github.com/owner/repo",
		"owner": {"login": "owner"}
	}
}`

func TestResolve_ForkPullRequest(t *testing.T) {
	ev := decodeEvent(t, "pull_request", forkPRPayload)

	res := Resolve(t.Context(), ev)

	if len(res.Violations) != 0 {
		t.Errorf("unexpected violations: %v", res.Violations)
	}

	if got := get(t, res, "is-pr"); got != true {
		t.Errorf("is-pr = %v", got)
	}

	if got := get(t, res, "pr-number"); got != int64(12) {
		t.Errorf("pr-number = %v (%T)", got, got)
	}

	// Source side comes from the fork, target side from the base.
	if got := get(t, res, "pr-source-repo-full-name"); got != "contributor/repo-fork" {
		t.Errorf("pr-source-repo-full-name = %v", got)
	}

	if got := get(t, res, "pr-target-repo-full-name"); got != "owner/repo" {
		t.Errorf("pr-target-repo-full-name = %v", got)
	}

	if got := get(t, res, "pr-source-git-branch"); got != "bugfix" {
		t.Errorf("pr-source-git-branch = %v", got)
	}

	if got := get(t, res, "pr-target-git-branch"); got != "main" {
		t.Errorf("pr-target-git-branch = %v", got)
	}

	// The effective working context is the PR head, on the fork.
	if got := get(t, res, "resolved-git-branch"); got != "bugfix" {
		t.Errorf("resolved-git-branch = %v", got)
	}

	if got := get(t, res, "resolved-git-sha"); got != "feed01" {
		t.Errorf("resolved-git-sha = %v", got)
	}

	if got := get(t, res, "resolved-repo-full-name"); got != "contributor/repo-fork" {
		t.Errorf("resolved-repo-full-name = %v", got)
	}

	// PR comments and issues share a numbering space.
	if got := get(t, res, "issue-number"); got != int64(12) {
		t.Errorf("issue-number = %v (%T)", got, got)
	}

	if got := get(t, res, "pr-author"); got != "contributor" {
		t.Errorf("pr-author = %v", got)
	}
}

const issueCommentPayload = `{
	"action": "created",
	"issue": {
		"number": 4,
		"title": "Question",
		"html_url": "https://github.com/owner/repo/issues/4",
		"user": {"login": "asker"}
	},
	"comment": {
		"id": 99001,
		"body": "/retest",
		"html_url": "https://github.com/owner/repo/issues/4#issuecomment-99001",
		"user": {"login": "commenter"}
	},
	"repository": {"name": "repo", "full_name": "owner/repo",
		"owner": {"login": "owner"}}
}`

func TestResolve_IssueComment(t *testing.T) {
	ev := decodeEvent(t, "issue_comment", issueCommentPayload)

	res := Resolve(t.Context(), ev)

	if got := get(t, res, "comment-id"); got != int64(99001) {
		t.Errorf("comment-id = %v (%T)", got, got)
	}

	if got := get(t, res, "comment-body"); got != "/retest" {
		t.Errorf("comment-body = %v", got)
	}

	if got := get(t, res, "comment-author"); got != "commenter" {
		t.Errorf("comment-author = %v", got)
	}

	if got := get(t, res, "issue-number"); got != int64(4) {
		t.Errorf("issue-number = %v", got)
	}

	// Issue events have no meaningful working ref.
	if got := get(t, res, "git-ref"); got != nil {
		t.Errorf("git-ref should be null for issue_comment, got %v", got)
	}

	// The comment trigger does not carry PR context.
	if got := get(t, res, "pr-number"); got != nil {
		t.Errorf("pr-number should be null for issue_comment, got %v", got)
	}
}

func TestResolve_NullabilityViolationClamped(t *testing.T) {
	// An issues payload carrying a ref is a contradiction the resolver
	// must clamp and report rather than propagate.
	ev := decodeEvent(t, "issues", `{
		"ref": "refs/heads/should-not-be-here",
		"issue": {"number": 1, "user": {"login": "x"}},
		"repository": {"full_name": "owner/repo", "owner": {"login": "owner"}}
	}`)

	res := Resolve(t.Context(), ev)

	if got := get(t, res, "git-ref"); got != nil {
		t.Errorf("violating value not clamped: %v", got)
	}

	found := false

	for _, name := range res.Violations {
		if name == "git-ref" {
			found = true
		}
	}

	if !found {
		t.Errorf("expected git-ref in violations, got %v", res.Violations)
	}

	hasNullability := false

	for _, warn := range res.Warnings {
		if errors.Is(warn, ErrNullability) {
			hasNullability = true
		}
	}

	if !hasNullability {
		t.Errorf("expected ErrNullability warning, got %v", res.Warnings)
	}
}

func TestResolve_EmptyContext(t *testing.T) {
	ev := decodeEvent(t, "schedule", "")

	res := Resolve(t.Context(), ev)

	if len(res.Violations) != 0 {
		t.Errorf("unexpected violations: %v", res.Violations)
	}

	if got := get(t, res, "repo-full-name"); got != nil {
		t.Errorf("repo-full-name = %v, want null", got)
	}

	if got := get(t, res, "trigger-type"); got != "schedule" {
		t.Errorf("trigger-type = %v", got)
	}
}

func TestResolve_RunMetadata(t *testing.T) {
	ev := decodeEvent(t, "push", pushPayload)
	ev.RunID = 555
	ev.RunNumber = 42
	ev.Workflow = "ci"
	ev.Actor = "runner"

	res := Resolve(t.Context(), ev)

	if got := get(t, res, "run-id"); got != int64(555) {
		t.Errorf("run-id = %v (%T)", got, got)
	}

	if got := get(t, res, "run-number"); got != int64(42) {
		t.Errorf("run-number = %v", got)
	}

	if got := get(t, res, "workflow"); got != "ci" {
		t.Errorf("workflow = %v", got)
	}

	if got := get(t, res, "actor"); got != "runner" {
		t.Errorf("actor = %v", got)
	}

	if got := get(t, res, "run-url"); got != "https://github.com/owner/repo/actions/runs/555" {
		t.Errorf("run-url = %v", got)
	}
}
