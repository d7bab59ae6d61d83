package stdvars

import (
	"strings"

	"github.com/ardnew/civar/event"
)

// Def declares one standard variable: its output name, the ordered
// payload source paths tried first-non-null-wins, an optional derive
// function for computed values, and a nullability predicate per
// trigger type. New standard variables are additions to this table,
// not new control flow.
type Def struct {
	// Name is the output name of the variable.
	Name string
	// Doc is a one-line description shown by the catalog command.
	Doc string
	// Paths are dotted payload source paths, evaluated in order.
	Paths []string
	// Derive computes the value when no path yields one.
	Derive func(*event.Context) any
	// Null reports whether the variable must be null for the trigger.
	// A nil predicate means the variable is never forced null.
	Null func(event.Trigger) bool
}

// Nullability predicates shared across variable families.
func prOnly(t event.Trigger) bool      { return !t.IsPR() }
func commentOnly(t event.Trigger) bool { return !t.HasComment() }

// issueish admits triggers that carry an issue object (directly or
// through a pull request).
func issueish(t event.Trigger) bool {
	switch t {
	case event.TriggerPullRequest, event.TriggerIssues,
		event.TriggerIssueComment:
		return false
	default:
		return true
	}
}

// refless marks triggers with no meaningful working ref: issue-only
// events never resolve git-ref variables.
func refless(t event.Trigger) bool {
	switch t {
	case event.TriggerIssues, event.TriggerIssueComment:
		return true
	default:
		return false
	}
}

// Catalog returns the versioned standard-variable definitions in
// their canonical output order.
//
// Repository identity prefers the pull-request base repository (the
// repository the run belongs to); pr-source-* values are fork-aware
// and come from the head side.
func Catalog() []Def {
	return []Def{
		{
			Name:  "repo-full-name",
			Doc:   "owner/name of the repository the run belongs to",
			Paths: []string{"pull_request.base.repo.full_name", "repository.full_name"},
			Derive: func(c *event.Context) any {
				return orNil(c.Repository)
			},
		},
		{
			Name:  "repo-name",
			Doc:   "repository name without owner",
			Paths: []string{"pull_request.base.repo.name", "repository.name"},
			Derive: func(c *event.Context) any {
				if _, name, ok := strings.Cut(c.Repository, "/"); ok {
					return name
				}

				return nil
			},
		},
		{
			Name:  "repo-owner",
			Doc:   "repository owner login",
			Paths: []string{"pull_request.base.repo.owner.login", "repository.owner.login"},
			Derive: func(c *event.Context) any {
				if owner, _, ok := strings.Cut(c.Repository, "/"); ok {
					return owner
				}

				return nil
			},
		},
		{
			Name:  "repo-default-branch",
			Doc:   "default branch of the repository",
			Paths: []string{"repository.default_branch"},
		},
		{
			Name:  "repo-url",
			Doc:   "web URL of the repository",
			Paths: []string{"repository.html_url"},
			Derive: func(c *event.Context) any {
				return repoURL(c)
			},
		},
		{
			Name:  "event-name",
			Doc:   "raw name of the triggering event",
			Derive: func(c *event.Context) any {
				return orNil(c.EventName)
			},
		},
		{
			Name:  "trigger-type",
			Doc:   "classified trigger category of the event",
			Derive: func(c *event.Context) any {
				return c.Trigger.String()
			},
		},
		{
			Name:  "git-ref",
			Doc:   "fully qualified ref of the current run",
			Paths: []string{"ref"},
			Derive: func(c *event.Context) any {
				return orNil(c.Ref)
			},
			Null: refless,
		},
		{
			Name:  "git-sha",
			Doc:   "commit SHA of the current run",
			Paths: []string{"after"},
			Derive: func(c *event.Context) any {
				return orNil(c.SHA)
			},
			Null: refless,
		},
		{
			Name: "resolved-git-branch",
			Doc:  "effective working branch: PR head branch for PR events, current branch otherwise",
			Derive: func(c *event.Context) any {
				if pr := c.Payload.PullRequest; c.Trigger.IsPR() && pr != nil {
					return orNil(pr.Head.Ref)
				}

				return orNil(branchFromRef(currentRef(c)))
			},
			Null: refless,
		},
		{
			Name: "resolved-git-sha",
			Doc:  "effective working commit: PR head SHA for PR events, current SHA otherwise",
			Derive: func(c *event.Context) any {
				if pr := c.Payload.PullRequest; c.Trigger.IsPR() && pr != nil {
					return orNil(pr.Head.SHA)
				}

				return orNil(currentSHA(c))
			},
			Null: refless,
		},
		{
			Name: "resolved-repo-full-name",
			Doc:  "repository owning the effective working branch (the fork, for fork PRs)",
			Derive: func(c *event.Context) any {
				pr := c.Payload.PullRequest
				if c.Trigger.IsPR() && pr != nil && pr.Head.Repo != nil {
					return orNil(pr.Head.Repo.FullName)
				}

				if repo := c.Payload.Repository; repo != nil {
					return orNil(repo.FullName)
				}

				return orNil(c.Repository)
			},
			Null: refless,
		},
		{
			Name: "resolved-commit-url",
			Doc:  "web URL of the effective working commit",
			Derive: func(c *event.Context) any {
				return commitURL(c)
			},
			Null: refless,
		},
		{
			Name: "is-pr",
			Doc:  "whether the run has pull-request context",
			Derive: func(c *event.Context) any {
				return c.Trigger.IsPR()
			},
		},
		{
			Name:  "pr-number",
			Doc:   "pull-request number",
			Paths: []string{"pull_request.number", "number"},
			Null:  prOnly,
		},
		{
			Name:  "pr-title",
			Doc:   "pull-request title",
			Paths: []string{"pull_request.title"},
			Null:  prOnly,
		},
		{
			Name:  "pr-body",
			Doc:   "pull-request body text",
			Paths: []string{"pull_request.body"},
			Null:  prOnly,
		},
		{
			Name:  "pr-state",
			Doc:   "pull-request state",
			Paths: []string{"pull_request.state"},
			Null:  prOnly,
		},
		{
			Name:  "pr-author",
			Doc:   "pull-request author login",
			Paths: []string{"pull_request.user.login"},
			Null:  prOnly,
		},
		{
			Name:  "pr-url",
			Doc:   "web URL of the pull request",
			Paths: []string{"pull_request.html_url"},
			Derive: func(c *event.Context) any {
				return prURL(c)
			},
			Null: prOnly,
		},
		{
			Name:  "pr-source-git-branch",
			Doc:   "PR source (head) branch",
			Paths: []string{"pull_request.head.ref"},
			Null:  prOnly,
		},
		{
			Name:  "pr-source-git-sha",
			Doc:   "PR source (head) commit SHA",
			Paths: []string{"pull_request.head.sha"},
			Null:  prOnly,
		},
		{
			Name:  "pr-source-repo-full-name",
			Doc:   "repository owning the PR source branch (fork-aware)",
			Paths: []string{"pull_request.head.repo.full_name"},
			Null:  prOnly,
		},
		{
			Name:  "pr-target-git-branch",
			Doc:   "PR target (base) branch",
			Paths: []string{"pull_request.base.ref"},
			Null:  prOnly,
		},
		{
			Name:  "pr-target-git-sha",
			Doc:   "PR target (base) commit SHA",
			Paths: []string{"pull_request.base.sha"},
			Null:  prOnly,
		},
		{
			Name:  "pr-target-repo-full-name",
			Doc:   "repository owning the PR target branch",
			Paths: []string{"pull_request.base.repo.full_name"},
			Null:  prOnly,
		},
		{
			Name:  "issue-number",
			Doc:   "issue number; equals the PR number for PR events",
			Paths: []string{"issue.number", "pull_request.number", "number"},
			Null:  issueish,
		},
		{
			Name:  "issue-url",
			Doc:   "web URL of the issue",
			Paths: []string{"issue.html_url", "pull_request.html_url"},
			Null:  issueish,
		},
		{
			Name:  "comment-id",
			Doc:   "identifier of the triggering comment",
			Paths: []string{"comment.id"},
			Null:  commentOnly,
		},
		{
			Name:  "comment-body",
			Doc:   "body of the triggering comment",
			Paths: []string{"comment.body"},
			Null:  commentOnly,
		},
		{
			Name:  "comment-author",
			Doc:   "author login of the triggering comment",
			Paths: []string{"comment.user.login"},
			Null:  commentOnly,
		},
		{
			Name:  "comment-url",
			Doc:   "web URL of the triggering comment",
			Paths: []string{"comment.html_url"},
			Null:  commentOnly,
		},
		{
			Name: "run-id",
			Doc:  "unique identifier of the current run",
			Derive: func(c *event.Context) any {
				if c.RunID == 0 {
					return nil
				}

				return c.RunID
			},
		},
		{
			Name: "run-number",
			Doc:  "sequential number of the current run",
			Derive: func(c *event.Context) any {
				if c.RunNumber == 0 {
					return nil
				}

				return c.RunNumber
			},
		},
		{
			Name: "run-url",
			Doc:  "web URL of the current run",
			Derive: func(c *event.Context) any {
				return runURL(c)
			},
		},
		{
			Name: "workflow",
			Doc:  "name of the running workflow",
			Derive: func(c *event.Context) any {
				return orNil(c.Workflow)
			},
		},
		{
			Name: "actor",
			Doc:  "login that initiated the run",
			Derive: func(c *event.Context) any {
				return orNil(c.Actor)
			},
		},
	}
}

// orNil maps the empty string to a null value.
func orNil(s string) any {
	if s == "" {
		return nil
	}

	return s
}

// currentRef prefers the payload's ref over the run metadata fallback.
func currentRef(c *event.Context) string {
	if c.Payload.Ref != "" {
		return c.Payload.Ref
	}

	return c.Ref
}

// currentSHA prefers the payload's pushed head over the run metadata
// fallback.
func currentSHA(c *event.Context) string {
	if c.Payload.After != "" {
		return c.Payload.After
	}

	return c.SHA
}

// branchFromRef strips the refs/heads/ prefix. Tag and other refs pass
// through unchanged so callers still see which ref the run is on.
func branchFromRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}
