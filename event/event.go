// Package event models the ambient pipeline event: the typed payload
// of the triggering event, the detected trigger type, and the run
// metadata of the current invocation.
//
// The package only decodes and classifies. A [Context] is assembled
// once by the CLI adapter and passed explicitly into every resolver
// call; nothing downstream reads process environment or files, which
// keeps the core testable against synthetic payloads.
package event

import (
	"encoding/json"
	"log/slog"
)

//go:generate go tool stringer --linecomment --type Trigger --output trigger_string.go

// Trigger is the category of event that started the current run.
type Trigger int

const (
	TriggerOther            Trigger = iota // other
	TriggerPush                            // push
	TriggerPullRequest                     // pull-request
	TriggerIssues                          // issues
	TriggerIssueComment                    // issue-comment
	TriggerWorkflowDispatch                // workflow-dispatch
	TriggerSchedule                        // schedule
)

// DetectTrigger classifies a GitHub event name.
func DetectTrigger(eventName string) Trigger {
	switch eventName {
	case "push":
		return TriggerPush
	case "pull_request", "pull_request_target":
		return TriggerPullRequest
	case "issues":
		return TriggerIssues
	case "issue_comment":
		return TriggerIssueComment
	case "workflow_dispatch":
		return TriggerWorkflowDispatch
	case "schedule":
		return TriggerSchedule
	default:
		return TriggerOther
	}
}

// IsPR reports whether the trigger carries pull-request context.
func (t Trigger) IsPR() bool { return t == TriggerPullRequest }

// HasComment reports whether the trigger carries a comment payload.
func (t Trigger) HasComment() bool { return t == TriggerIssueComment }

// Payload is the typed view of the triggering event's JSON payload.
// Absent objects are nil; the core treats the whole structure as
// read-only.
type Payload struct {
	Action      string         `json:"action"`
	Ref         string         `json:"ref"`
	After       string         `json:"after"`
	Before      string         `json:"before"`
	Number      int            `json:"number"`
	Repository  *Repository    `json:"repository"`
	PullRequest *PullRequest   `json:"pull_request"`
	Issue       *Issue         `json:"issue"`
	Comment     *Comment       `json:"comment"`
	Inputs      map[string]any `json:"inputs"`
}

// Repository identifies a repository in the payload.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
	Owner         Actor  `json:"owner"`
}

// Actor is a user or organization reference.
type Actor struct {
	Login string `json:"login"`
}

// PullRequest is the pull-request object of PR-triggered events.
type PullRequest struct {
	Number  int       `json:"number"`
	State   string    `json:"state"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Merged  bool      `json:"merged"`
	Draft   bool      `json:"draft"`
	HTMLURL string    `json:"html_url"`
	User    Actor     `json:"user"`
	Head    RefTarget `json:"head"`
	Base    RefTarget `json:"base"`
}

// RefTarget is one side of a pull request. Repo may differ from the
// event repository when the source branch lives on a fork.
type RefTarget struct {
	Ref  string      `json:"ref"`
	SHA  string      `json:"sha"`
	Repo *Repository `json:"repo"`
}

// Issue is the issue object of issue and issue-comment events. GitHub
// models PR comments as comments on the PR's issue, so PullRequest is
// non-nil when the issue is actually a pull request.
type Issue struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	HTMLURL     string `json:"html_url"`
	User        Actor  `json:"user"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request"`
}

// Comment is the comment object of comment-triggered events.
type Comment struct {
	ID      int64  `json:"id"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	User    Actor  `json:"user"`
}

// Context is the explicit, read-only ambient context of one
// invocation: the decoded payload plus the run metadata the host
// exposes alongside it.
type Context struct {
	EventName string
	Trigger   Trigger
	Payload   *Payload

	// Raw is the payload decoded as generic JSON, used by the
	// declarative source-path catalog.
	Raw map[string]any

	// Current-run fallbacks, valid regardless of trigger.
	Ref        string
	SHA        string
	Repository string // "owner/name"
	ServerURL  string

	// Run metadata.
	RunID     int64
	RunNumber int64
	Workflow  string
	Job       string
	Actor     string
}

// Decode builds a Context from an event name and raw payload JSON.
// An empty payload yields a Context with a zero Payload, not an
// error, since several triggers (schedule among them) carry none.
func Decode(eventName string, data []byte) (*Context, error) {
	ctx := &Context{
		EventName: eventName,
		Trigger:   DetectTrigger(eventName),
		Payload:   &Payload{},
		ServerURL: DefaultServerURL,
	}

	if len(data) == 0 {
		return ctx, nil
	}

	if err := json.Unmarshal(data, ctx.Payload); err != nil {
		return nil, ErrDecodePayload.Wrap(err).
			With(slog.String("event", eventName))
	}

	// A second decode keeps the generic view in lockstep with the
	// typed one. Payload JSON is small enough that this never matters.
	if err := json.Unmarshal(data, &ctx.Raw); err != nil {
		return nil, ErrDecodePayload.Wrap(err).
			With(slog.String("event", eventName))
	}

	if repo := ctx.Payload.Repository; repo != nil && ctx.Repository == "" {
		ctx.Repository = repo.FullName
	}

	return ctx, nil
}

// DefaultServerURL is used when the invocation does not supply one.
const DefaultServerURL = "https://github.com"

// Lookup resolves a dotted path (for example "pull_request.head.ref")
// against the generic payload view. It returns nil, false when any
// path element is absent or not an object.
func (c *Context) Lookup(path string) (any, bool) {
	var cur any = c.Raw

	start := 0

	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}

		key := path[start:i]
		start = i + 1

		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = obj[key]
		if !ok || cur == nil {
			return nil, false
		}
	}

	return cur, true
}
