package stdvars

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/civar/event"
)

// Dispatch input keys recognized by auto-detection, per kind.
//
//nolint:gochecknoglobals
var dispatchKeys = map[Kind][]string{
	KindPR:      {"pr", "pr-number", "pr_number", "pull-request", "pull_request"},
	KindIssue:   {"issue", "issue-number", "issue_number"},
	KindComment: {"comment-id", "comment_id"},
}

// overlayDispatch performs workflow-dispatch auto-detection: when the
// dispatch inputs reference a PR, issue, or comment by identifier,
// fetch its metadata and overlay the corresponding variables. The
// fetch is awaited synchronously; any failure leaves the un-overlaid
// values in place.
func overlayDispatch(
	ctx context.Context,
	ev *event.Context,
	res *Resolved,
	cfg settings,
) {
	if ev.Trigger != event.TriggerWorkflowDispatch || cfg.fetcher == nil {
		return
	}

	for _, kind := range []Kind{KindPR, KindIssue, KindComment} {
		id, ok := detectDispatchID(ev.Payload.Inputs, kind)
		if !ok {
			continue
		}

		fetchCtx, cancel := context.WithTimeout(ctx, cfg.fetchTimeout)
		meta, err := cfg.fetcher.Fetch(fetchCtx, kind, repoFullName(ev), id)

		cancel()

		if err != nil {
			res.Warnings = append(res.Warnings, ErrFetch.Wrap(err).
				With(
					slog.String("kind", kind.String()),
					slog.Int64("id", id),
				))

			continue
		}

		switch kind {
		case KindPR:
			if meta.PR != nil {
				overlayPR(ev, res, meta.PR)
			}

		case KindIssue:
			if meta.Issue != nil {
				overlayIssue(res, meta.Issue)
			}

		case KindComment:
			if meta.Comment != nil {
				overlayComment(res, meta.Comment)
			}
		}
	}
}

// detectDispatchID scans the dispatch inputs for a key of the given
// kind and parses its value as an identifier.
func detectDispatchID(inputs map[string]any, kind Kind) (int64, bool) {
	for _, key := range dispatchKeys[kind] {
		raw, ok := inputs[key]
		if !ok {
			continue
		}

		switch v := raw.(type) {
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				return id, true
			}

		case float64:
			if id := int64(v); id > 0 {
				return id, true
			}
		}
	}

	return 0, false
}

// overlayPR replaces the pull-request family and the resolved-*
// effective working context with the fetched PR's metadata.
func overlayPR(ev *event.Context, res *Resolved, pr *event.PullRequest) {
	res.set("is-pr", true)
	res.set("pr-number", int64(pr.Number))
	res.set("pr-title", orNil(pr.Title))
	res.set("pr-body", orNil(pr.Body))
	res.set("pr-state", orNil(pr.State))
	res.set("pr-author", orNil(pr.User.Login))
	res.set("pr-url", orNil(pr.HTMLURL))

	res.set("pr-source-git-branch", orNil(pr.Head.Ref))
	res.set("pr-source-git-sha", orNil(pr.Head.SHA))
	res.set("pr-target-git-branch", orNil(pr.Base.Ref))
	res.set("pr-target-git-sha", orNil(pr.Base.SHA))

	headRepo := repoFullName(ev)
	if pr.Head.Repo != nil && pr.Head.Repo.FullName != "" {
		headRepo = pr.Head.Repo.FullName
	}

	res.set("pr-source-repo-full-name", orNil(headRepo))

	baseRepo := repoFullName(ev)
	if pr.Base.Repo != nil && pr.Base.Repo.FullName != "" {
		baseRepo = pr.Base.Repo.FullName
	}

	res.set("pr-target-repo-full-name", orNil(baseRepo))

	res.set("resolved-git-branch", orNil(pr.Head.Ref))
	res.set("resolved-git-sha", orNil(pr.Head.SHA))
	res.set("resolved-repo-full-name", orNil(headRepo))

	if pr.Head.SHA != "" && headRepo != "" {
		res.set("resolved-commit-url",
			serverURL(ev)+"/"+headRepo+"/commit/"+pr.Head.SHA)
	}

	res.set("issue-number", int64(pr.Number))
	res.set("issue-url", orNil(pr.HTMLURL))
}

// overlayIssue replaces the issue family with the fetched issue's
// metadata.
func overlayIssue(res *Resolved, issue *event.Issue) {
	res.set("issue-number", int64(issue.Number))
	res.set("issue-url", orNil(issue.HTMLURL))
}

// overlayComment replaces the comment family with the fetched
// comment's metadata.
func overlayComment(res *Resolved, comment *event.Comment) {
	res.set("comment-id", comment.ID)
	res.set("comment-body", orNil(comment.Body))
	res.set("comment-author", orNil(comment.User.Login))
	res.set("comment-url", orNil(comment.HTMLURL))
}
