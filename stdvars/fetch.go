package stdvars

import (
	"context"

	"github.com/ardnew/civar/event"
)

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind selects which object a [Fetcher] retrieves.
type Kind int

const (
	KindPR      Kind = iota // pull-request
	KindIssue               // issue
	KindComment             // comment
)

// Metadata is the result of a secondary fetch. Exactly one field is
// non-nil, matching the requested [Kind].
type Metadata struct {
	PR      *event.PullRequest
	Issue   *event.Issue
	Comment *event.Comment
}

// Fetcher retrieves pull-request, issue, or comment metadata from the
// host platform by identifier. It is the only capability of the
// resolver that may leave the process; implementations must honor
// ctx cancellation and return [ErrNotFound] for unknown identifiers.
type Fetcher interface {
	Fetch(ctx context.Context, kind Kind, repo string, id int64) (*Metadata, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, kind Kind, repo string, id int64) (*Metadata, error)

// Fetch implements [Fetcher].
func (f FetcherFunc) Fetch(
	ctx context.Context,
	kind Kind,
	repo string,
	id int64,
) (*Metadata, error) {
	return f(ctx, kind, repo, id)
}
