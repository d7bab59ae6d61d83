package stdvars

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/ardnew/civar/event"
)

// GitHubFetcher implements [Fetcher] against the GitHub REST API.
type GitHubFetcher struct {
	client *github.Client
}

// NewGitHubFetcher creates a fetcher authenticated with token. An
// empty token produces an unauthenticated client, which suffices for
// public repositories.
func NewGitHubFetcher(token string) *GitHubFetcher {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &GitHubFetcher{client: client}
}

// Fetch implements [Fetcher].
func (f *GitHubFetcher) Fetch(
	ctx context.Context,
	kind Kind,
	repo string,
	id int64,
) (*Metadata, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return nil, ErrFetch.
			With(slog.String("repo", repo))
	}

	switch kind {
	case KindPR:
		pr, resp, err := f.client.PullRequests.Get(ctx, owner, name, int(id))
		if err != nil {
			return nil, fetchError(resp, err)
		}

		return &Metadata{PR: convertPR(pr)}, nil

	case KindIssue:
		issue, resp, err := f.client.Issues.Get(ctx, owner, name, int(id))
		if err != nil {
			return nil, fetchError(resp, err)
		}

		return &Metadata{Issue: convertIssue(issue)}, nil

	case KindComment:
		comment, resp, err := f.client.Issues.GetComment(ctx, owner, name, id)
		if err != nil {
			return nil, fetchError(resp, err)
		}

		return &Metadata{Comment: convertComment(comment)}, nil

	default:
		return nil, ErrFetch.
			With(slog.String("kind", kind.String()))
	}
}

// fetchError maps API failures onto the package sentinels.
func fetchError(resp *github.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return ErrNotFound.Wrap(err)
	}

	return ErrFetch.Wrap(err)
}

func convertPR(pr *github.PullRequest) *event.PullRequest {
	return &event.PullRequest{
		Number:  pr.GetNumber(),
		State:   pr.GetState(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		Merged:  pr.GetMerged(),
		Draft:   pr.GetDraft(),
		HTMLURL: pr.GetHTMLURL(),
		User:    event.Actor{Login: pr.GetUser().GetLogin()},
		Head:    convertBranch(pr.GetHead()),
		Base:    convertBranch(pr.GetBase()),
	}
}

func convertBranch(branch *github.PullRequestBranch) event.RefTarget {
	target := event.RefTarget{
		Ref: branch.GetRef(),
		SHA: branch.GetSHA(),
	}

	if repo := branch.GetRepo(); repo != nil {
		target.Repo = &event.Repository{
			Name:          repo.GetName(),
			FullName:      repo.GetFullName(),
			DefaultBranch: repo.GetDefaultBranch(),
			HTMLURL:       repo.GetHTMLURL(),
			Owner:         event.Actor{Login: repo.GetOwner().GetLogin()},
		}
	}

	return target
}

func convertIssue(issue *github.Issue) *event.Issue {
	return &event.Issue{
		Number:  issue.GetNumber(),
		Title:   issue.GetTitle(),
		HTMLURL: issue.GetHTMLURL(),
		User:    event.Actor{Login: issue.GetUser().GetLogin()},
	}
}

func convertComment(comment *github.IssueComment) *event.Comment {
	return &event.Comment{
		ID:      comment.GetID(),
		Body:    comment.GetBody(),
		HTMLURL: comment.GetHTMLURL(),
		User:    event.Actor{Login: comment.GetUser().GetLogin()},
	}
}
