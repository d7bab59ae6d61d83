package stdvars

import (
	"strconv"
	"strings"

	"github.com/ardnew/civar/event"
)

// serverURL derives the web base URL from the payload's own
// repository identity, so constructed URLs share the scheme and host
// of the event that produced them (GitHub Enterprise included).
func serverURL(c *event.Context) string {
	repo := c.Payload.Repository
	if repo != nil && repo.HTMLURL != "" && repo.FullName != "" {
		if base, ok := strings.CutSuffix(repo.HTMLURL, "/"+repo.FullName); ok {
			return base
		}
	}

	if c.ServerURL != "" {
		return c.ServerURL
	}

	return event.DefaultServerURL
}

// repoFullName is the repository identity used for URL templates.
func repoFullName(c *event.Context) string {
	if repo := c.Payload.Repository; repo != nil && repo.FullName != "" {
		return repo.FullName
	}

	return c.Repository
}

func repoURL(c *event.Context) any {
	full := repoFullName(c)
	if full == "" {
		return nil
	}

	return serverURL(c) + "/" + full
}

func commitURL(c *event.Context) any {
	sha := currentSHA(c)
	full := repoFullName(c)

	if pr := c.Payload.PullRequest; c.Trigger.IsPR() && pr != nil {
		sha = pr.Head.SHA

		if pr.Head.Repo != nil && pr.Head.Repo.FullName != "" {
			full = pr.Head.Repo.FullName
		}
	}

	if sha == "" || full == "" {
		return nil
	}

	return serverURL(c) + "/" + full + "/commit/" + sha
}

func prURL(c *event.Context) any {
	pr := c.Payload.PullRequest

	full := repoFullName(c)
	if pr == nil || pr.Number == 0 || full == "" {
		return nil
	}

	return serverURL(c) + "/" + full + "/pull/" + strconv.Itoa(pr.Number)
}

func runURL(c *event.Context) any {
	full := repoFullName(c)
	if c.RunID == 0 || full == "" {
		return nil
	}

	return serverURL(c) + "/" + full + "/actions/runs/" +
		strconv.FormatInt(c.RunID, 10)
}
