package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const noProfileDataSummary = "No public GitHub data available for this user."

// ProfileAggregator merges the user's declared skills with a fetched GitHub
// summary into one profile DNA text block. It never fails: absence of data is
// a valid state, not an error.
type ProfileAggregator struct {
	repos   RepoLister
	timeout time.Duration
	logger  *zap.Logger
}

func NewProfileAggregator(repos RepoLister, timeout time.Duration, logger *zap.Logger) *ProfileAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileAggregator{repos: repos, timeout: timeout, logger: logger}
}

func (a *ProfileAggregator) Name() string { return StageAggregate }

func (a *ProfileAggregator) Run(ctx context.Context, state State) Patch {
	if text := strings.TrimSpace(state.ProfileText); text != "" {
		return Patch{
			Skills:        state.Skills,
			GitHubSummary: strPtr(text),
		}
	}

	username := strings.TrimSpace(state.GitHubUsername)
	if username == "" {
		username = state.UserID
	}

	summary := a.fetchSummary(ctx, username)

	return Patch{
		Skills:        state.Skills,
		GitHubSummary: strPtr(summary),
	}
}

func (a *ProfileAggregator) fetchSummary(ctx context.Context, username string) string {
	if a.repos == nil {
		return noProfileDataSummary
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	repos, err := a.repos.ListRepos(callCtx, username)
	if err != nil {
		a.logger.Warn("github fetch failed, using degraded summary",
			zap.String("username", username),
			zap.Error(err),
		)
		return noProfileDataSummary
	}
	if len(repos) == 0 {
		return noProfileDataSummary
	}

	return renderSummary(username, repos)
}

// renderSummary produces a deterministic text block: header, de-duplicated
// languages in first-seen order, one line per repository.
func renderSummary(username string, repos []Repo) string {
	seen := make(map[string]bool)
	var languages []string
	var details []string

	for _, repo := range repos {
		if repo.Language != "" && !seen[repo.Language] {
			seen[repo.Language] = true
			languages = append(languages, repo.Language)
		}

		desc := repo.Description
		if desc == "" {
			desc = "No description"
		}
		details = append(details, fmt.Sprintf("- %s: %s (Primary Language: %s)", repo.Name, desc, repo.Language))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("TECHNICAL PROFILE FOR %s:\n", username))
	b.WriteString(fmt.Sprintf("Core Languages: %s\n", strings.Join(languages, ", ")))
	b.WriteString("Recent Projects:\n")
	b.WriteString(strings.Join(details, "\n"))
	return b.String()
}
