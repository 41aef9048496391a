package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hackquest/agent-api/internal/pipeline"
)

const defaultGitHubBaseURL = "https://api.github.com"

// GitHubService lists a user's most recently updated public repositories.
type GitHubService struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewGitHubService(token string) *GitHubService {
	return &GitHubService{
		baseURL: defaultGitHubBaseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type githubRepo struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
}

// ListRepos implements pipeline.RepoLister.
func (g *GitHubService) ListRepos(ctx context.Context, username string) ([]pipeline.Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=10", g.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned status: %d", resp.StatusCode)
	}

	var raw []githubRepo
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	repos := make([]pipeline.Repo, 0, len(raw))
	for _, r := range raw {
		repo := pipeline.Repo{Name: r.Name}
		if r.Description != nil {
			repo.Description = *r.Description
		}
		if r.Language != nil {
			repo.Language = *r.Language
		}
		repos = append(repos, repo)
	}

	return repos, nil
}
