package pipeline

import "context"

// Repo is one repository entry from the code-hosting profile.
type Repo struct {
	Name        string
	Description string
	Language    string
}

// IndexHit is one raw similarity-search result with its payload metadata.
type IndexHit struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// EmbeddingProvider converts free text into a fixed-length vector. The same
// text must always produce the same vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CandidateIndex returns the top-K nearest vectors, ordered by descending
// similarity.
type CandidateIndex interface {
	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]IndexHit, error)
}

// RepoLister fetches a user's most recently updated repositories.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) ([]Repo, error)
}

// ScoringService issues one generative scoring request constrained to a JSON
// response body.
type ScoringService interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// CodeService issues one generative code-synthesis request.
type CodeService interface {
	Complete(ctx context.Context, system, user string, maxTokens int32, temperature float32) (string, error)
}
