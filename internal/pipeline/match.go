package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	metadataTitle            = "title"
	metadataProblemStatement = "problem_statement"
)

// Matcher embeds the profile DNA and queries the candidate index for the
// top-K nearest hackathons. A failure of either call yields an empty (non-nil)
// candidate list so downstream stages run in their no-match fallback mode.
type Matcher struct {
	embedder EmbeddingProvider
	index    CandidateIndex
	topK     int
	timeout  time.Duration
	logger   *zap.Logger
}

func NewMatcher(embedder EmbeddingProvider, index CandidateIndex, topK int, timeout time.Duration, logger *zap.Logger) *Matcher {
	if topK <= 0 {
		topK = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		embedder: embedder,
		index:    index,
		topK:     topK,
		timeout:  timeout,
		logger:   logger,
	}
}

func (m *Matcher) Name() string { return StageMatch }

func (m *Matcher) Run(ctx context.Context, state State) Patch {
	query := fmt.Sprintf("%s Skills: %s", state.GitHubSummary, strings.Join(state.Skills, ", "))

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	vector, err := m.embedder.Embed(callCtx, query)
	if err != nil {
		m.logger.Warn("embedding failed, returning empty candidate list",
			zap.String("user_id", state.UserID),
			zap.Error(err),
		)
		return Patch{CandidateMatches: []CandidateMatch{}}
	}

	hits, err := m.index.Query(callCtx, vector, m.topK, true)
	if err != nil {
		m.logger.Warn("index query failed, returning empty candidate list",
			zap.String("user_id", state.UserID),
			zap.Error(err),
		)
		return Patch{CandidateMatches: []CandidateMatch{}}
	}

	// Ordering follows the index's own similarity ranking; no re-sorting.
	matches := make([]CandidateMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, CandidateMatch{
			ID:               hit.ID,
			Score:            float64(hit.Score),
			Title:            hit.Metadata[metadataTitle],
			ProblemStatement: hit.Metadata[metadataProblemStatement],
		})
	}

	return Patch{CandidateMatches: matches}
}
