package pipeline

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMatcherBuildsQueryFromSummaryAndSkills(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	index := &fakeIndex{}
	m := NewMatcher(embedder, index, 5, time.Second, zap.NewNop())

	m.Run(context.Background(), State{
		UserID:        "u1",
		GitHubSummary: "TECHNICAL PROFILE FOR octo:",
		Skills:        []string{"Python", "React"},
	})

	want := "TECHNICAL PROFILE FOR octo: Skills: Python, React"
	if embedder.lastText != want {
		t.Errorf("query = %q, want %q", embedder.lastText, want)
	}
	if index.lastTopK != 5 {
		t.Errorf("topK = %d, want 5", index.lastTopK)
	}
}

func TestMatcherMapsHitsInIndexOrder(t *testing.T) {
	index := &fakeIndex{hits: []IndexHit{
		{ID: "h1", Score: 0.91, Metadata: map[string]string{
			"title":             "Climate AI Challenge",
			"problem_statement": "Model emissions hotspots.",
		}},
		{ID: "h2", Score: 0.78, Metadata: map[string]string{
			"title":             "FinTech Sprint",
			"problem_statement": "Detect fraud in real time.",
		}},
	}}
	m := NewMatcher(&fakeEmbedder{vector: []float32{1}}, index, 5, time.Second, zap.NewNop())

	patch := m.Run(context.Background(), State{UserID: "u1"})

	if len(patch.CandidateMatches) != 2 {
		t.Fatalf("got %d matches, want 2", len(patch.CandidateMatches))
	}
	first := patch.CandidateMatches[0]
	if first.ID != "h1" || first.Title != "Climate AI Challenge" || first.ProblemStatement != "Model emissions hotspots." {
		t.Errorf("first match = %+v", first)
	}
	if first.Score < 0.909 || first.Score > 0.911 {
		t.Errorf("first score = %v, want 0.91", first.Score)
	}
	if patch.CandidateMatches[1].ID != "h2" {
		t.Errorf("second match = %+v, ordering must follow the index", patch.CandidateMatches[1])
	}
}

func TestMatcherReturnsEmptyListOnEmbedFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	index := &fakeIndex{}
	m := NewMatcher(&fakeEmbedder{err: errUpstream}, index, 5, time.Second, zap.New(core))

	patch := m.Run(context.Background(), State{UserID: "u1"})

	if patch.CandidateMatches == nil {
		t.Fatal("candidate list is nil, want non-nil empty slice")
	}
	if len(patch.CandidateMatches) != 0 {
		t.Errorf("got %d matches, want 0", len(patch.CandidateMatches))
	}
	if index.calls != 0 {
		t.Errorf("index was queried %d times after embed failed", index.calls)
	}
	if logs.FilterMessage("embedding failed, returning empty candidate list").Len() != 1 {
		t.Error("expected one warn log for the failed embedding")
	}
}

func TestMatcherReturnsEmptyListOnIndexFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewMatcher(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{err: errUpstream}, 5, time.Second, zap.New(core))

	patch := m.Run(context.Background(), State{UserID: "u1"})

	if patch.CandidateMatches == nil || len(patch.CandidateMatches) != 0 {
		t.Errorf("matches = %v, want non-nil empty slice", patch.CandidateMatches)
	}
	if logs.FilterMessage("index query failed, returning empty candidate list").Len() != 1 {
		t.Error("expected one warn log for the failed query")
	}
}

func TestMatcherDefaultsTopK(t *testing.T) {
	index := &fakeIndex{}
	m := NewMatcher(&fakeEmbedder{vector: []float32{1}}, index, 0, time.Second, zap.NewNop())

	m.Run(context.Background(), State{UserID: "u1"})

	if index.lastTopK != 5 {
		t.Errorf("topK = %d, want default 5", index.lastTopK)
	}
}
