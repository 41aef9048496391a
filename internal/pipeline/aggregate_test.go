package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAggregatorUsesProvidedProfileText(t *testing.T) {
	lister := &fakeLister{repos: []Repo{{Name: "ignored"}}}
	agg := NewProfileAggregator(lister, time.Second, zap.NewNop())

	patch := agg.Run(context.Background(), State{
		UserID:      "u1",
		ProfileText: "  Senior Go engineer, loves distributed systems.  ",
		Skills:      []string{"Go", "Postgres"},
	})

	if patch.GitHubSummary == nil {
		t.Fatal("summary patch is nil")
	}
	if got := *patch.GitHubSummary; got != "Senior Go engineer, loves distributed systems." {
		t.Errorf("summary = %q", got)
	}
	if lister.calls != 0 {
		t.Errorf("lister called %d times, want 0 when profile text is given", lister.calls)
	}
}

func TestAggregatorRendersRepoSummary(t *testing.T) {
	lister := &fakeLister{repos: []Repo{
		{Name: "api-gateway", Description: "Edge routing layer", Language: "Go"},
		{Name: "dash", Description: "", Language: "TypeScript"},
		{Name: "cli", Description: "Admin tooling", Language: "Go"},
	}}
	agg := NewProfileAggregator(lister, time.Second, zap.NewNop())

	patch := agg.Run(context.Background(), State{UserID: "u1", GitHubUsername: "octo"})

	if patch.GitHubSummary == nil {
		t.Fatal("summary patch is nil")
	}
	want := "TECHNICAL PROFILE FOR octo:\n" +
		"Core Languages: Go, TypeScript\n" +
		"Recent Projects:\n" +
		"- api-gateway: Edge routing layer (Primary Language: Go)\n" +
		"- dash: No description (Primary Language: TypeScript)\n" +
		"- cli: Admin tooling (Primary Language: Go)"
	if got := *patch.GitHubSummary; got != want {
		t.Errorf("summary mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestAggregatorFallsBackToUserIDAsUsername(t *testing.T) {
	lister := &fakeLister{repos: []Repo{{Name: "r", Language: "Go"}}}
	agg := NewProfileAggregator(lister, time.Second, zap.NewNop())

	patch := agg.Run(context.Background(), State{UserID: "user-42"})

	if patch.GitHubSummary == nil {
		t.Fatal("summary patch is nil")
	}
	if !strings.Contains(*patch.GitHubSummary, "TECHNICAL PROFILE FOR user-42:") {
		t.Errorf("summary does not use user id as username: %q", *patch.GitHubSummary)
	}
}

func TestAggregatorDegradesOnFetchFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	lister := &fakeLister{err: errUpstream}
	agg := NewProfileAggregator(lister, time.Second, zap.New(core))

	patch := agg.Run(context.Background(), State{UserID: "u1", GitHubUsername: "octo"})

	if patch.GitHubSummary == nil || *patch.GitHubSummary != noProfileDataSummary {
		t.Errorf("summary = %v, want degraded placeholder", patch.GitHubSummary)
	}
	if logs.FilterMessage("github fetch failed, using degraded summary").Len() != 1 {
		t.Error("expected one warn log for the failed fetch")
	}
}

func TestAggregatorDegradesOnEmptyRepoList(t *testing.T) {
	agg := NewProfileAggregator(&fakeLister{}, time.Second, zap.NewNop())

	patch := agg.Run(context.Background(), State{UserID: "u1", GitHubUsername: "octo"})

	if patch.GitHubSummary == nil || *patch.GitHubSummary != noProfileDataSummary {
		t.Errorf("summary = %v, want degraded placeholder", patch.GitHubSummary)
	}
}
