package pipeline

import (
	"reflect"
	"testing"
)

func TestApplyEmptyPatchLeavesStateUntouched(t *testing.T) {
	before := State{
		UserID:        "u1",
		Skills:        []string{"Go"},
		GitHubSummary: "summary",
		CandidateMatches: []CandidateMatch{
			{ID: "h1", Score: 0.9},
		},
		WinProbability: 42.0,
		JudgeCritique:  "fine",
	}

	after := before.apply(Patch{})

	if !reflect.DeepEqual(before, after) {
		t.Errorf("empty patch changed state: %+v != %+v", after, before)
	}
}

func TestApplyEmptyCandidateListOverwritesExisting(t *testing.T) {
	state := State{
		CandidateMatches: []CandidateMatch{{ID: "h1"}},
	}

	state = state.apply(Patch{CandidateMatches: []CandidateMatch{}})

	if state.CandidateMatches == nil {
		t.Fatal("candidate list became nil, want empty slice")
	}
	if len(state.CandidateMatches) != 0 {
		t.Errorf("got %d candidates, want 0", len(state.CandidateMatches))
	}
}

func TestApplyLastWriterWins(t *testing.T) {
	state := State{WinProbability: 10, JudgeCritique: "old"}

	state = state.apply(Patch{WinProbability: floatPtr(75), JudgeCritique: strPtr("mid")})
	state = state.apply(Patch{WinProbability: floatPtr(50)})

	if state.WinProbability != 50 {
		t.Errorf("win probability = %v, want 50", state.WinProbability)
	}
	if state.JudgeCritique != "mid" {
		t.Errorf("critique = %q, want %q (nil field must stay untouched)", state.JudgeCritique, "mid")
	}
}

func TestApplySetsSelectionAndBoilerplate(t *testing.T) {
	selected := CandidateMatch{ID: "h2", Score: 0.91, Title: "AI Hack"}
	state := State{}

	state = state.apply(Patch{
		SelectedHackathon: &selected,
		BoilerplateCode:   &GenerationResult{Content: "package main"},
	})

	if state.SelectedHackathon == nil || state.SelectedHackathon.ID != "h2" {
		t.Fatalf("selected hackathon = %+v, want h2", state.SelectedHackathon)
	}
	if state.BoilerplateCode.Content != "package main" {
		t.Errorf("boilerplate = %q", state.BoilerplateCode.Content)
	}
}
