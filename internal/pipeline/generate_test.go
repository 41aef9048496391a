package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestGeneratorPlaceholderWhenNothingSelected(t *testing.T) {
	coder := &fakeCoder{response: "package main"}
	g := NewGenerator(coder, time.Second, zap.NewNop())

	patch := g.Run(context.Background(), State{UserID: "u1"})

	if coder.calls != 0 {
		t.Errorf("coder called %d times, want 0 without a selection", coder.calls)
	}
	if patch.BoilerplateCode == nil || patch.BoilerplateCode.Content != noSelectionPlaceholder {
		t.Errorf("boilerplate = %+v, want placeholder", patch.BoilerplateCode)
	}
}

func TestGeneratorBuildsPromptFromSelection(t *testing.T) {
	coder := &fakeCoder{response: "package main\n\nfunc main() {}\n"}
	g := NewGenerator(coder, time.Second, zap.NewNop())

	patch := g.Run(context.Background(), State{
		UserID: "u1",
		Skills: []string{"Go", "Redis"},
		SelectedHackathon: &CandidateMatch{
			ID:               "h1",
			ProblemStatement: "Build a rate limiter service.",
		},
	})

	if coder.calls != 1 {
		t.Fatalf("coder called %d times, want 1", coder.calls)
	}
	if !strings.Contains(coder.lastUser, "Problem Statement: Build a rate limiter service.") {
		t.Errorf("prompt %q is missing the problem statement", coder.lastUser)
	}
	if !strings.Contains(coder.lastUser, "User Stack: Go, Redis") {
		t.Errorf("prompt %q is missing the user stack", coder.lastUser)
	}
	if patch.BoilerplateCode == nil || patch.BoilerplateCode.Content != coder.response {
		t.Errorf("boilerplate = %+v", patch.BoilerplateCode)
	}
}

func TestGeneratorPlaceholderOnFailure(t *testing.T) {
	g := NewGenerator(&fakeCoder{err: errUpstream}, time.Second, zap.NewNop())

	patch := g.Run(context.Background(), State{
		UserID:            "u1",
		SelectedHackathon: &CandidateMatch{ID: "h1"},
	})

	if patch.BoilerplateCode == nil || !strings.HasPrefix(patch.BoilerplateCode.Content, "// Error during generation:") {
		t.Errorf("boilerplate = %+v, want error placeholder", patch.BoilerplateCode)
	}
}

func TestGeneratorPlaceholderOnEmptyResponse(t *testing.T) {
	g := NewGenerator(&fakeCoder{response: "   \n"}, time.Second, zap.NewNop())

	patch := g.Run(context.Background(), State{
		UserID:            "u1",
		SelectedHackathon: &CandidateMatch{ID: "h1"},
	})

	if patch.BoilerplateCode == nil || patch.BoilerplateCode.Content == "" {
		t.Fatal("boilerplate content is empty, want a placeholder")
	}
	if !strings.HasPrefix(patch.BoilerplateCode.Content, "// Error during generation:") {
		t.Errorf("boilerplate = %q", patch.BoilerplateCode.Content)
	}
}
