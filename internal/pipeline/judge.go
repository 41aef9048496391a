package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	noCandidatesCritique = "No suitable hackathons found to evaluate."

	defaultWinProbability = 75.0
	failureWinProbability = 50.0
)

// Judge scores the top-ranked candidate against the user's skills with one
// generative scoring call. It only ever evaluates candidate zero; it never
// compares across candidates. A judging failure must not block generation, so
// the top candidate stays selected even when the scoring call fails.
type Judge struct {
	scoring ScoringService
	timeout time.Duration
	logger  *zap.Logger
}

func NewJudge(scoring ScoringService, timeout time.Duration, logger *zap.Logger) *Judge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{scoring: scoring, timeout: timeout, logger: logger}
}

func (j *Judge) Name() string { return StageJudge }

func (j *Judge) Run(ctx context.Context, state State) Patch {
	if len(state.CandidateMatches) == 0 {
		j.logger.Info("no candidates in state, skipping judge simulation",
			zap.String("user_id", state.UserID),
		)
		return Patch{
			WinProbability: floatPtr(0.0),
			JudgeCritique:  strPtr(noCandidatesCritique),
		}
	}

	bestMatch := state.CandidateMatches[0]

	userPrompt := fmt.Sprintf("User Skills: %s. Problem Statement: %s",
		strings.Join(state.Skills, ", "), bestMatch.ProblemStatement)

	callCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	raw, err := j.scoring.CompleteJSON(callCtx, judgeSystemPrompt, userPrompt)
	if err == nil {
		if winProb, critique, parseErr := parseVerdict(raw); parseErr == nil {
			return Patch{
				SelectedHackathon: &bestMatch,
				WinProbability:    floatPtr(winProb),
				JudgeCritique:     strPtr(critique),
			}
		} else {
			err = parseErr
		}
	}

	j.logger.Warn("judge simulation failed, using fallback verdict",
		zap.String("user_id", state.UserID),
		zap.String("candidate_id", bestMatch.ID),
		zap.Error(err),
	)

	return Patch{
		SelectedHackathon: &bestMatch,
		WinProbability:    floatPtr(failureWinProbability),
		JudgeCritique:     strPtr(fmt.Sprintf("AI simulation failed due to technical error: %s", err)),
	}
}

// parseVerdict extracts win_probability and critique from the raw scoring
// response. A missing or malformed field falls back to a default; a body that
// is not JSON at all is a call failure.
func parseVerdict(raw string) (float64, string, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return 0, "", fmt.Errorf("parse judge response: %w", err)
	}

	winProb := defaultWinProbability
	if v, ok := payload["win_probability"]; ok {
		if f, ok := coerceFloat(v); ok {
			winProb = f
		}
	}
	winProb = clampProbability(winProb)

	critique := raw
	if s, ok := payload["critique"].(string); ok && strings.TrimSpace(s) != "" {
		critique = s
	}

	return winProb, critique, nil
}

func clampProbability(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// extractJSON strips markdown code fences the model may wrap around the body.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}
