package pipeline

// CandidateMatch is one hackathon opportunity returned by similarity search.
type CandidateMatch struct {
	ID               string  `json:"id"`
	Score            float64 `json:"score"`
	Title            string  `json:"title"`
	ProblemStatement string  `json:"problem_statement"`
}

// GenerationResult always carries a non-empty content string: either
// generated code or a placeholder comment.
type GenerationResult struct {
	Content string `json:"content"`
}

// State is the accumulating object threaded through all stages. It is owned
// exclusively by the orchestrator for the lifetime of one run.
type State struct {
	UserID         string   `json:"user_id"`
	GitHubUsername string   `json:"github_username,omitempty"`
	ProfileText    string   `json:"profile_text,omitempty"`
	Skills         []string `json:"skills"`

	GitHubSummary string `json:"github_summary"`

	// Never nil after the match stage; empty means "no match".
	CandidateMatches []CandidateMatch `json:"candidate_matches"`

	SelectedHackathon *CandidateMatch `json:"selected_hackathon,omitempty"`
	WinProbability    float64         `json:"win_probability"`
	JudgeCritique     string          `json:"judge_critique"`

	BoilerplateCode GenerationResult `json:"boilerplate_code"`
}

// Patch is the partial state update a stage returns. A nil field means the
// stage left that field untouched; merging is last writer wins.
type Patch struct {
	Skills            []string          `json:"skills,omitempty"`
	GitHubSummary     *string           `json:"github_summary,omitempty"`
	CandidateMatches  []CandidateMatch  `json:"candidate_matches,omitempty"`
	SelectedHackathon *CandidateMatch   `json:"selected_hackathon,omitempty"`
	WinProbability    *float64          `json:"win_probability,omitempty"`
	JudgeCritique     *string           `json:"judge_critique,omitempty"`
	BoilerplateCode   *GenerationResult `json:"boilerplate_code,omitempty"`
}

// apply folds a patch into the state and returns the updated copy.
func (s State) apply(p Patch) State {
	if p.Skills != nil {
		s.Skills = p.Skills
	}
	if p.GitHubSummary != nil {
		s.GitHubSummary = *p.GitHubSummary
	}
	if p.CandidateMatches != nil {
		s.CandidateMatches = p.CandidateMatches
	}
	if p.SelectedHackathon != nil {
		s.SelectedHackathon = p.SelectedHackathon
	}
	if p.WinProbability != nil {
		s.WinProbability = *p.WinProbability
	}
	if p.JudgeCritique != nil {
		s.JudgeCritique = *p.JudgeCritique
	}
	if p.BoilerplateCode != nil {
		s.BoilerplateCode = *p.BoilerplateCode
	}
	return s
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
