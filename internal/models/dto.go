package models

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateProfileRequest struct {
	FullName       *string  `json:"full_name,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	GitHubUsername *string  `json:"github_username,omitempty"`
}

type AgentRunRequest struct {
	ProfileText string `json:"profile_text,omitempty"`
	// Force skips the cached result and runs the pipeline again.
	Force bool `json:"force,omitempty"`
}

type AgentRunResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type AgentResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *AgentRunResult `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

// AgentRunResult is the user-facing slice of a completed run. It is also the
// JSON shape cached in redis.
type AgentRunResult struct {
	SelectedID      string  `json:"selected_id,omitempty"`
	SelectedTitle   string  `json:"selected_title,omitempty"`
	SelectedScore   float64 `json:"selected_score,omitempty"`
	WinProbability  float64 `json:"win_probability"`
	JudgeCritique   string  `json:"judge_critique"`
	BoilerplateFile string  `json:"boilerplate_file,omitempty"`
}

type HackathonListResponse struct {
	Data  []Hackathon `json:"data"`
	Total int64       `json:"total"`
}
