package models

import (
	"time"

	"github.com/google/uuid"
)

type AgentRunStatus string

const (
	StatusQueued     AgentRunStatus = "queued"
	StatusProcessing AgentRunStatus = "processing"
	StatusCompleted  AgentRunStatus = "completed"
	StatusFailed     AgentRunStatus = "failed"
)

// AgentRun is one recorded execution of the recommendation pipeline.
type AgentRun struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Status            AgentRunStatus `gorm:"not null;default:'queued'" json:"status"`
	ProfileText       string         `gorm:"type:text" json:"profile_text,omitempty"`
	SelectedID        *string        `gorm:"type:text" json:"selected_id,omitempty"`
	SelectedTitle     *string        `gorm:"type:text" json:"selected_title,omitempty"`
	SelectedScore     *float64       `gorm:"type:decimal(4,3)" json:"selected_score,omitempty"`
	WinProbability    *float64       `gorm:"type:decimal(5,2)" json:"win_probability,omitempty"`
	JudgeCritique     *string        `gorm:"type:text" json:"judge_critique,omitempty"`
	BoilerplateFile   *string        `gorm:"type:text" json:"boilerplate_file,omitempty"`
	ErrorMessage      *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (AgentRun) TableName() string {
	return "agent_runs"
}
