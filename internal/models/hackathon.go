package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Hackathon struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title            string         `gorm:"type:text;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	ProblemStatement string         `gorm:"type:text" json:"problem_statement"`
	Platform         string         `gorm:"type:text" json:"platform"`
	URL              string         `gorm:"type:text" json:"url"`
	Difficulty       string         `gorm:"type:text;default:'intermediate'" json:"difficulty"`
	RequiredSkills   pq.StringArray `gorm:"type:text[]" json:"required_skills"`
	PrizePool        string         `gorm:"type:text" json:"prize_pool"`
	StartDate        *time.Time     `gorm:"type:timestamp" json:"start_date,omitempty"`
	EndDate          *time.Time     `gorm:"type:timestamp" json:"end_date,omitempty"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (h *Hackathon) TableName() string {
	return "hackathons"
}
