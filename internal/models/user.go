package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email          string         `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Username       string         `gorm:"type:text;uniqueIndex;not null" json:"username"`
	PasswordHash   string         `gorm:"type:text;not null" json:"-"`
	FullName       string         `gorm:"type:text" json:"full_name"`
	Bio            string         `gorm:"type:text" json:"bio"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills"`
	GitHubUsername string         `gorm:"type:text" json:"github_username"`
	CreatedAt      time.Time      `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (u *User) TableName() string {
	return "users"
}
