package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackquest/agent-api/internal/models"
)

type HackathonFilter struct {
	Platform   string
	Difficulty string
	Offset     int
	Limit      int
}

type HackathonRepository interface {
	Upsert(hackathon *models.Hackathon) error
	FindByID(id uuid.UUID) (*models.Hackathon, error)
	List(filter HackathonFilter) ([]models.Hackathon, int64, error)
}

type hackathonRepository struct {
	db *gorm.DB
}

func NewHackathonRepository(db *gorm.DB) HackathonRepository {
	return &hackathonRepository{db: db}
}

// Upsert implements HackathonRepository.
func (r *hackathonRepository) Upsert(hackathon *models.Hackathon) error {
	if err := r.db.Save(hackathon).Error; err != nil {
		return fmt.Errorf("failed to upsert hackathon: %w", err)
	}
	return nil
}

// FindByID implements HackathonRepository.
func (r *hackathonRepository) FindByID(id uuid.UUID) (*models.Hackathon, error) {
	var hackathon models.Hackathon
	if err := r.db.Where("id = ?", id).First(&hackathon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hackathon: %w", err)
	}
	return &hackathon, nil
}

// List implements HackathonRepository.
func (r *hackathonRepository) List(filter HackathonFilter) ([]models.Hackathon, int64, error) {
	query := r.db.Model(&models.Hackathon{}).Where("is_active = ?", true)

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count hackathons: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var hackathons []models.Hackathon
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&hackathons).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list hackathons: %w", err)
	}

	return hackathons, total, nil
}
