package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hackquest/agent-api/internal/models"
)

type AgentRunRepository interface {
	Create(run *models.AgentRun) error
	FindByID(id uuid.UUID) (*models.AgentRun, error)
	UpdateStatus(id uuid.UUID, status models.AgentRunStatus) error
	UpdateResult(id uuid.UUID, result *AgentRunUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingRuns(limit int) ([]models.AgentRun, error)
}

type AgentRunUpdateData struct {
	SelectedID      *string
	SelectedTitle   *string
	SelectedScore   *float64
	WinProbability  *float64
	JudgeCritique   *string
	BoilerplateFile *string
}

type agentRunRepository struct {
	db *gorm.DB
}

func NewAgentRunRepository(db *gorm.DB) AgentRunRepository {
	return &agentRunRepository{db: db}
}

func (r *agentRunRepository) Create(run *models.AgentRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create agent run: %w", err)
	}
	return nil
}

func (r *agentRunRepository) FindByID(id uuid.UUID) (*models.AgentRun, error) {
	var run models.AgentRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find agent run: %w", err)
	}
	return &run, nil
}

func (r *agentRunRepository) UpdateStatus(id uuid.UUID, status models.AgentRunStatus) error {
	result := r.db.Model(&models.AgentRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *agentRunRepository) UpdateResult(id uuid.UUID, data *AgentRunUpdateData) error {
	updates := map[string]interface{}{
		"status":     models.StatusCompleted,
		"updated_at": time.Now(),
	}

	if data.SelectedID != nil {
		updates["selected_id"] = *data.SelectedID
	}
	if data.SelectedTitle != nil {
		updates["selected_title"] = *data.SelectedTitle
	}
	if data.SelectedScore != nil {
		updates["selected_score"] = *data.SelectedScore
	}
	if data.WinProbability != nil {
		updates["win_probability"] = *data.WinProbability
	}
	if data.JudgeCritique != nil {
		updates["judge_critique"] = *data.JudgeCritique
	}
	if data.BoilerplateFile != nil {
		updates["boilerplate_file"] = *data.BoilerplateFile
	}

	result := r.db.Model(&models.AgentRun{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *agentRunRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.AgentRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *agentRunRepository) FindPendingRuns(limit int) ([]models.AgentRun, error) {
	var runs []models.AgentRun
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending runs: %w", err)
	}
	return runs, nil
}
