package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hackquest/agent-api/internal/models"
	"hackquest/agent-api/internal/repositories"
	"hackquest/agent-api/internal/services"
)

type AgentHandler struct {
	runRepo repositories.AgentRunRepository
	cache   services.CacheService
	storage services.StorageService
	worker  services.Worker
}

func NewAgentHandler(
	runRepo repositories.AgentRunRepository,
	cache services.CacheService,
	storage services.StorageService,
	worker services.Worker,
) *AgentHandler {
	return &AgentHandler{
		runRepo: runRepo,
		cache:   cache,
		storage: storage,
		worker:  worker,
	}
}

// HandleRun handles POST /agent/run
func (h *AgentHandler) HandleRun(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req models.AgentRunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	// A recent completed run short-circuits the queue unless the caller
	// forces a fresh one.
	if !req.Force {
		if cached, ok := h.cache.GetResult(c.UserContext(), userID.String()); ok {
			return c.JSON(fiber.Map{
				"status": "cached",
				"result": cached,
			})
		}
	}
	h.cache.InvalidateResult(c.UserContext(), userID.String())

	run := &models.AgentRun{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      models.StatusQueued,
		ProfileText: req.ProfileText,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.runRepo.Create(run); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create agent run",
		})
	}

	h.worker.EnqueueRun(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AgentRunResponse{
		ID:     run.ID.String(),
		Status: string(run.Status),
	})
}

// HandleGetResult handles GET /agent/result/:id
func (h *AgentHandler) HandleGetResult(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	run, err := h.findOwnedRun(c, userID)
	if run == nil {
		return err
	}

	resp := models.AgentResultResponse{
		ID:           run.ID.String(),
		Status:       string(run.Status),
		ErrorMessage: run.ErrorMessage,
	}

	if run.Status == models.StatusCompleted {
		result := &models.AgentRunResult{}
		if run.SelectedID != nil {
			result.SelectedID = *run.SelectedID
		}
		if run.SelectedTitle != nil {
			result.SelectedTitle = *run.SelectedTitle
		}
		if run.SelectedScore != nil {
			result.SelectedScore = *run.SelectedScore
		}
		if run.WinProbability != nil {
			result.WinProbability = *run.WinProbability
		}
		if run.JudgeCritique != nil {
			result.JudgeCritique = *run.JudgeCritique
		}
		if run.BoilerplateFile != nil {
			result.BoilerplateFile = *run.BoilerplateFile
		}
		resp.Result = result
	}

	return c.JSON(resp)
}

// HandleDownload handles GET /agent/result/:id/download
func (h *AgentHandler) HandleDownload(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	run, err := h.findOwnedRun(c, userID)
	if run == nil {
		return err
	}

	if run.Status != models.StatusCompleted || run.BoilerplateFile == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "run has no generated boilerplate",
		})
	}

	path, err := h.storage.GetFilePath(*run.BoilerplateFile)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "boilerplate file not found",
		})
	}

	return c.Download(path)
}

// findOwnedRun resolves the :id param to a run owned by the caller. On
// failure it writes the error response and returns a nil run.
func (h *AgentHandler) findOwnedRun(c *fiber.Ctx, userID uuid.UUID) (*models.AgentRun, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid run id",
		})
	}

	run, err := h.runRepo.FindByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	}
	if err != nil {
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve run",
		})
	}

	if run.UserID != userID {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	}

	return run, nil
}
