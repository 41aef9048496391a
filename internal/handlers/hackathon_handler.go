package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hackquest/agent-api/internal/models"
	"hackquest/agent-api/internal/repositories"
)

type HackathonHandler struct {
	hackathonRepo repositories.HackathonRepository
}

func NewHackathonHandler(hackathonRepo repositories.HackathonRepository) *HackathonHandler {
	return &HackathonHandler{hackathonRepo: hackathonRepo}
}

// HandleList handles GET /hackathons
func (h *HackathonHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.HackathonFilter{
		Platform:   c.Query("platform"),
		Difficulty: c.Query("difficulty"),
		Offset:     c.QueryInt("skip", 0),
		Limit:      c.QueryInt("limit", 20),
	}

	hackathons, total, err := h.hackathonRepo.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve hackathons",
		})
	}

	return c.JSON(models.HackathonListResponse{
		Data:  hackathons,
		Total: total,
	})
}

// HandleGet handles GET /hackathons/:id
func (h *HackathonHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hackathon id",
		})
	}

	hackathon, err := h.hackathonRepo.FindByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "hackathon not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve hackathon",
		})
	}

	return c.JSON(hackathon)
}
