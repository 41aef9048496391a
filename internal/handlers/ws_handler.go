package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackquest/agent-api/internal/auth"
	"hackquest/agent-api/internal/pipeline"
	"hackquest/agent-api/internal/repositories"
	"hackquest/agent-api/internal/services"
)

type wsRequest struct {
	Event       string   `json:"event"`
	Skills      []string `json:"skills,omitempty"`
	ProfileText string   `json:"profile_text,omitempty"`
}

// WSHandler serves the live agent socket (stage-by-stage progress of one
// pipeline run) and the notifications socket (redis pub/sub fan-out).
type WSHandler struct {
	authService *auth.Service
	userRepo    repositories.UserRepository
	pipe        *pipeline.Pipeline
	cache       services.CacheService
	logger      *zap.Logger
}

func NewWSHandler(
	authService *auth.Service,
	userRepo repositories.UserRepository,
	pipe *pipeline.Pipeline,
	cache services.CacheService,
	logger *zap.Logger,
) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		authService: authService,
		userRepo:    userRepo,
		pipe:        pipe,
		cache:       cache,
		logger:      logger,
	}
}

// Upgrade gates the websocket routes and authenticates the token query param
// before the protocol switch.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, err := h.authService.ParseToken(c.Query("token"))
	if err != nil {
		return fiber.ErrUnauthorized
	}

	c.Locals(userIDLocal, userID)
	return c.Next()
}

// HandleAgent handles GET /ws/agent
func (h *WSHandler) HandleAgent() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(userIDLocal).(uuid.UUID)
		if !ok {
			return
		}

		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				h.logger.Debug("agent socket closed", zap.String("user_id", userID.String()))
				return
			}

			switch req.Event {
			case "ping":
				if err := conn.WriteJSON(fiber.Map{"event": "pong"}); err != nil {
					return
				}
			case "find_matches":
				if !h.streamRun(conn, userID, &req) {
					return
				}
			default:
				if err := conn.WriteJSON(fiber.Map{"event": "error", "message": "unknown event"}); err != nil {
					return
				}
			}
		}
	})
}

// streamRun executes one pipeline run and forwards each stage event to the
// client. Returns false when the connection is gone.
func (h *WSHandler) streamRun(conn *websocket.Conn, userID uuid.UUID, req *wsRequest) bool {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return conn.WriteJSON(fiber.Map{"event": "error", "message": "user not found"}) == nil
	}

	skills := req.Skills
	if len(skills) == 0 {
		skills = user.Skills
	}

	input := pipeline.Input{
		UserID:         user.ID.String(),
		GitHubUsername: user.GitHubUsername,
		ProfileText:    req.ProfileText,
		Skills:         skills,
	}

	if err := conn.WriteJSON(fiber.Map{
		"event":    "status",
		"message":  "Finding hackathon matches...",
		"progress": 0,
	}); err != nil {
		return false
	}

	events, err := h.pipe.RunStream(ctx, input)
	if err != nil {
		return conn.WriteJSON(fiber.Map{"event": "error", "message": err.Error()}) == nil
	}

	stageIndex := 0
	for event := range events {
		if event.Stage == pipeline.EventComplete {
			if err := conn.WriteJSON(fiber.Map{
				"event":    "complete",
				"progress": 100,
				"data":     event.Final,
			}); err != nil {
				return false
			}
			continue
		}

		stageIndex++
		if err := conn.WriteJSON(fiber.Map{
			"event":    "stage",
			"stage":    event.Stage,
			"progress": stageIndex * 100 / 4,
			"patch":    event.Patch,
		}); err != nil {
			// Client is gone: cancel so the orchestrator stops issuing
			// further stage calls.
			cancel()
			return false
		}
	}

	return true
}

// HandleNotifications handles GET /ws/notifications
func (h *WSHandler) HandleNotifications() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(userIDLocal).(uuid.UUID)
		if !ok {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub := h.cache.SubscribeNotifications(ctx, userID.String())
		defer sub.Close()

		// Reader goroutine only watches for the client closing the socket.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var payload json.RawMessage = []byte(msg.Payload)
				if err := conn.WriteJSON(fiber.Map{
					"event": "notification",
					"data":  payload,
				}); err != nil {
					return
				}
			}
		}
	})
}
