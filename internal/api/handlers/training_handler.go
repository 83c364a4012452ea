package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/history"
	"github.com/spec-agent/backend/internal/reward"
	"github.com/spec-agent/backend/internal/training"
	"github.com/spec-agent/backend/pkg/logger"
)

type TrainingHandler struct {
	controller        *training.Controller
	hist              history.Store
	defaultIterations int
	defaultMode       reward.Mode
}

func NewTrainingHandler(controller *training.Controller, hist history.Store, defaultIterations int, defaultMode reward.Mode) *TrainingHandler {
	return &TrainingHandler{
		controller:        controller,
		hist:              hist,
		defaultIterations: defaultIterations,
		defaultMode:       defaultMode,
	}
}

// HandleRun executes a full training session synchronously and returns the
// iteration history plus aggregated insights.
func (h *TrainingHandler) HandleRun(c *fiber.Ctx) error {
	var req struct {
		Prompt        string `json:"prompt"`
		MaxIterations int    `json:"max_iterations"`
		RewardMode    string `json:"reward_mode"`
		Resilient     bool   `json:"resilient"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}

	opts := training.Options{
		MaxIterations: h.defaultIterations,
		RewardMode:    h.defaultMode,
		Resilient:     req.Resilient,
	}
	if req.MaxIterations > 0 {
		opts.MaxIterations = req.MaxIterations
	}
	if req.RewardMode != "" {
		opts.RewardMode = reward.ParseMode(req.RewardMode)
	}

	result, err := h.controller.Run(c.Context(), req.Prompt, opts)
	if err != nil {
		logger.Error("Training run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Training run failed",
		})
	}

	return c.JSON(result)
}

// HandleGetSession returns the stored iteration history for one session.
func (h *TrainingHandler) HandleGetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session id is required",
		})
	}

	records, err := h.hist.Query(sessionID)
	if err != nil {
		logger.Error("Failed to load session history", zap.Error(err), zap.String("session_id", sessionID))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load session history",
		})
	}

	if len(records) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"iterations": records,
	})
}
