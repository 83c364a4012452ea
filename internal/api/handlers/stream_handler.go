package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/reward"
	"github.com/spec-agent/backend/internal/storage/models"
	"github.com/spec-agent/backend/internal/training"
	"github.com/spec-agent/backend/pkg/logger"
)

// StreamHandler pushes each training iteration over a websocket as it
// completes, then a final message with the aggregated insights.
type StreamHandler struct {
	controller        *training.Controller
	defaultIterations int
	defaultMode       reward.Mode
}

func NewStreamHandler(controller *training.Controller, defaultIterations int, defaultMode reward.Mode) *StreamHandler {
	return &StreamHandler{
		controller:        controller,
		defaultIterations: defaultIterations,
		defaultMode:       defaultMode,
	}
}

func (h *StreamHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type          string `json:"type"`
			Prompt        string `json:"prompt"`
			MaxIterations int    `json:"max_iterations"`
			RewardMode    string `json:"reward_mode"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Error("Failed to read WebSocket message", zap.Error(err))
			break
		}

		if msg.Type != "train" {
			continue
		}

		if msg.Prompt == "" {
			h.sendError(c, "Prompt is required")
			continue
		}

		logger.Info("Streaming training run", zap.String("prompt", msg.Prompt))

		err = h.streamRun(c, msg.Prompt, msg.MaxIterations, msg.RewardMode)
		if err != nil {
			logger.Error("Failed to stream training run", zap.Error(err))
			h.sendError(c, "Training run failed")
		}
	}
}

func (h *StreamHandler) streamRun(c *websocket.Conn, prompt string, maxIterations int, mode string) error {
	ctx := context.Background()

	opts := training.Options{
		MaxIterations: h.defaultIterations,
		RewardMode:    h.defaultMode,
		Resilient:     true,
		OnIteration: func(rec models.IterationRecord) {
			h.sendIteration(c, rec)
		},
	}
	if maxIterations > 0 {
		opts.MaxIterations = maxIterations
	}
	if mode != "" {
		opts.RewardMode = reward.ParseMode(mode)
	}

	result, err := h.controller.Run(ctx, prompt, opts)
	if err != nil {
		return err
	}

	return h.sendComplete(c, result)
}

func (h *StreamHandler) sendIteration(c *websocket.Conn, rec models.IterationRecord) {
	msg := map[string]interface{}{
		"type":      "iteration",
		"iteration": rec,
	}

	if err := c.WriteJSON(msg); err != nil {
		logger.Warn("Failed to write iteration message", zap.Error(err))
	}
}

func (h *StreamHandler) sendComplete(c *websocket.Conn, result *training.Result) error {
	msg := map[string]interface{}{
		"type":       "complete",
		"session_id": result.SessionID,
		"final_spec": result.FinalSpec,
		"insights":   result.Insights,
	}

	return c.WriteJSON(msg)
}

func (h *StreamHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}
