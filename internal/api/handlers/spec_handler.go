package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/cache/redis"
	"github.com/spec-agent/backend/internal/evaluation"
	"github.com/spec-agent/backend/internal/generator"
	"github.com/spec-agent/backend/internal/scoring"
	"github.com/spec-agent/backend/internal/spec"
	"github.com/spec-agent/backend/pkg/logger"
	"github.com/spec-agent/backend/pkg/utils"
)

const evaluationCacheTTL = 15 * time.Minute

type SpecHandler struct {
	generator *generator.Generator
	scorer    *scoring.Scorer
	cache     *redis.Client
}

func NewSpecHandler(gen *generator.Generator, scorer *scoring.Scorer, cache *redis.Client) *SpecHandler {
	return &SpecHandler{
		generator: gen,
		scorer:    scorer,
		cache:     cache,
	}
}

type specResponse struct {
	Specification spec.Specification        `json:"specification"`
	Quality       scoring.QualityScore      `json:"quality"`
	Rules         evaluation.RuleEvaluation `json:"rules"`
	Evaluation    evaluation.Evaluation     `json:"evaluation"`
	Cached        bool                      `json:"cached"`
}

// HandleGenerate produces and scores a single specification without running
// the training loop. Results are cached per prompt since generation and
// scoring are deterministic.
func (h *SpecHandler) HandleGenerate(c *fiber.Ctx) error {
	var req struct {
		Prompt string `json:"prompt"`
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

	promptHash := utils.PromptKey(req.Prompt)

	if h.cache != nil {
		var cached specResponse
		found, err := h.cache.GetEvaluation(c.Context(), promptHash, &cached)
		if err != nil {
			logger.Warn("Evaluation cache lookup failed", zap.Error(err))
		}
		if found {
			cached.Cached = true
			return c.JSON(cached)
		}
	}

	sp, err := h.generator.Generate(req.Prompt)
	if err != nil {
		if errors.Is(err, generator.ErrPromptTooShort) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": generator.ErrPromptTooShort.Error(),
			})
		}
		logger.Error("Failed to generate specification", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate specification",
		})
	}

	resp := specResponse{
		Specification: sp,
		Quality:       h.scorer.Score(req.Prompt, sp),
		Rules:         evaluation.CheckRules(req.Prompt, sp),
		Evaluation:    evaluation.EvaluateWeighted(req.Prompt, sp),
	}

	if h.cache != nil {
		if err := h.cache.SetEvaluation(c.Context(), promptHash, resp, evaluationCacheTTL); err != nil {
			logger.Warn("Failed to cache evaluation", zap.Error(err))
		}
	}

	return c.JSON(resp)
}
