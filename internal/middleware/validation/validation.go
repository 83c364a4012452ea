package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/pkg/logger"
)

var (
	// "create" is deliberately absent: prompts routinely start with it.
	sqlInjectionPattern = regexp.MustCompile(`(?i)(union|select|insert|update|delete|drop\s+table|alter|exec|script|javascript|onerror|onload)`)
	xssPattern          = regexp.MustCompile(`(?i)(<script|<iframe|javascript:|onerror=|onload=|onclick=)`)
)

type Config struct {
	MaxPromptLength     int
	AllowedContentTypes []string
}

// Middleware validates prompt-bearing request bodies before they reach the
// handlers. Prompts feed SQL history queries and are echoed back in
// responses, so injection patterns are rejected outright.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxPromptLength == 0 {
		cfg.MaxPromptLength = 2000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == "POST" || c.Method() == "PUT" {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		path := c.Path()

		if c.Method() == "POST" && (strings.Contains(path, "/api/v1/specs") || strings.Contains(path, "/api/v1/training")) {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			prompt, ok := req["prompt"].(string)
			if !ok || prompt == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Prompt is required and must be a string",
				})
			}

			if len(prompt) > cfg.MaxPromptLength {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Prompt exceeds maximum length",
				})
			}

			if containsSQLInjection(prompt) {
				logger.Warn("Potential SQL injection attempt",
					zap.String("ip", c.IP()),
					zap.String("prompt", prompt),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid prompt content",
				})
			}

			if containsXSS(prompt) {
				logger.Warn("Potential XSS attempt",
					zap.String("ip", c.IP()),
					zap.String("prompt", prompt),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid prompt content",
				})
			}
		}

		return c.Next()
	}
}

func containsSQLInjection(input string) bool {
	return sqlInjectionPattern.MatchString(input)
}

func containsXSS(input string) bool {
	return xssPattern.MatchString(input)
}
