package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/extract"
	"github.com/spec-agent/backend/internal/spec"
	"github.com/spec-agent/backend/pkg/logger"
)

// ErrPromptTooShort rejects prompts under 3 characters before extraction runs.
var ErrPromptTooShort = errors.New("prompt must be at least 3 characters")

type Generator struct {
	extractor *extract.Extractor
}

func NewGenerator(extractor *extract.Extractor) *Generator {
	return &Generator{extractor: extractor}
}

// defaultMaterialFor backs the invariant that materials are never empty
// after generation.
func defaultMaterialFor(category spec.Category) spec.MaterialEntry {
	switch category {
	case spec.CategoryFurniture:
		return spec.MaterialEntry{Type: "wood", Grade: "standard"}
	default:
		return spec.MaterialEntry{Type: "steel", Grade: "structural"}
	}
}

var defaultPurposeByCategory = map[spec.Category]string{
	spec.CategoryFurniture:   "household use",
	spec.CategoryOffice:      "commercial workspace",
	spec.CategoryResidential: "housing",
}

// Generate builds a candidate specification from a prompt using extraction
// plus rule-based fallbacks for every field the prompt leaves open.
func (g *Generator) Generate(prompt string) (spec.Specification, error) {
	trimmed := strings.TrimSpace(prompt)
	if len(trimmed) < 3 {
		return spec.Specification{}, fmt.Errorf("generate %q: %w", prompt, ErrPromptTooShort)
	}

	fields := g.extractor.Extract(trimmed)

	s := spec.Specification{
		Type:         spec.TypeUnknown,
		Features:     []string{},
		Requirements: []string{trimmed},
		Timestamp:    time.Now(),
	}

	if fields.Type != "" {
		s.Type = fields.Type
	}

	category := spec.CategoryOf(s.Type)

	for _, name := range fields.Materials {
		s.Materials = append(s.Materials, spec.MaterialEntry{Type: name})
	}
	if len(s.Materials) == 0 {
		s.Materials = []spec.MaterialEntry{defaultMaterialFor(category)}
	}

	if fields.DimensionsRaw != "" {
		if parsed, ok := spec.ParseDimensions(fields.DimensionsRaw); ok {
			s.Dimensions = parsed
		} else {
			s.Dimensions.Raw = fields.DimensionsRaw
		}
	}

	if fields.Purpose != "" {
		s.Purpose = fields.Purpose
	} else if p, ok := defaultPurposeByCategory[category]; ok {
		s.Purpose = p
	} else {
		s.Purpose = "general"
	}

	s.Features = append(s.Features, fields.Features...)

	logger.Debug("Specification generated",
		zap.String("type", s.Type),
		zap.Int("materials", len(s.Materials)),
		zap.Bool("dimensions", !s.Dimensions.IsZero()),
	)

	return s, nil
}
