package extract

import (
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/pkg/logger"
)

// RawFields is the untyped output of free-text extraction, consumed by the
// generator to assemble a Specification.
type RawFields struct {
	Type          string
	Materials     []string
	DimensionsRaw string
	Purpose       string
	Features      []string
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

var typeKeywords = map[string]string{
	"office":    "office",
	"house":     "house",
	"home":      "house",
	"apartment": "apartment",
	"villa":     "villa",
	"cottage":   "cottage",
	"library":   "library",
	"school":    "school",
	"warehouse": "warehouse",
	"bridge":    "bridge",
	"table":     "table",
	"desk":      "desk",
	"chair":     "chair",
	"sofa":      "sofa",
	"bed":       "bed",
	"shelf":     "shelf",
	"bookshelf": "shelf",
	"cabinet":   "cabinet",
	"wardrobe":  "wardrobe",
}

var materialKeywords = map[string]string{
	"wood":      "wood",
	"wooden":    "wood",
	"timber":    "wood",
	"oak":       "oak",
	"pine":      "pine",
	"steel":     "steel",
	"metal":     "metal",
	"iron":      "iron",
	"aluminum":  "aluminum",
	"aluminium": "aluminum",
	"concrete":  "concrete",
	"cement":    "concrete",
	"brick":     "brick",
	"stone":     "stone",
	"marble":    "marble",
	"granite":   "granite",
	"glass":     "glass",
	"bamboo":    "bamboo",
	"plastic":   "plastic",
}

var purposeKeywords = map[string]string{
	"dining":      "dining",
	"living":      "living",
	"sleeping":    "sleeping",
	"working":     "working",
	"reading":     "reading",
	"storage":     "storage",
	"commercial":  "commercial",
	"residential": "residential",
	"education":   "education",
	"study":       "study",
}

var featureKeywords = []string{
	"parking", "balcony", "garden", "elevator", "pool",
	"garage", "terrace", "basement", "fireplace", "skylight",
	"solar", "drawers", "wheels", "foldable", "adjustable",
}

// dimensionPhrase captures the dimension-bearing fragment of a prompt so the
// spec keeps the raw text alongside parsed values.
var dimensionPhrase = regexp.MustCompile(
	`(?i)\d+(?:\.\d+)?\s*(?:[x×]\s*\d+(?:\.\d+)?)?[\s-]*` +
		`(?:sqm|sq\.?\s*m|square\s*met(?:er|re)s?|feet|ft|met(?:er|re)s?|cm|inches|in|m\b|floors?|storeys?|stor(?:y|ies))`)

// Extract pulls structured fields out of a free-text prompt. Tokenization
// runs through prose; field recognition is keyword tables plus regexes.
// Extraction never fails — unknown prompts just produce sparse fields.
func (e *Extractor) Extract(prompt string) RawFields {
	fields := RawFields{}

	tokens := tokenize(prompt)

	seenMaterials := map[string]bool{}
	for _, tok := range tokens {
		if fields.Type == "" {
			if t, ok := typeKeywords[tok]; ok {
				fields.Type = t
			}
		}
		if m, ok := materialKeywords[tok]; ok && !seenMaterials[m] {
			seenMaterials[m] = true
			fields.Materials = append(fields.Materials, m)
		}
		if fields.Purpose == "" {
			if p, ok := purposeKeywords[tok]; ok {
				fields.Purpose = p
			}
		}
		for _, f := range featureKeywords {
			if tok == f && !contains(fields.Features, f) {
				fields.Features = append(fields.Features, f)
			}
		}
	}

	if m := dimensionPhrase.FindString(prompt); m != "" {
		fields.DimensionsRaw = strings.TrimSpace(m)
	}

	return fields
}

// tokenize lowercases prose tokens; on tokenizer failure it degrades to a
// whitespace split rather than dropping the prompt.
func tokenize(prompt string) []string {
	doc, err := prose.NewDocument(prompt,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		logger.Debug("Tokenizer failed, falling back to field split", zap.Error(err))
		return strings.Fields(strings.ToLower(prompt))
	}

	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, strings.ToLower(strings.Trim(t.Text, ".,!?-")))
	}
	return out
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
