package scoring

import (
	"fmt"

	"github.com/spec-agent/backend/internal/spec"
)

// QualityScore is the 0-10 rubric consumed by the reward function and retry
// decisions. The four sub-scores exhaust the budget exactly: 4+3+2+1 = 10.
type QualityScore struct {
	FormatScore            float64  `json:"format_score"`
	CompletenessScore      int      `json:"completeness_score"`
	MaterialRealismScore   int      `json:"material_realism_score"`
	DimensionValidityScore int      `json:"dimension_validity_score"`
	TypeMatchScore         int      `json:"type_match_score"`
	Explanations           []string `json:"explanations"`
}

const (
	MaxCompleteness      = 4
	MaxMaterialRealism   = 3
	MaxDimensionValidity = 2
	MaxTypeMatch         = 1
)

type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score is a pure function of (prompt, spec); no history, no side effects.
func (s *Scorer) Score(prompt string, sp spec.Specification) QualityScore {
	qs := QualityScore{}

	qs.CompletenessScore, qs.Explanations = scoreCompleteness(sp, qs.Explanations)
	qs.MaterialRealismScore, qs.Explanations = scoreMaterialRealism(sp, qs.Explanations)
	qs.DimensionValidityScore, qs.Explanations = scoreDimensionValidity(sp, qs.Explanations)
	qs.TypeMatchScore, qs.Explanations = scoreTypeMatch(prompt, sp, qs.Explanations)

	total := qs.CompletenessScore + qs.MaterialRealismScore +
		qs.DimensionValidityScore + qs.TypeMatchScore
	qs.FormatScore = float64(total)

	return qs
}

func scoreCompleteness(sp spec.Specification, notes []string) (int, []string) {
	score := 0

	if !spec.IsPlaceholder(sp.Type) {
		score++
	} else {
		notes = append(notes, "type is missing or a placeholder")
	}

	if len(sp.MaterialNames()) > 0 {
		score++
	} else {
		notes = append(notes, "no usable materials listed")
	}

	if !sp.Dimensions.IsZero() && sp.Dimensions.Parseable() {
		score++
	} else {
		notes = append(notes, "dimensions are missing or unparseable")
	}

	if sp.Purpose != "" && !spec.IsPlaceholder(sp.Purpose) {
		score++
	} else {
		notes = append(notes, "purpose is missing or generic")
	}

	return score, notes
}

func scoreMaterialRealism(sp spec.Specification, notes []string) (int, []string) {
	names := sp.MaterialNames()
	if len(names) == 0 {
		notes = append(notes, "no materials specified")
		return 0, notes
	}

	recognized := 0
	for _, name := range names {
		if spec.IsKnownMaterial(name) {
			recognized++
		}
	}

	switch {
	case recognized == len(names):
		return MaxMaterialRealism, notes
	case recognized > 0:
		notes = append(notes, fmt.Sprintf("%d of %d materials unrecognized", len(names)-recognized, len(names)))
		return 1, notes
	default:
		notes = append(notes, "no recognized materials")
		return 0, notes
	}
}

func scoreDimensionValidity(sp spec.Specification, notes []string) (int, []string) {
	resolved, ok := sp.Dimensions.Resolved()
	if !ok {
		notes = append(notes, "no parseable dimension values")
		return 0, notes
	}

	if !resolved.InSaneRanges() {
		notes = append(notes, "dimension values outside sane ranges")
		return 1, notes
	}

	return MaxDimensionValidity, notes
}

func scoreTypeMatch(prompt string, sp spec.Specification, notes []string) (int, []string) {
	if spec.TypeMatchesPrompt(sp.Type, prompt) {
		return MaxTypeMatch, notes
	}
	notes = append(notes, "type does not appear in prompt")
	return 0, notes
}
