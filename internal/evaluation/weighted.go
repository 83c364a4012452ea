package evaluation

import (
	"github.com/spec-agent/backend/internal/spec"
)

// Evaluation is the 0-100 weighted rubric. Distinct scale from RuleEvaluation
// severity and from the 0-10 quality score; the loop's stopping decision and
// the continuous/binary reward modes consume this one.
type Evaluation struct {
	Score          float64  `json:"score"`
	Completeness   float64  `json:"completeness"`
	FormatValidity float64  `json:"format_validity"`
	Feasibility    float64  `json:"feasibility"`
	Feedback       []string `json:"feedback"`
	Suggestions    []string `json:"suggestions"`
}

// Fixed weights; must sum to 1.0.
const (
	weightCompleteness   = 0.4
	weightFormatValidity = 0.3
	weightFeasibility    = 0.3
)

// EvaluateWeighted computes the weighted 0-100 evaluation. Sub-scores are
// clamped independently before combination.
func EvaluateWeighted(prompt string, sp spec.Specification) Evaluation {
	completeness := clamp(scoreRequiredFields(sp))
	formatValidity := clamp(scoreFormat(sp))
	feasibility := clamp(scoreFeasibility(sp))

	eval := Evaluation{
		Completeness:   completeness,
		FormatValidity: formatValidity,
		Feasibility:    feasibility,
		Score: completeness*weightCompleteness +
			formatValidity*weightFormatValidity +
			feasibility*weightFeasibility,
	}

	rules := CheckRules(prompt, sp)
	for _, issue := range rules.Issues {
		eval.Feedback = append(eval.Feedback, issueDescriptions[issue])
	}
	if len(eval.Feedback) == 0 {
		eval.Feedback = []string{completeFeedback}
	}
	eval.Suggestions = rules.Suggestions

	return eval
}

// scoreRequiredFields gives 25 points per required field present.
func scoreRequiredFields(sp spec.Specification) float64 {
	score := 0.0
	if !spec.IsPlaceholder(sp.Type) {
		score += 25
	}
	if len(sp.MaterialNames()) > 0 {
		score += 25
	}
	if !sp.Dimensions.IsZero() && sp.Dimensions.Parseable() {
		score += 25
	}
	if sp.Purpose != "" && !spec.IsPlaceholder(sp.Purpose) {
		score += 25
	}
	return score
}

// scoreFormat checks schema and value shape rather than field presence.
func scoreFormat(sp spec.Specification) float64 {
	score := 100.0
	if spec.IsPlaceholder(sp.Type) {
		score -= 20
	}
	if len(sp.Materials) == 0 {
		score -= 25
	}
	if !sp.Dimensions.Parseable() {
		score -= 30
	}
	if len(sp.Requirements) == 0 {
		score -= 10
	}
	if sp.Timestamp.IsZero() {
		score -= 15
	}
	return score
}

// scoreFeasibility applies domain sanity heuristics: excessive story counts,
// incompatible material/structure combinations, implausible sizes.
func scoreFeasibility(sp spec.Specification) float64 {
	score := 100.0

	dims, ok := sp.Dimensions.Resolved()
	if ok {
		if dims.Floors != nil && *dims.Floors > spec.MaxFloors {
			score -= 50
		}
		if !dims.InSaneRanges() {
			score -= 20
		}

		if dims.Floors != nil {
			primary := sp.PrimaryMaterial()
			switch {
			case *dims.Floors > 10 && (primary == "wood" || primary == "bamboo"):
				score -= 30
			case *dims.Floors > 20 && primary == "glass":
				score -= 20
			}
		}
	}

	return score
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PenalizedEvaluation is substituted when rule evaluation itself fails, so
// the loop records a degraded-but-complete iteration instead of crashing.
func PenalizedEvaluation() Evaluation {
	return Evaluation{
		Score:       0,
		Feedback:    []string{"Evaluation failed; specification treated as maximally deficient"},
		Suggestions: []string{},
	}
}
