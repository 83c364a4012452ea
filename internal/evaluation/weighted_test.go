package evaluation

import (
	"math"
	"testing"

	"github.com/spec-agent/backend/internal/spec"
)

func TestEvaluateWeightedCompleteSpec(t *testing.T) {
	eval := EvaluateWeighted("An office building", completeSpec(t))

	if eval.Completeness != 100 {
		t.Errorf("Completeness = %v, want 100", eval.Completeness)
	}
	if eval.FormatValidity != 100 {
		t.Errorf("FormatValidity = %v, want 100", eval.FormatValidity)
	}
	if eval.Feasibility != 100 {
		t.Errorf("Feasibility = %v, want 100", eval.Feasibility)
	}
	if eval.Score != 100 {
		t.Errorf("Score = %v, want 100", eval.Score)
	}
}

func TestEvaluateWeightedCombination(t *testing.T) {
	// Office spec with no dimensions: completeness 75, format 70,
	// feasibility 100 → 75*0.4 + 70*0.3 + 100*0.3 = 81.
	sp := completeSpec(t)
	sp.Dimensions = spec.DimensionSet{}

	eval := EvaluateWeighted("An office building", sp)

	if eval.Completeness != 75 {
		t.Errorf("Completeness = %v, want 75", eval.Completeness)
	}
	if eval.FormatValidity != 70 {
		t.Errorf("FormatValidity = %v, want 70", eval.FormatValidity)
	}
	if eval.Feasibility != 100 {
		t.Errorf("Feasibility = %v, want 100", eval.Feasibility)
	}
	if math.Abs(eval.Score-81) > 1e-9 {
		t.Errorf("Score = %v, want 81", eval.Score)
	}
}

func TestEvaluateWeightedScoreStaysInRange(t *testing.T) {
	floors := 500
	tests := []struct {
		name string
		sp   spec.Specification
	}{
		{"empty spec", spec.Specification{}},
		{
			"maximally infeasible",
			spec.Specification{
				Type:       "office",
				Materials:  []spec.MaterialEntry{{Type: "wood"}},
				Dimensions: spec.DimensionSet{Floors: &floors, Raw: "500 floors"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := EvaluateWeighted("anything", tt.sp)
			if eval.Score < 0 || eval.Score > 100 {
				t.Errorf("Score = %v outside [0,100]", eval.Score)
			}
			for _, sub := range []float64{eval.Completeness, eval.FormatValidity, eval.Feasibility} {
				if sub < 0 || sub > 100 {
					t.Errorf("sub-score %v outside [0,100]", sub)
				}
			}
		})
	}
}

func TestScoreFeasibilityMaterialStructure(t *testing.T) {
	f := func(v int) *int { return &v }

	tests := []struct {
		name     string
		material string
		floors   *int
		want     float64
	}{
		{"wood high-rise", "wood", f(15), 70},
		{"bamboo high-rise", "bamboo", f(12), 70},
		{"glass supertall", "glass", f(25), 80},
		{"steel high-rise", "steel", f(25), 100},
		{"wood low-rise", "wood", f(2), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := spec.Specification{
				Type:       "office",
				Materials:  []spec.MaterialEntry{{Type: tt.material}},
				Dimensions: spec.DimensionSet{Floors: tt.floors},
			}
			if got := scoreFeasibility(sp); got != tt.want {
				t.Errorf("scoreFeasibility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPenalizedEvaluation(t *testing.T) {
	eval := PenalizedEvaluation()
	if eval.Score != 0 {
		t.Errorf("Score = %v, want 0", eval.Score)
	}
	if len(eval.Feedback) == 0 {
		t.Error("penalized evaluation should explain itself")
	}
}
