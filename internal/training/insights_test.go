package training

import (
	"testing"

	"github.com/spec-agent/backend/internal/spec"
	"github.com/spec-agent/backend/internal/storage/models"
)

func record(iteration int, score, rew float64, material string) models.IterationRecord {
	return models.IterationRecord{
		Iteration:  iteration,
		ScoreAfter: score,
		Reward:     rew,
		SpecAfter: spec.Specification{
			Type:      "office",
			Materials: []spec.MaterialEntry{{Type: material}},
		},
	}
}

func TestAggregateInsights(t *testing.T) {
	records := []models.IterationRecord{
		record(1, 60, 0.2, "wood"),
		record(2, 90, 1.0, "steel"),
		record(3, 95, 1.1, "steel"),
	}

	insights := aggregateInsights(records, 80)

	if insights.TotalIterations != 3 {
		t.Errorf("TotalIterations = %d, want 3", insights.TotalIterations)
	}
	if insights.MeanScore != 81.667 {
		t.Errorf("MeanScore = %v, want 81.667", insights.MeanScore)
	}
	if insights.ScoreTrend != TrendImproving {
		t.Errorf("ScoreTrend = %q, want improving", insights.ScoreTrend)
	}
	if insights.BestIteration != 3 {
		t.Errorf("BestIteration = %d, want 3", insights.BestIteration)
	}
	if insights.SuccessfulPattern != "steel" {
		t.Errorf("SuccessfulPattern = %q, want steel", insights.SuccessfulPattern)
	}
}

func TestAggregateInsightsDecline(t *testing.T) {
	records := []models.IterationRecord{
		record(1, 90, 1.0, "steel"),
		record(2, 50, -0.5, "steel"),
	}

	insights := aggregateInsights(records, 80)

	if insights.ScoreTrend != TrendDeclining {
		t.Errorf("ScoreTrend = %q, want declining", insights.ScoreTrend)
	}
	if insights.BestIteration != 1 {
		t.Errorf("BestIteration = %d, want 1", insights.BestIteration)
	}
}

func TestAggregateInsightsEmpty(t *testing.T) {
	insights := aggregateInsights(nil, 80)

	if insights.TotalIterations != 0 {
		t.Errorf("TotalIterations = %d, want 0", insights.TotalIterations)
	}
	if insights.SuccessfulPattern != "" {
		t.Errorf("SuccessfulPattern = %q, want empty", insights.SuccessfulPattern)
	}
}

func TestAggregateInsightsPatternTieIsDeterministic(t *testing.T) {
	records := []models.IterationRecord{
		record(1, 90, 1.0, "wood"),
		record(2, 91, 1.0, "steel"),
	}

	want := aggregateInsights(records, 80).SuccessfulPattern
	if want != "steel" {
		t.Fatalf("SuccessfulPattern = %q, want steel (lexicographic tie-break)", want)
	}
	for i := 0; i < 20; i++ {
		if got := aggregateInsights(records, 80).SuccessfulPattern; got != want {
			t.Fatalf("SuccessfulPattern = %q on run %d, want %q every time", got, i, want)
		}
	}
}

func TestAggregateInsightsPatternRequiresHighScore(t *testing.T) {
	records := []models.IterationRecord{
		record(1, 40, 0.1, "wood"),
		record(2, 50, 0.1, "wood"),
	}

	insights := aggregateInsights(records, 80)

	if insights.SuccessfulPattern != "" {
		t.Errorf("SuccessfulPattern = %q, want empty below the high-score bar", insights.SuccessfulPattern)
	}
}
