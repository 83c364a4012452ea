package training

import (
	"github.com/spec-agent/backend/internal/reward"
	"github.com/spec-agent/backend/internal/storage/models"
)

// Insights aggregates a finished session's records.
type Insights struct {
	TotalIterations    int     `json:"total_iterations"`
	MeanScore          float64 `json:"mean_score"`
	ScoreTrend         string  `json:"score_trend"`
	MeanReward         float64 `json:"mean_reward"`
	BestIteration      int     `json:"best_iteration"`
	SuccessfulPattern  string  `json:"successful_pattern,omitempty"`
	PersistenceWarning string  `json:"persistence_warning,omitempty"`
}

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
)

func aggregateInsights(records []models.IterationRecord, highScore float64) Insights {
	insights := Insights{TotalIterations: len(records)}
	if len(records) == 0 {
		return insights
	}

	var scoreSum, rewardSum float64
	bestScore := records[0].ScoreAfter
	insights.BestIteration = records[0].Iteration

	materialCounts := make(map[string]int)

	for _, rec := range records {
		scoreSum += rec.ScoreAfter
		rewardSum += rec.Reward

		if rec.ScoreAfter > bestScore {
			bestScore = rec.ScoreAfter
			insights.BestIteration = rec.Iteration
		}

		if rec.ScoreAfter > highScore {
			if material := rec.SpecAfter.PrimaryMaterial(); material != "" {
				materialCounts[material]++
			}
		}
	}

	insights.MeanScore = reward.Round3(scoreSum / float64(len(records)))
	insights.MeanReward = reward.Round3(rewardSum / float64(len(records)))

	if records[len(records)-1].ScoreAfter > records[0].ScoreAfter {
		insights.ScoreTrend = TrendImproving
	} else {
		insights.ScoreTrend = TrendDeclining
	}

	// Ties break on name so identical sessions report the same pattern.
	bestCount := 0
	for material, count := range materialCounts {
		if count > bestCount || (count == bestCount && material < insights.SuccessfulPattern) {
			bestCount = count
			insights.SuccessfulPattern = material
		}
	}

	return insights
}
