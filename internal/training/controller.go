package training

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/evaluation"
	"github.com/spec-agent/backend/internal/feedback"
	"github.com/spec-agent/backend/internal/history"
	"github.com/spec-agent/backend/internal/metrics"
	"github.com/spec-agent/backend/internal/reward"
	"github.com/spec-agent/backend/internal/scoring"
	"github.com/spec-agent/backend/internal/spec"
	"github.com/spec-agent/backend/internal/storage/models"
	"github.com/spec-agent/backend/pkg/logger"
)

// Generator produces the iteration-1 candidate.
type Generator interface {
	Generate(prompt string) (spec.Specification, error)
}

// Policy produces each subsequent candidate from the previous evaluation.
type Policy interface {
	Improve(sp spec.Specification, issues, suggestions []string) (spec.Specification, []string, error)
}

// Evaluator runs both evaluation styles over a candidate. The rule and
// weighted rubrics stay separate because reward and stopping logic consume
// different scales.
type Evaluator interface {
	Evaluate(prompt string, sp spec.Specification) (evaluation.Evaluation, evaluation.RuleEvaluation, error)
}

// Scorer produces the 0-10 quality rubric.
type Scorer interface {
	Score(prompt string, sp spec.Specification) scoring.QualityScore
}

// PureEvaluator wraps the deterministic evaluation functions.
type PureEvaluator struct{}

func (PureEvaluator) Evaluate(prompt string, sp spec.Specification) (evaluation.Evaluation, evaluation.RuleEvaluation, error) {
	return evaluation.EvaluateWeighted(prompt, sp), evaluation.CheckRules(prompt, sp), nil
}

// Options configures one training run.
type Options struct {
	MaxIterations int
	RewardMode    reward.Mode
	// Resilient substitutes a zero-score evaluation on evaluator failure
	// instead of aborting the run.
	Resilient bool
	// OnIteration, when set, observes each record as it is produced.
	OnIteration func(rec models.IterationRecord)
}

// Result is the full outcome of a training session.
type Result struct {
	SessionID  string                   `json:"session_id"`
	Prompt     string                   `json:"prompt"`
	Iterations []models.IterationRecord `json:"iterations"`
	FinalSpec  spec.Specification       `json:"final_spec"`
	Insights   Insights                 `json:"learning_insights"`
}

// Controller drives the generate → evaluate → score → reward → improve loop.
// It owns the current specification and previous score for the duration of a
// run; nothing else mutates them. Sessions are independent, so concurrent
// runs share only the history store and the explorer, both safe for
// concurrent use.
type Controller struct {
	generator Generator
	policy    Policy
	evaluator Evaluator
	scorer    Scorer
	hist      history.Store
	explorer  *feedback.Explorer
	highScore float64
}

func NewController(
	generator Generator,
	policy Policy,
	evaluator Evaluator,
	scorer Scorer,
	hist history.Store,
	explorer *feedback.Explorer,
	highScore float64,
) *Controller {
	return &Controller{
		generator: generator,
		policy:    policy,
		evaluator: evaluator,
		scorer:    scorer,
		hist:      hist,
		explorer:  explorer,
		highScore: highScore,
	}
}

// Run executes up to opts.MaxIterations loop passes for one prompt. It
// returns an error only when generation fails on the first iteration (or a
// non-resilient evaluator fails); every other failure mode degrades into the
// returned result.
func (c *Controller) Run(ctx context.Context, prompt string, opts Options) (*Result, error) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 5
	}

	started := time.Now()
	sessionID := uuid.New().String()

	logger.Info("Training session starting",
		zap.String("session_id", sessionID),
		zap.String("prompt", prompt),
		zap.Int("max_iterations", opts.MaxIterations),
		zap.String("reward_mode", string(opts.RewardMode)),
	)

	if err := c.hist.CreateSession(models.Session{
		ID:        sessionID,
		Prompt:    prompt,
		Status:    models.SessionRunning,
		CreatedAt: started,
	}); err != nil {
		logger.Warn("Failed to record session start", zap.String("session_id", sessionID), zap.Error(err))
	}

	var (
		current       spec.Specification
		hasCurrent    bool
		previousScore float64
		lastEval      evaluation.Evaluation
		records       []models.IterationRecord
	)

	for i := 1; i <= opts.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidate, applied, err := c.nextCandidate(i, prompt, current, hasCurrent, lastEval)
		if err != nil {
			metrics.TrainingRuns.WithLabelValues("generation_error").Inc()
			return nil, err
		}

		eval, rules, err := c.evaluator.Evaluate(prompt, candidate)
		if err != nil {
			if !opts.Resilient {
				metrics.TrainingRuns.WithLabelValues("evaluation_error").Inc()
				return nil, &EvaluationError{Iteration: i, Err: err}
			}
			logger.Warn("Evaluation failed, substituting penalized evaluation",
				zap.String("session_id", sessionID),
				zap.Int("iteration", i),
				zap.Error(err),
			)
			eval = evaluation.PenalizedEvaluation()
			rules = evaluation.RuleEvaluation{Severity: evaluation.SeverityMajor}
		}

		quality := c.scorer.Score(prompt, candidate)
		iterReward := computeReward(opts.RewardMode, rules, quality, eval.Score, previousScore)

		if c.explorer != nil && len(applied) > 0 {
			// The heuristic only reorders future rule application; nothing
			// is learned in any model sense.
			c.explorer.Nudge(applied, iterReward)
		}

		rec := models.IterationRecord{
			ID:          uuid.New().String(),
			SessionID:   sessionID,
			Iteration:   i,
			Prompt:      prompt,
			SpecAfter:   candidate.Clone(),
			Evaluation:  eval,
			Severity:    rules.Severity,
			Issues:      rules.Issues,
			Reward:      iterReward,
			ScoreBefore: previousScore,
			ScoreAfter:  eval.Score,
			CreatedAt:   time.Now(),
		}
		if hasCurrent {
			before := current.Clone()
			rec.SpecBefore = &before
		}

		if err := c.hist.Append(rec); err != nil {
			// Flush retries anything the store buffered; the in-memory
			// record set is authoritative for the returned result.
			logger.Warn("Failed to append iteration record",
				zap.String("session_id", sessionID),
				zap.Int("iteration", i),
				zap.Error(err),
			)
		}
		records = append(records, rec)

		metrics.IterationsTotal.Inc()
		metrics.IterationReward.Observe(iterReward)
		metrics.EvaluationScore.Observe(eval.Score)
		metrics.QualityScore.Observe(quality.FormatScore)

		logger.Info("Iteration complete",
			zap.String("session_id", sessionID),
			zap.Int("iteration", i),
			zap.Float64("score", eval.Score),
			zap.Float64("reward", iterReward),
			zap.String("severity", rules.Severity),
			zap.Int("fields_added", fieldsAdded(rec.SpecBefore, rec.SpecAfter)),
		)

		if opts.OnIteration != nil {
			opts.OnIteration(rec)
		}

		current = candidate
		hasCurrent = true
		previousScore = eval.Score
		lastEval = eval

		// Early stop is only permitted once the iteration budget is reached;
		// a perfect mid-run score keeps iterating so every run logs the same
		// minimum amount of exploration.
		if eval.Score >= 100 && i >= opts.MaxIterations {
			break
		}
	}

	result := &Result{
		SessionID:  sessionID,
		Prompt:     prompt,
		Iterations: records,
		FinalSpec:  current,
		Insights:   aggregateInsights(records, c.highScore),
	}

	if err := c.hist.Flush(ctx); err != nil {
		perr := &PersistenceError{Err: err}
		result.Insights.PersistenceWarning = perr.Error()
		logger.Warn("Session history flush degraded", zap.String("session_id", sessionID), zap.Error(err))
	}
	if err := c.hist.CloseSession(sessionID); err != nil {
		logger.Warn("Failed to close session", zap.String("session_id", sessionID), zap.Error(err))
	}

	metrics.TrainingRuns.WithLabelValues("complete").Inc()
	metrics.SessionDuration.Observe(time.Since(started).Seconds())

	logger.Info("Training session complete",
		zap.String("session_id", sessionID),
		zap.Int("iterations", len(records)),
		zap.Float64("final_score", previousScore),
		zap.String("trend", result.Insights.ScoreTrend),
	)

	return result, nil
}

// nextCandidate generates on the first pass and improves on every later one.
// A failed improvement falls back to the previous candidate unchanged rather
// than aborting the run.
func (c *Controller) nextCandidate(
	iteration int,
	prompt string,
	current spec.Specification,
	hasCurrent bool,
	lastEval evaluation.Evaluation,
) (spec.Specification, []string, error) {
	if iteration == 1 || !hasCurrent {
		candidate, err := c.generator.Generate(prompt)
		if err != nil {
			return spec.Specification{}, nil, &GenerationError{Prompt: prompt, Err: err}
		}
		return candidate, nil, nil
	}

	suggestions := append([]string{}, lastEval.Suggestions...)
	suggestions = append(suggestions, c.historySuggestions(current.Type)...)

	candidate, applied, err := c.policy.Improve(current, lastEval.Feedback, suggestions)
	if err != nil {
		ierr := &ImprovementError{Iteration: iteration, Err: err}
		logger.Warn("Reusing previous candidate", zap.Error(ierr))
		return current.Clone(), nil, nil
	}

	return candidate, applied, nil
}

// historySuggestions derives extra suggestion text from past high-scoring
// sessions for the same spec type.
func (c *Controller) historySuggestions(specType string) []string {
	material, err := c.hist.BestMaterial(specType)
	if err != nil || material == "" {
		return nil
	}
	return []string{fmt.Sprintf("Consider material %s, common in past successful designs", material)}
}

func computeReward(mode reward.Mode, rules evaluation.RuleEvaluation, quality scoring.QualityScore, score, previousScore float64) float64 {
	switch mode {
	case reward.ModeContinuous:
		return reward.Continuous(score, previousScore)
	case reward.ModeBinary:
		return reward.Binary(score, previousScore)
	default:
		return reward.RuleBased(rules.Severity, len(rules.Issues), &quality)
	}
}

// fieldsAdded diffs field presence between consecutive candidates. A nil
// previous spec is replaced by the empty sentinel so the first iteration
// diffs against a concrete value.
func fieldsAdded(before *spec.Specification, after spec.Specification) int {
	prev := spec.Empty()
	if before != nil {
		prev = *before
	}

	added := 0
	if spec.IsPlaceholder(prev.Type) && !spec.IsPlaceholder(after.Type) {
		added++
	}
	if len(prev.MaterialNames()) == 0 && len(after.MaterialNames()) > 0 {
		added++
	}
	if prev.Dimensions.IsZero() && !after.Dimensions.IsZero() {
		added++
	}
	if spec.IsPlaceholder(prev.Purpose) && !spec.IsPlaceholder(after.Purpose) {
		added++
	}
	if len(after.Features) > len(prev.Features) {
		added++
	}
	return added
}
