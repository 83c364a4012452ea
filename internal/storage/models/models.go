package models

import (
	"time"

	"github.com/spec-agent/backend/internal/evaluation"
	"github.com/spec-agent/backend/internal/spec"
)

// Session groups a run of iteration records under one id. Created at loop
// start, closed (never deleted) when the loop terminates.
type Session struct {
	ID        string     `json:"id"`
	Prompt    string     `json:"prompt"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

const (
	SessionRunning  = "running"
	SessionComplete = "complete"
)

// IterationRecord is one step of the training loop, immutable once written.
// SpecBefore is nil only on the first iteration.
type IterationRecord struct {
	ID          string                `json:"id"`
	SessionID   string                `json:"session_id"`
	Iteration   int                   `json:"iteration_number"`
	Prompt      string                `json:"prompt"`
	SpecBefore  *spec.Specification   `json:"spec_before,omitempty"`
	SpecAfter   spec.Specification    `json:"spec_after"`
	Evaluation  evaluation.Evaluation `json:"evaluation"`
	Severity    string                `json:"severity"`
	Issues      []string              `json:"issues"`
	Reward      float64               `json:"reward"`
	ScoreBefore float64               `json:"score_before"`
	ScoreAfter  float64               `json:"score_after"`
	CreatedAt   time.Time             `json:"created_at"`
}
