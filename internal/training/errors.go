package training

import "fmt"

// GenerationError is fatal to a run: the prompt was invalid or the generator
// itself failed on the first iteration.
type GenerationError struct {
	Prompt string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for prompt %q: %v", e.Prompt, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EvaluationError marks a failed rule evaluation. In resilient mode the loop
// substitutes a maximally-penalized evaluation instead of propagating.
type EvaluationError struct {
	Iteration int
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed at iteration %d: %v", e.Iteration, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// ImprovementError is always recovered: the loop reuses the previous
// candidate unchanged for that iteration.
type ImprovementError struct {
	Iteration int
	Err       error
}

func (e *ImprovementError) Error() string {
	return fmt.Sprintf("improvement failed at iteration %d: %v", e.Iteration, e.Err)
}

func (e *ImprovementError) Unwrap() error { return e.Err }

// PersistenceError reports history records that never reached durable
// database storage; surfaced as a warning on the result, not a failure.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history persistence degraded: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
