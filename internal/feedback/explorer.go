package feedback

import (
	"sort"
	"sync"
)

// Explorer nudges per-rule weights by reward*rate and orders rule application
// by weight. This is a plain exploration heuristic: there is no model, no
// function approximation, and no convergence guarantee. It only changes the
// order in which improvement rules are tried.
type Explorer struct {
	mu      sync.Mutex
	rate    float64
	weights map[string]float64
}

const (
	minWeight = 0.1
	maxWeight = 5.0
)

func NewExplorer(rate float64) *Explorer {
	if rate <= 0 {
		rate = 0.1
	}
	return &Explorer{
		rate: rate,
		weights: map[string]float64{
			RuleMaterial:  1.0,
			RuleDimension: 1.0,
			RuleFeature:   1.0,
		},
	}
}

// Nudge shifts the weight of each applied rule by reward*rate, clamped.
func (e *Explorer) Nudge(appliedRules []string, reward float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, rule := range appliedRules {
		w, ok := e.weights[rule]
		if !ok {
			continue
		}
		w += reward * e.rate
		if w < minWeight {
			w = minWeight
		}
		if w > maxWeight {
			w = maxWeight
		}
		e.weights[rule] = w
	}
}

// Order returns rule keys sorted by descending weight, ties broken by the
// fixed material/dimension/feature order for determinism.
func (e *Explorer) Order() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	base := []string{RuleMaterial, RuleDimension, RuleFeature}
	sort.SliceStable(base, func(i, j int) bool {
		return e.weights[base[i]] > e.weights[base[j]]
	})
	return base
}

// Weights returns a copy for logging and inspection.
func (e *Explorer) Weights() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]float64, len(e.weights))
	for k, v := range e.weights {
		out[k] = v
	}
	return out
}
