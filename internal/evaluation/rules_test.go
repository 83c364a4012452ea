package evaluation

import (
	"testing"
	"time"

	"github.com/spec-agent/backend/internal/spec"
)

func completeSpec(t *testing.T) spec.Specification {
	t.Helper()

	dims, ok := spec.ParseDimensions("20x15 m")
	if !ok {
		t.Fatal("failed to parse fixture dimensions")
	}

	return spec.Specification{
		Type:         "office",
		Materials:    []spec.MaterialEntry{{Type: "steel"}},
		Dimensions:   dims,
		Purpose:      "commercial workspace",
		Features:     []string{"elevator", "parking", "conference_room"},
		Requirements: []string{"An office building"},
		Timestamp:    time.Now(),
	}
}

func hasIssue(issues []string, code string) bool {
	for _, issue := range issues {
		if issue == code {
			return true
		}
	}
	return false
}

func TestCheckRulesCompleteSpec(t *testing.T) {
	eval := CheckRules("An office building", completeSpec(t))

	if len(eval.Issues) != 0 {
		t.Errorf("Issues = %v, want none", eval.Issues)
	}
	if eval.Severity != SeverityNone {
		t.Errorf("Severity = %q, want %q", eval.Severity, SeverityNone)
	}
	if eval.Feedback != completeFeedback {
		t.Errorf("Feedback = %q, want %q", eval.Feedback, completeFeedback)
	}
}

func TestCheckRulesMissingFields(t *testing.T) {
	eval := CheckRules("Build something", spec.Specification{Type: "unknown"})

	for _, want := range []string{IssueTypeMissing, IssueMaterialMissing, IssueDimensionsMissing, IssuePurposeMissing} {
		if !hasIssue(eval.Issues, want) {
			t.Errorf("missing expected issue %q in %v", want, eval.Issues)
		}
	}
	if eval.Severity != SeverityMajor {
		t.Errorf("Severity = %q, want %q for %d issues", eval.Severity, SeverityMajor, len(eval.Issues))
	}
}

func TestCheckRulesUnrecognizedMaterial(t *testing.T) {
	sp := completeSpec(t)
	sp.Materials = []spec.MaterialEntry{{Type: "unobtanium"}}

	eval := CheckRules("An office building", sp)

	if !hasIssue(eval.Issues, IssueMaterialUnrecognized) {
		t.Errorf("expected %q in %v", IssueMaterialUnrecognized, eval.Issues)
	}
	if hasIssue(eval.Issues, IssueMaterialMissing) {
		t.Errorf("material_missing should not fire when materials exist")
	}
}

func TestCheckRulesUnparseableDimensions(t *testing.T) {
	sp := completeSpec(t)
	sp.Dimensions = spec.DimensionSet{Raw: "pretty big"}

	eval := CheckRules("An office building", sp)

	if !hasIssue(eval.Issues, IssueDimensionsUnparseable) {
		t.Errorf("expected %q in %v", IssueDimensionsUnparseable, eval.Issues)
	}
	if hasIssue(eval.Issues, IssueDimensionsMissing) {
		t.Errorf("dimensions_missing should not fire when raw text exists")
	}
}

func TestCheckRulesSustainability(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		features  []string
		wantIssue bool
	}{
		{"eco prompt without energy", "An eco-friendly office", nil, true},
		{"green prompt without energy", "A green building", nil, true},
		{"eco prompt with sustainable feature", "An eco-friendly office", []string{"sustainable materials"}, false},
		{"eco prompt with energy feature", "An eco-friendly office", []string{"solar energy"}, false},
		{"plain prompt", "An office building", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := completeSpec(t)
			sp.Features = tt.features

			eval := CheckRules(tt.prompt, sp)
			got := hasIssue(eval.Issues, IssueEnergySourceMissing)
			if got != tt.wantIssue {
				t.Errorf("energy_source_missing = %v, want %v (issues %v)", got, tt.wantIssue, eval.Issues)
			}
		})
	}
}

func TestSeverityThresholds(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, SeverityNone},
		{1, SeverityMinor},
		{2, SeverityMinor},
		{3, SeverityMajor},
		{7, SeverityMajor},
	}

	for _, tt := range tests {
		if got := severityFor(tt.count); got != tt.want {
			t.Errorf("severityFor(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestCheckRulesFeatureSuggestion(t *testing.T) {
	sp := completeSpec(t)
	sp.Features = []string{"elevator"}

	eval := CheckRules("An office building", sp)

	found := false
	for _, s := range eval.Suggestions {
		if s == "Add distinguishing features" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected feature suggestion with %d features, got %v", len(sp.Features), eval.Suggestions)
	}
}
