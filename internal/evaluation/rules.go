package evaluation

import (
	"strings"

	"github.com/spec-agent/backend/internal/spec"
)

const (
	SeverityNone  = "none"
	SeverityMinor = "minor"
	SeverityMajor = "major"
)

// Issue codes emitted by CheckRules.
const (
	IssueTypeMissing           = "type_missing"
	IssueMaterialMissing       = "material_missing"
	IssueMaterialUnrecognized  = "material_unrecognized"
	IssueDimensionsMissing     = "dimensions_missing"
	IssueDimensionsUnparseable = "dimensions_unparseable"
	IssuePurposeMissing        = "purpose_missing"
	IssueEnergySourceMissing   = "energy_source_missing"
)

var issueDescriptions = map[string]string{
	IssueTypeMissing:           "Object type is missing or unknown",
	IssueMaterialMissing:       "No materials are specified",
	IssueMaterialUnrecognized:  "Listed materials are not recognized",
	IssueDimensionsMissing:     "Dimensions are not specified",
	IssueDimensionsUnparseable: "Dimensions could not be parsed",
	IssuePurposeMissing:        "Purpose is missing or too generic",
	IssueEnergySourceMissing:   "Prompt asks for sustainability but the spec has no energy source",
}

var issueSuggestions = map[string]string{
	IssueTypeMissing:           "Clarify the object type in the specification",
	IssueMaterialMissing:       "Add material details",
	IssueMaterialUnrecognized:  "Use standard material names",
	IssueDimensionsMissing:     "Specify dimensions with units",
	IssueDimensionsUnparseable: "Rewrite dimensions in a parseable form with units",
	IssuePurposeMissing:        "State the intended purpose",
	IssueEnergySourceMissing:   "Add energy-efficient or sustainable features",
}

const completeFeedback = "Specification looks complete"

var ecoTriggers = []string{"eco", "green", "sustainable"}

// RuleEvaluation is the severity-classified output of the hard rule checks.
// Severity comes from issue count alone: 3+ major, 1-2 minor, 0 none.
type RuleEvaluation struct {
	Issues      []string `json:"issues"`
	Severity    string   `json:"severity"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// CheckRules runs the rule checks against a (prompt, spec) pair.
func CheckRules(prompt string, sp spec.Specification) RuleEvaluation {
	var issues []string

	if spec.IsPlaceholder(sp.Type) {
		issues = append(issues, IssueTypeMissing)
	}

	// Materials arrive normalized to a lowercase list by the spec model;
	// string-vs-list shapes are resolved at the API boundary.
	names := sp.MaterialNames()
	if len(names) == 0 {
		issues = append(issues, IssueMaterialMissing)
	} else {
		recognized := false
		for _, name := range names {
			if spec.IsKnownMaterial(name) {
				recognized = true
				break
			}
		}
		if !recognized {
			issues = append(issues, IssueMaterialUnrecognized)
		}
	}

	if sp.Dimensions.IsZero() {
		issues = append(issues, IssueDimensionsMissing)
	} else if !sp.Dimensions.Parseable() {
		issues = append(issues, IssueDimensionsUnparseable)
	}

	if sp.Purpose == "" || spec.IsPlaceholder(sp.Purpose) {
		issues = append(issues, IssuePurposeMissing)
	}

	if promptWantsSustainability(prompt) && !mentionsEnergy(sp) {
		issues = append(issues, IssueEnergySourceMissing)
	}

	eval := RuleEvaluation{
		Issues:   issues,
		Severity: severityFor(len(issues)),
	}

	if len(issues) == 0 {
		eval.Feedback = completeFeedback
	} else {
		descs := make([]string, len(issues))
		for i, issue := range issues {
			descs[i] = issueDescriptions[issue]
		}
		eval.Feedback = strings.Join(descs, ". ")
	}

	for _, issue := range issues {
		eval.Suggestions = append(eval.Suggestions, issueSuggestions[issue])
	}
	if len(sp.Features) < 3 {
		eval.Suggestions = append(eval.Suggestions, "Add distinguishing features")
	}

	return eval
}

// severityFor is a hard threshold on issue count, not a weighted score.
func severityFor(issueCount int) string {
	switch {
	case issueCount >= 3:
		return SeverityMajor
	case issueCount >= 1:
		return SeverityMinor
	default:
		return SeverityNone
	}
}

func promptWantsSustainability(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, trigger := range ecoTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

func mentionsEnergy(sp spec.Specification) bool {
	text := sp.FlatText()
	return strings.Contains(text, "energy") || strings.Contains(text, "sustainable")
}
