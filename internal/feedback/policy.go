package feedback

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spec-agent/backend/internal/spec"
	"github.com/spec-agent/backend/pkg/logger"
)

// Rule keys recognized in suggestion text, by substring match.
const (
	RuleMaterial  = "material"
	RuleDimension = "dimension"
	RuleFeature   = "feature"
)

var defaultFeaturesByCategory = map[spec.Category][]string{
	spec.CategoryOffice:      {"elevator", "parking", "conference_room"},
	spec.CategoryResidential: {"balcony", "parking", "garden"},
	spec.CategoryFurniture:   {"durable_finish", "ergonomic_design", "modular_assembly"},
	spec.CategoryGeneral:     {"parking", "security_system", "lighting"},
}

// Policy applies canned improvements to a specification based on the
// suggestion text produced by evaluation. An optional explorer biases the
// order in which rules are applied.
type Policy struct {
	explorer *Explorer
}

func NewPolicy(explorer *Explorer) *Policy {
	return &Policy{explorer: explorer}
}

// Improve returns an improved deep copy; the input spec is never mutated so
// callers keep a pristine spec_before for history. Suggestion strings that
// match no known rule are no-ops, never errors. The returned slice lists the
// rule keys that actually changed something.
func (p *Policy) Improve(sp spec.Specification, issues, suggestions []string) (spec.Specification, []string, error) {
	out := sp.Clone()

	joined := strings.ToLower(strings.Join(append(append([]string{}, issues...), suggestions...), " "))

	var applied []string
	for _, rule := range p.ruleOrder() {
		if !ruleRequested(joined, rule) {
			continue
		}
		if applyRule(&out, rule) {
			applied = append(applied, rule)
		}
	}

	if len(applied) == 0 {
		logger.Debug("No applicable improvement", zap.Int("suggestions", len(suggestions)))
	}

	return out, applied, nil
}

func (p *Policy) ruleOrder() []string {
	if p.explorer != nil {
		return p.explorer.Order()
	}
	return []string{RuleMaterial, RuleDimension, RuleFeature}
}

func ruleRequested(text, rule string) bool {
	switch rule {
	case RuleDimension:
		return strings.Contains(text, "dimension") || strings.Contains(text, "size")
	default:
		return strings.Contains(text, rule)
	}
}

func applyRule(sp *spec.Specification, rule string) bool {
	category := spec.CategoryOf(sp.Type)

	switch rule {
	case RuleMaterial:
		if len(sp.MaterialNames()) > 0 {
			return false
		}
		sp.Materials = []spec.MaterialEntry{defaultMaterial(category)}
		return true

	case RuleDimension:
		if !sp.Dimensions.IsZero() && sp.Dimensions.Parseable() {
			return false
		}
		sp.Dimensions = defaultDimensions(category)
		return true

	case RuleFeature:
		if len(sp.Features) >= 3 {
			return false
		}
		added := false
		for _, f := range defaultFeaturesByCategory[category] {
			if len(sp.Features) >= 3 {
				break
			}
			if containsString(sp.Features, f) {
				continue
			}
			sp.Features = append(sp.Features, f)
			added = true
		}
		return added
	}

	return false
}

func defaultMaterial(category spec.Category) spec.MaterialEntry {
	if category == spec.CategoryFurniture {
		return spec.MaterialEntry{Type: "wood", Grade: "standard"}
	}
	return spec.MaterialEntry{Type: "steel", Grade: "structural"}
}

func defaultDimensions(category spec.Category) spec.DimensionSet {
	var length, width float64
	var raw string

	if category == spec.CategoryFurniture {
		length, width, raw = 2.0, 1.0, "2x1 m"
	} else {
		length, width, raw = 20.0, 15.0, "20x15 m"
	}

	ds := spec.DimensionSet{
		Length: &length,
		Width:  &width,
		Units:  "meters",
		Raw:    raw,
	}
	ds.DeriveArea()
	return ds
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
