package reward

import (
	"math"

	"github.com/spec-agent/backend/internal/evaluation"
	"github.com/spec-agent/backend/internal/scoring"
)

// Mode selects which reward policy the training loop applies.
type Mode string

const (
	ModeRule       Mode = "rule"
	ModeContinuous Mode = "continuous"
	ModeBinary     Mode = "binary"
)

func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeContinuous:
		return ModeContinuous
	case ModeBinary:
		return ModeBinary
	default:
		return ModeRule
	}
}

// Severity base rewards for the rule-based mode.
const (
	baseNone         = 1.0
	baseMinor        = 0.2
	baseMajor        = -1.0
	baseUnrecognized = -0.5
)

// lowQualityCutoff is inclusive: a 3.0/10 spec still takes the penalty.
const lowQualityCutoff = 3.0

// RuleBased computes the severity-gated, quality-scaled reward. The base is
// picked from severity, scaled by quality/10 when a quality score exists,
// then adjusted by the full-completeness bonus and low-quality penalty.
func RuleBased(severity string, issueCount int, quality *scoring.QualityScore) float64 {
	var base float64
	switch severity {
	case evaluation.SeverityNone:
		base = baseMinor
		if issueCount == 0 {
			base = baseNone
		}
	case evaluation.SeverityMinor:
		base = baseMinor
	case evaluation.SeverityMajor:
		base = baseMajor
	default:
		base = baseUnrecognized
	}

	r := base
	if quality != nil {
		r = base * (quality.FormatScore / 10.0)

		if quality.CompletenessScore == scoring.MaxCompleteness {
			r += 0.1
		}
		if quality.FormatScore <= lowQualityCutoff {
			r -= 0.2
		}
	}

	return Round3(r)
}

// Continuous rewards the absolute score plus any improvement over the
// previous iteration, with a flat penalty under 50.
func Continuous(score, previousScore float64) float64 {
	r := score / 100.0
	r += math.Max(0, (score-previousScore)/100.0)
	if score < 50 {
		r -= 0.2
	}
	return Round3(r)
}

// Binary is the opt-in ±1 mode: did the score improve at all.
func Binary(score, previousScore float64) float64 {
	if score > previousScore {
		return 1.0
	}
	return -1.0
}

// Round3 rounds to 3 decimal places so logged rewards reproduce exactly.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
