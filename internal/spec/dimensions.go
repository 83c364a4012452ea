package spec

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	floorPattern = regexp.MustCompile(`(?i)\b(\d+)[\s-]*(?:floor|floors|storey|storeys|story|stories)\b`)
	areaPattern  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:sqm|sq\.?\s*m|square\s*met(?:er|re)s?)\b`)
	pairPattern  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\s*(feet|ft|met(?:er|re)s?|cm|inches|in|m)?\b`)
	singleDim    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(feet|ft|met(?:er|re)s?|cm|inches|in|m)\b`)
)

// toMeters converts a value in the given unit token to meters.
func toMeters(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "feet", "ft":
		return value * 0.3048
	case "cm":
		return value / 100
	case "inches", "in":
		return value * 0.0254
	default:
		return value
	}
}

// ParseDimensions extracts a DimensionSet from a free-text dimension string.
// Supported forms: floor counts ("2-floor"), areas ("400 sqm"), length×width
// pairs ("6x4 feet"), and single dimensions ("3 m", "250 cm"). All linear
// values are normalized to meters. Returns ok=false when nothing numeric
// with a recognized unit token could be extracted; malformed input never
// raises, it just fails to parse.
func ParseDimensions(raw string) (DimensionSet, bool) {
	ds := DimensionSet{Raw: strings.TrimSpace(raw)}
	if ds.Raw == "" {
		return ds, false
	}

	matched := false

	if m := floorPattern.FindStringSubmatch(raw); m != nil {
		if floors, err := strconv.Atoi(m[1]); err == nil {
			ds.Floors = &floors
			ds.Units = "floors"
			matched = true
		}
	}

	if m := areaPattern.FindStringSubmatch(raw); m != nil {
		if area, err := strconv.ParseFloat(m[1], 64); err == nil {
			ds.Area = &area
			ds.Units = "meters"
			matched = true
		}
	}

	if m := pairPattern.FindStringSubmatch(raw); m != nil {
		length, errL := strconv.ParseFloat(m[1], 64)
		width, errW := strconv.ParseFloat(m[2], 64)
		if errL == nil && errW == nil && m[3] != "" {
			length = toMeters(length, m[3])
			width = toMeters(width, m[3])
			ds.Length = &length
			ds.Width = &width
			ds.Units = "meters"
			matched = true
		}
	} else if m := singleDim.FindStringSubmatch(raw); m != nil {
		if value, err := strconv.ParseFloat(m[1], 64); err == nil {
			value = toMeters(value, m[2])
			ds.Length = &value
			ds.Units = "meters"
			matched = true
		}
	}

	ds.DeriveArea()
	return ds, matched
}

// Sane value ranges used by the dimension-validity rubric.
const (
	MinFloors = 1
	MaxFloors = 50
	MinLinear = 0.1
	MaxLinear = 100.0
	MinArea   = 0.1
	MaxArea   = 10000.0
)

// InSaneRanges reports whether every parsed value falls inside its sane range.
func (d DimensionSet) InSaneRanges() bool {
	if d.Floors != nil && (*d.Floors < MinFloors || *d.Floors > MaxFloors) {
		return false
	}
	for _, v := range []*float64{d.Length, d.Width, d.Height, d.Depth, d.Diameter} {
		if v != nil && (*v < MinLinear || *v > MaxLinear) {
			return false
		}
	}
	if d.Area != nil && (*d.Area < MinArea || *d.Area > MaxArea) {
		return false
	}
	return true
}

// Parseable reports whether the set already carries numeric values or its
// raw string parses to some.
func (d DimensionSet) Parseable() bool {
	if d.HasNumeric() {
		return true
	}
	_, ok := ParseDimensions(d.Raw)
	return ok
}

// Resolved returns the set itself when numeric values exist, otherwise the
// result of parsing its raw string.
func (d DimensionSet) Resolved() (DimensionSet, bool) {
	if d.HasNumeric() {
		return d, true
	}
	return ParseDimensions(d.Raw)
}
