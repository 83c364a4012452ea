package spec

import (
	"strings"
	"time"
)

// Specification is the structured artifact produced from a free-text prompt
// and refined by the training loop.
type Specification struct {
	Type         string          `json:"type"`
	Materials    []MaterialEntry `json:"materials"`
	Dimensions   DimensionSet    `json:"dimensions"`
	Features     []string        `json:"features"`
	Purpose      string          `json:"purpose,omitempty"`
	Requirements []string        `json:"requirements"`
	Timestamp    time.Time       `json:"timestamp"`
}

type MaterialEntry struct {
	Type       string                 `json:"type"`
	Grade      string                 `json:"grade,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// DimensionSet is a sparse set of parsed numeric dimensions. Area is derived
// from Length and Width whenever both are present, never set independently.
type DimensionSet struct {
	Length   *float64 `json:"length,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Area     *float64 `json:"area,omitempty"`
	Depth    *float64 `json:"depth,omitempty"`
	Diameter *float64 `json:"diameter,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	Floors   *int     `json:"floors,omitempty"`
	Units    string   `json:"units,omitempty"`
	Raw      string   `json:"raw,omitempty"`
}

const TypeUnknown = "unknown"

// placeholderValues are sentinel strings that count as absent fields.
var placeholderValues = map[string]bool{
	"unknown":     true,
	"unspecified": true,
	"default":     true,
	"standard":    true,
	"general":     true,
}

func IsPlaceholder(value string) bool {
	return value == "" || placeholderValues[strings.ToLower(strings.TrimSpace(value))]
}

// Empty returns the sentinel specification used in place of a nil previous
// spec when a comparison needs a concrete value (first-iteration diffs).
func Empty() Specification {
	return Specification{
		Type:         TypeUnknown,
		Materials:    []MaterialEntry{},
		Features:     []string{},
		Requirements: []string{},
	}
}

// Clone returns a deep copy. The training loop hands history stores copies
// only; no shared mutable state crosses into stored records.
func (s Specification) Clone() Specification {
	out := s

	out.Materials = make([]MaterialEntry, len(s.Materials))
	for i, m := range s.Materials {
		out.Materials[i] = m
		if m.Properties != nil {
			props := make(map[string]interface{}, len(m.Properties))
			for k, v := range m.Properties {
				props[k] = v
			}
			out.Materials[i].Properties = props
		}
	}

	out.Features = append([]string(nil), s.Features...)
	out.Requirements = append([]string(nil), s.Requirements...)
	out.Dimensions = s.Dimensions.clone()

	return out
}

func (d DimensionSet) clone() DimensionSet {
	out := d
	out.Length = copyFloat(d.Length)
	out.Width = copyFloat(d.Width)
	out.Height = copyFloat(d.Height)
	out.Area = copyFloat(d.Area)
	out.Depth = copyFloat(d.Depth)
	out.Diameter = copyFloat(d.Diameter)
	out.Weight = copyFloat(d.Weight)
	if d.Floors != nil {
		f := *d.Floors
		out.Floors = &f
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// IsZero reports whether no dimension information exists at all.
func (d DimensionSet) IsZero() bool {
	return !d.HasNumeric() && strings.TrimSpace(d.Raw) == ""
}

// HasNumeric reports whether at least one numeric dimension is set.
func (d DimensionSet) HasNumeric() bool {
	return d.Length != nil || d.Width != nil || d.Height != nil ||
		d.Area != nil || d.Depth != nil || d.Diameter != nil ||
		d.Weight != nil || d.Floors != nil
}

// DeriveArea enforces the area invariant: when both length and width are
// present, area equals their product.
func (d *DimensionSet) DeriveArea() {
	if d.Length != nil && d.Width != nil {
		area := *d.Length * *d.Width
		d.Area = &area
	}
}

// MaterialNames returns lowercase material type names, placeholders excluded.
func (s Specification) MaterialNames() []string {
	names := make([]string, 0, len(s.Materials))
	for _, m := range s.Materials {
		name := strings.ToLower(strings.TrimSpace(m.Type))
		if name == "" || IsPlaceholder(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// PrimaryMaterial returns the first non-placeholder material name, or "".
func (s Specification) PrimaryMaterial() string {
	names := s.MaterialNames()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// FlatText serializes the specification into a single lowercase string for
// keyword checks against the whole document.
func (s Specification) FlatText() string {
	parts := []string{s.Type, s.Purpose, s.Dimensions.Raw}
	for _, m := range s.Materials {
		parts = append(parts, m.Type, m.Grade)
	}
	parts = append(parts, s.Features...)
	parts = append(parts, s.Requirements...)
	return strings.ToLower(strings.Join(parts, " "))
}
