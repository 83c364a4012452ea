package spec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Incoming payloads are allowed to carry materials as a single string or a
// list of strings/objects, and dimensions as a free-text string or a
// structured object. Normalization to the internal representation happens
// here, once, at unmarshal time; scoring and evaluation only ever see the
// canonical shapes.

func (m *MaterialEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*m = MaterialEntry{Type: strings.ToLower(strings.TrimSpace(name))}
		return nil
	}

	type alias MaterialEntry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	a.Type = strings.ToLower(strings.TrimSpace(a.Type))
	*m = MaterialEntry(a)
	return nil
}

func (s *Specification) UnmarshalJSON(data []byte) error {
	type alias Specification
	aux := struct {
		Materials  json.RawMessage `json:"materials"`
		Dimensions json.RawMessage `json:"dimensions"`
		*alias
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	materials, err := normalizeMaterials(aux.Materials)
	if err != nil {
		return err
	}
	s.Materials = materials

	dimensions, err := normalizeDimensions(aux.Dimensions)
	if err != nil {
		return err
	}
	s.Dimensions = dimensions

	return nil
}

func normalizeMaterials(raw json.RawMessage) ([]MaterialEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	if raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, fmt.Errorf("failed to decode materials: %w", err)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, nil
		}
		return []MaterialEntry{{Type: name}}, nil
	}

	var entries []MaterialEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode materials: %w", err)
	}
	return entries, nil
}

func normalizeDimensions(raw json.RawMessage) (DimensionSet, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DimensionSet{}, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return DimensionSet{}, fmt.Errorf("failed to decode dimensions: %w", err)
		}
		// Raw text survives even when nothing parses, so the unparseable
		// rule check can still see it.
		ds, _ := ParseDimensions(text)
		return ds, nil
	}

	type alias DimensionSet
	var a alias
	if err := json.Unmarshal(raw, &a); err != nil {
		return DimensionSet{}, fmt.Errorf("failed to decode dimensions: %w", err)
	}
	ds := DimensionSet(a)
	// Area is derived from length and width; an incoming value that
	// disagrees is overwritten.
	ds.DeriveArea()
	return ds, nil
}
