package spec

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalMaterialsString(t *testing.T) {
	var sp Specification
	if err := json.Unmarshal([]byte(`{"type":"table","materials":"  Wood  "}`), &sp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(sp.Materials) != 1 || sp.Materials[0].Type != "wood" {
		t.Errorf("Materials = %+v, want single lowercase wood entry", sp.Materials)
	}
}

func TestUnmarshalMaterialsStringList(t *testing.T) {
	var sp Specification
	if err := json.Unmarshal([]byte(`{"materials":["Oak","STEEL"]}`), &sp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(sp.Materials) != 2 {
		t.Fatalf("Materials = %+v, want 2 entries", sp.Materials)
	}
	if sp.Materials[0].Type != "oak" || sp.Materials[1].Type != "steel" {
		t.Errorf("Materials = %+v, want lowercase names", sp.Materials)
	}
}

func TestUnmarshalMaterialsObjectList(t *testing.T) {
	var sp Specification
	payload := `{"materials":[{"type":"Wood","grade":"A"},"glass"]}`
	if err := json.Unmarshal([]byte(payload), &sp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(sp.Materials) != 2 {
		t.Fatalf("Materials = %+v, want 2 entries", sp.Materials)
	}
	if sp.Materials[0].Type != "wood" || sp.Materials[0].Grade != "A" {
		t.Errorf("Materials[0] = %+v, want normalized object entry", sp.Materials[0])
	}
	if sp.Materials[1].Type != "glass" {
		t.Errorf("Materials[1] = %+v, want string entry", sp.Materials[1])
	}
}

func TestUnmarshalDimensionsString(t *testing.T) {
	var sp Specification
	if err := json.Unmarshal([]byte(`{"dimensions":"6x4 feet"}`), &sp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if sp.Dimensions.Length == nil || sp.Dimensions.Width == nil {
		t.Fatalf("Dimensions = %+v, want parsed pair", sp.Dimensions)
	}
	if sp.Dimensions.Raw != "6x4 feet" {
		t.Errorf("Raw = %q, want original text", sp.Dimensions.Raw)
	}
}

func TestUnmarshalDimensionsUnparseableStringKeepsRaw(t *testing.T) {
	var sp Specification
	if err := json.Unmarshal([]byte(`{"dimensions":"pretty big"}`), &sp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if sp.Dimensions.HasNumeric() {
		t.Errorf("Dimensions = %+v, want no numeric values", sp.Dimensions)
	}
	if sp.Dimensions.Raw != "pretty big" {
		t.Errorf("Raw = %q, want original text preserved", sp.Dimensions.Raw)
	}
}

func TestUnmarshalDimensionsObject(t *testing.T) {
	var sp Specification
	if err := json.Unmarshal([]byte(`{"dimensions":{"length":2,"width":1,"units":"meters"}}`), &sp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if sp.Dimensions.Length == nil || *sp.Dimensions.Length != 2 {
		t.Errorf("Length = %v, want 2", sp.Dimensions.Length)
	}
	if sp.Dimensions.Units != "meters" {
		t.Errorf("Units = %q, want meters", sp.Dimensions.Units)
	}
}

func TestUnmarshalDimensionsObjectDerivesArea(t *testing.T) {
	var sp Specification
	payload := `{"type":"office","dimensions":{"length":2,"width":3,"area":100}}`
	if err := json.Unmarshal([]byte(payload), &sp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if sp.Dimensions.Area == nil {
		t.Fatal("Area = nil, want derived value")
	}
	if *sp.Dimensions.Area != 6 {
		t.Errorf("Area = %v, want 6 (length * width overrides incoming value)", *sp.Dimensions.Area)
	}
}

func TestUnmarshalRoundTrip(t *testing.T) {
	length, width := 2.0, 1.0
	original := Specification{
		Type:       "table",
		Materials:  []MaterialEntry{{Type: "wood", Grade: "standard"}},
		Dimensions: DimensionSet{Length: &length, Width: &width, Units: "meters"},
		Features:   []string{"drawers"},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Specification
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.Materials[0].Type != "wood" || decoded.Materials[0].Grade != "standard" {
		t.Errorf("Materials = %+v, changed in round trip", decoded.Materials)
	}
	if decoded.Dimensions.Length == nil || *decoded.Dimensions.Length != 2.0 {
		t.Errorf("Dimensions = %+v, changed in round trip", decoded.Dimensions)
	}
}
