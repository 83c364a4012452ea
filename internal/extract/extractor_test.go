package extract

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name          string
		prompt        string
		wantType      string
		wantMaterials []string
		wantDimsRaw   string
		wantPurpose   string
		wantFeatures  []string
	}{
		{
			name:          "dining table",
			prompt:        "Create a wooden dining table 6x4 feet",
			wantType:      "table",
			wantMaterials: []string{"wood"},
			wantDimsRaw:   "6x4 feet",
			wantPurpose:   "dining",
		},
		{
			name:        "office floors",
			prompt:      "Design a 2-floor office with parking",
			wantType:    "office",
			wantDimsRaw: "2-floor",
			wantFeatures: []string{
				"parking",
			},
		},
		{
			name:          "house with area",
			prompt:        "A concrete home of 400 sqm with a garden",
			wantType:      "house",
			wantMaterials: []string{"concrete"},
			wantDimsRaw:   "400 sqm",
			wantFeatures:  []string{"garden"},
		},
		{
			name:          "material synonyms deduplicated",
			prompt:        "A timber and wooden shelf",
			wantType:      "shelf",
			wantMaterials: []string{"wood"},
		},
		{
			name:   "nothing recognizable",
			prompt: "Make it nice please",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := e.Extract(tt.prompt)

			if fields.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", fields.Type, tt.wantType)
			}
			if !reflect.DeepEqual(fields.Materials, tt.wantMaterials) {
				t.Errorf("Materials = %v, want %v", fields.Materials, tt.wantMaterials)
			}
			if fields.DimensionsRaw != tt.wantDimsRaw {
				t.Errorf("DimensionsRaw = %q, want %q", fields.DimensionsRaw, tt.wantDimsRaw)
			}
			if fields.Purpose != tt.wantPurpose {
				t.Errorf("Purpose = %q, want %q", fields.Purpose, tt.wantPurpose)
			}
			if !reflect.DeepEqual(fields.Features, tt.wantFeatures) {
				t.Errorf("Features = %v, want %v", fields.Features, tt.wantFeatures)
			}
		})
	}
}

func TestExtractFirstTypeWins(t *testing.T) {
	e := NewExtractor()

	fields := e.Extract("An office with a desk and a chair")
	if fields.Type != "office" {
		t.Errorf("Type = %q, want the first recognized keyword", fields.Type)
	}
}

func TestTokenizeStripsPunctuation(t *testing.T) {
	tokens := tokenize("A wooden table, 6x4 feet!")

	found := false
	for _, tok := range tokens {
		if tok == "table" {
			found = true
		}
	}
	if !found {
		t.Errorf("tokenize() lost %q: %v", "table", tokens)
	}
}
