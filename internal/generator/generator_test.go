package generator

import (
	"errors"
	"testing"

	"github.com/spec-agent/backend/internal/extract"
	"github.com/spec-agent/backend/internal/spec"
)

func newTestGenerator() *Generator {
	return NewGenerator(extract.NewExtractor())
}

func TestGenerateFullPrompt(t *testing.T) {
	g := newTestGenerator()

	sp, err := g.Generate("Create a wooden dining table 6x4 feet")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if sp.Type != "table" {
		t.Errorf("Type = %q, want table", sp.Type)
	}
	if sp.PrimaryMaterial() != "wood" {
		t.Errorf("PrimaryMaterial() = %q, want wood", sp.PrimaryMaterial())
	}
	if sp.Purpose != "dining" {
		t.Errorf("Purpose = %q, want dining", sp.Purpose)
	}
	if sp.Dimensions.Length == nil || sp.Dimensions.Width == nil {
		t.Fatalf("dimensions not parsed: %+v", sp.Dimensions)
	}
	if sp.Dimensions.Area == nil {
		t.Error("area not derived from length and width")
	}
	if sp.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if len(sp.Requirements) != 1 || sp.Requirements[0] != "Create a wooden dining table 6x4 feet" {
		t.Errorf("Requirements = %v, want the original prompt", sp.Requirements)
	}
}

func TestGenerateSparsePromptDefaults(t *testing.T) {
	g := newTestGenerator()

	sp, err := g.Generate("An office building")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if sp.Type != "office" {
		t.Errorf("Type = %q, want office", sp.Type)
	}
	if len(sp.Materials) == 0 {
		t.Fatal("materials must never be empty after generation")
	}
	if sp.Materials[0].Type != "steel" {
		t.Errorf("default material = %q, want steel for non-furniture", sp.Materials[0].Type)
	}
	if sp.Purpose != "commercial workspace" {
		t.Errorf("Purpose = %q, want category default", sp.Purpose)
	}
	if !sp.Dimensions.IsZero() {
		t.Errorf("dimensions invented from nothing: %+v", sp.Dimensions)
	}
}

func TestGenerateFurnitureDefaultMaterial(t *testing.T) {
	g := newTestGenerator()

	sp, err := g.Generate("A small desk")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if sp.Materials[0].Type != "wood" {
		t.Errorf("default material = %q, want wood for furniture", sp.Materials[0].Type)
	}
}

func TestGenerateUnknownPrompt(t *testing.T) {
	g := newTestGenerator()

	sp, err := g.Generate("Make something nice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if sp.Type != spec.TypeUnknown {
		t.Errorf("Type = %q, want %q", sp.Type, spec.TypeUnknown)
	}
	if len(sp.Materials) == 0 {
		t.Error("materials must never be empty after generation")
	}
	if sp.Purpose != "general" {
		t.Errorf("Purpose = %q, want general fallback", sp.Purpose)
	}
}

func TestGenerateRejectsShortPrompt(t *testing.T) {
	g := newTestGenerator()

	for _, prompt := range []string{"", "a", "ab", "  ab  "} {
		_, err := g.Generate(prompt)
		if !errors.Is(err, ErrPromptTooShort) {
			t.Errorf("Generate(%q) error = %v, want ErrPromptTooShort", prompt, err)
		}
	}
}
