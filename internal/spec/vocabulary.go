package spec

import "strings"

// knownMaterials is the fixed vocabulary used for realism scoring and the
// material_unrecognized rule check.
var knownMaterials = []string{
	"wood", "timber", "oak", "pine", "plywood",
	"steel", "metal", "iron", "aluminum", "aluminium",
	"concrete", "cement", "brick", "stone", "marble", "granite",
	"glass", "bamboo", "plastic", "composite", "leather", "fabric",
}

// IsKnownMaterial matches case-insensitively by substring, so "wooden" and
// "reinforced concrete" both count.
func IsKnownMaterial(name string) bool {
	lower := strings.ToLower(name)
	for _, known := range knownMaterials {
		if strings.Contains(lower, known) {
			return true
		}
	}
	return false
}

// typeSynonyms maps a spec type to alternate names accepted when checking
// whether the type appears in the original prompt.
var typeSynonyms = map[string][]string{
	"office":    {"office building", "workplace", "workspace"},
	"house":     {"home", "residence", "residential"},
	"apartment": {"flat", "residential", "housing"},
	"table":     {"desk"},
	"chair":     {"seat", "stool"},
	"library":   {"reading room"},
	"warehouse": {"storage facility", "depot"},
	"school":    {"classroom", "campus"},
	"bridge":    {"overpass", "crossing"},
	"shelf":     {"bookshelf", "shelving"},
}

// TypeMatchesPrompt reports whether specType or one of its synonyms appears
// as a substring of the prompt, case-insensitively.
func TypeMatchesPrompt(specType, prompt string) bool {
	t := strings.ToLower(strings.TrimSpace(specType))
	if IsPlaceholder(t) {
		return false
	}

	lowerPrompt := strings.ToLower(prompt)
	if strings.Contains(lowerPrompt, t) {
		return true
	}
	for _, syn := range typeSynonyms[t] {
		if strings.Contains(lowerPrompt, syn) {
			return true
		}
	}
	return false
}

// Category buckets a spec type for default materials, dimensions and features.
type Category string

const (
	CategoryFurniture   Category = "furniture"
	CategoryOffice      Category = "office"
	CategoryResidential Category = "residential"
	CategoryGeneral     Category = "general"
)

var categoryByType = map[string]Category{
	"table": CategoryFurniture, "chair": CategoryFurniture,
	"desk": CategoryFurniture, "sofa": CategoryFurniture,
	"shelf": CategoryFurniture, "bed": CategoryFurniture,
	"cabinet": CategoryFurniture, "wardrobe": CategoryFurniture,

	"office": CategoryOffice, "school": CategoryOffice,
	"library": CategoryOffice, "warehouse": CategoryOffice,

	"house": CategoryResidential, "apartment": CategoryResidential,
	"villa": CategoryResidential, "cottage": CategoryResidential,
}

func CategoryOf(specType string) Category {
	t := strings.ToLower(strings.TrimSpace(specType))
	if c, ok := categoryByType[t]; ok {
		return c
	}
	for key, c := range categoryByType {
		if strings.Contains(t, key) {
			return c
		}
	}
	return CategoryGeneral
}
