package render

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/anemcalc/pkg/formula"
)

// Nested converts the children of t into nested maps keyed by name. Leaves
// map to empty objects. Duplicate children collapse into one key.
func Nested(t *formula.Tree) map[string]any {
	out := make(map[string]any)
	if t == nil {
		return out
	}
	for _, c := range t.Children {
		out[string(c.Name)] = Nested(c)
	}
	return out
}

// Document is the JSON envelope written by [WriteJSON].
type Document struct {
	Component   string               `json:"component"`
	Kind        string               `json:"kind"`
	Tree        map[string]any       `json:"tree"`
	Ingredients []formula.Ingredient `json:"ingredients,omitempty"`
	Consumers   []string             `json:"consumers,omitempty"`
}

// NewRecipeDocument describes a recipe tree with its tallied ingredients.
func NewRecipeDocument(t *formula.Tree) Document {
	return Document{
		Component:   string(t.Name),
		Kind:        "recipe",
		Tree:        Nested(t),
		Ingredients: formula.Tally(formula.Flatten(t)),
	}
}

// NewUsageDocument describes a usage tree with the distinct consumers.
func NewUsageDocument(t *formula.Tree, consumers []formula.Name) Document {
	return Document{
		Component: string(t.Name),
		Kind:      "usage",
		Tree:      Nested(t),
		Consumers: formula.Strings(consumers),
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
