package formula

import (
	"cmp"
	"slices"
)

// Flatten collects the leaf names below tree, in depth-first order. The root
// itself is never included, so a leaf root yields an empty result. A basic
// component referenced by several branches appears once per branch.
func Flatten(tree *Tree) []Name {
	if tree == nil {
		return nil
	}
	var leaves []Name
	for _, c := range tree.Children {
		if sub := Flatten(c); len(sub) > 0 {
			leaves = append(leaves, sub...)
		} else {
			leaves = append(leaves, c.Name)
		}
	}
	return leaves
}

// Ingredient is a basic component and how many times a flattened recipe
// requires it.
type Ingredient struct {
	Name  Name `json:"name"`
	Count int  `json:"count"`
}

// Tally groups a flattened list by name. The result is sorted by name.
func Tally(names []Name) []Ingredient {
	counts := make(map[Name]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	out := make([]Ingredient, 0, len(counts))
	for n, c := range counts {
		out = append(out, Ingredient{Name: n, Count: c})
	}
	slices.SortFunc(out, func(a, b Ingredient) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
