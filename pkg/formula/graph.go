package formula

import (
	"fmt"
	"maps"
	"slices"
)

// Graph holds the recipe of every composite component. Components without a
// recipe are basic. A Graph is immutable once built by [NewGraph].
type Graph struct {
	recipes map[Name][]Name
	parents map[Name][]Name
	known   map[Name]struct{}
}

// NewGraph builds a graph from a formula table and the universe of valid
// names. The known set is the universe plus every table key and recipe
// member. Recipes are copied; later changes to table do not affect the graph.
//
// Returns ErrInvalidName if any name, key or recipe member is empty. The
// graph is not checked for cycles here; see [Graph.Validate].
func NewGraph(table map[Name][]Name, universe []Name) (*Graph, error) {
	g := &Graph{
		recipes: make(map[Name][]Name, len(table)),
		parents: make(map[Name][]Name),
		known:   make(map[Name]struct{}, len(universe)+len(table)),
	}
	for _, n := range universe {
		if n == "" {
			return nil, invalidName(n)
		}
		g.known[n] = struct{}{}
	}

	for _, parent := range slices.Sorted(maps.Keys(table)) {
		recipe := table[parent]
		if parent == "" {
			return nil, invalidName(parent)
		}
		g.known[parent] = struct{}{}
		if len(recipe) == 0 {
			// An empty recipe carries no sub-components; treat as basic.
			continue
		}
		g.recipes[parent] = slices.Clone(recipe)

		seen := make(map[Name]bool, len(recipe))
		for _, child := range recipe {
			if child == "" {
				return nil, fmt.Errorf("recipe of %q: %w", parent, invalidName(child))
			}
			g.known[child] = struct{}{}
			if seen[child] {
				continue
			}
			seen[child] = true
			g.parents[child] = append(g.parents[child], parent)
		}
	}
	return g, nil
}

// Recipe returns the direct sub-components of name in declared order, or nil
// if name is basic or unknown. The returned slice must not be modified.
func (g *Graph) Recipe(name Name) []Name { return g.recipes[name] }

// IsComposite reports whether name has a recipe.
func (g *Graph) IsComposite(name Name) bool {
	_, ok := g.recipes[name]
	return ok
}

// IsKnown reports whether name appears in the universe or anywhere in the
// formula table.
func (g *Graph) IsKnown(name Name) bool {
	_, ok := g.known[name]
	return ok
}

// IsBasic reports whether name is known and has no recipe.
func (g *Graph) IsBasic(name Name) bool { return g.IsKnown(name) && !g.IsComposite(name) }

// Parents returns the components whose recipe directly contains name, in
// ascending order. A consumer appears once even if its recipe lists name
// more than once. The returned slice must not be modified.
func (g *Graph) Parents(name Name) []Name { return g.parents[name] }

// Names returns every known name in ascending order.
func (g *Graph) Names() []Name { return slices.Sorted(maps.Keys(g.known)) }

// Composites returns the names with a recipe in ascending order.
func (g *Graph) Composites() []Name { return slices.Sorted(maps.Keys(g.recipes)) }

// Basics returns the known names without a recipe in ascending order.
func (g *Graph) Basics() []Name {
	var basics []Name
	for _, n := range g.Names() {
		if !g.IsComposite(n) {
			basics = append(basics, n)
		}
	}
	return basics
}

// Len returns the number of known names.
func (g *Graph) Len() int { return len(g.known) }

// Validate reports the first recipe cycle as a [*CycleError], or nil if the
// graph is acyclic. It runs in O(N+E) using depth-first search with
// white/gray/black coloring.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[Name]int, len(g.recipes))
	var path []Name

	var dfs func(n Name) error
	dfs = func(n Name) error {
		color[n] = gray
		path = append(path, n)
		for _, child := range g.recipes[n] {
			switch color[child] {
			case white:
				if err := dfs(child); err != nil {
					return err
				}
			case gray:
				return cycleAt(path, child)
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return nil
	}

	for _, n := range g.Composites() {
		if color[n] == white {
			if err := dfs(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func invalidName(n Name) error {
	return fmt.Errorf("%w: %q", ErrInvalidName, n)
}
