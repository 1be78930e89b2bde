package formula

import (
	"maps"
	"slices"
)

// UsageIndex maps a component to its usage tree. The tree rooted at n has
// one child per direct consumer of n, and that child is the consumer's own
// entry in the index: subtrees are shared, not copied.
type UsageIndex map[Name]*Tree

// BuildUsageIndex computes the usage tree of every name known to g plus
// every name in universe. Entries are built depth-first from each name
// towards its consumers and memoized, so a consumer's entry is complete
// before any of its ingredients reference it.
//
// Returns a [*CycleError] if a component consumes itself transitively.
func BuildUsageIndex(g *Graph, universe []Name) (UsageIndex, error) {
	idx := make(UsageIndex, g.Len()+len(universe))
	onPath := make(map[Name]bool)
	var path []Name

	var build func(n Name) (*Tree, error)
	build = func(n Name) (*Tree, error) {
		if t, ok := idx[n]; ok {
			return t, nil
		}
		if onPath[n] {
			return nil, cycleAt(path, n)
		}
		onPath[n] = true
		path = append(path, n)

		node := &Tree{Name: n}
		for _, parent := range g.Parents(n) {
			pt, err := build(parent)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, pt)
		}

		path = path[:len(path)-1]
		delete(onPath, n)
		idx[n] = node
		return node, nil
	}

	names := g.Names()
	for _, n := range universe {
		if !g.IsKnown(n) {
			names = append(names, n)
		}
	}
	for _, n := range names {
		if _, err := build(n); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Tree returns the usage tree of name.
func (u UsageIndex) Tree(name Name) (*Tree, bool) {
	t, ok := u[name]
	return t, ok
}

// Consumers returns every distinct component that uses name directly or
// transitively, in ascending order.
func (u UsageIndex) Consumers(name Name) []Name {
	root, ok := u[name]
	if !ok {
		return nil
	}
	seen := make(map[Name]struct{})
	root.Walk(func(node *Tree, depth int) bool {
		if depth == 0 {
			return true
		}
		if _, ok := seen[node.Name]; ok {
			return false
		}
		seen[node.Name] = struct{}{}
		return true
	})
	return slices.Sorted(maps.Keys(seen))
}

// Names returns the indexed names in ascending order.
func (u UsageIndex) Names() []Name { return slices.Sorted(maps.Keys(u)) }
