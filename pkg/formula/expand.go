package formula

// Expand builds the expansion tree of name: the root is name itself and
// every composite node carries one child per recipe entry, in recipe order,
// down to basic leaves. A basic or unknown name yields a leaf root.
//
// Expand returns a [*CycleError] if a component is reached again on its own
// expansion path. Components shared by different branches (diamonds) are
// expanded in full under each branch.
func Expand(g *Graph, name Name) (*Tree, error) {
	onPath := make(map[Name]bool)
	var path []Name

	var expand func(n Name) (*Tree, error)
	expand = func(n Name) (*Tree, error) {
		node := &Tree{Name: n}
		recipe := g.Recipe(n)
		if len(recipe) == 0 {
			return node, nil
		}
		if onPath[n] {
			return nil, cycleAt(path, n)
		}
		onPath[n] = true
		path = append(path, n)

		node.Children = make([]*Tree, 0, len(recipe))
		for _, sub := range recipe {
			child, err := expand(sub)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}

		path = path[:len(path)-1]
		delete(onPath, n)
		return node, nil
	}
	return expand(name)
}
