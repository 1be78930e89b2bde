package formula

// Tree is a node of an expansion or usage tree. A node without children is a
// leaf: a basic component in an expansion tree, or a component nothing
// consumes in a usage tree.
type Tree struct {
	Name     Name
	Children []*Tree
}

// IsLeaf reports whether the node has no children.
func (t *Tree) IsLeaf() bool { return t == nil || len(t.Children) == 0 }

// Child returns the first direct child named name.
func (t *Tree) Child(name Name) (*Tree, bool) {
	if t == nil {
		return nil, false
	}
	for _, c := range t.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ChildNames returns the names of the direct children in order.
func (t *Tree) ChildNames() []Name {
	if t == nil {
		return nil
	}
	names := make([]Name, len(t.Children))
	for i, c := range t.Children {
		names[i] = c.Name
	}
	return names
}

// Depth returns the number of levels below the node; a leaf has depth 0.
func (t *Tree) Depth() int {
	depth := 0
	if t == nil {
		return depth
	}
	for _, c := range t.Children {
		if d := c.Depth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// Walk calls fn for every node in depth-first pre-order together with its
// depth below t. Shared subtrees are visited once per path. Returning false
// from fn skips the node's children.
func (t *Tree) Walk(fn func(node *Tree, depth int) bool) {
	var walk func(n *Tree, depth int)
	walk = func(n *Tree, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if t != nil {
		walk(t, 0)
	}
}

// Equal reports whether a and b have the same shape and names, child order
// included.
func Equal(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
