package formula

import (
	"slices"
	"testing"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		tree *Tree
		want []Name
	}{
		{"Nil", nil, nil},
		{"LeafRoot", leaf("A"), nil},
		{"OneLevel", node("A", leaf("B"), leaf("C")), Names("B", "C")},
		{"Scenario", node("A", node("B", leaf("D")), leaf("C")), Names("D", "C")},
		{"Duplicates", node("A", node("B", leaf("x")), node("C", leaf("x"), leaf("y"))), Names("x", "x", "y")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flatten(tt.tree); !slices.Equal(got, tt.want) {
				t.Errorf("Flatten() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTally(t *testing.T) {
	got := Tally(Names("x", "y", "x", "a"))
	want := []Ingredient{{"a", 1}, {"x", 2}, {"y", 1}}
	if !slices.Equal(got, want) {
		t.Errorf("Tally() = %v, want %v", got, want)
	}
	if got := Tally(nil); len(got) != 0 {
		t.Errorf("Tally(nil) = %v, want empty", got)
	}
}

func TestTreeHelpers(t *testing.T) {
	tree := node("A", node("B", leaf("D")), leaf("C"))

	if got := tree.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
	if c, ok := tree.Child("B"); !ok || c.Name != "B" {
		t.Errorf("Child(B) = %v, %v", c, ok)
	}
	if _, ok := tree.Child("D"); ok {
		t.Error("Child(D) found a grandchild")
	}

	var visited []Name
	tree.Walk(func(n *Tree, depth int) bool {
		visited = append(visited, n.Name)
		return n.Name != "B"
	})
	if want := Names("A", "B", "C"); !slices.Equal(visited, want) {
		t.Errorf("Walk visited %v, want %v", visited, want)
	}

	var nilTree *Tree
	if !nilTree.IsLeaf() || nilTree.Depth() != 0 || nilTree.ChildNames() != nil {
		t.Error("nil tree should behave as an empty leaf")
	}
}

func TestEqual(t *testing.T) {
	a := node("A", leaf("B"), leaf("C"))
	if !Equal(a, node("A", leaf("B"), leaf("C"))) {
		t.Error("Equal() = false for identical trees")
	}
	if Equal(a, node("A", leaf("C"), leaf("B"))) {
		t.Error("Equal() = true for reordered children")
	}
	if Equal(a, nil) || !Equal(nil, nil) {
		t.Error("Equal() mishandles nil")
	}
}
