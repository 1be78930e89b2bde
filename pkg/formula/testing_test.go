package formula

import "testing"

// scenarioTable is the reference graph A -> [B, C], B -> [D].
func scenarioTable() map[Name][]Name {
	return map[Name][]Name{
		"A": {"B", "C"},
		"B": {"D"},
	}
}

func mustGraph(t *testing.T, table map[Name][]Name, universe ...Name) *Graph {
	t.Helper()
	g, err := NewGraph(table, universe)
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}
	return g
}

// leaf and node build expected trees compactly.
func leaf(name Name) *Tree { return &Tree{Name: name} }

func node(name Name, children ...*Tree) *Tree { return &Tree{Name: name, Children: children} }

func sameMultiset(a, b []Name) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[Name]int, len(a))
	for _, n := range a {
		counts[n]++
	}
	for _, n := range b {
		counts[n]--
		if counts[n] < 0 {
			return false
		}
	}
	return true
}
