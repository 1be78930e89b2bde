package formula

import (
	"errors"
	"slices"
	"testing"
)

func TestGraphQueries(t *testing.T) {
	g := mustGraph(t, scenarioTable(), Names("A", "B", "C", "D", "E")...)

	tests := []struct {
		name                    Name
		composite, basic, known bool
		recipe                  []Name
	}{
		{"A", true, false, true, []Name{"B", "C"}},
		{"B", true, false, true, []Name{"D"}},
		{"C", false, true, true, nil},
		{"E", false, true, true, nil},
		{"Z", false, false, false, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := g.IsComposite(tt.name); got != tt.composite {
				t.Errorf("IsComposite() = %v, want %v", got, tt.composite)
			}
			if got := g.IsBasic(tt.name); got != tt.basic {
				t.Errorf("IsBasic() = %v, want %v", got, tt.basic)
			}
			if got := g.IsKnown(tt.name); got != tt.known {
				t.Errorf("IsKnown() = %v, want %v", got, tt.known)
			}
			if got := g.Recipe(tt.name); !slices.Equal(got, tt.recipe) {
				t.Errorf("Recipe() = %v, want %v", got, tt.recipe)
			}
		})
	}
}

func TestGraphKnownIncludesRecipeMembers(t *testing.T) {
	g := mustGraph(t, map[Name][]Name{"X": {"Y", "Z"}})
	for _, n := range Names("X", "Y", "Z") {
		if !g.IsKnown(n) {
			t.Errorf("IsKnown(%q) = false, want true", n)
		}
	}
	if got := g.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestGraphListings(t *testing.T) {
	g := mustGraph(t, scenarioTable(), Names("E")...)

	if got, want := g.Names(), Names("A", "B", "C", "D", "E"); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got, want := g.Composites(), Names("A", "B"); !slices.Equal(got, want) {
		t.Errorf("Composites() = %v, want %v", got, want)
	}
	if got, want := g.Basics(), Names("C", "D", "E"); !slices.Equal(got, want) {
		t.Errorf("Basics() = %v, want %v", got, want)
	}
}

func TestGraphParents(t *testing.T) {
	g := mustGraph(t, map[Name][]Name{
		"Z":   {"Leaf", "Leaf"},
		"M":   {"Leaf", "Other"},
		"Top": {"M", "Z"},
	})

	if got, want := g.Parents("Leaf"), Names("M", "Z"); !slices.Equal(got, want) {
		t.Errorf("Parents(Leaf) = %v, want %v", got, want)
	}
	if got := g.Parents("Top"); got != nil {
		t.Errorf("Parents(Top) = %v, want nil", got)
	}
}

func TestGraphCopiesRecipes(t *testing.T) {
	table := map[Name][]Name{"A": {"B"}}
	g := mustGraph(t, table)
	table["A"][0] = "Mutated"
	if got := g.Recipe("A"); got[0] != "B" {
		t.Errorf("Recipe(A) = %v, graph should not alias the input table", got)
	}
}

func TestGraphEmptyRecipeIsBasic(t *testing.T) {
	g := mustGraph(t, map[Name][]Name{"A": {}})
	if g.IsComposite("A") {
		t.Error("IsComposite(A) = true for an empty recipe")
	}
	if !g.IsBasic("A") {
		t.Error("IsBasic(A) = false, want true")
	}
}

func TestNewGraphInvalidNames(t *testing.T) {
	tests := []struct {
		name     string
		table    map[Name][]Name
		universe []Name
	}{
		{"EmptyKey", map[Name][]Name{"": {"A"}}, nil},
		{"EmptyMember", map[Name][]Name{"A": {""}}, nil},
		{"EmptyUniverse", nil, []Name{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGraph(tt.table, tt.universe); !errors.Is(err, ErrInvalidName) {
				t.Errorf("NewGraph() error = %v, want ErrInvalidName", err)
			}
		})
	}
}

func TestGraphValidate(t *testing.T) {
	tests := []struct {
		name      string
		table     map[Name][]Name
		wantCycle bool
	}{
		{"Acyclic", scenarioTable(), false},
		{"Diamond", map[Name][]Name{"A": {"B", "C"}, "B": {"D"}, "C": {"D"}}, false},
		{"SelfLoop", map[Name][]Name{"A": {"A"}}, true},
		{"TwoCycle", map[Name][]Name{"A": {"B"}, "B": {"A"}}, true},
		{"Triangle", map[Name][]Name{"A": {"B"}, "B": {"C"}, "C": {"A"}}, true},
		{"Empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mustGraph(t, tt.table).Validate()
			if got := errors.Is(err, ErrCycleDetected); got != tt.wantCycle {
				t.Errorf("Validate() error = %v, want cycle = %v", err, tt.wantCycle)
			}
		})
	}
}

func TestGraphValidateReportsPath(t *testing.T) {
	err := mustGraph(t, map[Name][]Name{"A": {"B"}, "B": {"C"}, "C": {"A"}}).Validate()

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Validate() error = %v, want *CycleError", err)
	}
	if want := Names("A", "B", "C", "A"); !slices.Equal(ce.Path, want) {
		t.Errorf("Path = %v, want %v", ce.Path, want)
	}
	if got, want := ce.Error(), "formula cycle detected: A -> B -> C -> A"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
