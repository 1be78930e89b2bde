package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/anemcalc/pkg/formula"
	"github.com/matzehuels/anemcalc/pkg/source"
)

func testCatalog(t *testing.T) *formula.Catalog {
	t.Helper()
	tables, err := source.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	cat, err := tables.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

// enter types text into the prompt and presses enter.
func enter(t *testing.T, m queryModel, text string) (queryModel, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	qm, ok := next.(queryModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return qm, cmd
}

func TestQueryModelRecipe(t *testing.T) {
	m := newQueryModel(context.Background(), testCatalog(t), queryOpts{})

	m, cmd := enter(t, m, "  TRICKSTER ")
	if m.stage != stageView || m.name != "Trickster" {
		t.Fatalf("after name: stage %v name %q", m.stage, m.name)
	}
	if cmd == nil {
		t.Error("expected the entered line to be echoed")
	}

	m, _ = enter(t, m, "list")
	if m.stage != stageName {
		t.Errorf("stage = %v, want back at name prompt", m.stage)
	}
	for _, w := range []string{msgListHeader, "Deadeye", "Echoist", msgAnother} {
		if !strings.Contains(m.last, w) {
			t.Errorf("answer missing %q:\n%s", w, m.last)
		}
	}

	m, _ = enter(t, m, "trickster")
	m, _ = enter(t, m, "tree")
	if !strings.Contains(m.last, msgTreeHeader) || !strings.Contains(m.last, "Assassin") {
		t.Errorf("tree answer:\n%s", m.last)
	}
}

func TestQueryModelAnswers(t *testing.T) {
	tests := []struct {
		name  string
		opts  queryOpts
		lines []string
		want  string
	}{
		{"unknown", queryOpts{}, []string{"nonsense"}, msgNotFound},
		{"basic", queryOpts{}, []string{"opulent"}, basicMessage},
		{"fixed view", queryOpts{view: formatList}, []string{"assassin"}, "Vampiric"},
		{"usage list", queryOpts{usage: true}, []string{"vampiric", "list"}, "Assassin"},
		{"usage of top", queryOpts{usage: true, view: formatTree}, []string{"kitava touched"}, "No recipe uses Kitava-Touched."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newQueryModel(context.Background(), testCatalog(t), tt.opts)
			for _, line := range tt.lines {
				m, _ = enter(t, m, line)
			}
			if !strings.Contains(m.last, tt.want) {
				t.Errorf("last answer = %q, want it to contain %q", m.last, tt.want)
			}
			if m.stage != stageName {
				t.Errorf("stage = %v, want name prompt", m.stage)
			}
		})
	}
}

func TestQueryModelBadViewAsksAgain(t *testing.T) {
	m := newQueryModel(context.Background(), testCatalog(t), queryOpts{})

	m, _ = enter(t, m, "assassin")
	m, _ = enter(t, m, "graph")
	if m.last != msgBadView {
		t.Errorf("last answer = %q, want %q", m.last, msgBadView)
	}
	if m.stage != stageView || m.name != "Assassin" {
		t.Fatalf("after bad view: stage %v name %q, want view prompt for Assassin", m.stage, m.name)
	}

	m, _ = enter(t, m, "list")
	if !strings.Contains(m.last, msgListHeader) || !strings.Contains(m.last, "Vampiric") {
		t.Errorf("list answer after retry:\n%s", m.last)
	}
	if m.stage != stageName {
		t.Errorf("stage = %v, want name prompt", m.stage)
	}
}

func TestQueryModelQuit(t *testing.T) {
	cat := testCatalog(t)

	m, cmd := enter(t, newQueryModel(context.Background(), cat, queryOpts{}), "quit")
	if !m.quitting || cmd == nil {
		t.Error("quit should end the prompt")
	}
	if m.View() != "" {
		t.Errorf("View() after quit = %q", m.View())
	}

	next, _ := newQueryModel(context.Background(), cat, queryOpts{}).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(queryModel).quitting {
		t.Error("ctrl+c should end the prompt")
	}

	m, cmd = enter(t, newQueryModel(context.Background(), cat, queryOpts{}), "")
	if m.quitting || cmd != nil {
		t.Error("an empty line should be ignored")
	}
}
