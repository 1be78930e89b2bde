package render

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/anemcalc/pkg/formula"
)

// OutlineStyle styles the parts of an [Outline].
type OutlineStyle struct {
	Root       lipgloss.Style
	Item       lipgloss.Style
	Leaf       lipgloss.Style
	Enumerator lipgloss.Style
	Rounded    bool
}

// PlainOutline renders without colors.
var PlainOutline = OutlineStyle{
	Root:       lipgloss.NewStyle(),
	Item:       lipgloss.NewStyle(),
	Leaf:       lipgloss.NewStyle(),
	Enumerator: lipgloss.NewStyle().PaddingRight(1),
}

// Outline renders t as an indented tree, one node per line. Children are
// sorted by name; duplicate children are kept.
func Outline(t *formula.Tree, style OutlineStyle) string {
	if t == nil {
		return ""
	}
	root := tree.Root(string(t.Name)).RootStyle(style.Root)
	addChildren(root, t, style)
	return root.String()
}

func addChildren(dst *tree.Tree, src *formula.Tree, style OutlineStyle) {
	enum := tree.DefaultEnumerator
	if style.Rounded {
		enum = tree.RoundedEnumerator
	}
	dst.Enumerator(enum).EnumeratorStyle(style.Enumerator).ItemStyle(style.Item)

	for _, c := range sortedChildren(src) {
		if c.IsLeaf() {
			dst.Child(style.Leaf.Render(string(c.Name)))
			continue
		}
		sub := tree.Root(string(c.Name))
		addChildren(sub, c, style)
		dst.Child(sub)
	}
}

func sortedChildren(t *formula.Tree) []*formula.Tree {
	return slices.SortedStableFunc(slices.Values(t.Children), func(a, b *formula.Tree) int {
		return cmp.Compare(a.Name, b.Name)
	})
}
