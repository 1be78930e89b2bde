package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/anemcalc/pkg/formula"
	"github.com/matzehuels/anemcalc/pkg/observability"
)

// Kind selects how tree edges are drawn.
type Kind string

const (
	Recipe Kind = "recipe"
	Usage  Kind = "usage"
)

// Options configures diagram generation.
type Options struct {
	Kind Kind
	// Direction is the Graphviz rankdir: "TB" (default), "BT", "LR" or "RL".
	Direction string
}

// Directions lists the accepted rank directions.
var Directions = []string{"TB", "BT", "LR", "RL"}

type edge struct{ from, to formula.Name }

// ToDOT converts t into Graphviz DOT source. Nodes and edges are emitted in
// first-visit order, so the output is deterministic for a given tree.
func ToDOT(t *formula.Tree, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = "TB"
	}

	var (
		nodes  []formula.Name
		leaves = make(map[formula.Name]bool)
		seen   = make(map[formula.Name]bool)
		edges  []edge
		counts = make(map[edge]int)
	)
	// Every occurrence of a name has the same subtree, so only the first
	// one contributes edges.
	t.Walk(func(n *formula.Tree, _ int) bool {
		if seen[n.Name] {
			return false
		}
		seen[n.Name] = true
		nodes = append(nodes, n.Name)
		leaves[n.Name] = n.IsLeaf()
		for _, c := range n.Children {
			e := edge{from: n.Name, to: c.Name}
			if opts.Kind == Usage {
				e = edge{from: c.Name, to: n.Name}
			}
			if counts[e] == 0 {
				edges = append(edges, e)
			}
			counts[e]++
		}
		return true
	})

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", string(n), nodeAttrs(n, n == t.Name, leaves[n]))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if c := counts[e]; c > 1 {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"x%d\"];\n", string(e.from), string(e.to), c)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", string(e.from), string(e.to))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(name formula.Name, root, leaf bool) string {
	attrs := fmt.Sprintf("label=%q", string(name))
	switch {
	case root:
		attrs += ", fillcolor=\"#f5d76e\", penwidth=2"
	case leaf:
		attrs += ", fillcolor=\"#e8e8e8\""
	}
	return attrs
}

// RenderSVG renders DOT source to SVG with Graphviz. The root <svg> tag is
// rewritten to carry explicit width, height and a zero-origin viewBox.
func RenderSVG(ctx context.Context, dot string) (svg []byte, err error) {
	start := time.Now()
	defer func() {
		observability.Render().OnRender(ctx, "svg", len(svg), time.Since(start), err)
	}()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
