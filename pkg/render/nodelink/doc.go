// Package nodelink renders recipe and usage trees as Graphviz node-link
// diagrams.
//
// A tree repeats a shared sub-component once per branch; the diagram merges
// repeats into one node per component, so a recipe becomes the DAG of its
// components. An edge that occurs more than once under the same parent is
// labelled with its multiplicity.
//
// Arrows always point from a composite to its ingredient. Usage trees store
// consumers as children, so their edges are reversed when drawn.
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Kind: nodelink.Recipe})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz].
package nodelink
