// Package render turns recipe and usage trees into output for people and
// programs.
//
// # Terminal Output
//
// [Outline] draws a tree with box-drawing connectors using lipgloss:
//
//	Trickster
//	├── Assassin
//	│   ├── Deadeye
//	│   └── Vampiric
//	├── Echoist
//	└── Overcharged
//
// Children are sorted by name for display; the underlying tree keeps recipe
// order.
//
// # JSON Output
//
// [Nested] converts a tree into nested objects keyed by component name, the
// same shape as the usage table files, and [WriteJSON] encodes it:
//
//	{"Assassin": {"Deadeye": {}, "Vampiric": {}}}
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders trees as Graphviz diagrams (DOT or SVG).
//
// [nodelink]: github.com/matzehuels/anemcalc/pkg/render/nodelink
package render
