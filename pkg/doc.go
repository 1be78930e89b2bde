// Package pkg provides the libraries behind anemcalc, the Archnemesis recipe
// calculator.
//
// # Overview
//
// Archnemesis modifiers are crafted from other modifiers. anemcalc answers
// two questions about that formula graph: which basic components a modifier
// is made of, and which modifiers a component takes part in. The pkg
// directory is organized into these areas:
//
//  1. [formula] - Core model: names, the formula graph, recipe expansion,
//     flattening and the usage index
//  2. [source] - Loading formula tables (JSON, YAML, TOML, MongoDB, embedded)
//  3. [render] - Terminal outlines, JSON documents and Graphviz diagrams
//  4. [server] - HTTP API over a catalog
//  5. [cache] - Rendered artifact cache (file, Redis)
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML/TOML file, MongoDB or embedded data
//	         ↓
//	    [source] package (Tables)
//	         ↓
//	    [formula] package (Catalog: graph + name index + usage index)
//	         ↓
//	    [render] package (outline, JSON, DOT/SVG)
//
// # Quick Start
//
//	tables, _ := source.Embedded()
//	cat, _ := tables.Catalog()
//
//	name, _ := cat.ResolveName("kitava touched") // "Kitava-Touched"
//	tree, _ := cat.RecipeTree(name)
//	fmt.Println(render.Outline(tree, render.PlainOutline))
//
//	basics, _ := cat.Ingredients(name)
//	for _, in := range formula.Tally(basics) {
//	    fmt.Printf("%d × %s\n", in.Count, in.Name)
//	}
//
// # Main Packages
//
// [formula] - Canonical names and lookup that tolerates case, spacing and
// punctuation differences. [formula.Expand] builds recipe trees,
// [formula.Flatten] lists their leaves and [formula.BuildUsageIndex] inverts
// the graph. Cycles are detected and reported, never repaired.
//
// [source] - Table loaders. A directory holds component_formulas.json,
// all_components.json and an optional precomputed usage_table.json.
//
// [render/nodelink] - Directed graph diagrams using Graphviz.
//
// [errors] - Structured errors with machine-readable codes and HTTP status
// mapping.
//
// [observability] - Hooks for resolve, query, render, cache and request
// events.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include MongoDB integration tests
//
// [formula]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/formula
// [source]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/source
// [render]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/render/nodelink
// [server]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/anemcalc/pkg/observability
package pkg
