// Package formula models the Archnemesis crafting-formula graph and answers
// the two dual queries over it.
//
// # Overview
//
// A component is either composite (it has a recipe, an ordered list of
// direct sub-components) or basic (it has no recipe). The formula table maps
// composite names to their recipes; every name that is not a key of the table
// is basic. Two queries are answered:
//
//   - Recipe: which basic components does X decompose into ([Expand],
//     [Flatten]).
//   - Usage: which components consume X, directly or transitively
//     ([BuildUsageIndex]).
//
// # Names
//
// Canonical names are carried as [Name]. Raw user input becomes a Name only
// through an [Index], which normalizes text with [Normalize] (Unicode case
// folding, letters only) and looks up the canonical spelling:
//
//	idx, err := formula.NewIndex([]formula.Name{"Soul Eater", "Necromancer"})
//	name, err := idx.Resolve("  soul-eater ") // "Soul Eater"
//
// Index construction fails with an [*AmbiguousNameError] when two distinct
// canonical names share a normalized key.
//
// # Trees
//
// Both queries return a [*Tree]: a node with a name and ordered children.
// An expansion tree is rooted at the requested component and its leaves are
// basic components. A usage tree is rooted at the ingredient and its children
// are the consumers' own usage trees, shared by pointer across the index.
//
// # Catalog
//
// [Catalog] bundles the graph, the name index and the usage index into one
// immutable value built at startup:
//
//	cat, err := formula.NewCatalog(table, universe)
//	name, err := cat.ResolveName("assassin")
//	tree, err := cat.RecipeTree(name)
//	leaves := cat.Flatten(tree)
//
// # Cycles
//
// Formula data is expected to be acyclic. Expansion and usage-index
// construction track the current path and return a [*CycleError] instead of
// recursing forever when the data is malformed.
//
// # Concurrency
//
// Graph, Index, UsageIndex and Catalog are read-only after construction and
// safe for concurrent use. Trees returned by queries must not be modified;
// usage trees are shared between entries.
package formula
