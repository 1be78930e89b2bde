package formula

import "fmt"

// Catalog is the read-only query context: the formula graph, the name index
// over every known name and the usage index. Build one with [NewCatalog] at
// startup and share it; all methods are safe for concurrent use.
type Catalog struct {
	graph *Graph
	index *Index
	usage UsageIndex
}

// CatalogOption configures [NewCatalog].
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	usage UsageIndex
}

// WithUsageIndex supplies a precomputed usage index instead of building one.
// Names of the graph missing from usage get an empty usage tree.
func WithUsageIndex(usage UsageIndex) CatalogOption {
	return func(c *catalogConfig) { c.usage = usage }
}

// NewCatalog builds the graph, the name index and the usage index from a
// formula table and the universe of valid names.
//
// Errors: ErrInvalidName for empty names, [*AmbiguousNameError] for names
// that collide after normalization and [*CycleError] when the formulas
// contain a cycle.
func NewCatalog(table map[Name][]Name, universe []Name, opts ...CatalogOption) (*Catalog, error) {
	var cfg catalogConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g, err := NewGraph(table, universe)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	idx, err := NewIndex(g.Names())
	if err != nil {
		return nil, fmt.Errorf("build name index: %w", err)
	}

	usage := cfg.usage
	if usage == nil {
		if usage, err = BuildUsageIndex(g, universe); err != nil {
			return nil, fmt.Errorf("build usage index: %w", err)
		}
	} else {
		usage = completeUsage(g, usage)
	}

	return &Catalog{graph: g, index: idx, usage: usage}, nil
}

func completeUsage(g *Graph, usage UsageIndex) UsageIndex {
	out := make(UsageIndex, len(usage))
	for n, t := range usage {
		out[n] = t
	}
	for _, n := range g.Names() {
		if _, ok := out[n]; !ok {
			out[n] = &Tree{Name: n}
		}
	}
	return out
}

// Graph returns the underlying formula graph.
func (c *Catalog) Graph() *Graph { return c.graph }

// Usage returns the usage index. It must not be modified.
func (c *Catalog) Usage() UsageIndex { return c.usage }

// Names returns every valid canonical name in ascending order.
func (c *Catalog) Names() []Name { return c.index.Names() }

// Composites returns the names that have a recipe.
func (c *Catalog) Composites() []Name { return c.graph.Composites() }

// Basics returns the names without a recipe.
func (c *Catalog) Basics() []Name { return c.graph.Basics() }

// ResolveName converts raw user input to a canonical name, or returns
// ErrNotFound.
func (c *Catalog) ResolveName(raw string) (Name, error) {
	n, err := c.index.Resolve(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, raw)
	}
	return n, nil
}

// RecipeTree expands name down to its basic components. Basic and unknown
// names yield a leaf root.
func (c *Catalog) RecipeTree(name Name) (*Tree, error) {
	return Expand(c.graph, name)
}

// Flatten returns the leaf names below tree; see [Flatten].
func (c *Catalog) Flatten(tree *Tree) []Name { return Flatten(tree) }

// Ingredients returns the basic components name decomposes into. A basic
// component is its own single ingredient. Unknown names return ErrNotFound.
func (c *Catalog) Ingredients(name Name) ([]Name, error) {
	if !c.graph.IsKnown(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if c.graph.IsBasic(name) {
		return []Name{name}, nil
	}
	tree, err := c.RecipeTree(name)
	if err != nil {
		return nil, err
	}
	return Flatten(tree), nil
}

// UsageTree returns the usage tree of name, or ErrNotFound when name has no
// entry in the usage index. The tree is shared and must not be modified.
func (c *Catalog) UsageTree(name Name) (*Tree, error) {
	t, ok := c.usage.Tree(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t, nil
}

// Consumers returns every component that uses name directly or
// transitively, in ascending order.
func (c *Catalog) Consumers(name Name) ([]Name, error) {
	if _, ok := c.usage[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.usage.Consumers(name), nil
}
