package source

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/anemcalc/pkg/errors"
	"github.com/matzehuels/anemcalc/pkg/formula"
)

// Tables is the raw input of a catalog, as read from a source.
type Tables struct {
	// Formulas maps composite names to their ordered recipes.
	Formulas map[string][]string
	// Universe lists every valid canonical name. When empty, the names of
	// Formulas (keys and recipe members) are used.
	Universe []string
	// Usage is an optional precomputed usage index.
	Usage formula.UsageIndex
}

// document is the single-file layout shared by the JSON, YAML and TOML
// readers.
type document struct {
	Components []string            `json:"components" yaml:"components" toml:"components"`
	Formulas   map[string][]string `json:"formulas" yaml:"formulas" toml:"formulas"`
}

func (d document) tables() Tables {
	return Tables{Formulas: d.Formulas, Universe: d.Components}
}

// Validate checks every name in t with [errors.ValidateComponentName] and
// returns the first failure.
func (t Tables) Validate() error {
	for _, n := range t.Universe {
		if err := errors.ValidateComponentName(n); err != nil {
			return err
		}
	}
	for _, parent := range slices.Sorted(maps.Keys(t.Formulas)) {
		if err := errors.ValidateComponentName(parent); err != nil {
			return err
		}
		for _, child := range t.Formulas[parent] {
			if err := errors.ValidateComponentName(child); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidName, err, "recipe of %q", parent)
			}
		}
	}
	return nil
}

// Stats summarizes the table sizes for logging.
func (t Tables) Stats() (formulas, names int) {
	return len(t.Formulas), len(t.Universe)
}

// Catalog validates t and builds the query catalog. A precomputed usage
// table is used as is; otherwise the usage index is derived from the
// formulas.
func (t Tables) Catalog() (*formula.Catalog, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	table := make(map[formula.Name][]formula.Name, len(t.Formulas))
	for parent, recipe := range t.Formulas {
		table[formula.Name(parent)] = formula.Names(recipe...)
	}

	var opts []formula.CatalogOption
	if t.Usage != nil {
		opts = append(opts, formula.WithUsageIndex(t.Usage))
	}

	cat, err := formula.NewCatalog(table, formula.Names(t.Universe...), opts...)
	if err != nil {
		return nil, errors.FromFormula(err)
	}
	return cat, nil
}

// canonicalDoc is the encoding hashed by [Tables.Canonical]. JSON objects
// are written with sorted keys.
type canonicalDoc struct {
	Components []string            `json:"components"`
	Formulas   map[string][]string `json:"formulas"`
	Usage      map[string]nested   `json:"usage,omitempty"`
}

// Canonical returns a stable JSON encoding of the formulas, the sorted
// universe and the precomputed usage table, if any. Equal tables produce
// equal bytes, so callers hash it to fingerprint the data behind cached
// artifacts.
func (t Tables) Canonical() []byte {
	doc := canonicalDoc{
		Components: slices.Sorted(slices.Values(t.Universe)),
		Formulas:   t.Formulas,
	}
	if t.Usage != nil {
		doc.Usage = make(map[string]nested, len(t.Usage))
		for name, tree := range t.Usage {
			doc.Usage[string(name)] = toNested(tree)
		}
	}
	data, _ := json.Marshal(doc)
	return data
}

func decodeError(format string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidSource, err, "decode %s", format)
}

func wrapOpen(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s", path)
}

func mustNotBeEmpty(t Tables, origin string) error {
	if len(t.Formulas) == 0 && len(t.Universe) == 0 {
		return errors.New(errors.ErrCodeInvalidSource, "%s contains no components", origin)
	}
	return nil
}
