// Package source loads formula tables and builds a [formula.Catalog] from
// them.
//
// # Tables
//
// The core consumes three logical tables, bundled here as [Tables]:
//
//   - the formula table: composite name -> ordered recipe
//   - the name universe: every valid canonical name
//   - an optional precomputed usage table, nested objects keyed by consumer
//
// # Formats
//
// The classic resource layout is a directory holding
// component_formulas.json and all_components.json, plus an optional
// usage_table.json; read it with [LoadDir]. JSON files may contain comments
// and trailing commas (JSONC).
//
// A single document holding both tables is also accepted in JSON, YAML or
// TOML ([LoadFile], dispatched on the file extension):
//
//	components = ["Assassin", "Deadeye", "Vampiric"]
//
//	[formulas]
//	Assassin = ["Deadeye", "Vampiric"]
//
// Tables can also be read from MongoDB with [LoadMongo], and the Archnemesis
// data set ships embedded in the binary ([Embedded]).
//
// # Validation
//
// [Tables.Catalog] validates every canonical name and translates core
// failures (ambiguous names, cycles) into structured errors from
// [github.com/matzehuels/anemcalc/pkg/errors].
package source
