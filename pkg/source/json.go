package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/tidwall/jsonc"

	"github.com/matzehuels/anemcalc/pkg/formula"
)

// ReadFormulaTable decodes a JSON object mapping composite names to recipes:
//
//	{"Assassin": ["Deadeye", "Vampiric"]}
func ReadFormulaTable(r io.Reader) (map[string][]string, error) {
	var table map[string][]string
	if err := decodeJSONC(r, &table); err != nil {
		return nil, decodeError("formula table", err)
	}
	return table, nil
}

// ReadNameList decodes a JSON array of canonical names.
func ReadNameList(r io.Reader) ([]string, error) {
	var names []string
	if err := decodeJSONC(r, &names); err != nil {
		return nil, decodeError("name list", err)
	}
	return names, nil
}

// ReadJSONDocument decodes a single JSON document with "components" and
// "formulas" keys.
func ReadJSONDocument(r io.Reader) (Tables, error) {
	var doc document
	if err := decodeJSONC(r, &doc); err != nil {
		return Tables{}, decodeError("JSON document", err)
	}
	return doc.tables(), nil
}

// ReadUsageTable decodes a nested usage table:
//
//	{"Deadeye": {"Assassin": {"Trickster": {}}}}
//
// Each top-level key becomes an index entry. Children are ordered by name.
// Subtrees are not shared between entries.
func ReadUsageTable(r io.Reader) (formula.UsageIndex, error) {
	var raw map[string]nested
	if err := decodeJSONC(r, &raw); err != nil {
		return nil, decodeError("usage table", err)
	}
	idx := make(formula.UsageIndex, len(raw))
	for name, sub := range raw {
		idx[formula.Name(name)] = sub.tree(formula.Name(name))
	}
	return idx, nil
}

// WriteUsageTable encodes the usage index in the nested layout read by
// [ReadUsageTable]. Keys are written in sorted order.
func WriteUsageTable(w io.Writer, idx formula.UsageIndex) error {
	out := make(map[string]nested, len(idx))
	for _, name := range idx.Names() {
		out[string(name)] = toNested(idx[name])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// nested is the JSON shape of a tree: child name -> grandchildren.
type nested map[string]nested

func (n nested) tree(name formula.Name) *formula.Tree {
	t := &formula.Tree{Name: name}
	for _, k := range slices.Sorted(maps.Keys(n)) {
		t.Children = append(t.Children, n[k].tree(formula.Name(k)))
	}
	return t
}

func toNested(t *formula.Tree) nested {
	out := nested{}
	for _, c := range t.Children {
		out[string(c.Name)] = toNested(c)
	}
	return out
}

func decodeJSONC(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	return dec.Decode(v)
}
