package source

import (
	"io"

	"gopkg.in/yaml.v3"
)

// ReadYAMLDocument decodes a YAML document with "components" and
// "formulas" keys:
//
//	components: [Assassin, Deadeye, Vampiric]
//	formulas:
//	  Assassin: [Deadeye, Vampiric]
func ReadYAMLDocument(r io.Reader) (Tables, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Tables{}, nil
		}
		return Tables{}, decodeError("YAML document", err)
	}
	return doc.tables(), nil
}
