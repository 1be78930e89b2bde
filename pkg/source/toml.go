package source

import (
	"io"

	"github.com/BurntSushi/toml"
)

// ReadTOMLDocument decodes a TOML document with a top-level "components"
// array and a [formulas] table. Names containing spaces must be quoted:
//
//	[formulas]
//	"Soul Eater" = ["Soul Conduit", "Necromancer", "Gargantuan"]
func ReadTOMLDocument(r io.Reader) (Tables, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return Tables{}, decodeError("TOML document", err)
	}
	return doc.tables(), nil
}
