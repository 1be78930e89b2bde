package source

import (
	"embed"
	"io/fs"
)

//go:embed data/*.json
var embedded embed.FS

// Embedded returns the Archnemesis tables bundled with the binary.
func Embedded() (Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return Tables{}, err
	}
	return LoadFS(sub, Files{})
}
