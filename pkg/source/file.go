package source

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/anemcalc/pkg/errors"
)

// Default resource file names inside a data directory.
const (
	DefaultFormulasFile   = "component_formulas.json"
	DefaultComponentsFile = "all_components.json"
	DefaultUsageFile      = "usage_table.json"
)

// Files names the resource files inside a data directory. Empty fields fall
// back to the defaults. The usage file is optional; a missing file is not an
// error.
type Files struct {
	Formulas   string
	Components string
	Usage      string
}

func (f Files) withDefaults() Files {
	if f.Formulas == "" {
		f.Formulas = DefaultFormulasFile
	}
	if f.Components == "" {
		f.Components = DefaultComponentsFile
	}
	if f.Usage == "" {
		f.Usage = DefaultUsageFile
	}
	return f
}

// LoadDir reads the resource files of dir.
func LoadDir(dir string, files Files) (Tables, error) {
	return LoadFS(os.DirFS(dir), files)
}

// LoadFS reads the resource files from fsys. File names must be relative
// and stay inside fsys.
func LoadFS(fsys fs.FS, files Files) (Tables, error) {
	files = files.withDefaults()
	for _, p := range []string{files.Formulas, files.Components, files.Usage} {
		if err := errors.ValidatePath(p); err != nil {
			return Tables{}, err
		}
	}

	var t Tables
	if err := readFS(fsys, files.Formulas, func(r io.Reader) (err error) {
		t.Formulas, err = ReadFormulaTable(r)
		return err
	}); err != nil {
		return Tables{}, err
	}

	if err := readFS(fsys, files.Components, func(r io.Reader) (err error) {
		t.Universe, err = ReadNameList(r)
		return err
	}); err != nil {
		return Tables{}, err
	}

	err := readFS(fsys, files.Usage, func(r io.Reader) (err error) {
		t.Usage, err = ReadUsageTable(r)
		return err
	})
	if err != nil && !errors.Is(err, errors.ErrCodeFileNotFound) {
		return Tables{}, err
	}

	return t, mustNotBeEmpty(t, files.Formulas)
}

// LoadFile reads a single document holding both tables. The format is
// chosen by extension: .json and .jsonc, .yaml and .yml, or .toml.
func LoadFile(path string) (Tables, error) {
	read, err := readerFor(path)
	if err != nil {
		return Tables{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Tables{}, wrapOpen(path, err)
	}
	defer f.Close()

	t, err := read(f)
	if err != nil {
		return Tables{}, err
	}
	return t, mustNotBeEmpty(t, path)
}

// Formats lists the single-document extensions accepted by [LoadFile].
var Formats = []string{".json", ".jsonc", ".yaml", ".yml", ".toml"}

func readerFor(path string) (func(io.Reader) (Tables, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return ReadJSONDocument, nil
	case ".yaml", ".yml":
		return ReadYAMLDocument, nil
	case ".toml":
		return ReadTOMLDocument, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported table format %q (supported: %s)",
		filepath.Ext(path), strings.Join(Formats, ", "))
}

func readFS(fsys fs.FS, name string, fn func(io.Reader) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return wrapOpen(name, err)
	}
	defer f.Close()
	return fn(f)
}
