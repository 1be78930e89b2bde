package source

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/anemcalc/pkg/errors"
)

func dataFS() fstest.MapFS {
	return fstest.MapFS{
		DefaultFormulasFile:   {Data: []byte(`{"Assassin": ["Deadeye", "Vampiric"]}`)},
		DefaultComponentsFile: {Data: []byte(`["Assassin", "Deadeye", "Vampiric", "Opulent"]`)},
	}
}

func TestLoadFS(t *testing.T) {
	tables, err := LoadFS(dataFS(), Files{})
	if err != nil {
		t.Fatalf("LoadFS() error: %v", err)
	}
	if len(tables.Formulas) != 1 || len(tables.Universe) != 4 {
		t.Errorf("LoadFS() = %+v", tables)
	}
	if tables.Usage != nil {
		t.Error("missing usage file should leave Usage nil")
	}
}

func TestLoadFSWithUsage(t *testing.T) {
	fsys := dataFS()
	fsys["usage.json"] = &fstest.MapFile{Data: []byte(`{"Deadeye": {"Assassin": {}}}`)}

	tables, err := LoadFS(fsys, Files{Usage: "usage.json"})
	if err != nil {
		t.Fatalf("LoadFS() error: %v", err)
	}
	if _, ok := tables.Usage["Deadeye"]; !ok {
		t.Errorf("Usage = %v, want Deadeye entry", tables.Usage)
	}
}

func TestLoadFSErrors(t *testing.T) {
	tests := []struct {
		name  string
		fsys  fstest.MapFS
		files Files
		code  errors.Code
	}{
		{"missing formulas", fstest.MapFS{}, Files{}, errors.ErrCodeFileNotFound},
		{"traversal", dataFS(), Files{Formulas: "../formulas.json"}, errors.ErrCodeInvalidPath},
		{"absolute", dataFS(), Files{Components: "/etc/passwd"}, errors.ErrCodeInvalidPath},
		{
			name: "bad usage",
			fsys: func() fstest.MapFS {
				fsys := dataFS()
				fsys[DefaultUsageFile] = &fstest.MapFile{Data: []byte(`not json`)}
				return fsys
			}(),
			code: errors.ErrCodeInvalidSource,
		},
		{
			name: "empty",
			fsys: fstest.MapFS{
				DefaultFormulasFile:   {Data: []byte(`{}`)},
				DefaultComponentsFile: {Data: []byte(`[]`)},
			},
			code: errors.ErrCodeInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFS(tt.fsys, tt.files); !errors.Is(err, tt.code) {
				t.Errorf("LoadFS() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for name, f := range dataFS() {
		if err := os.WriteFile(filepath.Join(dir, name), f.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tables, err := LoadDir(dir, Files{})
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(tables.Formulas) != 1 {
		t.Errorf("LoadDir() formulas = %v", tables.Formulas)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "tables.json",
			content: `{"components": ["Assassin", "Deadeye", "Vampiric"], "formulas": {"Assassin": ["Deadeye", "Vampiric"]}}`,
		},
		{
			name: "jsonc",
			file: "tables.jsonc",
			content: `{
				// names
				"components": ["Assassin", "Deadeye", "Vampiric"],
				"formulas": {"Assassin": ["Deadeye", "Vampiric"],},
			}`,
		},
		{
			name: "yaml",
			file: "tables.yml",
			content: `components: [Assassin, Deadeye, Vampiric]
formulas:
  Assassin: [Deadeye, Vampiric]
`,
		},
		{
			name: "toml",
			file: "tables.toml",
			content: `components = ["Assassin", "Deadeye", "Vampiric"]

[formulas]
Assassin = ["Deadeye", "Vampiric"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			tables, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error: %v", err)
			}
			if len(tables.Universe) != 3 {
				t.Errorf("Universe = %v, want 3 names", tables.Universe)
			}
			if got := tables.Formulas["Assassin"]; len(got) != 2 || got[1] != "Vampiric" {
				t.Errorf("Formulas[Assassin] = %v", got)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("components = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"unsupported", filepath.Join(dir, "tables.xml"), errors.ErrCodeInvalidFormat},
		{"missing", filepath.Join(dir, "missing.json"), errors.ErrCodeFileNotFound},
		{"empty", empty, errors.ErrCodeInvalidSource},
		{"broken", broken, errors.ErrCodeInvalidSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(tt.path); !errors.Is(err, tt.code) {
				t.Errorf("LoadFile(%s) error = %v, want code %s", tt.name, err, tt.code)
			}
		})
	}
}
