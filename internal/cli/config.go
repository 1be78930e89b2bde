package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/anemcalc/pkg/errors"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config is the on-disk configuration. Every field is optional; flags
// override file values and defaults fill the rest.
//
//	view = "list"
//
//	[data]
//	dir = "~/anem"
//
//	[server]
//	addr = ":8080"
//	redis = "redis://localhost:6379/0"
//	cache_ttl = "24h"
type Config struct {
	// View is the default recipe view: "tree" or "list".
	View   string       `toml:"view"`
	Data   DataConfig   `toml:"data"`
	Mongo  MongoConfig  `toml:"mongo"`
	Server ServerConfig `toml:"server"`
}

// DataConfig selects file-based tables. File wins over Dir.
type DataConfig struct {
	Dir        string `toml:"dir"`
	File       string `toml:"file"`
	Formulas   string `toml:"formulas"`
	Components string `toml:"components"`
	Usage      string `toml:"usage"`
}

// MongoConfig selects MongoDB-hosted tables.
type MongoConfig struct {
	URI      string   `toml:"uri"`
	Database string   `toml:"database"`
	Timeout  Duration `toml:"timeout"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr     string   `toml:"addr"`
	Redis    string   `toml:"redis"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// Duration decodes TOML strings such as "90s" or "24h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults applied after the file and flags.
const (
	defaultView     = "tree"
	defaultAddr     = ":8080"
	defaultCacheTTL = 24 * time.Hour
)

func (cfg Config) withDefaults() Config {
	if cfg.View == "" {
		cfg.View = defaultView
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.CacheTTL.Duration == 0 {
		cfg.Server.CacheTTL.Duration = defaultCacheTTL
	}
	cfg.Data.Dir = expandHome(cfg.Data.Dir)
	cfg.Data.File = expandHome(cfg.Data.File)
	return cfg
}

// loadConfig reads path, or the default config file when path is empty. A
// missing default file yields an empty config; a missing explicit file is an
// error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return Config{}, nil
		}
		path = filepath.Join(dir, configFile)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "config file %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.View != "" {
		if err := errors.ValidateChoice(errors.ErrCodeInvalidView, "view", cfg.View, views); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// applyFlags overrides cfg with the persistent flags that were set. A source
// flag replaces every source from the file: --file beats --data beats
// --mongo.
func (c *CLI) applyFlags(cfg Config) Config {
	f := c.flags
	switch {
	case f.file != "":
		cfg.Data = DataConfig{File: f.file}
		cfg.Mongo.URI = ""
	case f.dataDir != "":
		cfg.Data.Dir = f.dataDir
		cfg.Data.File = ""
		cfg.Mongo.URI = ""
	case f.mongoURI != "":
		cfg.Mongo.URI = f.mongoURI
		cfg.Data = DataConfig{}
	}
	if f.mongoDB != "" {
		cfg.Mongo.Database = f.mongoDB
	}
	return cfg.withDefaults()
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
