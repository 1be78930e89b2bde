package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anemcalc/pkg/buildinfo"
	"github.com/matzehuels/anemcalc/pkg/cache"
	"github.com/matzehuels/anemcalc/pkg/formula"
	"github.com/matzehuels/anemcalc/pkg/observability"
	"github.com/matzehuels/anemcalc/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "anemcalc"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags globalFlags
	cfg   Config

	// loaded by catalog, reused by every command of one invocation
	cat  *formula.Catalog
	hash string
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	dataDir    string
	file       string
	mongoURI   string
	mongoDB    string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Archnemesis recipe calculator",
		Long: `anemcalc breaks Archnemesis modifiers down into their basic components
and shows which recipes a component is used in.

Names are matched loosely: case, spaces and punctuation are ignored, so
"kitava touched" finds Kitava-Touched.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.flags.configPath)
			if err != nil {
				return err
			}
			c.cfg = c.applyFlags(cfg)
			installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/anemcalc/config.toml)")
	pf.StringVar(&c.flags.dataDir, "data", "", "directory with component_formulas.json and all_components.json")
	pf.StringVar(&c.flags.file, "file", "", "single table file (.json, .jsonc, .yaml, .yml, .toml)")
	pf.StringVar(&c.flags.mongoURI, "mongo", "", "load tables from MongoDB at this URI")
	pf.StringVar(&c.flags.mongoDB, "mongo-db", "", "MongoDB database name")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the rendered artifact cache")

	root.AddCommand(c.namesCommand())
	root.AddCommand(c.recipeCommand())
	root.AddCommand(c.usageCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Catalog Loading
// =============================================================================

// catalog loads the formula tables from the configured source and builds the
// catalog once per invocation.
func (c *CLI) catalog(ctx context.Context) (*formula.Catalog, error) {
	if c.cat != nil {
		return c.cat, nil
	}
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	tables, origin, err := c.loadTables(ctx)
	if err != nil {
		return nil, err
	}
	formulas, names := tables.Stats()
	logger.Debug("tables loaded", "source", origin, "formulas", formulas, "names", names, "precomputed_usage", tables.Usage != nil)

	// The hash covers the tables as loaded, before a cached usage table is
	// attached, so it is the same on every run over the same data.
	hash := cache.Hash(tables.Canonical())
	precomputed := tables.Usage != nil
	if !precomputed {
		tables.Usage = c.cachedUsage(ctx, hash)
	}

	cat, err := tables.Catalog()
	if err != nil {
		return nil, err
	}
	if !precomputed && tables.Usage == nil {
		c.storeUsage(ctx, hash, cat.Usage())
	}
	prog.debug("catalog ready")

	c.cat, c.hash = cat, hash
	return cat, nil
}

// usageKind is the data cache kind of built usage tables.
const usageKind = "usage"

// cachedUsage returns the usage table built by an earlier run over the same
// data, or nil.
func (c *CLI) cachedUsage(ctx context.Context, hash string) formula.UsageIndex {
	store, err := c.newCache()
	if err != nil {
		return nil
	}
	defer store.Close()

	data, hit, err := store.Get(ctx, cache.NewDefaultKeyer().DataKey(usageKind, hash))
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, usageKind)
		return nil
	}
	usage, err := source.ReadUsageTable(bytes.NewReader(data))
	if err != nil {
		loggerFromContext(ctx).Warn("ignoring unreadable cached usage table", "err", err)
		return nil
	}
	observability.Cache().OnCacheHit(ctx, usageKind)
	return usage
}

// storeUsage caches a freshly built usage table for later runs.
func (c *CLI) storeUsage(ctx context.Context, hash string, usage formula.UsageIndex) {
	store, err := c.newCache()
	if err != nil {
		return
	}
	defer store.Close()

	var buf bytes.Buffer
	if err := source.WriteUsageTable(&buf, usage); err != nil {
		return
	}
	key := cache.NewDefaultKeyer().DataKey(usageKind, hash)
	if err := store.Set(ctx, key, buf.Bytes(), c.cfg.Server.CacheTTL.Duration); err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, usageKind, buf.Len())
}

func (c *CLI) loadTables(ctx context.Context) (source.Tables, string, error) {
	d := c.cfg.Data
	switch {
	case d.File != "":
		t, err := source.LoadFile(d.File)
		return t, d.File, err
	case d.Dir != "":
		t, err := source.LoadDir(d.Dir, source.Files{
			Formulas:   d.Formulas,
			Components: d.Components,
			Usage:      d.Usage,
		})
		return t, d.Dir, err
	case c.cfg.Mongo.URI != "":
		sp := newSpinner(ctx, "Loading tables from MongoDB...")
		sp.Start()
		t, err := source.LoadMongo(ctx, source.MongoConfig{
			URI:      c.cfg.Mongo.URI,
			Database: c.cfg.Mongo.Database,
			Timeout:  c.cfg.Mongo.Timeout.Duration,
		})
		sp.Stop()
		return t, "mongo", err
	}
	t, err := source.Embedded()
	return t, "embedded", err
}

// dataHash fingerprints the loaded tables for artifact cache keys.
func (c *CLI) dataHash() string {
	return c.hash
}

// =============================================================================
// Cache
// =============================================================================

func (c *CLI) newCache() (cache.Cache, error) {
	if c.flags.noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/anemcalc/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/anemcalc/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
