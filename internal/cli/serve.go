package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anemcalc/pkg/cache"
	"github.com/matzehuels/anemcalc/pkg/server"
)

// redisKeyPrefix namespaces keys in a shared Redis.
const redisKeyPrefix = appName + ":"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Serve recipe and usage queries as a JSON API, with SVG diagrams cached in
Redis when configured and in the local cache directory otherwise.

Endpoints:
  GET /healthz
  GET /api/v1/components
  GET /api/v1/resolve?q=<text>
  GET /api/v1/components/{name}/recipe[?view=tree|list]
  GET /api/v1/components/{name}/usage
  GET /api/v1/components/{name}/recipe.svg
  GET /api/v1/components/{name}/usage.svg`,
		Example: `  anemcalc serve --addr :9000
  anemcalc serve --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			if cmd.Flags().Changed("redis") {
				sc.Redis = redisURL
			}
			if cmd.Flags().Changed("cache-ttl") {
				sc.CacheTTL.Duration = ttl
			}
			return c.runServe(cmd.Context(), sc)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the diagram cache")
	cmd.Flags().DurationVar(&ttl, "cache-ttl", defaultCacheTTL, "lifetime of cached diagrams")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, sc ServerConfig) error {
	logger := loggerFromContext(ctx)
	cat, err := c.catalog(ctx)
	if err != nil {
		return err
	}

	store, keyer, err := c.serverCache(ctx, sc)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(cat, server.Config{
		Addr:     sc.Addr,
		Logger:   logger,
		Cache:    store,
		Keyer:    keyer,
		CacheTTL: sc.CacheTTL.Duration,
		DataHash: c.dataHash(),
	})
	return srv.Serve(ctx)
}

// serverCache picks Redis when a URL is configured and the file cache
// otherwise.
func (c *CLI) serverCache(ctx context.Context, sc ServerConfig) (cache.Cache, cache.Keyer, error) {
	if sc.Redis == "" {
		store, err := c.newCache()
		return store, cache.NewDefaultKeyer(), err
	}

	sp := newSpinner(ctx, "Connecting to Redis...")
	sp.Start()
	store, err := cache.NewRedisCache(ctx, sc.Redis)
	sp.Stop()
	if err != nil {
		return nil, nil, err
	}
	loggerFromContext(ctx).Debug("using redis cache", "prefix", redisKeyPrefix)
	return store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix), nil
}
