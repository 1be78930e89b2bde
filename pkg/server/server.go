package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/anemcalc/pkg/cache"
	"github.com/matzehuels/anemcalc/pkg/errors"
	"github.com/matzehuels/anemcalc/pkg/formula"
)

// Config configures a [Server]. Only Logger is required.
type Config struct {
	// Addr is the TCP listen address, e.g. ":8080" or "127.0.0.1:0".
	Addr string
	// Logger receives request and lifecycle logs.
	Logger *log.Logger
	// Cache stores rendered SVGs. Defaults to a [cache.NullCache].
	Cache cache.Cache
	// Keyer builds cache keys. Defaults to [cache.NewDefaultKeyer].
	Keyer cache.Keyer
	// CacheTTL bounds the lifetime of cached SVGs; zero keeps them forever.
	CacheTTL time.Duration
	// DataHash fingerprints the formula data so cached artifacts of older
	// data are never served.
	DataHash string
	// ShutdownTimeout bounds the graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server serves a catalog over HTTP.
type Server struct {
	cat     *formula.Catalog
	cfg     Config
	router  chi.Router
	ready   chan struct{}
	addr    net.Addr
	logger  *log.Logger
	counter requestCounter
}

// New builds the router for cat.
func New(cat *formula.Catalog, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cat:    cat,
		cfg:    cfg,
		ready:  make(chan struct{}),
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed here",
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
		r.Get("/components", s.handleComponents)
		r.Route("/components/{name}", func(r chi.Router) {
			r.Get("/recipe", s.handleRecipe)
			r.Get("/usage", s.handleUsage)
			r.Get("/recipe.svg", s.handleSVG(recipeKind))
			r.Get("/usage.svg", s.handleSVG(usageKind))
		})
	})
	return r
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Ready is closed once Serve has bound its listener.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address. Only valid after Ready is closed.
func (s *Server) Addr() net.Addr { return s.addr }

// Serve listens on cfg.Addr and serves until ctx is cancelled, then drains
// in-flight requests for up to cfg.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "listen on %s", s.cfg.Addr)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.addr = ln.Addr()
	close(s.ready)

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("listening", "addr", s.addr.String(), "components", len(s.cat.Names()))

	done := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			done <- err
		}
		close(done)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
	case err := <-done:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "shutdown")
	}
	s.logger.Info("stopped", "requests", s.counter.load())
	return nil
}
