package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/anemcalc/pkg/buildinfo"
	"github.com/matzehuels/anemcalc/pkg/cache"
	"github.com/matzehuels/anemcalc/pkg/errors"
	"github.com/matzehuels/anemcalc/pkg/formula"
	"github.com/matzehuels/anemcalc/pkg/observability"
	"github.com/matzehuels/anemcalc/pkg/render"
	"github.com/matzehuels/anemcalc/pkg/render/nodelink"
)

// Views accepted by the recipe and usage routes.
const (
	ViewTree = "tree"
	ViewList = "list"
)

var views = []string{ViewTree, ViewList}

const (
	recipeKind = "recipe"
	usageKind  = "usage"
)

// BasicMessage answers recipe queries for components without a recipe.
const BasicMessage = "That is a basic component."

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Components int    `json:"components"`
}

type componentsResponse struct {
	Count      int      `json:"count"`
	Components []string `json:"components"`
	Composites []string `json:"composites"`
	Basics     []string `json:"basics"`
}

type resolveResponse struct {
	Query string `json:"query"`
	Name  string `json:"name"`
	Basic bool   `json:"basic"`
}

type recipeResponse struct {
	Component   string               `json:"component"`
	View        string               `json:"view"`
	Basic       bool                 `json:"basic"`
	Message     string               `json:"message,omitempty"`
	Tree        map[string]any       `json:"tree,omitempty"`
	Ingredients []formula.Ingredient `json:"ingredients,omitempty"`
	Flattened   []string             `json:"flattened,omitempty"`
}

type usageResponse struct {
	Component string         `json:"component"`
	View      string         `json:"view"`
	Tree      map[string]any `json:"tree,omitempty"`
	Consumers []string       `json:"consumers,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Version:    buildinfo.Version,
		Components: len(s.cat.Names()),
	})
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	names := formula.Strings(s.cat.Names())
	writeJSON(w, http.StatusOK, componentsResponse{
		Count:      len(names),
		Components: names,
		Composites: formula.Strings(s.cat.Composites()),
		Basics:     formula.Strings(s.cat.Basics()),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	name, err := s.resolve(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Query: q,
		Name:  string(name),
		Basic: s.cat.Graph().IsBasic(name),
	})
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	name, view, err := s.componentAndView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	start := time.Now()
	tree, err := s.cat.RecipeTree(name)
	observability.Query().OnQuery(r.Context(), recipeKind, string(name), time.Since(start), err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := recipeResponse{Component: string(name), View: view, Basic: tree.IsLeaf()}
	if resp.Basic {
		resp.Message = BasicMessage
	}
	switch view {
	case ViewTree:
		resp.Tree = render.Nested(tree)
	case ViewList:
		ingredients, err := s.cat.Ingredients(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Ingredients = formula.Tally(ingredients)
		resp.Flattened = formula.Strings(ingredients)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	name, view, err := s.componentAndView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	start := time.Now()
	tree, err := s.cat.UsageTree(name)
	observability.Query().OnQuery(r.Context(), usageKind, string(name), time.Since(start), err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := usageResponse{Component: string(name), View: view}
	switch view {
	case ViewTree:
		resp.Tree = render.Nested(tree)
	case ViewList:
		consumers, err := s.cat.Consumers(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Consumers = formula.Strings(consumers)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSVG(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := s.resolve(r.Context(), pathName(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		dir := r.URL.Query().Get("rankdir")
		if dir == "" {
			dir = "TB"
		}
		if err := errors.ValidateChoice(errors.ErrCodeInvalidInput, "rankdir", dir, nodelink.Directions); err != nil {
			writeError(w, r, err)
			return
		}

		svg, err := s.svg(r.Context(), kind, name, dir)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg)
	}
}

// svg renders the diagram of name, going through the artifact cache. Cache
// failures are logged and treated as misses.
func (s *Server) svg(ctx context.Context, kind string, name formula.Name, dir string) ([]byte, error) {
	logger := log.FromContext(ctx)
	key := s.cfg.Keyer.ArtifactKey(cache.ArtifactKeyOpts{
		DataHash:  s.cfg.DataHash,
		Kind:      kind,
		Component: string(name),
		Format:    "svg",
		Direction: dir,
	})

	data, hit, err := s.cfg.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache get failed", "err", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	var (
		tree *formula.Tree
		opts = nodelink.Options{Direction: dir}
	)
	start := time.Now()
	if kind == usageKind {
		opts.Kind = nodelink.Usage
		tree, err = s.cat.UsageTree(name)
	} else {
		opts.Kind = nodelink.Recipe
		tree, err = s.cat.RecipeTree(name)
	}
	observability.Query().OnQuery(ctx, kind, string(name), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(tree, opts))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s of %s", kind, name)
	}

	if err := s.cfg.Cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		logger.Warn("cache set failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, nil
}

// resolve validates raw input and maps it to a canonical name.
func (s *Server) resolve(ctx context.Context, raw string) (formula.Name, error) {
	if err := errors.ValidateQuery(raw); err != nil {
		return "", err
	}
	name, err := s.cat.ResolveName(raw)
	observability.Query().OnResolve(ctx, raw, string(name), err)
	if err != nil {
		return "", errors.FromFormula(err)
	}
	return name, nil
}

func (s *Server) componentAndView(r *http.Request) (formula.Name, string, error) {
	name, err := s.resolve(r.Context(), pathName(r))
	if err != nil {
		return "", "", err
	}
	view := r.URL.Query().Get("view")
	if view == "" {
		view = ViewTree
	}
	if err := errors.ValidateChoice(errors.ErrCodeInvalidView, "view", view, views); err != nil {
		return "", "", err
	}
	return name, view, nil
}

// pathName returns the {name} segment, unescaping it when the router saw the
// raw path.
func pathName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
