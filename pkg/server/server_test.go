package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anemcalc/pkg/cache"
	"github.com/matzehuels/anemcalc/pkg/formula"
	"github.com/matzehuels/anemcalc/pkg/observability"
	"github.com/matzehuels/anemcalc/pkg/source"
)

func testCatalog(t *testing.T) *formula.Catalog {
	t.Helper()
	tables, err := source.Embedded()
	if err != nil {
		t.Fatalf("Embedded() error: %v", err)
	}
	cat, err := tables.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error: %v", err)
	}
	return cat
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return New(testCatalog(t), cfg)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[healthResponse](t, rec)
	if body.Status != "ok" || body.Components != 62 {
		t.Errorf("health = %+v", body)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response should carry a request ID")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestComponents(t *testing.T) {
	s := newTestServer(t, Config{})
	body := decode[componentsResponse](t, get(t, s, "/api/v1/components"))

	if body.Count != 62 || len(body.Components) != 62 {
		t.Errorf("count = %d, len = %d; want 62", body.Count, len(body.Components))
	}
	if len(body.Composites) != 35 {
		t.Errorf("composites = %d, want 35", len(body.Composites))
	}
	if !slices.Contains(body.Basics, "Opulent") {
		t.Error("basics should contain Opulent")
	}
	if !slices.IsSorted(body.Components) {
		t.Error("components should be sorted")
	}
}

func TestResolve(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name   string
		path   string
		status int
		want   string
		code   string
	}{
		{"exact", "/api/v1/resolve?q=Assassin", http.StatusOK, "Assassin", ""},
		{"fuzzy", "/api/v1/resolve?q=%20kitava%20touched%20", http.StatusOK, "Kitava-Touched", ""},
		{"unknown", "/api/v1/resolve?q=zzz-not-real", http.StatusNotFound, "", "NOT_FOUND"},
		{"empty", "/api/v1/resolve?q=", http.StatusBadRequest, "", "INVALID_INPUT"},
		{"too long", "/api/v1/resolve?q=" + strings.Repeat("a", 200), http.StatusBadRequest, "", "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.code != "" {
				if body := decode[errorBody](t, rec); string(body.Code) != tt.code {
					t.Errorf("code = %s, want %s", body.Code, tt.code)
				}
				return
			}
			if body := decode[resolveResponse](t, rec); body.Name != tt.want {
				t.Errorf("name = %q, want %q", body.Name, tt.want)
			}
		})
	}
}

func TestRecipeTree(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := get(t, s, "/api/v1/components/trickster/recipe")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	body := decode[recipeResponse](t, rec)
	if body.Component != "Trickster" || body.View != ViewTree || body.Basic {
		t.Errorf("header = %+v", body)
	}
	assassin, ok := body.Tree["Assassin"].(map[string]any)
	if !ok {
		t.Fatalf("tree[Assassin] = %T, want object", body.Tree["Assassin"])
	}
	if _, ok := assassin["Deadeye"]; !ok {
		t.Error("Assassin should contain Deadeye")
	}
}

func TestRecipeList(t *testing.T) {
	s := newTestServer(t, Config{})
	body := decode[recipeResponse](t, get(t, s, "/api/v1/components/Trickster/recipe?view=list"))

	want := []string{"Overcharged", "Deadeye", "Vampiric", "Echoist"}
	if !slices.Equal(body.Flattened, want) {
		t.Errorf("flattened = %v, want %v", body.Flattened, want)
	}
	if len(body.Ingredients) != 4 {
		t.Errorf("ingredients = %v", body.Ingredients)
	}
}

func TestRecipeBasic(t *testing.T) {
	s := newTestServer(t, Config{})
	body := decode[recipeResponse](t, get(t, s, "/api/v1/components/deadeye/recipe?view=list"))

	if !body.Basic || body.Message != BasicMessage {
		t.Errorf("basic response = %+v", body)
	}
	if !slices.Equal(body.Flattened, []string{"Deadeye"}) {
		t.Errorf("flattened = %v, want [Deadeye]", body.Flattened)
	}
}

func TestUsage(t *testing.T) {
	s := newTestServer(t, Config{})

	tree := decode[usageResponse](t, get(t, s, "/api/v1/components/Vampiric/usage"))
	if _, ok := tree.Tree["Rejuvenating"]; !ok {
		t.Errorf("usage tree of Vampiric = %v, want Rejuvenating", tree.Tree)
	}

	list := decode[usageResponse](t, get(t, s, "/api/v1/components/Vampiric/usage?view=list"))
	for _, want := range []string{"Assassin", "Rejuvenating", "Trickster", "Abberath-Touched"} {
		if !slices.Contains(list.Consumers, want) {
			t.Errorf("consumers = %v, missing %s", list.Consumers, want)
		}
	}
}

func TestQueryErrors(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/v1/components/zzz-not-real/recipe", http.StatusNotFound, "NOT_FOUND"},
		{"/api/v1/components/Assassin/recipe?view=graph", http.StatusBadRequest, "INVALID_VIEW"},
		{"/api/v1/components/Assassin/usage?view=nested", http.StatusBadRequest, "INVALID_VIEW"},
		{"/api/v1/components/Assassin/recipe.svg?rankdir=XX", http.StatusBadRequest, "INVALID_INPUT"},
		{"/api/v1/nothing", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decode[errorBody](t, rec); string(body.Code) != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/components", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)  { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string) { h.misses++ }

func TestSVGIsCached(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, Config{Cache: fc, CacheTTL: time.Hour, DataHash: "test"})

	first := get(t, s, "/api/v1/components/Assassin/recipe.svg")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", first.Code, first.Body.String())
	}
	if ct := first.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(first.Body.Bytes(), []byte("<svg")) {
		t.Error("body should be SVG")
	}

	second := get(t, s, "/api/v1/components/assassin/recipe.svg")
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached SVG should match the first render")
	}
	if hooks.misses != 1 || hooks.hits != 1 {
		t.Errorf("cache misses/hits = %d/%d, want 1/1", hooks.misses, hooks.hits)
	}

	usage := get(t, s, "/api/v1/components/Deadeye/usage.svg?rankdir=LR")
	if usage.Code != http.StatusOK {
		t.Errorf("usage.svg status = %d", usage.Code)
	}
	if hooks.misses != 2 {
		t.Errorf("usage.svg should miss the cache, misses = %d", hooks.misses)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx) }()

	select {
	case <-s.Ready():
	case err := <-errc:
		t.Fatalf("Serve() error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server not ready")
	}

	resp, err := http.Get("http://" + s.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Serve() error after cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
