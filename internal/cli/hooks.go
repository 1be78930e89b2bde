package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anemcalc/pkg/observability"
)

// installHooks routes observability events to the debug log.
func installHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetQueryHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

// logHooks implements every observability hook interface by logging at
// debug level. Request logs come from the server's own middleware, so
// OnResponse only records slow requests.
type logHooks struct {
	logger *log.Logger
}

// slowRequest is the threshold above which served requests are reported.
const slowRequest = time.Second

func (h logHooks) OnResolve(_ context.Context, raw, name string, err error) {
	if err != nil {
		h.logger.Debug("resolve", "query", raw, "err", err)
		return
	}
	h.logger.Debug("resolve", "query", raw, "name", name)
}

func (h logHooks) OnQuery(_ context.Context, kind, name string, d time.Duration, err error) {
	h.logger.Debug("query", "kind", kind, "name", name, "elapsed", d, "err", err)
}

func (h logHooks) OnRender(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("render", "format", format, "bytes", size, "elapsed", d.Round(time.Millisecond), "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	if d >= slowRequest {
		h.logger.Warn("slow request", "method", method, "route", route, "status", status, "elapsed", d.Round(time.Millisecond))
	}
}
