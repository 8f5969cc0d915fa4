// Package observability lets a binary observe the pipeline without the
// libraries depending on a metrics stack.
//
// Libraries report events through three small interfaces. Nothing is
// recorded until the binary installs an implementation; [Counters] is the
// one floorgen ships, and the HTTP server exposes it on /v1/stats.
//
// # Usage
//
//	counters := observability.NewCounters()
//	observability.Install(counters)
//	defer observability.Reset()
//
// Libraries emit events through the accessors:
//
//	observability.Pipeline().OnPassStart(ctx, "refine", k, len(fixed))
//	// ... invoke the model ...
//	observability.Pipeline().OnPassComplete(ctx, "refine", k, duration, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from graph construction, the refinement loop
// and rendering.
type PipelineHooks interface {
	OnGraphBuilt(ctx context.Context, nodes, edges int, warnings int)

	// One start/complete pair per model invocation. Phase is "warmup" or
	// "refine"; step counts from 0 within the phase.
	OnPassStart(ctx context.Context, phase string, step, fixed int)
	OnPassComplete(ctx context.Context, phase string, step int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. Kind is "graph" or "render".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from requests to a remote model service.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGraphBuilt(context.Context, int, int, int)                       {}
func (NoopPipelineHooks) OnPassStart(context.Context, string, int, int)                     {}
func (NoopPipelineHooks) OnPassComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// hookSet is swapped as a whole so readers never see a half-updated set.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

func noopSet() *hookSet {
	return &hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}
}

var (
	current  atomic.Pointer[hookSet]
	updateMu sync.Mutex
)

func init() { current.Store(noopSet()) }

func update(fn func(*hookSet)) {
	updateMu.Lock()
	defer updateMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// Install registers h for every hook interface it implements and reports
// whether it implemented any.
func Install(h any) bool {
	installed := false
	update(func(s *hookSet) {
		if p, ok := h.(PipelineHooks); ok {
			s.pipeline, installed = p, true
		}
		if c, ok := h.(CacheHooks); ok {
			s.cache, installed = c, true
		}
		if x, ok := h.(HTTPHooks); ok {
			s.http, installed = x, true
		}
	})
	return installed
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	updateMu.Lock()
	defer updateMu.Unlock()
	current.Store(noopSet())
}
