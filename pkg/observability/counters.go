package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Counters implements every hook interface with in-memory counters. It is
// safe for concurrent use.
type Counters struct {
	graphs      atomic.Int64
	passes      atomic.Int64
	passErrors  atomic.Int64
	renders     atomic.Int64
	renderFails atomic.Int64
	modelCalls  atomic.Int64
	modelErrors atomic.Int64

	mu       sync.Mutex
	passTime time.Duration
	hits     map[string]int64
	misses   map[string]int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{hits: map[string]int64{}, misses: map[string]int64{}}
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	GraphsBuilt   int64            `json:"graphs_built"`
	Passes        int64            `json:"passes"`
	PassErrors    int64            `json:"pass_errors"`
	MeanPassTime  time.Duration    `json:"mean_pass_time"`
	Renders       int64            `json:"renders"`
	RenderErrors  int64            `json:"render_errors"`
	ModelRequests int64            `json:"model_requests"`
	ModelErrors   int64            `json:"model_errors"`
	CacheHits     map[string]int64 `json:"cache_hits"`
	CacheMisses   map[string]int64 `json:"cache_misses"`
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		GraphsBuilt:   c.graphs.Load(),
		Passes:        c.passes.Load(),
		PassErrors:    c.passErrors.Load(),
		Renders:       c.renders.Load(),
		RenderErrors:  c.renderFails.Load(),
		ModelRequests: c.modelCalls.Load(),
		ModelErrors:   c.modelErrors.Load(),
		CacheHits:     make(map[string]int64, len(c.hits)),
		CacheMisses:   make(map[string]int64, len(c.misses)),
	}
	if done := s.Passes; done > 0 {
		s.MeanPassTime = c.passTime / time.Duration(done)
	}
	for k, v := range c.hits {
		s.CacheHits[k] = v
	}
	for k, v := range c.misses {
		s.CacheMisses[k] = v
	}
	return s
}

func (c *Counters) OnGraphBuilt(context.Context, int, int, int) { c.graphs.Add(1) }

func (c *Counters) OnPassStart(context.Context, string, int, int) {}

func (c *Counters) OnPassComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	if err != nil {
		c.passErrors.Add(1)
		return
	}
	c.mu.Lock()
	c.passTime += d
	c.mu.Unlock()
	c.passes.Add(1)
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.renderFails.Add(1)
	}
}

func (c *Counters) OnCacheHit(_ context.Context, kind string) {
	c.mu.Lock()
	c.hits[kind]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheMiss(_ context.Context, kind string) {
	c.mu.Lock()
	c.misses[kind]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string, string) { c.modelCalls.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	if status >= 400 {
		c.modelErrors.Add(1)
	}
}

func (c *Counters) OnError(context.Context, string, string, string, error) { c.modelErrors.Add(1) }
