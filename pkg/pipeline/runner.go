package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/floorgen/pkg/cache"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/model"
	"github.com/matzehuels/floorgen/pkg/observability"
	"github.com/matzehuels/floorgen/pkg/refine"
	"github.com/matzehuels/floorgen/pkg/render"
	"github.com/matzehuels/floorgen/pkg/render/floorplan"
	"github.com/matzehuels/floorgen/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Builder   *graph.Builder
	Generator model.Generator
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger

	// configHash fingerprints the catalog and rule set so cached graphs
	// built against another configuration are never served.
	configHash string
}

// NewRunner creates a runner around a graph builder and a generator.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(b *graph.Builder, gen model.Generator, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Builder:    b,
		Generator:  gen,
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		configHash: fingerprint(b),
	}
}

// fingerprint hashes the catalog types together with the relation of every
// type pair, which covers both the rule table and the heuristic chain.
func fingerprint(b *graph.Builder) string {
	if b == nil {
		return ""
	}
	types := b.Catalog().Types()
	rels := make([]int, 0, len(types)*len(types))
	for _, a := range types {
		for _, c := range types {
			rels = append(rels, int(b.Classifier().Classify(a, c)))
		}
	}
	data, _ := json.Marshal(struct {
		Types any   `json:"types"`
		Rels  []int `json:"rels"`
	}{types, rels})
	return cache.Hash(data)
}

// cachedGraph is the cache entry for a built graph.
type cachedGraph struct {
	Graph    *graph.ConstraintGraph `json:"graph"`
	Warnings []string               `json:"warnings"`
}

// BuildGraph resolves names and builds the constraint graph, using the cache.
func (r *Runner) BuildGraph(ctx context.Context, names []string) (*GraphResult, error) {
	return r.buildGraph(ctx, names, false)
}

func (r *Runner) buildGraph(ctx context.Context, names []string, refresh bool) (*GraphResult, error) {
	if r.Builder == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "runner has no graph builder")
	}
	if err := ferrors.ValidateRequest(names); err != nil {
		return nil, err
	}

	cacheKey := r.Keyer.GraphKey(r.configHash, names)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cg cachedGraph
			if err := json.Unmarshal(data, &cg); err == nil && cg.Graph != nil && cg.Graph.Validate() == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return r.graphResult(ctx, cg.Graph, cg.Warnings, data, true), nil
			}
			// Undecodable entries fall through to a rebuild
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	g, warnings, err := r.Builder.Build(names)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(cachedGraph{Graph: g, Warnings: warnings})
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInternal, err, "encode graph")
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph); err != nil {
		r.Logger.Debug("graph cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}
	return r.graphResult(ctx, g, warnings, data, false), nil
}

func (r *Runner) graphResult(ctx context.Context, g *graph.ConstraintGraph, warnings []string, data []byte, hit bool) *GraphResult {
	for _, w := range warnings {
		r.Logger.Debug("request warning", "warning", w)
	}
	observability.Pipeline().OnGraphBuilt(ctx, g.NodeCount(), g.EdgeCount(), len(warnings))
	if warnings == nil {
		warnings = []string{}
	}
	return &GraphResult{
		Graph:           g,
		ResolvedTypeIDs: g.TypeIDs(),
		Warnings:        warnings,
		Hash:            cache.Hash(data),
		CacheHit:        hit,
	}
}

// RenderGraph draws a constraint graph as a node-link diagram in format
// (dot, svg, png, pdf or json). Renders are cached by graph hash.
func (r *Runner) RenderGraph(ctx context.Context, gr *GraphResult, format string, opts nodelink.Options) ([]byte, error) {
	if err := ValidateGraphFormat(format); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "render graph")
	}

	cacheKey := r.Keyer.RenderKey(gr.Hash, cache.RenderKeyOpts{
		Format:       format,
		Detailed:     opts.Detailed,
		ShowSeparate: opts.ShowSeparate,
	})
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	data, err := r.renderGraph(ctx, gr, format, opts)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeRender, err, "render graph as %s", format)
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return data, nil
}

func (r *Runner) renderGraph(ctx context.Context, gr *GraphResult, format string, opts nodelink.Options) ([]byte, error) {
	if format == render.FormatJSON {
		return json.MarshalIndent(gr, "", "  ")
	}
	dot := nodelink.ToDOT(gr.Graph, r.Builder.Catalog(), opts)
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case render.FormatPNG:
		return nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
	default:
		return nodelink.RenderPDF(ctx, dot)
	}
}

// GenerateLayout runs the complete graph → refine → render pipeline.
//
// A render failure does not fail the run: the layout is returned with
// RenderErr set and whatever artifacts succeeded.
func (r *Runner) GenerateLayout(ctx context.Context, names []string, opts Options) (*Result, error) {
	logger, err := r.prepare(&opts)
	if err != nil {
		return nil, err
	}
	result := newResult()
	logger = logger.With("run", result.RunID[:8])

	// Stage 1: Graph
	graphStart := time.Now()
	gr, err := r.buildGraph(ctx, names, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	result.setGraph(gr.Graph)
	result.ResolvedTypeIDs = gr.ResolvedTypeIDs
	result.Warnings = gr.Warnings
	result.Stats.GraphCacheHit = gr.CacheHit
	result.Stats.GraphTime = time.Since(graphStart)

	logger.Info("built constraint graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"adjacent_pairs", result.Stats.AdjacentPairs,
		"cached", gr.CacheHit)

	return r.refineAndRender(ctx, result, opts, logger)
}

// GenerateFromGraph refines and renders a previously built graph, such as
// one read with graph.ReadGraphFile. The graph must match the runner's
// catalog.
func (r *Runner) GenerateFromGraph(ctx context.Context, g *graph.ConstraintGraph, opts Options) (*Result, error) {
	logger, err := r.prepare(&opts)
	if err != nil {
		return nil, err
	}
	if err := r.checkGraph(g); err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	result := newResult()
	logger = logger.With("run", result.RunID[:8])

	result.setGraph(g)
	result.ResolvedTypeIDs = g.TypeIDs()
	result.Warnings = []string{}
	logger.Info("loaded constraint graph",
		"nodes", result.Stats.NodeCount,
		"adjacent_pairs", result.Stats.AdjacentPairs)

	return r.refineAndRender(ctx, result, opts, logger)
}

func (r *Runner) prepare(opts *Options) (*log.Logger, error) {
	r.applyLogger(opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "invalid options")
	}
	if r.Generator == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "runner has no generator")
	}
	if r.Builder == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "runner has no graph builder")
	}
	return opts.Logger, nil
}

// checkGraph rejects graphs that are malformed or built against a different
// catalog.
func (r *Runner) checkGraph(g *graph.ConstraintGraph) error {
	if g == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "no graph")
	}
	if err := g.Validate(); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "invalid graph")
	}
	cat := r.Builder.Catalog()
	if g.FeatureDim != cat.FeatureDim() {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "graph feature width %d does not match catalog width %d", g.FeatureDim, cat.FeatureDim())
	}
	for _, id := range g.DistinctTypeIDs() {
		if _, ok := cat.ByID(id); !ok {
			return ferrors.New(ferrors.ErrCodeUnknownRoomType, "graph uses type id %d, which the catalog does not define", id)
		}
	}
	return nil
}

func newResult() *Result {
	return &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
}

func (res *Result) setGraph(g *graph.ConstraintGraph) {
	res.Graph = g
	res.NodeTypeIDs = g.TypeIDs()
	res.Stats.NodeCount = g.NodeCount()
	res.Stats.EdgeCount = g.EdgeCount()
	res.Stats.AdjacentPairs = g.AdjacentPairs()
}

func (r *Runner) refineAndRender(ctx context.Context, result *Result, opts Options, logger *log.Logger) (*Result, error) {
	// Stage 2: Refine
	refineStart := time.Now()
	ropts := append(opts.refineOptions(), refine.WithLogger(logger))
	res, err := refine.New(r.Generator, ropts...).Run(ctx, result.Graph)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	result.Masks = res.Masks
	result.Passes = res.Passes
	result.Seed = res.Seed
	result.Stats.RefineTime = time.Since(refineStart)

	logger.Info("refined layout",
		"passes", len(res.Passes),
		"seed", res.Seed,
		"duration", result.Stats.RefineTime)

	// Stage 3: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		result.RenderErr = r.renderLayout(ctx, result, opts)
		result.Stats.RenderTime = time.Since(renderStart)
		if result.RenderErr != nil {
			logger.Warn("render failed", "err", result.RenderErr)
		} else {
			logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)
		}
	}

	return result, nil
}

// renderLayout fills result.Artifacts. The first failure is returned; later
// formats are still attempted.
func (r *Runner) renderLayout(ctx context.Context, result *Result, opts Options) error {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var firstErr error
	fail := func(format string, err error) {
		if firstErr == nil {
			firstErr = ferrors.Wrap(ferrors.ErrCodeRender, err, "render %s", format)
		}
	}

	var svg []byte
	for _, format := range opts.Formats {
		if format == render.FormatJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fail(format, err)
				continue
			}
			result.Artifacts[format] = data
			continue
		}
		if svg == nil {
			var err error
			svg, err = floorplan.RenderSVG(result.Masks, result.NodeTypeIDs, r.Builder.Catalog(), floorplan.Options{
				Size:   opts.ImageSize,
				Labels: opts.Labels,
			})
			if err != nil {
				fail(format, err)
				continue
			}
		}
		data, err := render.Convert(ctx, svg, format, DefaultPNGScale)
		if err != nil {
			fail(format, err)
			continue
		}
		result.Artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), firstErr)
	return firstErr
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
