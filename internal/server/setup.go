package server

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorgen/internal/config"
	"github.com/matzehuels/floorgen/pkg/buildinfo"
	"github.com/matzehuels/floorgen/pkg/cache"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/model"
	"github.com/matzehuels/floorgen/pkg/model/procedural"
	"github.com/matzehuels/floorgen/pkg/model/remote"
	"github.com/matzehuels/floorgen/pkg/observability"
	"github.com/matzehuels/floorgen/pkg/pipeline"
)

// FromConfig wires a server from cfg and installs its counters as the
// process-wide observability hooks. The caller owns the returned runner and
// must Close it.
func FromConfig(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Server, *pipeline.Runner, error) {
	builder, err := graph.LoadBuilder(cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}

	var gen model.Generator
	if cfg.ModelURL != "" {
		gen = remote.New(cfg.ModelURL,
			remote.WithTimeout(cfg.ModelTimeout),
			remote.WithHeader("User-Agent", "floorgen/"+buildinfo.Get().Version))
	} else {
		logger.Warn("no model service configured, using the procedural generator")
		gen = procedural.New()
	}
	gen = model.Serialize(gen, cfg.MaxConcurrency)

	c, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	keyer := cache.NewScopedKeyer(nil, "floorgen:")

	counters := observability.NewCounters()
	observability.Install(counters)

	runner := pipeline.NewRunner(builder, gen, c, keyer, logger)
	srv := New(runner, logger, WithTotalTimeout(cfg.TotalTimeout), WithCounters(counters))
	return srv, runner, nil
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.RedisURL != "" {
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	}
	return cache.NewMemoryCache(cfg.CacheSize)
}
