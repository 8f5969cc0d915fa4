// Package refine drives the generative model through the incremental
// mask-fixing protocol.
//
// A run starts with one unconditioned warm-up pass. Each following pass
// fixes the masks of every node whose room type is in a growing, sorted
// prefix of the graph's distinct types, hands the model the previous pass's
// masks for those nodes, and replaces the whole mask set with the model's
// output. After the last pass the masks are the layout.
//
//	ctrl := refine.New(gen, refine.WithSeed(42))
//	res, err := ctrl.Run(ctx, g)
//	if err != nil {
//	    // MODEL_INFERENCE or TIMEOUT; no partial layout
//	}
//	_ = res.Masks // one per node
//
// Passes run strictly in sequence. A Controller holds no per-run state and
// may be shared between goroutines.
package refine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/model"
	"github.com/matzehuels/floorgen/pkg/observability"
)

// State is the mask set between passes.
type State struct {
	Masks []mask.Map
	Fixed []int
}

// PassRecord is a completed pass.
type PassRecord struct {
	Pass
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of a successful run.
type Result struct {
	Masks  []mask.Map   `json:"masks"`
	Passes []PassRecord `json:"passes"`
	Seed   uint64       `json:"seed"`
}

// Controller runs the refinement loop against a generator.
type Controller struct {
	gen          model.Generator
	size         int
	seed         uint64
	seeded       bool
	passTimeout  time.Duration
	totalTimeout time.Duration
	observer     func(PassRecord)
	logger       *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithSeed makes noise sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Controller) { c.seed, c.seeded = seed, true }
}

// WithMaskSize sets the mask side length. The default is mask.DefaultSize.
func WithMaskSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithPassTimeout bounds each model invocation.
func WithPassTimeout(d time.Duration) Option {
	return func(c *Controller) { c.passTimeout = d }
}

// WithTotalTimeout bounds the whole run.
func WithTotalTimeout(d time.Duration) Option {
	return func(c *Controller) { c.totalTimeout = d }
}

// WithObserver registers a callback invoked after every completed pass.
func WithObserver(fn func(PassRecord)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a controller driving gen.
func New(gen model.Generator, opts ...Option) *Controller {
	c := &Controller{
		gen:    gen,
		size:   mask.DefaultSize,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the schedule for g and returns the final mask set.
//
// A failed model invocation ends the run with MODEL_INFERENCE, except when
// the pass or total deadline expired: that is reported as TIMEOUT, which
// still wraps context.DeadlineExceeded. A canceled ctx is returned as is.
// No partial result is returned and no pass is retried.
func (c *Controller) Run(ctx context.Context, g *graph.ConstraintGraph) (*Result, error) {
	if g == nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "nil constraint graph")
	}
	if err := g.Validate(); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "constraint graph")
	}

	if c.totalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.totalTimeout)
		defer cancel()
	}

	seed := c.seed
	if !c.seeded {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	n := g.NodeCount()
	features := g.Features()
	edges := g.Triples()
	schedule := Schedule(g)

	res := &Result{Seed: seed, Passes: make([]PassRecord, 0, len(schedule))}
	state := State{}

	c.logger.Debug("refinement started", "nodes", n, "edges", len(edges), "passes", len(schedule), "seed", seed)

	for _, p := range schedule {
		var prior []mask.Map
		if p.Phase == PhaseRefine {
			prior = state.Masks
		}
		cond, err := mask.Encode(n, c.size, prior, p.Fixed)
		if err != nil {
			return nil, fmt.Errorf("encode %s pass %d: %w", p.Phase, p.Step, err)
		}

		in := model.Input{
			Noise:        sampleNoise(rng, n),
			Conditioning: cond,
			Features:     features,
			Edges:        edges,
		}

		rec, masks, err := c.invoke(ctx, p, in, n)
		if err != nil {
			return nil, err
		}

		state = State{Masks: masks, Fixed: p.Fixed}
		res.Passes = append(res.Passes, rec)
		c.logger.Debug("pass complete", "phase", p.Phase, "step", p.Step, "fixed_types", p.FixedTypes, "fixed", len(p.Fixed), "duration", rec.Duration)
		if c.observer != nil {
			c.observer(rec)
		}
	}

	res.Masks = state.Masks
	return res, nil
}

func (c *Controller) invoke(ctx context.Context, p Pass, in model.Input, n int) (PassRecord, []mask.Map, error) {
	hooks := observability.Pipeline()
	hooks.OnPassStart(ctx, string(p.Phase), p.Step, len(p.Fixed))

	pctx := ctx
	if c.passTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, c.passTimeout)
		defer cancel()
	}

	start := time.Now()
	masks, err := c.gen.Invoke(pctx, in)
	if err == nil {
		err = c.checkOutput(masks, n)
	}
	elapsed := time.Since(start)

	if err == nil && pctx.Err() != nil {
		err = pctx.Err()
	}
	hooks.OnPassComplete(ctx, string(p.Phase), p.Step, elapsed, err)
	if err != nil {
		return PassRecord{}, nil, c.classify(ctx, p, err)
	}
	return PassRecord{Pass: p, Duration: elapsed}, masks, nil
}

func (c *Controller) checkOutput(masks []mask.Map, n int) error {
	if len(masks) != n {
		return fmt.Errorf("model returned %d masks for %d nodes", len(masks), n)
	}
	for i, m := range masks {
		if err := m.Validate(c.size); err != nil {
			return fmt.Errorf("mask %d: %w", i, err)
		}
	}
	return nil
}

func (c *Controller) classify(ctx context.Context, p Pass, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ferrors.Wrap(ferrors.ErrCodeTimeout, err, "%s pass %d timed out", p.Phase, p.Step)
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return fmt.Errorf("%s pass %d: %w", p.Phase, p.Step, err)
	default:
		return ferrors.Wrap(ferrors.ErrCodeModelInference, err, "%s pass %d", p.Phase, p.Step)
	}
}

func sampleNoise(rng *rand.Rand, n int) [][]float32 {
	noise := make([][]float32, n)
	for i := range noise {
		row := make([]float32, model.NoiseDim)
		for j := range row {
			row[j] = float32(rng.NormFloat64())
		}
		noise[i] = row
	}
	return noise
}
