// Package pipeline is the caller boundary of floorgen: room names in,
// constraint graph or generated layout out.
//
// The CLI and the HTTP server both go through a [Runner] so caching,
// logging, error wrapping and rendering behave the same everywhere.
//
// # Stages
//
//  1. Graph: resolve names and build the constraint graph (cached)
//  2. Refine: run the incremental refinement loop against the model (never cached)
//  3. Render: draw the final masks (failures reported, never fatal)
//
// # Usage
//
//	runner := pipeline.NewRunner(builder, gen, cache, nil, logger)
//	res, err := runner.GenerateLayout(ctx, []string{"living_room", "bedroom", "kitchen"}, pipeline.Options{
//	    Seed:    pipeline.Seed(42),
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	if res.RenderErr != nil {
//	    logger.Warn("render failed", "err", res.RenderErr)
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/refine"
	"github.com/matzehuels/floorgen/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultImageSize is the floor plan side length in pixels.
	DefaultImageSize = 256

	// DefaultPassTimeout bounds a single model invocation.
	DefaultPassTimeout = 2 * time.Minute

	// DefaultTotalTimeout bounds the whole refinement loop.
	DefaultTotalTimeout = 10 * time.Minute

	// DefaultPNGScale is the rsvg-convert zoom used for PNG output.
	DefaultPNGScale = 2.0
)

// ValidFormats is the set of supported layout output formats.
var ValidFormats = map[string]bool{
	render.FormatSVG:  true,
	render.FormatPNG:  true,
	render.FormatPDF:  true,
	render.FormatJSON: true,
}

// ValidGraphFormats is the set of supported constraint-graph output formats.
var ValidGraphFormats = map[string]bool{
	render.FormatDOT:  true,
	render.FormatSVG:  true,
	render.FormatPNG:  true,
	render.FormatPDF:  true,
	render.FormatJSON: true,
}

// Seed returns a pointer to s, for Options.Seed literals.
func Seed(s uint64) *uint64 { return &s }

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a layout run. It supports JSON for API requests.
type Options struct {
	// Seed makes the run reproducible. Nil draws a random seed, which is
	// reported in the result.
	Seed *uint64 `json:"seed,omitempty"`

	// MaskSize is the model's grid side length.
	MaskSize int `json:"mask_size,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	ImageSize int      `json:"image_size,omitempty"`
	Labels    bool     `json:"labels,omitempty"`

	// Graph cache
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	PassTimeout  time.Duration           `json:"-"`
	TotalTimeout time.Duration           `json:"-"`
	Observer     func(refine.PassRecord) `json:"-"`
	Logger       *log.Logger             `json:"-"`

	validated bool
}

// ValidateFormat checks that a layout format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all layout formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGraphFormat checks that a constraint-graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return fmt.Errorf("invalid graph format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks options and fills defaults. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.MaskSize < 0 || o.ImageSize < 0 {
		return fmt.Errorf("sizes must not be negative")
	}
	o.SetRefineDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// SetRefineDefaults fills the refinement defaults.
func (o *Options) SetRefineDefaults() {
	if o.MaskSize == 0 {
		o.MaskSize = mask.DefaultSize
	}
	if o.PassTimeout == 0 {
		o.PassTimeout = DefaultPassTimeout
	}
	if o.TotalTimeout == 0 {
		o.TotalTimeout = DefaultTotalTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills the render defaults. Formats stays empty when no
// artifacts are wanted.
func (o *Options) SetRenderDefaults() {
	if o.ImageSize == 0 {
		o.ImageSize = DefaultImageSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// refineOptions translates Options into controller options.
func (o *Options) refineOptions() []refine.Option {
	opts := []refine.Option{
		refine.WithMaskSize(o.MaskSize),
		refine.WithPassTimeout(o.PassTimeout),
		refine.WithTotalTimeout(o.TotalTimeout),
		refine.WithLogger(o.Logger),
	}
	if o.Seed != nil {
		opts = append(opts, refine.WithSeed(*o.Seed))
	}
	if o.Observer != nil {
		opts = append(opts, refine.WithObserver(o.Observer))
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// GraphResult is the outcome of BuildGraph.
type GraphResult struct {
	Graph *graph.ConstraintGraph `json:"graph"`

	// ResolvedTypeIDs holds the type id of each resolved request entry, in
	// request order. It equals Graph.TypeIDs().
	ResolvedTypeIDs []int    `json:"resolved_type_ids"`
	Warnings        []string `json:"warnings"`

	// Hash is the content hash of the graph.
	Hash     string `json:"hash"`
	CacheHit bool   `json:"-"`
}

// Features returns the node feature matrix.
func (g *GraphResult) Features() [][]float32 { return g.Graph.Features() }

// Edges returns the [src, rel, dst] edge triples.
func (g *GraphResult) Edges() [][3]int { return g.Graph.Triples() }

// Result is the outcome of GenerateLayout.
type Result struct {
	RunID string `json:"run_id"`
	Seed  uint64 `json:"seed"`

	Graph *graph.ConstraintGraph `json:"graph"`
	Masks []mask.Map             `json:"masks"`

	// ResolvedTypeIDs and NodeTypeIDs are the same sequence: nodes are
	// numbered in the order their request entries resolved.
	ResolvedTypeIDs []int `json:"resolved_type_ids"`
	NodeTypeIDs     []int `json:"node_type_ids"`

	Warnings []string            `json:"warnings"`
	Passes   []refine.PassRecord `json:"passes"`

	// Artifacts holds rendered outputs keyed by format. It may be partial
	// when RenderErr is set; the layout itself is still valid.
	Artifacts map[string][]byte `json:"-"`
	RenderErr error             `json:"-"`

	Stats Stats `json:"stats"`
}

// Stats contains run statistics.
type Stats struct {
	NodeCount     int           `json:"node_count"`
	EdgeCount     int           `json:"edge_count"`
	AdjacentPairs int           `json:"adjacent_pairs"`
	GraphCacheHit bool          `json:"graph_cache_hit"`
	GraphTime     time.Duration `json:"graph_time"`
	RefineTime    time.Duration `json:"refine_time"`
	RenderTime    time.Duration `json:"render_time"`
}
