package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgen/internal/config"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/pipeline"
	"github.com/matzehuels/floorgen/pkg/refine"
)

// generateOpts holds the command-line flags shared by generate and pick.
type generateOpts struct {
	output       string        // base path for outputs
	formats      string        // comma-separated: svg, png, pdf, json
	seed         uint64        // noise seed, used when seedSet
	seedSet      bool          // --seed was given
	labels       bool          // room names on the floor plan
	imageSize    int           // floor plan side length in pixels
	maskSize     int           // model grid side length
	modelURL     string        // inference service; empty for procedural
	modelTimeout time.Duration // HTTP timeout per model call
	passTimeout  time.Duration // bound on one refinement pass
	totalTimeout time.Duration // bound on the whole loop
	graphFile    string        // saved constraint graph to refine instead of names
	noCache      bool
	refresh      bool
}

func (o *generateOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "base output path (default: floorplan)")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "noise seed for a reproducible layout (default: random)")
	cmd.Flags().BoolVar(&o.labels, "labels", false, "write room names on the floor plan")
	cmd.Flags().IntVar(&o.imageSize, "size", pipeline.DefaultImageSize, "floor plan size in pixels")
	cmd.Flags().IntVar(&o.maskSize, "mask-size", mask.DefaultSize, "model grid size")
	cmd.Flags().StringVar(&o.modelURL, "model-url", "", "layout model service URL (default: $"+config.EnvModelURL+", else built-in procedural model)")
	cmd.Flags().DurationVar(&o.modelTimeout, "model-timeout", config.DefaultModelTimeout, "HTTP timeout per model call")
	cmd.Flags().DurationVar(&o.passTimeout, "pass-timeout", pipeline.DefaultPassTimeout, "timeout per refinement pass")
	cmd.Flags().DurationVar(&o.totalTimeout, "timeout", pipeline.DefaultTotalTimeout, "timeout for the whole refinement loop")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "rebuild the constraint graph even if cached")
}

func (o *generateOpts) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		MaskSize:     o.maskSize,
		Formats:      parseFormats(o.formats),
		ImageSize:    o.imageSize,
		Labels:       o.labels,
		Refresh:      o.refresh,
		PassTimeout:  o.passTimeout,
		TotalTimeout: o.totalTimeout,
	}
	if o.seedSet {
		opts.Seed = pipeline.Seed(o.seed)
	}
	return opts
}

// generateCommand generates a floor plan.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate ROOM...",
		Short: "Generate a floor plan from a list of rooms",
		Long: `Generate a floor plan from a list of rooms.

Room names may repeat ("bedroom bedroom") and are matched case-insensitively,
with spaces and underscores treated alike. Unknown names are skipped with a
warning.

The layout model is called once unconditioned and then once per distinct room
type, each time holding the rooms placed so far fixed.

Examples:
  floorgen generate living_room bedroom bedroom kitchen bathroom
  floorgen generate living_room kitchen --seed 42 -f svg,png -o plans/small
  floorgen graph living_room bedroom -o graph.json && floorgen generate --graph graph.json`,
		ValidArgsFunction: c.completeRoomNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.graphFile == "" {
				return fmt.Errorf("requires at least one room name or --graph")
			}
			if len(args) > 0 && opts.graphFile != "" {
				return fmt.Errorf("room names and --graph are mutually exclusive")
			}
			opts.seedSet = cmd.Flags().Changed("seed")
			return c.runGenerate(cmd.Context(), args, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.graphFile, "graph", "", "refine a constraint graph saved with 'floorgen graph' instead of room names")
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, names []string, opts *generateOpts) error {
	logger := loggerFromContext(ctx)

	popts := opts.pipelineOptions()
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}

	url := opts.modelURL
	if url == "" {
		url = envOr(config.EnvModelURL, "")
	}
	if url == "" {
		logger.Debug("using the built-in procedural model")
	}

	runner, err := c.newRunner(opts.noCache, newGenerator(url, opts.modelTimeout))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(os.Stderr, "Generating layout...")
	popts.Observer = func(p refine.PassRecord) {
		logger.Debug("pass complete", "phase", p.Phase, "step", p.Step, "fixed", len(p.Fixed), "duration", p.Duration)
		spin.setMessage(fmt.Sprintf("Generating layout... %s pass %d done", p.Phase, p.Step))
	}
	spin.start(ctx)

	st := startStage(logger, "generate finished")
	var res *pipeline.Result
	if opts.graphFile != "" {
		var g *graph.ConstraintGraph
		if g, err = graph.ReadGraphFile(opts.graphFile); err == nil {
			res, err = runner.GenerateFromGraph(ctx, g, popts)
		}
	} else {
		res, err = runner.GenerateLayout(ctx, names, popts)
	}
	spin.halt()
	if err != nil {
		c.out.failure("Layout generation failed")
		return err
	}
	st.done("passes", len(res.Passes))

	c.out.success("Generated layout")
	c.out.graphStats(res.Stats.NodeCount, res.Stats.AdjacentPairs, res.Stats.GraphCacheHit)
	c.out.keyValue("Run", res.RunID)
	c.out.keyValue("Seed", fmt.Sprint(res.Seed))
	c.out.passes(res.Passes, runner.Builder.Catalog())
	c.out.warnings(res.Warnings)

	base := basePath(opts.output)
	for _, format := range popts.Formats {
		data, ok := res.Artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := c.writeFile(path, data); err != nil {
			return err
		}
		c.out.file(path)
	}
	if res.RenderErr != nil {
		c.out.warn("Rendering failed: %v", res.RenderErr)
	}
	return nil
}
