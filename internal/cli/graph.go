package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgen/pkg/pipeline"
	"github.com/matzehuels/floorgen/pkg/render"
	"github.com/matzehuels/floorgen/pkg/render/nodelink"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file; "-" for stdout
	format   string // dot, svg, png, pdf or json
	detailed bool   // node index and type id in labels
	separate bool   // draw separate pairs as dashed edges
	noCache  bool
}

// graphCommand builds and draws the constraint graph for a request.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: render.FormatJSON}

	cmd := &cobra.Command{
		Use:   "graph ROOM...",
		Short: "Build the constraint graph for a list of rooms",
		Long: `Build the constraint graph for a list of rooms.

Every pair of rooms is classified as adjacent or separate. The graph is what
the layout model is conditioned on; 'json' prints the node features and the
[src, relation, dst] edge triples, the other formats draw it.

Examples:
  floorgen graph living_room bedroom kitchen
  floorgen graph living_room bedroom kitchen -f svg -o graph.svg`,
		ValidArgsFunction: c.completeRoomNames,
		Args:              cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateGraphFormat(opts.format); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for json/dot, graph.<format> otherwise)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, svg, png, pdf")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node index and type id in diagram labels")
	cmd.Flags().BoolVar(&opts.separate, "separate", false, "draw separate pairs as dashed edges")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, names []string, opts graphOpts) error {
	runner, err := c.newRunner(opts.noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	gr, err := runner.BuildGraph(ctx, names)
	if err != nil {
		return err
	}

	data, err := runner.RenderGraph(ctx, gr, opts.format, nodelink.Options{
		Detailed:     opts.detailed,
		ShowSeparate: opts.separate,
	})
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		if opts.format == render.FormatJSON || opts.format == render.FormatDOT {
			output = "-"
		} else {
			output = "graph." + opts.format
		}
	}
	if err := c.writeFile(output, data); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	c.out.success("Built constraint graph")
	c.out.graphStats(gr.Graph.NodeCount(), gr.Graph.AdjacentPairs(), gr.CacheHit)
	c.out.warnings(gr.Warnings)
	c.out.file(output)
	if opts.format == render.FormatJSON {
		c.out.nextStep("Generate a layout from it", "floorgen generate --graph "+output)
	}
	return nil
}
