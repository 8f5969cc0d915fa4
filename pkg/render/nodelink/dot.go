package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorgen/pkg/adjacency"
	"github.com/matzehuels/floorgen/pkg/catalog"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the node index and type id to each label.
	Detailed bool
	// ShowSeparate draws Separate pairs as dashed edges.
	ShowSeparate bool
}

// ToDOT converts a constraint graph to Graphviz DOT source.
func ToDOT(g *graph.ConstraintGraph, cat *catalog.Catalog, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		name, color := n.Name, catalog.RGB{R: 255, G: 255, B: 255}
		if cat != nil {
			if rt, ok := cat.ByID(n.TypeID); ok {
				name, color = rt.Name, rt.Color
			}
		}
		fmt.Fprintf(&buf, "  n%d [label=%q, fillcolor=%q];\n", n.Index, fmtLabel(n, name, opts.Detailed), color.Hex())
	}

	buf.WriteString("\n")
	if g.IsPlaceholder() {
		buf.WriteString("}\n")
		return buf.String()
	}
	for _, e := range g.Edges {
		if e.Src >= e.Dst {
			continue
		}
		switch {
		case e.Relation == adjacency.Adjacent:
			fmt.Fprintf(&buf, "  n%d -- n%d [penwidth=2];\n", e.Src, e.Dst)
		case opts.ShowSeparate:
			fmt.Fprintf(&buf, "  n%d -- n%d [style=dashed, color=grey];\n", e.Src, e.Dst)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, name string, detailed bool) string {
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\n#%d type %d", name, n.Index, n.TypeID)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's <svg> tag (pt units, transforms) to a
// plain pixel viewBox so the diagram scales like the floor plan.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, render.FormatPDF, 1)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, render.FormatPNG, scale)
}
