// Package render turns floorgen results into images.
//
// # Overview
//
//   - Floor plans (in [floorplan] subpackage): final masks drawn as coloured,
//     outlined rooms
//   - Constraint graphs (in [nodelink] subpackage): rooms and their
//     adjacent/separate relations as a Graphviz diagram
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// A [Converter] turns any SVG into PNG or PDF with the external
// rsvg-convert tool (from librsvg):
//
//	svg, _ := floorplan.RenderSVG(masks, typeIDs, cat, floorplan.Options{})
//	png, err := render.Convert(ctx, svg, render.FormatPNG, 2.0) // 2x zoom
//
// [floorplan]: github.com/matzehuels/floorgen/pkg/render/floorplan
// [nodelink]: github.com/matzehuels/floorgen/pkg/render/nodelink
package render
