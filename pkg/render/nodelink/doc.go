// Package nodelink renders constraint graphs as node-link diagrams.
//
// # Overview
//
// Every room becomes a node filled with its catalog colour. Each unordered
// pair of rooms is drawn once: a solid line for Adjacent, a dashed grey
// line for Separate. Separate edges dominate dense graphs, so they are
// hidden unless [Options.ShowSeparate] is set.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, cat, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
