// Package pkg provides the core libraries of floorgen, a floor plan generator
// that drives a pretrained generative layout model.
//
// # Overview
//
// A request is a list of room type names. floorgen turns it into a
// constraint graph, then calls the model repeatedly, each time pinning the
// rooms it has already placed, until every room type has been refined:
//
//	room names
//	     ↓
//	[catalog] + [adjacency]   resolve names, classify every pair
//	     ↓
//	[graph]                   one-hot nodes, labelled edges
//	     ↓
//	[refine] + [model]        warm-up pass, then one pass per room type
//	     ↓
//	[render]                  SVG/PNG/PDF floor plan, DOT graph diagrams
//
// [pipeline] ties the stages together with caching ([cache]) and is the
// entry point used by the CLI and the HTTP server.
//
// # Quick Start
//
//	cat := catalog.Default()
//	cls, _ := adjacency.Default(cat)
//	b := graph.NewBuilder(cat, cls)
//
//	runner := pipeline.NewRunner(b, procedural.New(), nil, nil, nil)
//	res, err := runner.GenerateLayout(ctx, []string{"living_room", "bedroom", "kitchen"}, pipeline.Options{
//	    Seed:    pipeline.Seed(42),
//	    Formats: []string{"svg"},
//	})
//
// # Main Packages
//
//   - [catalog]: room types, aliases, colours, typical counts
//   - [adjacency]: rule table and heuristic chain deciding Adjacent/Separate
//   - [graph]: constraint graph assembly, validation and JSON files
//   - [mask]: mask grids and the conditioning tensor
//   - [model]: the generator interface, a procedural backend and an HTTP client
//   - [refine]: the incremental refinement controller
//   - [render]: floor plan and node-link rendering plus format conversion
//   - [cache]: memory, file and Redis caches with content-addressed keys
//   - [errors]: error codes shared by the CLI and the server
//   - [observability]: hooks for metrics and tracing
package pkg
