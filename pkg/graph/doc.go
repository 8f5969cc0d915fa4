// Package graph builds the constraint graph a layout request is generated from.
//
// A [ConstraintGraph] has one node per resolved room (in request order) and a
// labelled edge in both directions for every unordered pair of rooms. Each
// node carries a one-hot feature vector over the catalog's feature width;
// each edge carries the [adjacency.Relation] between the two room types.
//
// The generative model rejects empty edge lists, so a single-room graph gets
// one placeholder self-edge 0 -> 0 labelled Adjacent.
//
// # Usage
//
//	b := graph.NewBuilder(catalog.Default(), classifier)
//	g, warnings, err := b.Build([]string{"living_room", "bedroom", "kitchen"})
//	if err != nil {
//	    // EMPTY_REQUEST: nothing resolved
//	}
//	triples := g.Triples() // [][3]int{{0, 1, 1}, {1, 1, 0}, ...}
//
// # Files
//
// Graphs round-trip through JSON with [WriteGraphFile] and [ReadGraphFile];
// reading validates the structure, so a saved graph can be refined later
// without rebuilding it from names.
package graph
