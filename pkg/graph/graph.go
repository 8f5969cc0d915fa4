package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/floorgen/pkg/adjacency"
)

// Node is one room of the request.
type Node struct {
	Index    int       `json:"index"`
	TypeID   int       `json:"type_id"`
	Name     string    `json:"name"`
	Features []float32 `json:"features"`
}

// Edge is a directed, labelled edge. Every edge has a mirror with Src and Dst
// swapped and the same relation.
type Edge struct {
	Src      int                `json:"src"`
	Dst      int                `json:"dst"`
	Relation adjacency.Relation `json:"relation"`
}

// Triple returns the [src, rel, dst] form the model consumes.
func (e Edge) Triple() [3]int {
	return [3]int{e.Src, int(e.Relation), e.Dst}
}

// ConstraintGraph is the immutable result of Builder.Build.
type ConstraintGraph struct {
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
	FeatureDim int    `json:"feature_dim"`
}

// NodeCount returns the number of nodes.
func (g *ConstraintGraph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of directed edges, including the placeholder.
func (g *ConstraintGraph) EdgeCount() int { return len(g.Edges) }

// TypeIDs returns the type id of each node, indexed by node.
func (g *ConstraintGraph) TypeIDs() []int {
	ids := make([]int, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.TypeID
	}
	return ids
}

// DistinctTypeIDs returns the unique type ids present, ascending.
func (g *ConstraintGraph) DistinctTypeIDs() []int {
	ids := g.TypeIDs()
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Features returns the node feature matrix, one row per node.
func (g *ConstraintGraph) Features() [][]float32 {
	rows := make([][]float32, len(g.Nodes))
	for i, n := range g.Nodes {
		rows[i] = slices.Clone(n.Features)
	}
	return rows
}

// Triples returns the edge list as [src, rel, dst] triples.
func (g *ConstraintGraph) Triples() [][3]int {
	out := make([][3]int, len(g.Edges))
	for i, e := range g.Edges {
		out[i] = e.Triple()
	}
	return out
}

// AdjacentPairs counts unordered node pairs labelled Adjacent.
// The single-node placeholder edge is not a pair and is not counted.
func (g *ConstraintGraph) AdjacentPairs() int {
	n := 0
	for _, e := range g.Edges {
		if e.Src < e.Dst && e.Relation == adjacency.Adjacent {
			n++
		}
	}
	return n
}

// IsPlaceholder reports whether the graph carries only the single-node
// self-edge instead of real pair edges.
func (g *ConstraintGraph) IsPlaceholder() bool {
	return len(g.Nodes) == 1 && len(g.Edges) == 1 && g.Edges[0].Src == 0 && g.Edges[0].Dst == 0
}

// Validate checks the structural invariants of a constraint graph:
// at least one node, node indices equal positions, one-hot features of width
// FeatureDim, and either the single placeholder edge (one node) or exactly
// both directions of every unordered pair with matching relations.
func (g *ConstraintGraph) Validate() error {
	n := len(g.Nodes)
	if n == 0 {
		return fmt.Errorf("graph has no nodes")
	}
	for i, node := range g.Nodes {
		if node.Index != i {
			return fmt.Errorf("node %d has index %d", i, node.Index)
		}
		if len(node.Features) != g.FeatureDim {
			return fmt.Errorf("node %d: feature width %d, want %d", i, len(node.Features), g.FeatureDim)
		}
		var sum float32
		for _, v := range node.Features {
			sum += v
		}
		if node.TypeID < 0 || node.TypeID >= g.FeatureDim || node.Features[node.TypeID] != 1 || sum != 1 {
			return fmt.Errorf("node %d: feature vector is not one-hot at %d", i, node.TypeID)
		}
	}

	if n == 1 {
		if !g.IsPlaceholder() || g.Edges[0].Relation != adjacency.Adjacent {
			return fmt.Errorf("single-node graph must carry exactly the placeholder edge")
		}
		return nil
	}

	if want := n * (n - 1); len(g.Edges) != want {
		return fmt.Errorf("edge count %d, want %d", len(g.Edges), want)
	}
	seen := make(map[[2]int]adjacency.Relation, len(g.Edges))
	for _, e := range g.Edges {
		if e.Src == e.Dst || e.Src < 0 || e.Dst < 0 || e.Src >= n || e.Dst >= n {
			return fmt.Errorf("invalid edge %d -> %d", e.Src, e.Dst)
		}
		key := [2]int{e.Src, e.Dst}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate edge %d -> %d", e.Src, e.Dst)
		}
		seen[key] = e.Relation
	}
	for key, rel := range seen {
		if back, ok := seen[[2]int{key[1], key[0]}]; !ok || back != rel {
			return fmt.Errorf("edge %d -> %d has no matching mirror", key[0], key[1])
		}
	}
	return nil
}
