package graph

import (
	"fmt"

	"github.com/matzehuels/floorgen/pkg/adjacency"
	"github.com/matzehuels/floorgen/pkg/catalog"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// Classifier is the relation oracle the builder consults for every pair.
// *adjacency.Classifier satisfies it.
type Classifier interface {
	Classify(a, b catalog.RoomType) adjacency.Relation
}

// Builder turns room-name requests into constraint graphs. It holds only
// injected, read-only configuration and is safe for concurrent use.
type Builder struct {
	catalog    *catalog.Catalog
	classifier Classifier
}

// NewBuilder returns a builder over the given catalog and classifier.
func NewBuilder(cat *catalog.Catalog, cls Classifier) *Builder {
	return &Builder{catalog: cat, classifier: cls}
}

// Catalog returns the catalog names are resolved against.
func (b *Builder) Catalog() *catalog.Catalog { return b.catalog }

// Classifier returns the relation oracle.
func (b *Builder) Classifier() Classifier { return b.classifier }

// Build resolves names and assembles the graph.
//
// Unknown names are dropped with a warning; the remaining entries keep their
// relative order and are numbered from 0. Count warnings from the catalog's
// typical ranges are appended after the unknown-name warnings. If nothing
// resolves, Build fails with EMPTY_REQUEST.
func (b *Builder) Build(names []string) (*ConstraintGraph, []string, error) {
	var (
		types    []catalog.RoomType
		warnings []string
	)
	for _, name := range names {
		rt, err := b.catalog.Lookup(name)
		if err != nil {
			if ferrors.GetCode(err).Recoverable() {
				warnings = append(warnings, fmt.Sprintf("unknown room type %q, skipping", name))
				continue
			}
			return nil, warnings, err
		}
		types = append(types, rt)
	}

	if len(types) == 0 {
		return nil, warnings, ferrors.New(ferrors.ErrCodeEmptyRequest, "no valid room types in request of %d entries", len(names))
	}

	warnings = append(warnings, b.catalog.Validate(types)...)
	return b.assemble(types), warnings, nil
}

// BuildTypes assembles a graph from already-resolved room types.
func (b *Builder) BuildTypes(types []catalog.RoomType) (*ConstraintGraph, error) {
	if len(types) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeEmptyRequest, "no room types")
	}
	return b.assemble(types), nil
}

func (b *Builder) assemble(types []catalog.RoomType) *ConstraintGraph {
	dim := b.catalog.FeatureDim()
	n := len(types)

	g := &ConstraintGraph{
		Nodes:      make([]Node, n),
		FeatureDim: dim,
	}
	for i, rt := range types {
		features := make([]float32, dim)
		features[rt.ID] = 1
		g.Nodes[i] = Node{Index: i, TypeID: rt.ID, Name: rt.Name, Features: features}
	}

	if n < 2 {
		g.Edges = []Edge{{Src: 0, Dst: 0, Relation: adjacency.Adjacent}}
		return g
	}

	g.Edges = make([]Edge, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rel := b.classifier.Classify(types[i], types[j])
			g.Edges = append(g.Edges,
				Edge{Src: i, Dst: j, Relation: rel},
				Edge{Src: j, Dst: i, Relation: rel},
			)
		}
	}
	return g
}
