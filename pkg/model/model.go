// Package model defines the boundary to the generative layout model.
//
// The model itself is opaque: given per-node noise, the two-channel
// conditioning tensor, node features and the labelled edge list, it returns
// one mask per node. Backends live in subpackages:
//
//   - [github.com/matzehuels/floorgen/pkg/model/procedural]: deterministic,
//     in-process placement used for demos and tests
//   - [github.com/matzehuels/floorgen/pkg/model/remote]: JSON over HTTP to an
//     inference service hosting the trained network
//
// Any Generator can be wrapped with [Serialize] to bound how many invocations
// run at once against shared hardware.
package model

import (
	"context"
	"fmt"

	"github.com/matzehuels/floorgen/pkg/mask"
)

// NoiseDim is the length of the latent vector drawn per node per pass.
const NoiseDim = 128

// Input is one model invocation.
type Input struct {
	Noise        [][]float32 `json:"noise"`        // [nodes][NoiseDim]
	Conditioning mask.Tensor `json:"conditioning"` // [nodes][2][size][size]
	Features     [][]float32 `json:"features"`     // [nodes][featureDim]
	Edges        [][3]int    `json:"edges"`        // [src, rel, dst]
}

// Nodes returns the node count implied by the conditioning tensor.
func (in Input) Nodes() int { return in.Conditioning.Len() }

// Size returns the mask side length, or 0 for an empty input.
func (in Input) Size() int {
	if len(in.Conditioning.Rows) == 0 {
		return 0
	}
	return in.Conditioning.Rows[0].Mask.Size
}

// Validate checks that every per-node field has one row per node and that
// the edge list is non-empty and in range.
func (in Input) Validate() error {
	n := in.Nodes()
	if n == 0 {
		return fmt.Errorf("input has no nodes")
	}
	if len(in.Noise) != n {
		return fmt.Errorf("noise has %d rows for %d nodes", len(in.Noise), n)
	}
	if len(in.Features) != n {
		return fmt.Errorf("features has %d rows for %d nodes", len(in.Features), n)
	}
	if len(in.Edges) == 0 {
		return fmt.Errorf("edge list is empty")
	}
	for _, e := range in.Edges {
		if e[0] < 0 || e[0] >= n || e[2] < 0 || e[2] >= n {
			return fmt.Errorf("edge %v references a missing node", e)
		}
	}
	return nil
}

// Generator produces one mask per node for a single invocation.
// Implementations must honour ctx cancellation and must not retain in.
type Generator interface {
	Invoke(ctx context.Context, in Input) ([]mask.Map, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, in Input) ([]mask.Map, error)

// Invoke calls f.
func (f GeneratorFunc) Invoke(ctx context.Context, in Input) ([]mask.Map, error) {
	return f(ctx, in)
}
