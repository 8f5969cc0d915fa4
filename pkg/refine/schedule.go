package refine

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/floorgen/pkg/graph"
)

// MaxPasses caps the number of refining passes after warm-up.
const MaxPasses = 10

// Phase names a stage of the refinement loop.
type Phase string

const (
	// PhaseWarmUp is the single unconditioned pass: nothing fixed, no prior.
	PhaseWarmUp Phase = "warmup"
	// PhaseRefine is a conditioned pass fixing a growing prefix of types.
	PhaseRefine Phase = "refine"
)

// Pass is one planned model invocation.
type Pass struct {
	Phase Phase `json:"phase"`
	// Step is k for refining passes and 0 for warm-up.
	Step int `json:"step"`
	// FixedTypes is the sorted prefix of distinct type ids held fixed.
	FixedTypes []int `json:"fixed_types"`
	// Fixed lists node indices whose type is in FixedTypes, ascending.
	Fixed []int `json:"fixed"`
}

// Schedule returns the passes Run will execute for g: warm-up followed by
// min(MaxPasses, distinct types) refining passes. Refining pass k fixes every
// node whose type id is among the k+1 smallest distinct type ids present, so
// multiple instances of a type are always fixed together.
func Schedule(g *graph.ConstraintGraph) []Pass {
	types := g.DistinctTypeIDs()
	steps := min(MaxPasses, len(types))

	passes := make([]Pass, 0, steps+1)
	passes = append(passes, Pass{Phase: PhaseWarmUp, FixedTypes: []int{}, Fixed: []int{}})

	for k := 0; k < steps; k++ {
		prefix := slices.Clone(types[:k+1])
		set := mapset.New[int]()
		for _, t := range prefix {
			set.Put(t)
		}

		fixed := []int{}
		for _, n := range g.Nodes {
			if set.Has(n.TypeID) {
				fixed = append(fixed, n.Index)
			}
		}
		passes = append(passes, Pass{Phase: PhaseRefine, Step: k, FixedTypes: prefix, Fixed: fixed})
	}
	return passes
}
