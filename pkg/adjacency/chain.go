package adjacency

import "github.com/matzehuels/floorgen/pkg/catalog"

// Heuristic is one predicate/result pair of the fallback chain.
type Heuristic struct {
	Name     string
	Match    func(a, b catalog.RoomType) bool
	Relation Relation
}

// Chain is an ordered list of heuristics evaluated top-down.
type Chain []Heuristic

// Evaluate returns the relation and name of the first matching heuristic.
// ok is false when nothing matched.
func (c Chain) Evaluate(a, b catalog.RoomType) (rel Relation, name string, ok bool) {
	for _, h := range c {
		if h.Match(a, b) {
			return h.Relation, h.Name, true
		}
	}
	return Separate, "", false
}

// Heuristic names as reported by Classifier.Explain.
const (
	HeuristicHub            = "hub"
	HeuristicServiceService = "service-service"
	HeuristicPrivateService = "private-service"
	HeuristicSameType       = "same-type"
	HeuristicDefault        = "default"
)

// Categories names the type ids each heuristic inspects.
type Categories struct {
	Hub     int
	Service map[int]bool
	Private map[int]bool
}

// NewChain builds the standard fallback chain for the given categories.
// The order is significant and must not change: the hub rule runs before the
// same-type rule, so two living rooms are adjacent, while two bedrooms fall
// through to same-type and are separate.
func NewChain(cat Categories) Chain {
	return Chain{
		{
			Name:     HeuristicHub,
			Match:    func(a, b catalog.RoomType) bool { return a.ID == cat.Hub || b.ID == cat.Hub },
			Relation: Adjacent,
		},
		{
			Name:     HeuristicServiceService,
			Match:    func(a, b catalog.RoomType) bool { return cat.Service[a.ID] && cat.Service[b.ID] },
			Relation: Separate,
		},
		{
			Name: HeuristicPrivateService,
			Match: func(a, b catalog.RoomType) bool {
				return (cat.Private[a.ID] && cat.Service[b.ID]) || (cat.Service[a.ID] && cat.Private[b.ID])
			},
			Relation: Separate,
		},
		{
			Name:     HeuristicSameType,
			Match:    func(a, b catalog.RoomType) bool { return a.ID == b.ID },
			Relation: Separate,
		},
		{
			Name:     HeuristicDefault,
			Match:    func(a, b catalog.RoomType) bool { return true },
			Relation: Separate,
		},
	}
}
