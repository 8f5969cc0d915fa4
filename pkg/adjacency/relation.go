// Package adjacency classifies pairs of room types as adjacent or separate.
//
// Classification is a two-stage lookup. A curated rule table, derived from
// co-occurrence counts in real floor plans, is consulted first and always
// wins. Pairs without a rule fall through an ordered [Chain] of heuristics
// where the first matching heuristic decides:
//
//  1. either type is the hub (living room)      -> Adjacent
//  2. both types are service rooms              -> Separate
//  3. one private room and one service room     -> Separate
//  4. two instances of the same type            -> Separate
//  5. anything else                             -> Separate
//
// The default is deliberately Separate: unknown pairs are assumed not to
// touch. Both stages are order-independent, so Classify(a, b) always equals
// Classify(b, a).
package adjacency

import (
	"fmt"
	"strings"
)

// Relation is the edge label between two rooms. The numeric values are the
// ones the generative model expects in its [src, rel, dst] edge triples.
type Relation int

const (
	// Separate rooms should not share a wall.
	Separate Relation = -1
	// Adjacent rooms should share a wall.
	Adjacent Relation = 1
)

// String returns "adjacent" or "separate".
func (r Relation) String() string {
	switch r {
	case Adjacent:
		return "adjacent"
	case Separate:
		return "separate"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}

// ParseRelation parses "adjacent"/"separate" (also "+1"/"1"/"-1").
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adjacent", "1", "+1":
		return Adjacent, nil
	case "separate", "-1":
		return Separate, nil
	default:
		return 0, fmt.Errorf("invalid relation %q (must be adjacent or separate)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relation) UnmarshalText(text []byte) error {
	v, err := ParseRelation(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
