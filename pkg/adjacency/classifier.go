package adjacency

import (
	"github.com/matzehuels/floorgen/pkg/catalog"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// Rule is one curated entry of the empirical rule table.
type Rule struct {
	A        string   `toml:"a" json:"a"`
	B        string   `toml:"b" json:"b"`
	Relation Relation `toml:"relation" json:"relation"`
}

// Config describes a rule set by room names. Names are resolved against a
// catalog when the Classifier is built.
type Config struct {
	Hub     string   `toml:"hub"`
	Service []string `toml:"service"`
	Private []string `toml:"private"`
	Rules   []Rule   `toml:"rule"`
}

// Source values reported in a Decision.
const SourceRule = "rule"

// Decision explains one classification.
type Decision struct {
	Relation Relation
	// Source is SourceRule or the name of the heuristic that fired.
	Source string
}

type pair struct{ lo, hi int }

func canonical(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Classifier is the immutable pairwise relation oracle.
type Classifier struct {
	rules map[pair]Relation
	chain Chain
}

// New resolves cfg against cat and builds a Classifier.
// Rules are canonicalized by type id, so (kitchen, dining_room) and
// (dining_room, kitchen) are the same entry; two entries for one pair with
// different relations are rejected.
func New(cat *catalog.Catalog, cfg Config) (*Classifier, error) {
	resolve := func(field, name string) (int, error) {
		rt, err := cat.Lookup(name)
		if err != nil {
			return 0, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "adjacency %s", field)
		}
		return rt.ID, nil
	}

	hub, err := resolve("hub", cfg.Hub)
	if err != nil {
		return nil, err
	}
	cats := Categories{Hub: hub, Service: map[int]bool{}, Private: map[int]bool{}}
	for _, name := range cfg.Service {
		id, err := resolve("service", name)
		if err != nil {
			return nil, err
		}
		cats.Service[id] = true
	}
	for _, name := range cfg.Private {
		id, err := resolve("private", name)
		if err != nil {
			return nil, err
		}
		cats.Private[id] = true
	}

	rules := make(map[pair]Relation, len(cfg.Rules))
	for _, r := range cfg.Rules {
		if r.Relation != Adjacent && r.Relation != Separate {
			return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "rule %s/%s: invalid relation %d", r.A, r.B, int(r.Relation))
		}
		a, err := resolve("rule", r.A)
		if err != nil {
			return nil, err
		}
		b, err := resolve("rule", r.B)
		if err != nil {
			return nil, err
		}
		key := canonical(a, b)
		if prev, ok := rules[key]; ok && prev != r.Relation {
			return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "conflicting rules for %s/%s", r.A, r.B)
		}
		rules[key] = r.Relation
	}

	return &Classifier{rules: rules, chain: NewChain(cats)}, nil
}

// Default builds the classifier for the default catalog and rule set.
func Default(cat *catalog.Catalog) (*Classifier, error) {
	return New(cat, DefaultConfig())
}

// Classify returns the relation between two room types.
func (c *Classifier) Classify(a, b catalog.RoomType) Relation {
	return c.Explain(a, b).Relation
}

// Explain classifies a pair and reports which rule or heuristic decided it.
func (c *Classifier) Explain(a, b catalog.RoomType) Decision {
	if rel, ok := c.rules[canonical(a.ID, b.ID)]; ok {
		return Decision{Relation: rel, Source: SourceRule}
	}
	if a.ID > b.ID {
		a, b = b, a
	}
	rel, name, _ := c.chain.Evaluate(a, b)
	return Decision{Relation: rel, Source: name}
}

// HasRule reports whether the curated table has an entry for the pair.
func (c *Classifier) HasRule(a, b catalog.RoomType) bool {
	_, ok := c.rules[canonical(a.ID, b.ID)]
	return ok
}

// RuleCount returns the number of distinct curated pairs.
func (c *Classifier) RuleCount() int { return len(c.rules) }
