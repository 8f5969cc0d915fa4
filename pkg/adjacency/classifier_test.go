package adjacency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgen/pkg/catalog"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

func newDefault(t *testing.T) (*catalog.Catalog, *Classifier) {
	t.Helper()
	cat := catalog.Default()
	cls, err := Default(cat)
	require.NoError(t, err)
	return cat, cls
}

func mustLookup(t *testing.T, cat *catalog.Catalog, name string) catalog.RoomType {
	t.Helper()
	rt, err := cat.Lookup(name)
	require.NoError(t, err)
	return rt
}

func TestClassifyCommutative(t *testing.T) {
	cat, cls := newDefault(t)
	for _, a := range cat.Types() {
		for _, b := range cat.Types() {
			assert.Equal(t, cls.Classify(a, b), cls.Classify(b, a), "%s/%s", a.Name, b.Name)
			assert.Equal(t, cls.Explain(a, b), cls.Explain(b, a), "%s/%s", a.Name, b.Name)
		}
	}
}

func TestClassifyRules(t *testing.T) {
	cat, cls := newDefault(t)

	tests := []struct {
		a, b string
		want Relation
	}{
		{catalog.LivingRoom, catalog.Bedroom, Adjacent},
		{catalog.Bedroom, catalog.LivingRoom, Adjacent},
		{catalog.Kitchen, catalog.DiningRoom, Adjacent},
		{catalog.DiningRoom, catalog.Kitchen, Adjacent},
		{catalog.Bedroom, catalog.Balcony, Separate},
		{catalog.Bathroom, catalog.Kitchen, Separate},
		{catalog.Balcony, catalog.Balcony, Separate},
	}

	for _, tt := range tests {
		a, b := mustLookup(t, cat, tt.a), mustLookup(t, cat, tt.b)
		d := cls.Explain(a, b)
		assert.Equal(t, tt.want, d.Relation, "%s/%s", tt.a, tt.b)
		assert.Equal(t, SourceRule, d.Source, "%s/%s", tt.a, tt.b)
	}
}

func TestClassifyBedroomPair(t *testing.T) {
	cat, cls := newDefault(t)
	bed := mustLookup(t, cat, catalog.Bedroom)
	assert.Equal(t, Separate, cls.Classify(bed, bed))
}

func TestHubFallback(t *testing.T) {
	cat, cls := newDefault(t)
	living := mustLookup(t, cat, catalog.LivingRoom)

	checked := 0
	for _, x := range cat.Types() {
		if cls.HasRule(living, x) {
			continue
		}
		d := cls.Explain(living, x)
		assert.Equal(t, Adjacent, d.Relation, "living_room/%s", x.Name)
		assert.Equal(t, HeuristicHub, d.Source, "living_room/%s", x.Name)
		checked++
	}
	// storage, front_door, unknown, interior_door and living_room itself
	assert.Equal(t, 5, checked)
}

func TestHeuristicOrder(t *testing.T) {
	cat, cls := newDefault(t)

	tests := []struct {
		a, b   string
		want   Relation
		source string
	}{
		{catalog.LivingRoom, catalog.LivingRoom, Adjacent, HeuristicHub},
		{catalog.StudyRoom, catalog.Kitchen, Separate, HeuristicPrivateService},
		{catalog.Bathroom, catalog.StudyRoom, Separate, HeuristicPrivateService},
		{catalog.Kitchen, catalog.Kitchen, Separate, HeuristicServiceService},
		{catalog.StudyRoom, catalog.StudyRoom, Separate, HeuristicSameType},
		{catalog.Entrance, catalog.Storage, Separate, HeuristicDefault},
		{catalog.Balcony, catalog.DiningRoom, Separate, HeuristicDefault},
	}

	for _, tt := range tests {
		d := cls.Explain(mustLookup(t, cat, tt.a), mustLookup(t, cat, tt.b))
		assert.Equal(t, tt.want, d.Relation, "%s/%s", tt.a, tt.b)
		assert.Equal(t, tt.source, d.Source, "%s/%s", tt.a, tt.b)
	}
}

func TestRulesOverrideHeuristics(t *testing.T) {
	cat := catalog.Default()
	cfg := DefaultConfig()
	cfg.Rules = []Rule{{A: catalog.Storage, B: catalog.LivingRoom, Relation: Separate}}

	cls, err := New(cat, cfg)
	require.NoError(t, err)

	d := cls.Explain(mustLookup(t, cat, catalog.LivingRoom), mustLookup(t, cat, catalog.Storage))
	assert.Equal(t, Separate, d.Relation)
	assert.Equal(t, SourceRule, d.Source)
}

func TestChainInIsolation(t *testing.T) {
	hub := catalog.RoomType{ID: 0, Name: "hub"}
	svcA := catalog.RoomType{ID: 1, Name: "svc-a"}
	svcB := catalog.RoomType{ID: 2, Name: "svc-b"}
	priv := catalog.RoomType{ID: 3, Name: "priv"}
	other := catalog.RoomType{ID: 4, Name: "other"}

	chain := NewChain(Categories{
		Hub:     0,
		Service: map[int]bool{1: true, 2: true},
		Private: map[int]bool{3: true},
	})

	tests := []struct {
		a, b catalog.RoomType
		name string
		rel  Relation
	}{
		{hub, svcA, HeuristicHub, Adjacent},
		{svcA, svcB, HeuristicServiceService, Separate},
		{priv, svcB, HeuristicPrivateService, Separate},
		{svcB, priv, HeuristicPrivateService, Separate},
		{other, other, HeuristicSameType, Separate},
		{priv, other, HeuristicDefault, Separate},
	}
	for _, tt := range tests {
		rel, name, ok := chain.Evaluate(tt.a, tt.b)
		require.True(t, ok)
		assert.Equal(t, tt.name, name, "%s/%s", tt.a.Name, tt.b.Name)
		assert.Equal(t, tt.rel, rel, "%s/%s", tt.a.Name, tt.b.Name)
	}

	_, _, ok := Chain{}.Evaluate(hub, svcA)
	assert.False(t, ok, "empty chain matches nothing")
}

func TestNewRejectsBadConfig(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"unknown hub", func(c *Config) { c.Hub = "atrium" }},
		{"unknown service", func(c *Config) { c.Service = append(c.Service, "laundry") }},
		{"unknown rule room", func(c *Config) { c.Rules = append(c.Rules, Rule{A: "sauna", B: "kitchen", Relation: Separate}) }},
		{"missing relation", func(c *Config) { c.Rules = append(c.Rules, Rule{A: "storage", B: "kitchen"}) }},
		{"conflict", func(c *Config) {
			c.Rules = append(c.Rules, Rule{A: catalog.Bedroom, B: catalog.LivingRoom, Relation: Separate})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			_, err := New(cat, cfg)
			require.Error(t, err)
			assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidConfig), "code = %v", ferrors.GetCode(err))
		})
	}
}

func TestDecodeConfig(t *testing.T) {
	const doc = `
[adjacency]
hub = "kitchen"
service = ["bathroom"]
private = ["bedroom"]

[[adjacency.rule]]
a = "bedroom"
b = "balcony"
relation = "adjacent"
`
	cfg, err := DecodeConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "kitchen", cfg.Hub)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, Adjacent, cfg.Rules[0].Relation)

	cat := catalog.Default()
	cls, err := New(cat, cfg)
	require.NoError(t, err)
	assert.Equal(t, Adjacent, cls.Classify(mustLookup(t, cat, catalog.Balcony), mustLookup(t, cat, catalog.Bedroom)))
	assert.Equal(t, Adjacent, cls.Classify(mustLookup(t, cat, catalog.Kitchen), mustLookup(t, cat, catalog.Storage)))
}

func TestDecodeConfigDefaultsWithoutTable(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader("feature_dim = 18\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = DecodeConfig(strings.NewReader("[[adjacency.rule]]\nrelation = \"sideways\"\n"))
	assert.Error(t, err)
}

func TestParseRelation(t *testing.T) {
	for in, want := range map[string]Relation{"adjacent": Adjacent, "Separate": Separate, "+1": Adjacent, "-1": Separate} {
		got, err := ParseRelation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseRelation("near")
	assert.Error(t, err)
	assert.Equal(t, "adjacent", Adjacent.String())
	assert.Equal(t, "relation(0)", Relation(0).String())
}
