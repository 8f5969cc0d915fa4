// Package catalog is the registry of room types a layout request may name.
//
// A [Catalog] is immutable configuration: it is built once from a [Config]
// (usually [DefaultConfig] or a TOML file) and injected into the graph builder,
// the adjacency classifier and the renderers. There is no package-level
// singleton; tests substitute their own catalogs freely.
//
// Type ids are zero-based and double as the position of the one-hot feature
// in the node vectors the generative model consumes, so every id must be
// smaller than [Catalog.FeatureDim].
package catalog

import (
	"fmt"
	"slices"
	"strings"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// RoomType is one entry of the catalog.
type RoomType struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Aliases []string   `json:"aliases,omitempty"`
	Color   RGB        `json:"color"`
	Typical CountRange `json:"typical"`
}

// String returns the canonical name.
func (t RoomType) String() string { return t.Name }

// CountRange is the typical number of instances of a type in one plan.
// A range with Set == false carries no expectation and never warns.
type CountRange struct {
	Min int  `json:"min"`
	Max int  `json:"max"`
	Set bool `json:"set"`
}

// Contains reports whether n instances fall inside the range.
func (r CountRange) Contains(n int) bool {
	if !r.Set {
		return true
	}
	return n >= r.Min && n <= r.Max
}

// Range builds a set CountRange.
func Range(min, max int) CountRange {
	return CountRange{Min: min, Max: max, Set: true}
}

// Config is the raw description a Catalog is built from.
type Config struct {
	FeatureDim int
	Rooms      []RoomType
}

// Catalog is the validated, read-only room type registry.
type Catalog struct {
	featureDim int
	types      []RoomType // ascending by id
	byID       map[int]int
	byName     map[string]int
}

// New validates cfg and builds a Catalog.
//
// Ids must be unique and inside [0, FeatureDim); names and aliases must be
// unique after normalization; typical ranges must satisfy 0 <= Min <= Max.
func New(cfg Config) (*Catalog, error) {
	if cfg.FeatureDim <= 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "feature_dim must be positive, got %d", cfg.FeatureDim)
	}
	if len(cfg.Rooms) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "catalog has no room types")
	}

	c := &Catalog{
		featureDim: cfg.FeatureDim,
		types:      make([]RoomType, 0, len(cfg.Rooms)),
		byID:       make(map[int]int, len(cfg.Rooms)),
		byName:     make(map[string]int),
	}

	rooms := slices.Clone(cfg.Rooms)
	slices.SortFunc(rooms, func(a, b RoomType) int { return a.ID - b.ID })

	for _, rt := range rooms {
		if rt.ID < 0 || rt.ID >= cfg.FeatureDim {
			return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "room %q: id %d outside [0, %d)", rt.Name, rt.ID, cfg.FeatureDim)
		}
		if _, dup := c.byID[rt.ID]; dup {
			return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "duplicate room id %d", rt.ID)
		}
		if rt.Typical.Set && (rt.Typical.Min < 0 || rt.Typical.Min > rt.Typical.Max) {
			return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "room %q: invalid typical range %d-%d", rt.Name, rt.Typical.Min, rt.Typical.Max)
		}

		rt.Aliases = slices.Clone(rt.Aliases)
		idx := len(c.types)
		for _, name := range append([]string{rt.Name}, rt.Aliases...) {
			key := normalize(name)
			if key == "" {
				return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "room id %d: empty name", rt.ID)
			}
			if prev, dup := c.byName[key]; dup {
				return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "name %q used by %q and %q", name, c.types[prev].Name, rt.Name)
			}
			c.byName[key] = idx
		}
		c.byID[rt.ID] = idx
		c.types = append(c.types, rt)
	}

	return c, nil
}

// MustNew is New for static configurations known to be valid.
func MustNew(cfg Config) *Catalog {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves a name or alias. Matching ignores case, surrounding space
// and treats '_' and ' ' alike, so "Dining Room" finds "dining_room".
func (c *Catalog) Lookup(name string) (RoomType, error) {
	if idx, ok := c.byName[normalize(name)]; ok {
		return c.types[idx], nil
	}
	return RoomType{}, ferrors.New(ferrors.ErrCodeUnknownRoomType, "unknown room type %q", name)
}

// ByID returns the type with the given id.
func (c *Catalog) ByID(id int) (RoomType, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return RoomType{}, false
	}
	return c.types[idx], true
}

// Types returns all room types ordered by id.
func (c *Catalog) Types() []RoomType {
	return slices.Clone(c.types)
}

// Names returns the canonical names ordered by id.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.types))
	for i, t := range c.types {
		names[i] = t.Name
	}
	return names
}

// FeatureDim is the length of the one-hot node feature vectors.
func (c *Catalog) FeatureDim() int { return c.featureDim }

// Len returns the number of room types.
func (c *Catalog) Len() int { return len(c.types) }

// Validate checks instance counts against each type's typical range and
// returns one warning per type that falls outside it. Warnings are advisory;
// they never prevent a layout from being generated.
func (c *Catalog) Validate(types []RoomType) []string {
	counts := make(map[int]int)
	var order []int
	for _, t := range types {
		if counts[t.ID] == 0 {
			order = append(order, t.ID)
		}
		counts[t.ID]++
	}

	var warnings []string
	for _, id := range order {
		rt, ok := c.ByID(id)
		if !ok {
			continue
		}
		if n := counts[id]; !rt.Typical.Contains(n) {
			warnings = append(warnings, fmt.Sprintf("%s: requested %d, typical range %d-%d",
				rt.Name, n, rt.Typical.Min, rt.Typical.Max))
		}
	}
	return warnings
}

func normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), "_")
}
