package catalog

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// fileConfig is the TOML layout of a catalog file:
//
//	feature_dim = 18
//
//	[[room]]
//	id      = 0
//	name    = "living_room"
//	aliases = ["living"]
//	color   = "#EE4D4D"
//	min     = 1
//	max     = 1
//
// Other top-level tables (such as [adjacency]) are ignored here so a single
// file can configure every component.
type fileConfig struct {
	FeatureDim int        `toml:"feature_dim"`
	Rooms      []fileRoom `toml:"room"`
}

type fileRoom struct {
	ID      int      `toml:"id"`
	Name    string   `toml:"name"`
	Aliases []string `toml:"aliases"`
	Color   RGB      `toml:"color"`
	Min     *int     `toml:"min"`
	Max     *int     `toml:"max"`
}

// Decode reads a TOML catalog from r.
func Decode(r io.Reader) (*Catalog, error) {
	var fc fileConfig
	if _, err := toml.NewDecoder(r).Decode(&fc); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "parse catalog")
	}
	return New(fc.toConfig())
}

// LoadFile reads a TOML catalog file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "open catalog %s", path)
	}
	defer f.Close()
	return Decode(f)
}

func (fc fileConfig) toConfig() Config {
	cfg := Config{FeatureDim: fc.FeatureDim}
	if cfg.FeatureDim == 0 {
		cfg.FeatureDim = DefaultFeatureDim
	}
	for _, fr := range fc.Rooms {
		rt := RoomType{
			ID:      fr.ID,
			Name:    fr.Name,
			Aliases: fr.Aliases,
			Color:   fr.Color,
		}
		switch {
		case fr.Min != nil && fr.Max != nil:
			rt.Typical = Range(*fr.Min, *fr.Max)
		case fr.Min != nil:
			rt.Typical = Range(*fr.Min, *fr.Min)
		case fr.Max != nil:
			rt.Typical = Range(0, *fr.Max)
		}
		cfg.Rooms = append(cfg.Rooms, rt)
	}
	return cfg
}
