package adjacency

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

// fileConfig is the [adjacency] table of a floorgen config file:
//
//	[adjacency]
//	hub     = "living_room"
//	service = ["kitchen", "bathroom"]
//	private = ["bedroom", "study_room"]
//
//	[[adjacency.rule]]
//	a        = "living_room"
//	b        = "kitchen"
//	relation = "adjacent"
type fileConfig struct {
	Adjacency *Config `toml:"adjacency"`
}

// DecodeConfig reads the [adjacency] table from r. When the document has no
// such table, DefaultConfig is returned so a catalog-only file still works.
func DecodeConfig(r io.Reader) (Config, error) {
	var fc fileConfig
	if _, err := toml.NewDecoder(r).Decode(&fc); err != nil {
		return Config{}, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "parse adjacency rules")
	}
	if fc.Adjacency == nil {
		return DefaultConfig(), nil
	}
	return *fc.Adjacency, nil
}

// LoadConfig reads the [adjacency] table of a TOML file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "open rules %s", path)
	}
	defer f.Close()
	return DecodeConfig(f)
}
