package graph

import (
	"github.com/matzehuels/floorgen/pkg/adjacency"
	"github.com/matzehuels/floorgen/pkg/catalog"
)

// DefaultBuilder returns a builder over the built-in catalog and rule set.
func DefaultBuilder() (*Builder, error) {
	cat := catalog.Default()
	cls, err := adjacency.Default(cat)
	if err != nil {
		return nil, err
	}
	return NewBuilder(cat, cls), nil
}

// LoadBuilder reads the catalog and the [adjacency] table from one TOML file.
// An empty path returns DefaultBuilder.
func LoadBuilder(path string) (*Builder, error) {
	if path == "" {
		return DefaultBuilder()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := adjacency.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cls, err := adjacency.New(cat, cfg)
	if err != nil {
		return nil, err
	}
	return NewBuilder(cat, cls), nil
}
