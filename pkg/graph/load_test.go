package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgen/pkg/adjacency"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

func TestLoadBuilderDefault(t *testing.T) {
	b, err := LoadBuilder("")
	require.NoError(t, err)
	assert.Equal(t, 18, b.Catalog().FeatureDim())
}

func TestLoadBuilderFile(t *testing.T) {
	b, err := LoadBuilder("testdata/studio.toml")
	require.NoError(t, err)

	g, warnings, err := b.Build([]string{"studio", "kitchen", "washroom"})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4, g.FeatureDim)
	assert.Equal(t, []int{0, 1, 2}, g.TypeIDs())

	// rule overrides the service/service heuristic
	rel := map[[2]int]adjacency.Relation{}
	for _, e := range g.Edges {
		rel[[2]int{e.Src, e.Dst}] = e.Relation
	}
	assert.Equal(t, adjacency.Adjacent, rel[[2]int{0, 1}])
	assert.Equal(t, adjacency.Adjacent, rel[[2]int{1, 2}])
}

func TestLoadBuilderMissing(t *testing.T) {
	_, err := LoadBuilder("testdata/nope.toml")
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidConfig))
}
