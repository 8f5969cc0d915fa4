package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgen/pkg/adjacency"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
)

func TestTriplesAndPairs(t *testing.T) {
	b := newBuilder(t)
	g, _, err := b.Build([]string{"living_room", "bedroom", "bedroom", "bathroom"})
	require.NoError(t, err)

	triples := g.Triples()
	require.Len(t, triples, 12)
	for _, tr := range triples {
		assert.Contains(t, triples, [3]int{tr[2], tr[1], tr[0]}, "mirror of %v", tr)
	}
	// living_room is adjacent to everything; bedroom/bedroom is separate
	assert.GreaterOrEqual(t, g.AdjacentPairs(), 3)
	assert.Equal(t, []int{0, 2, 3}, g.DistinctTypeIDs())
}

func TestFeaturesAreCopies(t *testing.T) {
	b := newBuilder(t)
	g, _, err := b.Build([]string{"kitchen"})
	require.NoError(t, err)

	rows := g.Features()
	rows[0][1] = 7
	assert.Equal(t, float32(1), g.Nodes[0].Features[1])
}

func TestPlaceholder(t *testing.T) {
	b := newBuilder(t)
	g, _, err := b.Build([]string{"bathroom"})
	require.NoError(t, err)

	assert.True(t, g.IsPlaceholder())
	assert.Equal(t, [][3]int{{0, int(adjacency.Adjacent), 0}}, g.Triples())
	assert.Zero(t, g.AdjacentPairs())
}

func TestGraphFileRoundTrip(t *testing.T) {
	b := newBuilder(t)
	g, _, err := b.Build([]string{"living_room", "kitchen", "dining_room"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, WriteGraphFile(g, path))

	got, err := ReadGraphFile(path)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestUnmarshalGraphWrapped(t *testing.T) {
	b := newBuilder(t)
	g, _, err := b.Build([]string{"living_room", "bedroom"})
	require.NoError(t, err)

	data, err := MarshalGraph(g)
	require.NoError(t, err)
	doc := `{"resolved_type_ids": [0, 2], "graph": ` + string(data) + `}`

	got, err := UnmarshalGraph([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, g.Triples(), got.Triples())
}

func TestUnmarshalGraphRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		code ferrors.Code
	}{
		{"NotJSON", "{nodes", ferrors.ErrCodeInvalidFormat},
		{"Empty", "{}", ferrors.ErrCodeInvalidInput},
		{"MissingMirror", `{"nodes": [
			{"index": 0, "type_id": 0, "features": [1, 0]},
			{"index": 1, "type_id": 1, "features": [0, 1]}
		], "edges": [{"src": 0, "dst": 1, "relation": "adjacent"}, {"src": 1, "dst": 0, "relation": "separate"}], "feature_dim": 2}`, ferrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalGraph([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, ferrors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
