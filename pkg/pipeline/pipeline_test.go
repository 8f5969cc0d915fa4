package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgen/pkg/adjacency"
	"github.com/matzehuels/floorgen/pkg/cache"
	"github.com/matzehuels/floorgen/pkg/catalog"
	ferrors "github.com/matzehuels/floorgen/pkg/errors"
	"github.com/matzehuels/floorgen/pkg/graph"
	"github.com/matzehuels/floorgen/pkg/mask"
	"github.com/matzehuels/floorgen/pkg/model"
	"github.com/matzehuels/floorgen/pkg/model/procedural"
	"github.com/matzehuels/floorgen/pkg/refine"
	"github.com/matzehuels/floorgen/pkg/render"
	"github.com/matzehuels/floorgen/pkg/render/nodelink"
)

// recorder wraps the procedural generator and remembers which nodes were
// fixed in each invocation.
type recorder struct {
	mu    sync.Mutex
	gen   model.Generator
	fixed [][]int
}

func (r *recorder) Invoke(ctx context.Context, in model.Input) ([]mask.Map, error) {
	var fixed []int
	for i, row := range in.Conditioning.Rows {
		if row.Indicator.Data[0] > 0 {
			fixed = append(fixed, i)
		}
	}
	r.mu.Lock()
	r.fixed = append(r.fixed, fixed)
	r.mu.Unlock()
	return r.gen.Invoke(ctx, in)
}

func newBuilder(t *testing.T) *graph.Builder {
	t.Helper()
	cat := catalog.Default()
	cls, err := adjacency.Default(cat)
	require.NoError(t, err)
	return graph.NewBuilder(cat, cls)
}

func newRunner(t *testing.T, gen model.Generator, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(newBuilder(t), gen, c, nil, log.New(io.Discard))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", true},
		{"", true},
		{"SVG", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGraphFormat(t *testing.T) {
	for _, f := range []string{"dot", "svg", "png", "pdf", "json"} {
		if err := ValidateGraphFormat(f); err != nil {
			t.Errorf("ValidateGraphFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateGraphFormat("gif"); err == nil {
		t.Error("ValidateGraphFormat(gif) should fail")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	require.NoError(t, o.ValidateAndSetDefaults())
	assert.Equal(t, mask.DefaultSize, o.MaskSize)
	assert.Equal(t, DefaultImageSize, o.ImageSize)
	assert.Equal(t, DefaultPassTimeout, o.PassTimeout)
	assert.Equal(t, DefaultTotalTimeout, o.TotalTimeout)
	assert.NotNil(t, o.Logger)
	assert.Empty(t, o.Formats)

	bad := Options{Formats: []string{"gif"}}
	assert.Error(t, bad.ValidateAndSetDefaults())

	neg := Options{MaskSize: -1}
	assert.Error(t, neg.ValidateAndSetDefaults())
}

func TestGenerateLayout_RepeatedTypesFixedTogether(t *testing.T) {
	rec := &recorder{gen: procedural.New()}
	r := newRunner(t, rec, nil)

	names := []string{"living_room", "bedroom", "bedroom", "kitchen", "bathroom"}
	res, err := r.GenerateLayout(context.Background(), names, Options{Seed: Seed(7), MaskSize: 16})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 2, 1, 3}, res.ResolvedTypeIDs)
	assert.Equal(t, res.ResolvedTypeIDs, res.NodeTypeIDs)
	assert.Len(t, res.Masks, 5)
	assert.Len(t, res.Passes, 5) // warm-up + 4 distinct types
	assert.Equal(t, uint64(7), res.Seed)
	assert.NotEmpty(t, res.RunID)

	require.Len(t, rec.fixed, 5)
	assert.Empty(t, rec.fixed[0])
	assert.Equal(t, []int{0}, rec.fixed[1])
	assert.Equal(t, []int{0, 3}, rec.fixed[2])
	// both bedrooms enter together
	assert.Equal(t, []int{0, 1, 2, 3}, rec.fixed[3])
	assert.Equal(t, []int{0, 1, 2, 3, 4}, rec.fixed[4])

	assert.Equal(t, 5, res.Stats.NodeCount)
	assert.Equal(t, 20, res.Stats.EdgeCount)
}

func TestGenerateLayout_SingleRoom(t *testing.T) {
	rec := &recorder{gen: procedural.New()}
	r := newRunner(t, rec, nil)

	res, err := r.GenerateLayout(context.Background(), []string{"kitchen"}, Options{MaskSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Graph.NodeCount())
	assert.Equal(t, 1, res.Graph.EdgeCount())
	assert.Len(t, res.Passes, 2)
	assert.Equal(t, []int{0}, rec.fixed[1])
	assert.Len(t, res.Masks, 1)
}

func TestGenerateLayout_UnknownRoomWarns(t *testing.T) {
	r := newRunner(t, procedural.New(), nil)

	res, err := r.GenerateLayout(context.Background(), []string{"living_room", "sauna", "kitchen"}, Options{MaskSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Graph.NodeCount())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "sauna")
}

func TestGenerateLayout_EmptyRequest(t *testing.T) {
	rec := &recorder{gen: procedural.New()}
	r := newRunner(t, rec, nil)

	res, err := r.GenerateLayout(context.Background(), []string{}, Options{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeEmptyRequest))
	assert.True(t, strings.HasPrefix(err.Error(), "build graph: "))
	assert.Empty(t, rec.fixed, "model must not be invoked")
}

func TestBuildGraph_HubFallback(t *testing.T) {
	r := newRunner(t, nil, nil)

	gr, err := r.BuildGraph(context.Background(), []string{"bedroom", "bedroom"})
	require.NoError(t, err)
	assert.Equal(t, adjacency.Separate, gr.Graph.Edges[0].Relation)

	// every living_room pair is Adjacent, by rule or by the hub fallback
	for _, rt := range catalog.Default().Types() {
		gr, err := r.BuildGraph(context.Background(), []string{"living_room", rt.Name})
		require.NoError(t, err)
		assert.Equal(t, adjacency.Adjacent, gr.Graph.Edges[0].Relation, "living_room/%s", rt.Name)
	}
}

func TestBuildGraph_Outputs(t *testing.T) {
	r := newRunner(t, nil, nil)

	gr, err := r.BuildGraph(context.Background(), []string{"living_room", "bedroom", "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, gr.ResolvedTypeIDs)
	assert.Len(t, gr.Features(), 3)
	assert.Len(t, gr.Edges(), 6)
	assert.NotNil(t, gr.Warnings)
	assert.NotEmpty(t, gr.Hash)
	assert.False(t, gr.CacheHit)
}

func TestBuildGraph_MalformedNamesWarn(t *testing.T) {
	r := newRunner(t, nil, nil)
	long := strings.Repeat("x", 65)

	gr, err := r.BuildGraph(context.Background(), []string{"living_room", "  ", "kitchen", long})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, gr.ResolvedTypeIDs)
	require.Len(t, gr.Warnings, 2)
	assert.Contains(t, gr.Warnings[0], "unknown room type")
	assert.Contains(t, gr.Warnings[1], long)
}

func TestGenerateLayout_LargeRequest(t *testing.T) {
	r := newRunner(t, procedural.New(), nil)
	names := make([]string, 41)
	for i := range names {
		names[i] = "bedroom"
	}

	res, err := r.GenerateLayout(context.Background(), names, Options{Seed: Seed(1), MaskSize: 8})
	require.NoError(t, err)
	assert.Len(t, res.Masks, 41)
	assert.Len(t, res.Passes, 2)
}

func TestBuildGraph_Rejects(t *testing.T) {
	r := newRunner(t, nil, nil)

	_, err := r.BuildGraph(context.Background(), []string{"kitchen", "bed\x00room"})
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidInput))

	_, err = NewRunner(nil, nil, nil, nil, nil).BuildGraph(context.Background(), []string{"kitchen"})
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidConfig))
}

func TestBuildGraph_Cache(t *testing.T) {
	mc, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	r := newRunner(t, nil, mc)
	ctx := context.Background()
	names := []string{"living_room", "sauna", "kitchen"}

	first, err := r.BuildGraph(ctx, names)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.BuildGraph(ctx, names)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.Graph.Triples(), second.Graph.Triples())

	// request order is part of the key
	third, err := r.BuildGraph(ctx, []string{"kitchen", "living_room"})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
}

func TestBuildGraph_CacheScopedToConfig(t *testing.T) {
	mc, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	ctx := context.Background()
	names := []string{"kitchen", "bathroom"}

	_, err = newRunner(t, nil, mc).BuildGraph(ctx, names)
	require.NoError(t, err)

	cat := catalog.Default()
	cfg := adjacency.DefaultConfig()
	cfg.Rules = []adjacency.Rule{{A: "kitchen", B: "bathroom", Relation: adjacency.Adjacent}}
	cls, err := adjacency.New(cat, cfg)
	require.NoError(t, err)
	other := NewRunner(graph.NewBuilder(cat, cls), nil, mc, nil, log.New(io.Discard))

	gr, err := other.BuildGraph(ctx, names)
	require.NoError(t, err)
	assert.False(t, gr.CacheHit)
	assert.Equal(t, adjacency.Adjacent, gr.Graph.Edges[0].Relation)
}

func TestGenerateLayout_NeverCachesLayouts(t *testing.T) {
	mc, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	rec := &recorder{gen: procedural.New()}
	r := newRunner(t, rec, mc)

	for range 2 {
		_, err := r.GenerateLayout(context.Background(), []string{"kitchen", "bathroom"}, Options{MaskSize: 8})
		require.NoError(t, err)
	}
	assert.Len(t, rec.fixed, 6, "both runs invoke the model")
	assert.Equal(t, 1, mc.Len(), "only the graph is cached")
}

func TestGenerateLayout_Reproducible(t *testing.T) {
	r := newRunner(t, procedural.New(), nil)
	names := []string{"living_room", "bedroom", "kitchen"}

	a, err := r.GenerateLayout(context.Background(), names, Options{Seed: Seed(42), MaskSize: 16})
	require.NoError(t, err)
	b, err := r.GenerateLayout(context.Background(), names, Options{Seed: Seed(42), MaskSize: 16})
	require.NoError(t, err)
	assert.Equal(t, a.Masks, b.Masks)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestGenerateLayout_ModelFailure(t *testing.T) {
	gen := model.GeneratorFunc(func(context.Context, model.Input) ([]mask.Map, error) {
		return nil, io.ErrUnexpectedEOF
	})
	r := newRunner(t, gen, nil)

	res, err := r.GenerateLayout(context.Background(), []string{"kitchen"}, Options{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeModelInference))
	assert.True(t, strings.HasPrefix(err.Error(), "refine: "))
}

func TestGenerateLayout_Observer(t *testing.T) {
	r := newRunner(t, procedural.New(), nil)
	var got []refine.Phase
	_, err := r.GenerateLayout(context.Background(), []string{"kitchen", "bedroom"}, Options{
		MaskSize: 8,
		Observer: func(p refine.PassRecord) { got = append(got, p.Phase) },
	})
	require.NoError(t, err)
	assert.Equal(t, []refine.Phase{refine.PhaseWarmUp, refine.PhaseRefine, refine.PhaseRefine}, got)
}

func TestGenerateLayout_Artifacts(t *testing.T) {
	r := newRunner(t, procedural.New(), nil)

	res, err := r.GenerateLayout(context.Background(), []string{"living_room", "kitchen"}, Options{
		MaskSize: 16,
		Formats:  []string{"svg", "json"},
		Labels:   true,
	})
	require.NoError(t, err)
	require.NoError(t, res.RenderErr)
	assert.True(t, strings.HasPrefix(string(res.Artifacts["svg"]), "<svg"))
	assert.Contains(t, string(res.Artifacts["svg"]), "living_room")

	var decoded struct {
		RunID       string `json:"run_id"`
		NodeTypeIDs []int  `json:"node_type_ids"`
	}
	require.NoError(t, json.Unmarshal(res.Artifacts["json"], &decoded))
	assert.Equal(t, res.RunID, decoded.RunID)
	assert.Equal(t, []int{0, 1}, decoded.NodeTypeIDs)
}

func TestGenerateLayout_RenderFailureKeepsLayout(t *testing.T) {
	if (render.Converter{}).Available() {
		t.Skip("rsvg-convert installed; png conversion would succeed")
	}
	r := newRunner(t, procedural.New(), nil)

	res, err := r.GenerateLayout(context.Background(), []string{"kitchen"}, Options{
		MaskSize: 8,
		Formats:  []string{"png", "svg"},
	})
	require.NoError(t, err)
	require.Error(t, res.RenderErr)
	assert.True(t, ferrors.Is(res.RenderErr, ferrors.ErrCodeRender))
	assert.Len(t, res.Masks, 1)
	assert.NotEmpty(t, res.Artifacts["svg"])
	assert.NotContains(t, res.Artifacts, "png")
}

func TestRenderGraph(t *testing.T) {
	mc, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	r := newRunner(t, nil, mc)
	ctx := context.Background()

	gr, err := r.BuildGraph(ctx, []string{"living_room", "bedroom", "kitchen"})
	require.NoError(t, err)

	dot, err := r.RenderGraph(ctx, gr, "dot", nodelink.Options{})
	require.NoError(t, err)
	assert.Contains(t, string(dot), "n0 -- n1")

	data, err := r.RenderGraph(ctx, gr, "json", nodelink.Options{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"resolved_type_ids"`)

	assert.Equal(t, 3, mc.Len()) // graph + two renders

	_, err = r.RenderGraph(ctx, gr, "gif", nodelink.Options{})
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidFormat))
}

func TestRenderGraph_OptionsInCacheKey(t *testing.T) {
	mc, err := cache.NewMemoryCache(16)
	require.NoError(t, err)
	r := newRunner(t, nil, mc)
	ctx := context.Background()

	gr, err := r.BuildGraph(ctx, []string{"kitchen", "bathroom"})
	require.NoError(t, err)
	require.Equal(t, adjacency.Separate, gr.Graph.Edges[0].Relation)

	plain, err := r.RenderGraph(ctx, gr, "dot", nodelink.Options{})
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "dashed")

	separate, err := r.RenderGraph(ctx, gr, "dot", nodelink.Options{ShowSeparate: true})
	require.NoError(t, err)
	assert.Contains(t, string(separate), "style=dashed")

	detailed, err := r.RenderGraph(ctx, gr, "dot", nodelink.Options{Detailed: true})
	require.NoError(t, err)
	assert.NotEqual(t, string(plain), string(detailed))

	again, err := r.RenderGraph(ctx, gr, "dot", nodelink.Options{})
	require.NoError(t, err)
	assert.Equal(t, plain, again)
}

func TestGenerateFromGraph(t *testing.T) {
	r := newRunner(t, procedural.New(), nil)
	names := []string{"living_room", "bedroom", "kitchen"}

	gr, err := r.BuildGraph(context.Background(), names)
	require.NoError(t, err)
	data, err := graph.MarshalGraph(gr.Graph)
	require.NoError(t, err)
	g, err := graph.UnmarshalGraph(data)
	require.NoError(t, err)

	fromNames, err := r.GenerateLayout(context.Background(), names, Options{Seed: Seed(7), MaskSize: 16})
	require.NoError(t, err)
	fromGraph, err := r.GenerateFromGraph(context.Background(), g, Options{Seed: Seed(7), MaskSize: 16})
	require.NoError(t, err)

	assert.Equal(t, fromNames.Masks, fromGraph.Masks)
	assert.Equal(t, []int{0, 2, 1}, fromGraph.NodeTypeIDs)
	assert.Equal(t, fromGraph.NodeTypeIDs, fromGraph.ResolvedTypeIDs)
	assert.Len(t, fromGraph.Passes, 4)
}

func TestGenerateFromGraph_Rejects(t *testing.T) {
	r := newRunner(t, procedural.New(), nil)
	ctx := context.Background()

	_, err := r.GenerateFromGraph(ctx, nil, Options{})
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidInput))

	narrow := &graph.ConstraintGraph{
		Nodes:      []graph.Node{{Index: 0, TypeID: 0, Features: []float32{1, 0}}},
		Edges:      []graph.Edge{{Src: 0, Dst: 0, Relation: adjacency.Adjacent}},
		FeatureDim: 2,
	}
	_, err = r.GenerateFromGraph(ctx, narrow, Options{})
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeInvalidInput))
	assert.True(t, strings.HasPrefix(err.Error(), "build graph: "))

	features := make([]float32, catalog.DefaultFeatureDim)
	features[12] = 1
	undefined := &graph.ConstraintGraph{
		Nodes:      []graph.Node{{Index: 0, TypeID: 12, Features: features}},
		Edges:      []graph.Edge{{Src: 0, Dst: 0, Relation: adjacency.Adjacent}},
		FeatureDim: catalog.DefaultFeatureDim,
	}
	_, err = r.GenerateFromGraph(ctx, undefined, Options{})
	assert.True(t, ferrors.Is(err, ferrors.ErrCodeUnknownRoomType))
}
