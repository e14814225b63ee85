package cluster

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carousel-labs/productcluster/graph"
	"github.com/carousel-labs/productcluster/model"
)

func imageIDs(names ...string) []model.ImageID {
	out := make([]model.ImageID, len(names))
	for i, n := range names {
		out[i] = model.ImageID(n)
	}
	return out
}

// seqIDs makes group ids deterministic for assertions.
func seqIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("pg_%04d", n)
	}
}

func newResult(t *testing.T, ids []model.ImageID, edges []graph.Edge, cfg model.Config, optFns ...Option) *Result {
	t.Helper()
	g, err := graph.NewFromEdges(ids, edges, cfg.Threshold)
	require.NoError(t, err)
	optFns = append([]Option{WithIDGenerator(seqIDs())}, optFns...)
	return NewResult(g, cfg, optFns...)
}

func groupImages(r *Result) [][]model.ImageID {
	groups := r.Groups()
	out := make([][]model.ImageID, len(groups))
	for i, g := range groups {
		out[i] = g.Images
	}
	return out
}

func TestThreeConnectedOneApart(t *testing.T) {
	cfg := model.DefaultConfig()
	r := newResult(t, imageIDs("a", "b", "c", "d"), []graph.Edge{
		{A: 0, B: 1, Score: 0.80},
		{A: 0, B: 2, Score: 0.75},
		{A: 1, B: 2, Score: 0.72},
	}, cfg)

	groups := r.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, imageIDs("a", "b", "c"), groups[0].Images)
	assert.Equal(t, model.ImageID("a"), groups[0].Primary)
	assert.False(t, groups[0].ManualOverride)
	assert.InDelta(t, (0.80+0.75+0.72)/3, groups[0].Confidence, 1e-9)

	assert.Equal(t, imageIDs("d"), r.Ungrouped())
}

func TestOversizeSplitting(t *testing.T) {
	// 8 mutually similar images with MaxGroupSize 6: two tight four-image
	// clusters joined by weaker cross edges. The greedy cut removes the
	// cross edges first.
	names := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	var edges []graph.Edge
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			score := 0.95
			if (i < 4) != (j < 4) {
				score = 0.80
			}
			edges = append(edges, graph.Edge{A: model.LocalID(i), B: model.LocalID(j), Score: score})
		}
	}

	cfg := model.DefaultConfig()
	cfg.MaxGroupSize = 6
	r := newResult(t, imageIDs(names...), edges, cfg)

	groups := r.Groups()
	require.GreaterOrEqual(t, len(groups), 2)

	seen := map[model.ImageID]int{}
	for _, g := range groups {
		assert.LessOrEqual(t, g.Size(), 6)
		assert.GreaterOrEqual(t, g.Size(), cfg.MinGroupSize)
		for _, id := range g.Images {
			seen[id]++
		}
	}
	assert.Empty(t, r.Ungrouped())
	require.Len(t, seen, 8, "every image appears")
	for id, count := range seen {
		assert.Equal(t, 1, count, "image %s appears exactly once", id)
	}
}

func TestSplittingRemovesWeakestEdgeFirst(t *testing.T) {
	// Chain a-b-c-d with the weakest link in the middle; MaxGroupSize 2
	// forces one cut, which must land on the 0.71 edge.
	cfg := model.DefaultConfig()
	cfg.MaxGroupSize = 2
	r := newResult(t, imageIDs("a", "b", "c", "d"), []graph.Edge{
		{A: 0, B: 1, Score: 0.90},
		{A: 1, B: 2, Score: 0.71},
		{A: 2, B: 3, Score: 0.90},
	}, cfg)

	assert.Equal(t, [][]model.ImageID{
		imageIDs("a", "b"),
		imageIDs("c", "d"),
	}, groupImages(r))
	assert.Empty(t, r.Ungrouped())
}

func TestSplittingTieBreaksOnLexicographicPair(t *testing.T) {
	// Equal-score chain: the tie resolves to the lexicographically smaller
	// pair, so (a,b) is removed before (b,c) and before (c,d).
	cfg := model.DefaultConfig()
	cfg.MinGroupSize = 1
	cfg.MaxGroupSize = 3
	r := newResult(t, imageIDs("a", "b", "c", "d"), []graph.Edge{
		{A: 0, B: 1, Score: 0.8},
		{A: 1, B: 2, Score: 0.8},
		{A: 2, B: 3, Score: 0.8},
	}, cfg)

	assert.Equal(t, [][]model.ImageID{
		imageIDs("a"),
		imageIDs("b", "c", "d"),
	}, groupImages(r))
}

func TestSubMinimumComponentsDissolve(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.MinGroupSize = 3
	r := newResult(t, imageIDs("a", "b", "c"), []graph.Edge{
		{A: 0, B: 1, Score: 0.9},
	}, cfg)

	assert.Empty(t, r.Groups())
	assert.Equal(t, imageIDs("a", "b", "c"), r.Ungrouped())
}

func TestDisabledConfigLeavesAllUngrouped(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Enabled = false
	r := newResult(t, imageIDs("a", "b"), []graph.Edge{
		{A: 0, B: 1, Score: 0.95},
	}, cfg)

	assert.Empty(t, r.Groups())
	assert.Equal(t, imageIDs("a", "b"), r.Ungrouped())
}

func TestDeterministicAcrossRuns(t *testing.T) {
	names := imageIDs("a", "b", "c", "d", "e", "f", "g", "h")
	var edges []graph.Edge
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			edges = append(edges, graph.Edge{A: model.LocalID(i), B: model.LocalID(j), Score: 0.9})
		}
	}
	cfg := model.DefaultConfig()
	cfg.MaxGroupSize = 5

	r1 := newResult(t, names, edges, cfg)
	r2 := newResult(t, names, edges, cfg)
	assert.Equal(t, groupImages(r1), groupImages(r2))
	assert.Equal(t, r1.Ungrouped(), r2.Ungrouped())
}

func TestResultMetadata(t *testing.T) {
	cfg := model.DefaultConfig()
	failures := []ImageFailure{{ID: "broken", Err: assert.AnError}}
	stats := CacheStats{Hits: 3, Misses: 1}

	r := newResult(t, imageIDs("a", "b"), []graph.Edge{
		{A: 0, B: 1, Score: 0.9},
	}, cfg,
		WithFailures(failures),
		WithDegraded(true),
		WithCacheStats(stats),
		WithElapsed(2*time.Second),
	)

	assert.True(t, r.Degraded())
	assert.Equal(t, failures, r.Failures())
	assert.Equal(t, stats, r.CacheStats())
	assert.Equal(t, 2*time.Second, r.Elapsed())
	assert.Equal(t, cfg, r.Config())
	assert.InDelta(t, 0.75, stats.HitRate(), 1e-9)
	assert.Zero(t, CacheStats{}.HitRate())
}

func TestGroupLookup(t *testing.T) {
	cfg := model.DefaultConfig()
	r := newResult(t, imageIDs("a", "b"), []graph.Edge{
		{A: 0, B: 1, Score: 0.9},
	}, cfg)

	groups := r.Groups()
	require.Len(t, groups, 1)

	got, err := r.Group(groups[0].ID)
	require.NoError(t, err)
	assert.Equal(t, groups[0], got)

	_, err = r.Group("pg_missing")
	var nf *ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "group", nf.Kind)
}
