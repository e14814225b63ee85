package graph

import (
	"context"
	"sort"
	"sync"

	"github.com/carousel-labs/productcluster/feature"
	"github.com/carousel-labs/productcluster/model"
	"github.com/carousel-labs/productcluster/signal"
)

// Build evaluates every unordered pair of FeatureSets on a worker pool and
// assembles the thresholded graph. The configuration is validated first;
// invalid weights fail before any pair is scored.
//
// Pair scores land in preassigned slots, so results are deterministic
// regardless of worker scheduling.
func Build(ctx context.Context, sets map[model.ImageID]*feature.Set, cfg model.Config, workers int) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ids := make([]model.ImageID, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	n := len(ids)
	type pair struct {
		a, b model.LocalID
	}
	pairs := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{model.LocalID(i), model.LocalID(j)})
		}
	}

	scores := make([]float64, len(pairs))
	breakdowns := make([]model.SignalBreakdown, len(pairs))

	pool := NewWorkerPool(workers)
	defer pool.Close()

	var wg sync.WaitGroup
	for k := range pairs {
		p := pairs[k]
		a, b := sets[ids[p.a]], sets[ids[p.b]]
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			scores[k], breakdowns[k] = signal.Fuse(a, b, cfg.Weights)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tiers := model.DefaultThresholds()
	edges := make([]Edge, 0, len(pairs)/4)
	for k, p := range pairs {
		if scores[k] < cfg.Threshold {
			continue
		}
		edges = append(edges, Edge{
			A:         p.a,
			B:         p.b,
			Score:     scores[k],
			Breakdown: breakdowns[k],
			Match:     tiers.Classify(scores[k]),
		})
	}

	index := make(map[model.ImageID]model.LocalID, n)
	for i, id := range ids {
		index[id] = model.LocalID(i)
	}
	g := &Graph{
		ids:       ids,
		index:     index,
		edges:     edges,
		threshold: cfg.Threshold,
	}
	g.buildAdjacency()
	return g, nil
}
