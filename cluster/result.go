package cluster

import (
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"

	"github.com/carousel-labs/productcluster/graph"
	"github.com/carousel-labs/productcluster/model"
)

// Observer is notified after each mutation. Used by the owning Clusterer to
// feed its metrics collector without this package depending on it.
type Observer func(op string, err error)

// Result is the clustering outcome for one batch: product groups, the
// ungrouped pool, extraction failures, and the configuration that produced
// them. One writer at a time; any number of concurrent readers.
type Result struct {
	mu sync.RWMutex

	graph      *graph.Graph
	cfg        model.Config
	groups     map[string]*Group
	ungrouped  *roaring.Bitmap
	failures   []ImageFailure
	degraded   bool
	cacheStats CacheStats
	elapsed    time.Duration

	now      func() time.Time
	newID    func() string
	observer Observer
}

// Option configures a Result at construction.
type Option func(*Result)

// WithFailures records the images excluded during extraction.
func WithFailures(failures []ImageFailure) Option {
	return func(r *Result) { r.failures = failures }
}

// WithDegraded marks the result as produced without full semantic signals.
func WithDegraded(degraded bool) Option {
	return func(r *Result) { r.degraded = degraded }
}

// WithCacheStats attaches the cache activity of the producing run.
func WithCacheStats(stats CacheStats) Option {
	return func(r *Result) { r.cacheStats = stats }
}

// WithElapsed records the wall time of the producing run.
func WithElapsed(d time.Duration) Option {
	return func(r *Result) { r.elapsed = d }
}

// WithObserver wires a mutation observer.
func WithObserver(o Observer) Option {
	return func(r *Result) { r.observer = o }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Result) { r.now = now }
}

// WithIDGenerator overrides group id generation. Intended for tests.
func WithIDGenerator(gen func() string) Option {
	return func(r *Result) { r.newID = gen }
}

// NewResult computes the initial clustering of g under cfg: connected
// components become groups, components beyond MaxGroupSize are split
// greedily, and components below MinGroupSize dissolve into the ungrouped
// pool. A disabled configuration skips grouping entirely and leaves every
// image ungrouped.
func NewResult(g *graph.Graph, cfg model.Config, optFns ...Option) *Result {
	r := &Result{
		graph:     g,
		cfg:       cfg,
		groups:    make(map[string]*Group),
		ungrouped: roaring.New(),
		now:       time.Now,
		newID:     func() string { return "pg_" + uuid.NewString() },
	}
	for _, fn := range optFns {
		fn(r)
	}

	all := make([]model.LocalID, g.NodeCount())
	for i := range all {
		all[i] = model.LocalID(i)
	}
	if !cfg.Enabled {
		r.addUngrouped(all)
		return r
	}
	r.autoCluster(all, g.Threshold())
	return r
}

// autoCluster groups the given nodes using edges at or above threshold,
// applying the size bounds. Caller holds the write lock (or is the
// constructor).
func (r *Result) autoCluster(nodes []model.LocalID, threshold float64) {
	edges := make([]graph.Edge, 0, r.graph.EdgeCount())
	inSet := roaring.New()
	for _, n := range nodes {
		inSet.Add(uint32(n))
	}
	for _, e := range r.graph.Edges() {
		if e.Score >= threshold && inSet.Contains(uint32(e.A)) && inSet.Contains(uint32(e.B)) {
			edges = append(edges, e)
		}
	}

	for _, comp := range componentsUnder(nodes, edges) {
		if len(comp) < r.cfg.MinGroupSize {
			r.addUngrouped(comp)
			continue
		}
		for _, part := range r.splitOversize(comp, edges) {
			if len(part) < r.cfg.MinGroupSize {
				r.addUngrouped(part)
				continue
			}
			r.addGroup(part, false)
		}
	}
}

func (r *Result) addUngrouped(nodes []model.LocalID) {
	for _, n := range nodes {
		r.ungrouped.Add(uint32(n))
	}
}

// addGroup creates a group over members. Caller guarantees members is
// non-empty and disjoint from every existing group.
func (r *Result) addGroup(members []model.LocalID, manual bool) *Group {
	bm := roaring.New()
	for _, n := range members {
		bm.Add(uint32(n))
	}
	now := r.now()
	gr := &Group{
		ID:             r.newID(),
		Primary:        r.primaryOf(bm),
		Members:        bm,
		Confidence:     r.confidenceOf(bm),
		ManualOverride: manual,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if manual {
		gr.Confidence = 1.0
	}
	r.groups[gr.ID] = gr
	return gr
}

// primaryOf picks the lexicographically smallest member ImageID.
func (r *Result) primaryOf(members *roaring.Bitmap) model.ImageID {
	var primary model.ImageID
	first := true
	members.Iterate(func(n uint32) bool {
		id := r.graph.IDOf(model.LocalID(n))
		if first || id < primary {
			primary = id
			first = false
		}
		return true
	})
	return primary
}

// confidenceOf is the mean weight of the graph edges internal to members.
// A singleton is vacuously confident; a larger set with no internal edges
// has no supporting evidence.
func (r *Result) confidenceOf(members *roaring.Bitmap) float64 {
	if members.GetCardinality() <= 1 {
		return 1.0
	}
	edges := r.graph.InducedEdges(members)
	if len(edges) == 0 {
		return 0.0
	}
	var sum float64
	for _, e := range edges {
		sum += e.Score
	}
	return sum / float64(len(edges))
}

// Graph returns the underlying immutable similarity graph, including the
// per-pair signal breakdowns kept for observability.
func (r *Result) Graph() *graph.Graph { return r.graph }

// Config returns the configuration the result was produced with.
func (r *Result) Config() model.Config { return r.cfg }

// Degraded reports whether any semantic signal was substituted with a
// neutral score.
func (r *Result) Degraded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.degraded
}

// CacheStats returns the FeatureSet cache activity of the producing run.
func (r *Result) CacheStats() CacheStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cacheStats
}

// Elapsed returns the wall time of the producing run.
func (r *Result) Elapsed() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.elapsed
}

// Failures lists the images excluded during extraction, ordered by id.
func (r *Result) Failures() []ImageFailure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ImageFailure(nil), r.failures...)
}

// Ungrouped returns the ids of images in no group, sorted.
func (r *Result) Ungrouped() []model.ImageID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.ImageID, 0, r.ungrouped.GetCardinality())
	r.ungrouped.Iterate(func(n uint32) bool {
		out = append(out, r.graph.IDOf(model.LocalID(n)))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Groups returns copies of all groups, ordered by primary image id.
func (r *Result) Groups() []GroupView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]GroupView, 0, len(r.groups))
	for _, gr := range r.groups {
		out = append(out, r.viewOf(gr))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Primary != out[j].Primary {
			return out[i].Primary < out[j].Primary
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Group returns a copy of one group by id.
func (r *Result) Group(id string) (GroupView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gr, ok := r.groups[id]
	if !ok {
		return GroupView{}, &ErrNotFound{Kind: "group", ID: id}
	}
	return r.viewOf(gr), nil
}

func (r *Result) viewOf(gr *Group) GroupView {
	images := make([]model.ImageID, 0, gr.Members.GetCardinality())
	gr.Members.Iterate(func(n uint32) bool {
		images = append(images, r.graph.IDOf(model.LocalID(n)))
		return true
	})
	sort.Slice(images, func(i, j int) bool { return images[i] < images[j] })
	return GroupView{
		ID:             gr.ID,
		Primary:        gr.Primary,
		Images:         images,
		Confidence:     gr.Confidence,
		Name:           gr.Name,
		ManualOverride: gr.ManualOverride,
		CreatedAt:      gr.CreatedAt,
		UpdatedAt:      gr.UpdatedAt,
	}
}

func (r *Result) observe(op string, err error) {
	if r.observer != nil {
		r.observer(op, err)
	}
}
