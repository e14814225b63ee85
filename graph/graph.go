package graph

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/carousel-labs/productcluster/model"
)

// Edge connects two images whose fused score met the threshold.
// Endpoints are normalized so A < B.
type Edge struct {
	A, B      model.LocalID
	Score     float64
	Breakdown model.SignalBreakdown
	Match     model.MatchType
}

// Graph is the immutable similarity graph over one batch. Node ids are dense
// LocalIDs; the arena maps them back to caller ImageIDs.
type Graph struct {
	ids       []model.ImageID
	index     map[model.ImageID]model.LocalID
	edges     []Edge
	adj       [][]int // per node, indexes into edges
	threshold float64
}

// NewFromEdges assembles a graph from precomputed edges, e.g. scores kept
// from an earlier run. ids assigns LocalIDs by position and must be unique;
// edges must reference valid endpoints with scores in [0,1].
func NewFromEdges(ids []model.ImageID, edges []Edge, threshold float64) (*Graph, error) {
	index := make(map[model.ImageID]model.LocalID, len(ids))
	for i, id := range ids {
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("duplicate image id %q", id)
		}
		index[id] = model.LocalID(i)
	}

	n := model.LocalID(len(ids))
	normalized := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.A == e.B {
			return nil, fmt.Errorf("self edge on node %d", e.A)
		}
		if e.A >= n || e.B >= n {
			return nil, fmt.Errorf("edge (%d,%d) outside arena of %d nodes", e.A, e.B, n)
		}
		if e.Score < 0 || e.Score > 1 {
			return nil, fmt.Errorf("edge (%d,%d) score %g outside [0,1]", e.A, e.B, e.Score)
		}
		if e.A > e.B {
			e.A, e.B = e.B, e.A
		}
		if e.Score < threshold {
			continue
		}
		normalized = append(normalized, e)
	}
	sort.Slice(normalized, func(i, j int) bool {
		if normalized[i].A != normalized[j].A {
			return normalized[i].A < normalized[j].A
		}
		return normalized[i].B < normalized[j].B
	})

	g := &Graph{
		ids:       append([]model.ImageID(nil), ids...),
		index:     index,
		edges:     normalized,
		threshold: threshold,
	}
	g.buildAdjacency()
	return g, nil
}

func (g *Graph) buildAdjacency() {
	g.adj = make([][]int, len(g.ids))
	for i, e := range g.edges {
		g.adj[e.A] = append(g.adj[e.A], i)
		g.adj[e.B] = append(g.adj[e.B], i)
	}
}

// NodeCount returns the number of images in the arena.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of edges that met the threshold.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Threshold returns the fused-score threshold the graph was built with.
func (g *Graph) Threshold() float64 { return g.threshold }

// IDs returns a copy of the arena in LocalID order.
func (g *Graph) IDs() []model.ImageID {
	return append([]model.ImageID(nil), g.ids...)
}

// IDOf maps a LocalID back to the caller's ImageID.
func (g *Graph) IDOf(n model.LocalID) model.ImageID {
	return g.ids[n]
}

// LocalOf maps an ImageID to its LocalID. ok=false for unknown ids.
func (g *Graph) LocalOf(id model.ImageID) (model.LocalID, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Edges returns a copy of all edges, sorted by (A,B).
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// EdgeBetween returns the edge connecting a and b, if any.
func (g *Graph) EdgeBetween(a, b model.LocalID) (Edge, bool) {
	if a == b {
		return Edge{}, false
	}
	if a > b {
		a, b = b, a
	}
	for _, i := range g.adj[a] {
		if g.edges[i].A == a && g.edges[i].B == b {
			return g.edges[i], true
		}
	}
	return Edge{}, false
}

// Neighbors returns the nodes adjacent to n in ascending order.
func (g *Graph) Neighbors(n model.LocalID) []model.LocalID {
	out := make([]model.LocalID, 0, len(g.adj[n]))
	for _, i := range g.adj[n] {
		e := g.edges[i]
		if e.A == n {
			out = append(out, e.B)
		} else {
			out = append(out, e.A)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Components returns the connected components as sorted LocalID slices,
// ordered by their smallest member. Traversal is iterative; recursion depth
// never depends on batch size.
func (g *Graph) Components() [][]model.LocalID {
	n := len(g.ids)
	visited := make([]bool, n)
	var comps [][]model.LocalID

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		var comp []model.LocalID
		stack := []model.LocalID{model.LocalID(start)}
		visited[start] = true
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, node)
			for _, i := range g.adj[node] {
				e := g.edges[i]
				next := e.A
				if next == node {
					next = e.B
				}
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}
	return comps
}

// InducedEdges returns the edges whose both endpoints are in members,
// in (A,B) order.
func (g *Graph) InducedEdges(members *roaring.Bitmap) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if members.Contains(uint32(e.A)) && members.Contains(uint32(e.B)) {
			out = append(out, e)
		}
	}
	return out
}
