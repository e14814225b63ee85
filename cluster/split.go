package cluster

import (
	"sort"

	"github.com/carousel-labs/productcluster/graph"
	"github.com/carousel-labs/productcluster/model"
)

// splitOversize cuts a component down to MaxGroupSize-or-smaller parts by
// repeatedly removing the lowest-weight remaining edge and recomputing
// components, ties broken by the lexicographically smaller image id pair.
// Removed edges stay removed for the rest of the cut, so a cycle edge whose
// removal does not disconnect the set is not resurrected on the next round.
func (r *Result) splitOversize(members []model.LocalID, edges []graph.Edge) [][]model.LocalID {
	type work struct {
		members []model.LocalID
		edges   []graph.Edge
	}

	var final [][]model.LocalID
	queue := []work{{members: members, edges: edgesWithin(members, edges)}}

	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]

		if len(w.members) <= r.cfg.MaxGroupSize {
			final = append(final, w.members)
			continue
		}
		if len(w.edges) == 0 {
			for _, n := range w.members {
				final = append(final, []model.LocalID{n})
			}
			continue
		}

		w.edges = append(w.edges[:0:0], w.edges...)
		for {
			weakest := r.weakestEdge(w.edges)
			w.edges = append(w.edges[:weakest], w.edges[weakest+1:]...)

			comps := componentsUnder(w.members, w.edges)
			if len(comps) > 1 {
				for _, comp := range comps {
					queue = append(queue, work{members: comp, edges: edgesWithin(comp, w.edges)})
				}
				break
			}
			if len(w.edges) == 0 {
				for _, n := range w.members {
					final = append(final, []model.LocalID{n})
				}
				break
			}
		}
	}
	return final
}

// weakestEdge returns the index of the lowest-score edge; ties resolve to
// the lexicographically smaller (imageA, imageB) pair.
func (r *Result) weakestEdge(edges []graph.Edge) int {
	weakest := 0
	for i := 1; i < len(edges); i++ {
		if edgeLess(r.graph, edges[i], edges[weakest]) {
			weakest = i
		}
	}
	return weakest
}

func edgeLess(g *graph.Graph, a, b graph.Edge) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	aA, aB := g.IDOf(a.A), g.IDOf(a.B)
	bA, bB := g.IDOf(b.A), g.IDOf(b.B)
	if aA != bA {
		return aA < bA
	}
	return aB < bB
}

// edgesWithin filters edges to those with both endpoints in members.
func edgesWithin(members []model.LocalID, edges []graph.Edge) []graph.Edge {
	in := make(map[model.LocalID]bool, len(members))
	for _, n := range members {
		in[n] = true
	}
	var out []graph.Edge
	for _, e := range edges {
		if in[e.A] && in[e.B] {
			out = append(out, e)
		}
	}
	return out
}

// componentsUnder returns the connected components of members under the
// given edge list, each sorted, ordered by smallest member. Iterative
// traversal; depth never depends on component size.
func componentsUnder(members []model.LocalID, edges []graph.Edge) [][]model.LocalID {
	adj := make(map[model.LocalID][]model.LocalID, len(members))
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}

	ordered := append([]model.LocalID(nil), members...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	visited := make(map[model.LocalID]bool, len(ordered))
	var comps [][]model.LocalID
	for _, start := range ordered {
		if visited[start] {
			continue
		}
		var comp []model.LocalID
		stack := []model.LocalID{start}
		visited[start] = true
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, node)
			for _, next := range adj[node] {
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
