// Package shortest wraps gonum's single-source shortest-path algorithms
// with the node-id bookkeeping the solver packages need: materializing a
// path as a slice of dense node ids, and falling back from u->v to v->u
// (reversed) when only one direction is reachable, per §4.D/§4.E's stated
// two-direction fallback rule.
package shortest

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Tree is a single-source shortest-path tree, wrapping gonum's path.Shortest
// with int32-dense-id convenience accessors.
type Tree struct {
	inner path.Shortest
}

// Weighted is satisfied by *simple.WeightedDirectedGraph and
// *simple.WeightedUndirectedGraph alike (graph.Graph + Weight lookup),
// which is exactly what gonum's traverse.Graph / DijkstraFrom require.
type Weighted interface {
	graph.Graph
	Weight(x, y graph.Node) (w float64, ok bool)
}

// From computes a single-source shortest-path tree from source over g using
// Dijkstra; one tree answers path queries to every target. The solvers do
// not reuse trees across targets: they query one node pair at a time
// (through BidirectionalPath, or From directly for DRPP degree balancing)
// and cache results per ordered pair, so they run one Dijkstra per pair.
func From(g Weighted, source int32) Tree {
	return Tree{inner: path.DijkstraFrom(simple.Node(source), g)}
}

// PathTo returns the dense node id sequence and total weight from the tree's
// source to target, or ok=false if target is unreachable.
func (t Tree) PathTo(target int32) (nodes []int32, weight float64, ok bool) {
	gp, w := t.inner.To(simple.Node(target))
	if len(gp) == 0 {
		return nil, 0, false
	}
	out := make([]int32, len(gp))
	for i, n := range gp {
		out[i] = int32(n.ID())
	}
	return out, w, true
}

// WeightTo returns just the distance to target, +Inf if unreachable.
func (t Tree) WeightTo(target int32) float64 {
	return t.inner.WeightTo(simple.Node(target))
}

// BidirectionalPath finds a shortest path between a and b in g, trying
// a->b first and falling back to the reverse of b->a if a->b is
// unreachable. Returns ok=false if neither direction has a path.
func BidirectionalPath(g Weighted, a, b int32) (nodes []int32, weight float64, ok bool) {
	treeA := From(g, a)
	if p, w, found := treeA.PathTo(b); found {
		return p, w, true
	}
	treeB := From(g, b)
	if p, w, found := treeB.PathTo(a); found {
		return reversed(p), w, true
	}
	return nil, 0, false
}

func reversed(s []int32) []int32 {
	out := make([]int32, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// BellmanFordFrom computes a single-source shortest-path tree from source
// over g using Bellman-Ford, which min-cost-flow's residual graphs need
// because augmenting a flow can introduce negative-cost residual arcs that
// would break Dijkstra's non-negative-weight assumption. ok is false if g
// has a source-reachable negative cycle.
func BellmanFordFrom(g graph.Graph, source int32) (Tree, bool) {
	inner, ok := path.BellmanFordFrom(simple.Node(source), g)
	return Tree{inner: inner}, ok
}
