package shortest

import (
	"testing"

	"gonum.org/v1/gonum/graph/simple"
)

func lineGraph() *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for i := int64(0); i < 3; i++ {
		g.AddNode(simple.Node(i))
	}
	g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(0), simple.Node(1), 1))
	g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(1), simple.Node(2), 1))
	return g
}

func TestFromPathTo(t *testing.T) {
	g := lineGraph()
	tree := From(g, 0)

	path, weight, ok := tree.PathTo(2)
	if !ok {
		t.Fatalf("expected path from 0 to 2")
	}
	if weight != 2 {
		t.Errorf("weight = %v, want 2", weight)
	}
	want := []int32{0, 1, 2}
	for i, n := range want {
		if path[i] != n {
			t.Errorf("path[%d] = %d, want %d", i, path[i], n)
		}
	}

	if _, _, ok := tree.PathTo(99); ok {
		t.Errorf("expected unreachable node to report ok=false")
	}
}

func TestBidirectionalPathFallsBack(t *testing.T) {
	g := lineGraph() // only forward arcs 0->1->2
	path, weight, ok := BidirectionalPath(g, 2, 0)
	if !ok {
		t.Fatalf("expected fallback path from reverse direction")
	}
	if weight != 2 {
		t.Errorf("weight = %v, want 2", weight)
	}
	want := []int32{2, 1, 0}
	for i, n := range want {
		if path[i] != n {
			t.Errorf("path[%d] = %d, want %d", i, path[i], n)
		}
	}
}

func TestBellmanFordFrom(t *testing.T) {
	g := lineGraph()
	tree, ok := BellmanFordFrom(g, 0)
	if !ok {
		t.Fatalf("expected no negative cycle")
	}
	if tree.WeightTo(2) != 2 {
		t.Errorf("WeightTo(2) = %v, want 2", tree.WeightTo(2))
	}
}
