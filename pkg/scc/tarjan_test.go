package scc

import (
	"sort"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
)

func normalize(sccs [][]int32) [][]int32 {
	for _, c := range sccs {
		sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	}
	sort.Slice(sccs, func(i, j int) bool { return sccs[i][0] < sccs[j][0] })
	return sccs
}

func TestTarjanTwoCycles(t *testing.T) {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for i := int64(0); i < 4; i++ {
		g.AddNode(simple.Node(i))
	}
	add := func(u, v int64) { g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(u), simple.Node(v), 1)) }
	// {0,1} is a 2-cycle; {2,3} is a 2-cycle; one-way bridge 1->2.
	add(0, 1)
	add(1, 0)
	add(2, 3)
	add(3, 2)
	add(1, 2)

	got := normalize(Tarjan(g))
	want := [][]int32{{0, 1}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("sccs = %v, want %v", got, want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) || got[i][0] != want[i][0] || got[i][1] != want[i][1] {
			t.Errorf("sccs[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTarjanSingletonComponents(t *testing.T) {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for i := int64(0); i < 3; i++ {
		g.AddNode(simple.Node(i))
	}
	g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(0), simple.Node(1), 1))
	g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(1), simple.Node(2), 1))

	sccs := Tarjan(g)
	if len(sccs) != 3 {
		t.Fatalf("len(sccs) = %d, want 3 (acyclic chain)", len(sccs))
	}
}
