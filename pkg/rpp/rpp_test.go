package rpp

import (
	"testing"

	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/rgraph"
	"gonum.org/v1/gonum/graph/simple"
)

// pathGraph builds the three-node A-B-C bidirectional path, both
// directions drivable, weight 1.
func pathGraph() *rgraph.Views {
	v := &rgraph.Views{
		D:         simple.NewWeightedDirectedGraph(0, 0),
		U:         simple.NewWeightedUndirectedGraph(0, 0),
		S:         rgraph.NewServiceIndex(),
		NodeOSMID: []int64{100, 200, 300},
	}
	for i := range v.NodeOSMID {
		v.D.AddNode(simple.Node(i))
		v.U.AddNode(simple.Node(i))
	}
	add := func(a, b int32) {
		v.D.SetWeightedEdge(v.D.NewWeightedEdge(simple.Node(a), simple.Node(b), 1))
		v.D.SetWeightedEdge(v.D.NewWeightedEdge(simple.Node(b), simple.Node(a), 1))
		v.U.SetWeightedEdge(v.U.NewWeightedEdge(simple.Node(a), simple.Node(b), 1))
		v.S.Add(a, b, 1, nil)
		v.S.Add(b, a, 1, nil)
	}
	add(0, 1)
	add(1, 2)
	return v
}

func TestSolveClosedCircuitS2(t *testing.T) {
	v := pathGraph()
	required := []rgraph.RequiredEdge{{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 1}}

	E, err := Solve(v, required, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := E.TotalWeight(); got != 4 {
		t.Errorf("TotalWeight = %v, want 4", got)
	}
	for n := int32(0); n < 3; n++ {
		if d := E.Degree(n); d%2 != 0 {
			t.Errorf("Degree(%d) = %d, want even", n, d)
		}
	}
}

func TestSolveOpenTourS3(t *testing.T) {
	v := pathGraph()
	required := []rgraph.RequiredEdge{{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 1}}

	E, err := Solve(v, required, Options{Start: 0, End: 2, HasStart: true, HasEnd: true})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := E.TotalWeight(); got != 2 {
		t.Errorf("TotalWeight = %v, want 2", got)
	}
	if d := E.Degree(0); d%2 != 1 {
		t.Errorf("Degree(A) = %d, want odd", d)
	}
	if d := E.Degree(2); d%2 != 1 {
		t.Errorf("Degree(C) = %d, want odd", d)
	}
	if d := E.Degree(1); d%2 != 0 {
		t.Errorf("Degree(B) = %d, want even", d)
	}
}

func TestSolveEmptyRequired(t *testing.T) {
	v := pathGraph()
	E, err := Solve(v, nil, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(E.Edges) != 0 {
		t.Errorf("Edges = %v, want empty", E.Edges)
	}
	edgeIDs, nodes, err := euler.ExtractTour(E, 0, false, 0, false)
	if err != nil {
		t.Fatalf("ExtractTour: %v", err)
	}
	if len(edgeIDs) != 0 || len(nodes) != 0 {
		t.Errorf("ExtractTour = %v, %v, want empty tour", edgeIDs, nodes)
	}
}
