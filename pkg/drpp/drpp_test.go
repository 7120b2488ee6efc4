package drpp

import (
	"testing"

	"github.com/azybler/rpprouter/pkg/rgraph"
	"gonum.org/v1/gonum/graph/simple"
)

func newViews(numNodes int, arcs [][3]interface{}) *rgraph.Views {
	v := &rgraph.Views{
		D: simple.NewWeightedDirectedGraph(0, 0),
		S: rgraph.NewServiceIndex(),
	}
	v.NodeOSMID = make([]int64, numNodes)
	for i := 0; i < numNodes; i++ {
		v.D.AddNode(simple.Node(i))
		v.NodeOSMID[i] = int64(1000 + i)
	}
	for _, a := range arcs {
		u, w, weight := a[0].(int32), a[1].(int32), a[2].(float64)
		v.D.SetWeightedEdge(v.D.NewWeightedEdge(simple.Node(u), simple.Node(w), weight))
		v.S.Add(u, w, weight, nil)
	}
	return v
}

func TestSolveTriangleS1(t *testing.T) {
	// A=0, B=1, C=2; arcs A->B, B->C, C->A weight 1 each. R_d = {A->B}.
	v := newViews(3, [][3]interface{}{
		{int32(0), int32(1), 1.0},
		{int32(1), int32(2), 1.0},
		{int32(2), int32(0), 1.0},
	})
	required := []rgraph.RequiredEdge{{U: 0, V: 1, Weight: 1}}

	E, pf, err := Solve(v, required, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if pf.LargestSCCSize != 3 {
		t.Errorf("LargestSCCSize = %d, want 3", pf.LargestSCCSize)
	}
	if got := E.TotalWeight(); got != 3 {
		t.Errorf("TotalWeight = %v, want 3", got)
	}
	for n := int32(0); n < 3; n++ {
		if imb := E.Imbalance(n); imb != 0 {
			t.Errorf("Imbalance(%d) = %d, want 0", n, imb)
		}
	}
}

func TestSolveBlockerStrictFails(t *testing.T) {
	// A=0,B=1,C=2,D=3: {A,B} and {C,D} are separate SCCs joined one-way B->C.
	v := newViews(4, [][3]interface{}{
		{int32(0), int32(1), 1.0},
		{int32(1), int32(0), 1.0},
		{int32(2), int32(3), 1.0},
		{int32(3), int32(2), 1.0},
		{int32(1), int32(2), 1.0},
	})
	required := []rgraph.RequiredEdge{{U: 0, V: 1, Weight: 1}, {U: 2, V: 3, Weight: 1}}

	_, pf, err := Solve(v, required, Options{})
	if err == nil {
		t.Fatalf("expected MultiSCCRequired in strict mode")
	}
	if pf == nil {
		t.Fatalf("expected a non-nil Preflight even on MultiSCCRequired, for --drpp-diagnostics")
	}
	if pf.SCCCount != 2 {
		t.Errorf("SCCCount = %d, want 2", pf.SCCCount)
	}
	if len(pf.RequiredEdgesCrossingSCCs) != 0 {
		t.Errorf("RequiredEdgesCrossingSCCs = %+v, want none (both required arcs sit inside one SCC each)", pf.RequiredEdgesCrossingSCCs)
	}
	if len(pf.RequiredEdgesOutsideLargestSCC) != 1 {
		t.Errorf("RequiredEdgesOutsideLargestSCC = %+v, want exactly the {C,D} arc", pf.RequiredEdgesOutsideLargestSCC)
	}
}

func TestSolveBlockerDropMode(t *testing.T) {
	v := newViews(4, [][3]interface{}{
		{int32(0), int32(1), 1.0},
		{int32(1), int32(0), 1.0},
		{int32(2), int32(3), 1.0},
		{int32(3), int32(2), 1.0},
		{int32(1), int32(2), 1.0},
	})
	required := []rgraph.RequiredEdge{{U: 0, V: 1, Weight: 1}, {U: 2, V: 3, Weight: 1}}

	E, pf, err := Solve(v, required, Options{DropBlockers: true})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(pf.Dropped) != 1 || pf.Dropped[0].U != 2 || pf.Dropped[0].V != 3 {
		t.Errorf("Dropped = %+v, want [{2 3 ...}]", pf.Dropped)
	}
	if got := E.TotalWeight(); got != 2 {
		t.Errorf("TotalWeight = %v, want 2", got)
	}
}

func TestSolveEmptyRequired(t *testing.T) {
	v := newViews(3, [][3]interface{}{
		{int32(0), int32(1), 1.0},
		{int32(1), int32(2), 1.0},
		{int32(2), int32(0), 1.0},
	})

	E, pf, err := Solve(v, nil, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if pf != nil {
		t.Errorf("Preflight = %+v, want nil for an empty required set", pf)
	}
	if len(E.Edges) != 0 {
		t.Errorf("Edges = %v, want empty", E.Edges)
	}
}
