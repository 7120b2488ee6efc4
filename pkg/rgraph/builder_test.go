package rgraph

import (
	"testing"

	"github.com/azybler/rpprouter/pkg/rpperr"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

func nodeOf(id int32) graph.Node {
	return simple.Node(id)
}

func straightGraph() *RawGraph {
	// A -1-> B -1-> C, all oneway forward, residential class.
	return &RawGraph{
		Nodes: []RawNode{
			{OSMID: 1, Lat: 0.0, Lon: 0.0},
			{OSMID: 2, Lat: 0.0, Lon: 1.0},
			{OSMID: 3, Lat: 0.0, Lon: 2.0},
		},
		Edges: []RawEdge{
			{ID: 1, FromOSM: 1, ToOSM: 2, Length: 100, HighwayTokens: []string{"residential"}, Oneway: OnewayForward},
			{ID: 2, FromOSM: 2, ToOSM: 3, Length: 100, HighwayTokens: []string{"residential"}, Oneway: OnewayForward},
		},
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	raw := &RawGraph{
		Edges: []RawEdge{
			{FromOSM: 1, ToOSM: 2, HighwayTokens: []string{"footway"}},
		},
	}
	_, err := Build(raw, BuildOptions{})
	var empty *rpperr.EmptyGraph
	if err == nil {
		t.Fatalf("expected EmptyGraph error")
	}
	if ok := asEmptyGraph(err, &empty); !ok {
		t.Fatalf("expected *rpperr.EmptyGraph, got %v", err)
	}
}

func asEmptyGraph(err error, target **rpperr.EmptyGraph) bool {
	e, ok := err.(*rpperr.EmptyGraph)
	if ok {
		*target = e
	}
	return ok
}

func TestBuildOneway(t *testing.T) {
	v, err := Build(straightGraph(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if v.NumNodes() != 3 {
		t.Fatalf("NumNodes = %d, want 3", v.NumNodes())
	}

	a, _ := v.DenseID(1)
	b, _ := v.DenseID(2)

	if !v.D.HasEdgeFromTo(nodeOf(a), nodeOf(b)) {
		t.Errorf("expected forward arc A->B")
	}
	if v.D.HasEdgeFromTo(nodeOf(b), nodeOf(a)) {
		t.Errorf("did not expect backward arc B->A for a oneway-forward edge")
	}
	if !v.U.HasEdgeBetween(nodeOf(a), nodeOf(b)) {
		t.Errorf("expected undirected projection to still have an edge")
	}
}

func TestBuildIgnoreOneway(t *testing.T) {
	v, err := Build(straightGraph(), BuildOptions{IgnoreOneway: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, _ := v.DenseID(1)
	b, _ := v.DenseID(2)
	if !v.D.HasEdgeFromTo(nodeOf(b), nodeOf(a)) {
		t.Errorf("expected backward arc B->A when ignore_oneway is set")
	}
}

func TestRequiredUndirected(t *testing.T) {
	raw := straightGraph()
	v, err := Build(raw, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	req := RequiredUndirected(v, raw, DefaultRequiredPreset())
	if len(req) != 2 {
		t.Fatalf("len(req) = %d, want 2", len(req))
	}
}
