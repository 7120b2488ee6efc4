package snap

import (
	"testing"

	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/rgraph"
)

func TestSnapPicksLargestComponent(t *testing.T) {
	v := &rgraph.Views{
		NodeLat: []float64{0, 0, 0.01, 0.01, 0.01},
		NodeLon: []float64{0, 0.001, 0.01, 0.011, 0.012},
	}

	// Two disjoint components: {0,1} right at the origin, and {2,3,4}
	// about 1.5 km away. The snapper selects by node count, so {2,3,4}
	// wins even though node 0 sits exactly on the query point.
	E := euler.New(false, 5)
	E.AddEdge(0, 1, 1, nil, euler.KindRequired)
	E.AddEdge(2, 3, 1, nil, euler.KindRequired)
	E.AddEdge(3, 4, 1, nil, euler.KindRequired)
	E.AddEdge(4, 2, 1, nil, euler.KindDuplicate)

	res, err := Snap(v, E, 0, 0)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if res.NodeID != 2 {
		t.Errorf("NodeID = %d, want 2 (nearest node of the larger component)", res.NodeID)
	}
	if res.StrategyTag != "largest_component" {
		t.Errorf("StrategyTag = %q, want largest_component", res.StrategyTag)
	}
}

func TestSnapEmptyGraph(t *testing.T) {
	v := &rgraph.Views{}
	E := euler.New(false, 0)
	if _, err := Snap(v, E, 0, 0); err == nil {
		t.Fatalf("expected error snapping against an empty multigraph")
	}
}
