package geomexport

import (
	"testing"

	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/rgraph"
)

func TestWalkOrientsAndDedups(t *testing.T) {
	v := &rgraph.Views{
		NodeLat: []float64{0, 1, 2},
		NodeLon: []float64{0, 1, 2},
	}
	// Stored polyline runs node-1-direction-first (near v=1, far from u=0).
	geomAB := &rgraph.Polyline{Lats: []float64{1, 0.5, 0}, Lons: []float64{1, 0.5, 0}}
	geomBC := &rgraph.Polyline{Lats: []float64{1, 1.5, 2}, Lons: []float64{1, 1.5, 2}}

	E := euler.New(false, 3)
	id0 := E.AddEdge(0, 1, 1, geomAB, euler.KindRequired)
	id1 := E.AddEdge(1, 2, 1, geomBC, euler.KindRequired)

	points := Walk(v, E, []int64{id0, id1}, []int32{0, 1, 2})

	want := []Point{{0, 0}, {0.5, 0.5}, {1, 1}, {1.5, 1.5}, {2, 2}}
	if len(points) != len(want) {
		t.Fatalf("len(points) = %d, want %d: %v", len(points), len(want), points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("points[%d] = %v, want %v", i, points[i], want[i])
		}
	}
}

func TestWalkFallsBackToNodeCoords(t *testing.T) {
	v := &rgraph.Views{
		NodeLat: []float64{10, 20},
		NodeLon: []float64{30, 40},
	}
	E := euler.New(false, 2)
	id0 := E.AddEdge(0, 1, 1, nil, euler.KindRequired)

	points := Walk(v, E, []int64{id0}, []int32{0, 1})
	want := []Point{{10, 30}, {20, 40}}
	if len(points) != 2 || points[0] != want[0] || points[1] != want[1] {
		t.Errorf("points = %v, want %v", points, want)
	}
}
