// Package snap implements the Endpoint Snapper (§4.G): given a solved
// Eulerian multigraph, find the node in its largest connected component
// nearest a target (lat, lon). Indexes candidate nodes with
// github.com/tidwall/rtree and grows the search box until the closest
// indexed candidate is no farther than anything still outside the box —
// the same "search outward from the query point until a result is
// good enough" idiom as a fixed 3x3 grid search, generalized to a
// geometrically expanding R-tree box query.
package snap

import (
	"math"

	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/geo"
	"github.com/azybler/rpprouter/pkg/rgraph"
	"github.com/azybler/rpprouter/pkg/rpperr"
	"github.com/tidwall/rtree"
)

// Result is the outcome of a successful snap (§4.G step 3).
type Result struct {
	NodeID      int32
	Lat, Lon    float64
	DistanceM   float64
	StrategyTag string
}

const strategyTag = "largest_component"

const (
	initialDeltaDeg = 0.002 // ~220m at the equator
	maxExpansions   = 12
	metersPerDegree = 111_320.0
)

// Snap selects the largest connected component of E (weakly connected if
// directed) and returns the node in it nearest (targetLat, targetLon).
func Snap(v *rgraph.Views, E *euler.Multigraph, targetLat, targetLon float64) (Result, error) {
	component := largestComponent(E)
	if len(component) == 0 {
		return Result{}, &rpperr.InputError{Reason: "cannot snap: multigraph has no edges"}
	}

	tr := &rtree.RTreeG[int32]{}
	for _, n := range component {
		lat, lon := v.NodeLat[n], v.NodeLon[n]
		tr.Insert([2]float64{lon, lat}, [2]float64{lon, lat}, n)
	}

	best, dist, ok := nearest(tr, v, targetLat, targetLon)
	if !ok {
		return Result{}, &rpperr.InputError{Reason: "snap search exhausted without finding a candidate"}
	}

	return Result{
		NodeID:      best,
		Lat:         v.NodeLat[best],
		Lon:         v.NodeLon[best],
		DistanceM:   dist,
		StrategyTag: strategyTag,
	}, nil
}

// nearest grows a search box around the target until the best candidate
// found is within a radius the box has fully covered, guaranteeing no
// closer point was skipped outside it. The covered radius is the box's
// east-west half-width, since a degree of longitude shrinks by cos(lat).
// The last expansion returns the best candidate found without that check;
// if even the final box holds no candidate, ok is false.
func nearest(tr *rtree.RTreeG[int32], v *rgraph.Views, lat, lon float64) (int32, float64, bool) {
	delta := initialDeltaDeg
	for i := 0; i < maxExpansions; i++ {
		minb := [2]float64{lon - delta, lat - delta}
		maxb := [2]float64{lon + delta, lat + delta}

		bestID := int32(-1)
		bestDist := math.Inf(1)
		tr.Search(minb, maxb, func(_, _ [2]float64, data int32) bool {
			d := geo.Haversine(lat, lon, v.NodeLat[data], v.NodeLon[data])
			if d < bestDist {
				bestDist = d
				bestID = data
			}
			return true
		})

		coveredRadiusM := delta * metersPerDegree * math.Cos(lat*math.Pi/180)
		if bestID != -1 && (bestDist <= coveredRadiusM || i == maxExpansions-1) {
			return bestID, bestDist, true
		}
		delta *= 2
	}
	return -1, 0, false
}

// largestComponent returns the non-isolated nodes belonging to E's largest
// connected component, treating E as undirected regardless of
// E.Directed (weak connectivity, per §4.G).
func largestComponent(E *euler.Multigraph) []int32 {
	uf := rgraph.NewUnionFind(E.NumNodes())
	for _, e := range E.Edges {
		uf.Union(e.U, e.V)
	}

	nodes := E.NonIsolatedNodes()
	sizes := make(map[int32]int)
	for _, n := range nodes {
		sizes[uf.Find(n)]++
	}

	bestRoot := int32(-1)
	bestSize := 0
	for root, sz := range sizes {
		if sz > bestSize {
			bestSize = sz
			bestRoot = root
		}
	}

	var out []int32
	for _, n := range nodes {
		if uf.Find(n) == bestRoot {
			out = append(out, n)
		}
	}
	return out
}
