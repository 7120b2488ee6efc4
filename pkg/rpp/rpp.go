// Package rpp implements the undirected Rural Postman Problem solver
// (§4.D): the canonical component-connection / odd-degree-T-join
// construction that augments a required edge set into an Eulerian
// multigraph, grounded on original_source/rpp/rpp_solver.py's solve_rpp.
package rpp

import (
	"errors"
	"sort"

	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/match"
	"github.com/azybler/rpprouter/pkg/rgraph"
	"github.com/azybler/rpprouter/pkg/rpperr"
	"github.com/azybler/rpprouter/pkg/shortest"
)

// Options configures an open-tour request. HasStart/HasEnd both false
// requests a closed circuit.
type Options struct {
	Start, End       int32
	HasStart, HasEnd bool
}

type pathResult struct {
	nodes  []int32
	weight float64
}

// Solve runs the full RPP construction against the required edge set and
// returns the solved Eulerian multigraph E, ready for tour extraction.
func Solve(v *rgraph.Views, required []rgraph.RequiredEdge, opts Options) (*euler.Multigraph, error) {
	if len(required) == 0 {
		return euler.New(false, int32(v.NumNodes())), nil
	}

	cache := make(map[[2]int32]pathResult)
	lookupPath := func(a, b int32) ([]int32, float64, bool) {
		if p, ok := cache[[2]int32{a, b}]; ok {
			return p.nodes, p.weight, true
		}
		nodes, weight, ok := shortest.BidirectionalPath(v.D, a, b)
		if !ok {
			return nil, 0, false
		}
		cache[[2]int32{a, b}] = pathResult{nodes: nodes, weight: weight}
		return nodes, weight, true
	}

	E := euler.New(false, int32(v.NumNodes()))

	materializePath := func(nodes []int32, kind euler.Kind) {
		for i := 0; i+1 < len(nodes); i++ {
			x, y := nodes[i], nodes[i+1]
			w, geom := bestGeom(v, x, y)
			E.AddEdge(x, y, w, geom, kind)
		}
	}

	// Step 1 — component connection.
	reps := representativeNodes(required, int32(v.NumNodes()))
	for i := 0; i+1 < len(reps); i++ {
		a, b := reps[i], reps[i+1]
		nodes, _, ok := lookupPath(a, b)
		if !ok {
			return nil, &rpperr.DisconnectedRequiredComponents{RepA: int64(a), RepB: int64(b)}
		}
		materializePath(nodes, euler.KindConnector)
	}

	// Step 2 — required edges.
	for _, e := range required {
		_, geom := bestGeom(v, e.U, e.V)
		E.AddEdge(e.U, e.V, e.Weight, geom, euler.KindRequired)
	}

	// Step 3 — odd-degree T-join.
	odd := oddDegreeNodes(E)
	if opts.HasStart && opts.HasEnd && opts.Start != opts.End {
		// Step 4 — open-tour adjustment: match on O △ {s, t}.
		odd = symmetricDifference(odd, []int32{opts.Start, opts.End})
	}
	if len(odd) > 0 {
		pairs, err := matchOdd(odd, lookupPath)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			nodes, _, ok := lookupPath(p.U, p.V)
			if !ok {
				return nil, &rpperr.MatchingInfeasible{Node: int64(p.U)}
			}
			materializePath(nodes, euler.KindDuplicate)
		}
	}

	if err := checkInvariants(E, opts); err != nil {
		return nil, err
	}

	return E, nil
}

// representativeNodes groups the nodes touched by required into connected
// components (by an undirected union over required's own endpoints only)
// and returns one representative per component — the smallest node id in
// that component — ordered ascending by representative id.
func representativeNodes(required []rgraph.RequiredEdge, numNodes int32) []int32 {
	uf := rgraph.NewUnionFind(numNodes)
	touched := make(map[int32]bool)
	for _, e := range required {
		uf.Union(e.U, e.V)
		touched[e.U] = true
		touched[e.V] = true
	}

	nodes := make([]int32, 0, len(touched))
	for n := range touched {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	seenRoot := make(map[int32]bool)
	var reps []int32
	for _, n := range nodes {
		root := uf.Find(n)
		if !seenRoot[root] {
			seenRoot[root] = true
			reps = append(reps, n)
		}
	}
	return reps
}

func oddDegreeNodes(E *euler.Multigraph) []int32 {
	counts := E.DegreeCounts()
	var odd []int32
	for n, c := range counts {
		if c%2 == 1 {
			odd = append(odd, int32(n))
		}
	}
	return odd
}

// symmetricDifference returns a △ b, sorted ascending.
func symmetricDifference(a, b []int32) []int32 {
	present := make(map[int32]bool, len(a))
	for _, x := range a {
		present[x] = true
	}
	for _, x := range b {
		present[x] = !present[x]
	}
	var out []int32
	for n, in := range present {
		if in {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func matchOdd(odd []int32, lookupPath func(a, b int32) ([]int32, float64, bool)) ([]match.Pair, error) {
	cost := func(u, v int32) (float64, bool) {
		_, w, ok := lookupPath(u, v)
		return w, ok
	}
	pairs, err := match.MinWeightPerfectMatching(odd, cost)
	if err != nil {
		var unmatchable *match.UnmatchableNode
		if errors.As(err, &unmatchable) {
			return nil, &rpperr.MatchingInfeasible{Node: int64(unmatchable.Node)}
		}
		return nil, err
	}
	return pairs, nil
}

// bestGeom looks up the representative weight and geometry for a directed
// dense pair from the service index, falling back to the reverse direction
// (with geometry reversed to match) when the forward direction was never
// populated — e.g. a required edge whose only drivable direction is the
// opposite of how R happened to order its endpoints.
func bestGeom(v *rgraph.Views, a, b int32) (float64, *rgraph.Polyline) {
	if c, ok := v.S.Best(a, b); ok {
		return c.Weight, c.Geometry
	}
	if c, ok := v.S.Best(b, a); ok {
		return c.Weight, reverseGeometry(c.Geometry)
	}
	return 0, nil
}

func reverseGeometry(p *rgraph.Polyline) *rgraph.Polyline {
	if p.Len() == 0 {
		return nil
	}
	n := len(p.Lats)
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i := range p.Lats {
		lats[n-1-i] = p.Lats[i]
		lons[n-1-i] = p.Lons[i]
	}
	return &rgraph.Polyline{Lats: lats, Lons: lons}
}

func checkInvariants(E *euler.Multigraph, opts Options) error {
	nodes := E.NonIsolatedNodes()
	if len(nodes) == 0 {
		return &rpperr.InvariantFailure{Reason: "resulting multigraph has no edges"}
	}

	uf := rgraph.NewUnionFind(E.NumNodes())
	for _, e := range E.Edges {
		uf.Union(e.U, e.V)
	}
	root := uf.Find(nodes[0])
	for _, n := range nodes[1:] {
		if uf.Find(n) != root {
			return &rpperr.InvariantFailure{Reason: "Eulerian multigraph is not connected"}
		}
	}

	openTour := opts.HasStart && opts.HasEnd && opts.Start != opts.End
	counts := E.DegreeCounts()
	for _, n := range nodes {
		odd := counts[n]%2 == 1
		isEndpoint := openTour && (n == opts.Start || n == opts.End)
		if isEndpoint && !odd {
			return &rpperr.InvariantFailure{Reason: "expected odd degree at open-tour endpoint"}
		}
		if !isEndpoint && odd {
			return &rpperr.InvariantFailure{Reason: "expected even degree at non-endpoint node"}
		}
	}
	return nil
}
