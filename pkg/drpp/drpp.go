// Package drpp implements the directed Rural Postman Problem solver
// (§4.E): pre-flight SCC blocker analysis, component connection over the
// required arc set, required-arc insertion, degree balancing via min-cost
// flow, and the open-tour adjustment, producing a solved Eulerian
// multigraph ready for Hierholzer extraction.
package drpp

import (
	"sort"

	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/mincostflow"
	"github.com/azybler/rpprouter/pkg/rgraph"
	"github.com/azybler/rpprouter/pkg/rpperr"
	"github.com/azybler/rpprouter/pkg/scc"
	"github.com/azybler/rpprouter/pkg/shortest"
	"gonum.org/v1/gonum/graph/simple"
)

// Options configures an open-tour request and the blocker-handling mode.
type Options struct {
	Start, End       int32
	HasStart, HasEnd bool

	// DropBlockers selects drop-blockers mode; false is strict mode.
	DropBlockers bool
}

// Preflight is the outcome of the SCC blocker analysis (§4.E "Pre-flight
// SCC analysis"), returned alongside Solve (on success or on
// MultiSCCRequired failure) so callers (the CLI diagnostics report, §6)
// can describe what happened even when the solve itself was refused.
type Preflight struct {
	SCCCount       int
	LargestSCCID   int
	LargestSCCSize int

	RequiredNodesOutsideLargestSCC []SCCNodeSample
	RequiredEdgesOutsideLargestSCC []SCCEdgeSample
	RequiredEdgesCrossingSCCs      []SCCEdgeSample

	Dropped []rgraph.RequiredEdge // only populated in drop-blockers mode
}

// SCCNodeSample names one required-graph node (by OSM id) and the SCC it
// falls in, for the diagnostics report's node listing.
type SCCNodeSample struct {
	OSMID int64
	SCC   int
}

// SCCEdgeSample names one required arc (by OSM node ids) and the SCC each
// endpoint falls in, for the diagnostics report's edge listings.
type SCCEdgeSample struct {
	FromOSM, ToOSM int64
	SCCFrom, SCCTo int
}

type pathResult struct {
	nodes  []int32
	weight float64
}

// Solve runs the full DRPP construction and returns the solved Eulerian
// multigraph plus a Preflight summary.
func Solve(v *rgraph.Views, required []rgraph.RequiredEdge, opts Options) (*euler.Multigraph, *Preflight, error) {
	if len(required) == 0 {
		return euler.New(true, int32(v.NumNodes())), nil, nil
	}

	sccOf, sccSizes, largestIdx, err := preflightSCC(v)
	if err != nil {
		return nil, nil, err
	}

	touchedSCCs := make(map[int]bool)
	for _, e := range required {
		touchedSCCs[sccOf[e.U]] = true
		touchedSCCs[sccOf[e.V]] = true
	}

	pf := &Preflight{
		SCCCount:       len(sccSizes),
		LargestSCCID:   largestIdx,
		LargestSCCSize: sccSizes[largestIdx],
	}
	fillBlockerSamples(pf, v, required, sccOf, largestIdx)

	if len(touchedSCCs) > 1 {
		if !opts.DropBlockers {
			return nil, pf, multiSCCError(v, sccOf, touchedSCCs)
		}
		kept := required[:0:0]
		for _, e := range required {
			if sccOf[e.U] != largestIdx || sccOf[e.V] != largestIdx {
				pf.Dropped = append(pf.Dropped, e)
				continue
			}
			kept = append(kept, e)
		}
		required = kept
		if len(required) == 0 {
			return nil, pf, &rpperr.InputError{Reason: "drop-blockers left no required arcs inside the largest strongly connected component"}
		}
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

	E := euler.New(true, int32(v.NumNodes()))

	materializePath := func(nodes []int32, kind euler.Kind) {
		for i := 0; i+1 < len(nodes); i++ {
			x, y := nodes[i], nodes[i+1]
			w, geom := bestGeom(v, x, y)
			E.AddEdge(x, y, w, geom, kind)
		}
	}

	// Degree balancing ships flow along directed paths only: a reversed
	// b->a path would add arcs that D does not have.
	directedCache := make(map[[2]int32]pathResult)
	lookupDirected := func(a, b int32) ([]int32, float64, bool) {
		if p, ok := directedCache[[2]int32{a, b}]; ok {
			return p.nodes, p.weight, true
		}
		nodes, weight, ok := shortest.From(v.D, a).PathTo(b)
		if !ok {
			return nil, 0, false
		}
		directedCache[[2]int32{a, b}] = pathResult{nodes: nodes, weight: weight}
		return nodes, weight, true
	}

	// Step 1 — component connection over R_d's own SCCs. A representative
	// pair already joined (ignoring direction) by required arcs or by an
	// earlier connector gets no connector of its own; degree balancing
	// supplies the return paths.
	joined := rgraph.NewUnionFind(int32(v.NumNodes()))
	for _, e := range required {
		joined.Union(e.U, e.V)
	}
	reps := requiredSCCReps(required, int32(v.NumNodes()))
	for i := 0; i+1 < len(reps); i++ {
		a, b := reps[i], reps[i+1]
		if !joined.Union(a, b) {
			continue
		}
		nodes, _, ok := lookupPath(a, b)
		if !ok {
			return nil, pf, &rpperr.DisconnectedRequiredComponents{RepA: int64(a), RepB: int64(b)}
		}
		materializePath(nodes, euler.KindConnector)
	}

	// Step 2 — required arcs.
	for _, e := range required {
		_, geom := bestGeom(v, e.U, e.V)
		E.AddEdge(e.U, e.V, e.Weight, geom, euler.KindRequired)
	}

	// Step 3 — degree balancing via min-cost flow.
	imbalance := E.ImbalanceCounts()
	if opts.HasStart && opts.HasEnd && opts.Start != opts.End {
		// Step 4 — open-tour adjustment, applied before balancing.
		imbalance[opts.Start]--
		imbalance[opts.End]++
	}

	var supply, demand []int32
	var supplyQty, demandQty []int
	for n, d := range imbalance {
		switch {
		case d < 0:
			supply = append(supply, int32(n))
			supplyQty = append(supplyQty, -d)
		case d > 0:
			demand = append(demand, int32(n))
			demandQty = append(demandQty, d)
		}
	}

	if len(supply) > 0 {
		cost := func(i, j int32) (float64, bool) {
			_, w, ok := lookupDirected(i, j)
			return w, ok
		}
		flows, err := mincostflow.Solve(supply, demand, supplyQty, demandQty, cost)
		if err != nil {
			if infeasible, ok := err.(*mincostflow.Infeasible); ok {
				return nil, pf, &rpperr.FlowInfeasible{From: int64(infeasible.From), To: int64(infeasible.To)}
			}
			return nil, pf, err
		}
		for _, f := range flows {
			nodes, _, ok := lookupDirected(f.From, f.To)
			if !ok {
				return nil, pf, &rpperr.FlowInfeasible{From: int64(f.From), To: int64(f.To)}
			}
			for k := 0; k < f.Units; k++ {
				materializePath(nodes, euler.KindDuplicate)
			}
		}
	}

	if err := checkInvariants(E, opts); err != nil {
		return nil, pf, err
	}

	return E, pf, nil
}

// preflightSCC computes the strongly connected components of D, returning
// a per-node SCC index, each component's size, and the index of the
// largest component (ties broken by smallest minimum node id).
func preflightSCC(v *rgraph.Views) (sccOf []int, sizes []int, largest int, err error) {
	components := scc.Tarjan(v.D)
	sccOf = make([]int, v.NumNodes())
	sizes = make([]int, len(components))
	minNode := make([]int32, len(components))

	for idx, comp := range components {
		sizes[idx] = len(comp)
		min := comp[0]
		for _, n := range comp {
			sccOf[n] = idx
			if n < min {
				min = n
			}
		}
		minNode[idx] = min
	}

	largest = 0
	for idx := range components {
		if sizes[idx] > sizes[largest] || (sizes[idx] == sizes[largest] && minNode[idx] < minNode[largest]) {
			largest = idx
		}
	}
	return sccOf, sizes, largest, nil
}

// fillBlockerSamples populates the diagnostics-report fields of pf: every
// required node/edge whose endpoint(s) fall outside the largest SCC, and
// every required edge whose endpoints fall in two different SCCs (a
// subset of the former — a node pair can straddle two non-largest SCCs).
func fillBlockerSamples(pf *Preflight, v *rgraph.Views, required []rgraph.RequiredEdge, sccOf []int, largestIdx int) {
	seenNode := make(map[int32]bool)
	for _, e := range required {
		for _, n := range [2]int32{e.U, e.V} {
			if sccOf[n] != largestIdx && !seenNode[n] {
				seenNode[n] = true
				pf.RequiredNodesOutsideLargestSCC = append(pf.RequiredNodesOutsideLargestSCC, SCCNodeSample{
					OSMID: v.NodeOSMID[n],
					SCC:   sccOf[n],
				})
			}
		}
		if sccOf[e.U] != largestIdx || sccOf[e.V] != largestIdx {
			pf.RequiredEdgesOutsideLargestSCC = append(pf.RequiredEdgesOutsideLargestSCC, SCCEdgeSample{
				FromOSM: v.NodeOSMID[e.U], ToOSM: v.NodeOSMID[e.V],
				SCCFrom: sccOf[e.U], SCCTo: sccOf[e.V],
			})
		}
		if sccOf[e.U] != sccOf[e.V] {
			pf.RequiredEdgesCrossingSCCs = append(pf.RequiredEdgesCrossingSCCs, SCCEdgeSample{
				FromOSM: v.NodeOSMID[e.U], ToOSM: v.NodeOSMID[e.V],
				SCCFrom: sccOf[e.U], SCCTo: sccOf[e.V],
			})
		}
	}
}

func multiSCCError(v *rgraph.Views, sccOf []int, touched map[int]bool) error {
	ids := make([]int, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	// Recompute component membership to report a sample node and size per
	// touched SCC, capped at 5 per §4.E.
	members := make(map[int][]int32)
	for n, idx := range sccOf {
		if touched[idx] {
			members[idx] = append(members[idx], int32(n))
		}
	}

	var samples []rpperr.SCCSample
	for _, id := range ids {
		if len(samples) >= 5 {
			break
		}
		nodes := members[id]
		sample := nodes[0]
		for _, n := range nodes {
			if n < sample {
				sample = n
			}
		}
		samples = append(samples, rpperr.SCCSample{ID: id, Size: len(nodes), SampleNode: int64(v.NodeOSMID[sample])})
	}
	return &rpperr.MultiSCCRequired{SCCs: samples}
}

// requiredSCCReps computes the strongly connected components of the
// subgraph induced by required's own arcs and returns one representative
// per component (smallest node id), ordered ascending.
func requiredSCCReps(required []rgraph.RequiredEdge, numNodes int32) []int32 {
	touched := make(map[int32]bool)
	for _, e := range required {
		touched[e.U] = true
		touched[e.V] = true
	}

	g := simple.NewWeightedDirectedGraph(0, 0)
	for n := range touched {
		g.AddNode(simple.Node(n))
	}
	for _, e := range required {
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(e.U), simple.Node(e.V), e.Weight))
	}

	components := scc.Tarjan(g)
	reps := make([]int32, 0, len(components))
	for _, comp := range components {
		min := comp[0]
		for _, n := range comp {
			if n < min {
				min = n
			}
		}
		reps = append(reps, min)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i] < reps[j] })
	return reps
}

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
			return &rpperr.InvariantFailure{Reason: "Eulerian multigraph is not weakly connected"}
		}
	}

	openTour := opts.HasStart && opts.HasEnd && opts.Start != opts.End
	imbalance := E.ImbalanceCounts()
	for _, n := range nodes {
		want := 0
		switch {
		case openTour && n == opts.Start:
			want = 1
		case openTour && n == opts.End:
			want = -1
		}
		if imbalance[n] != want {
			return &rpperr.InvariantFailure{Reason: "unexpected degree imbalance after degree balancing"}
		}
	}
	return nil
}
