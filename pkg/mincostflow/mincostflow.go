// Package mincostflow solves the small bipartite transportation problem the
// DRPP degree-balancing step needs (§4.E step 3): ship supply from
// surplus-outbound nodes to demand at surplus-inbound nodes, minimizing
// total cost, where the cost of shipping between any pair is a directed
// shortest-path distance computed elsewhere (pkg/shortest).
//
// Solved via successive shortest augmenting paths (SSP) over a
// source/sink-augmented residual network, using Bellman-Ford for each
// augmentation since reversing a flow-carrying arc introduces a
// negative-cost residual edge that Dijkstra cannot handle.
// katalvlaran-lvlath/flow was read for comparison and rejected: it only
// implements maximum flow (Ford-Fulkerson/Edmonds-Karp/Dinic), which has
// no notion of arc cost and cannot express this transportation problem.
package mincostflow

import (
	"fmt"

	"github.com/azybler/rpprouter/pkg/shortest"
	"gonum.org/v1/gonum/graph/simple"
)

// CostFunc returns the cost of routing one unit from supply node i to
// demand node j, and whether such routing is possible at all.
type CostFunc func(i, j int32) (float64, bool)

// Flow is one positive-flow arc of the solved transportation plan: ship
// Units from From to To.
type Flow struct {
	From, To int32
	Units    int
}

// Infeasible reports that some (supply, demand) pair has no route at all,
// found while building the transportation network (§7 FlowInfeasible).
type Infeasible struct {
	From, To int32
}

func (e *Infeasible) Error() string {
	return fmt.Sprintf("no route from supply node %d to demand node %d", e.From, e.To)
}

// Solve computes a minimum-cost transportation plan shipping exactly
// supply[i] units out of each supply node and demand[j] units into each
// demand node (sum of supply must equal sum of demand; callers build these
// from |δ(n)| degree imbalances, which always balance globally).
func Solve(supply, demand []int32, supplyQty, demandQty []int, cost CostFunc) ([]Flow, error) {
	if len(supply) != len(supplyQty) || len(demand) != len(demandQty) {
		panic("mincostflow: mismatched supply/demand slice lengths")
	}

	var total int
	for _, q := range supplyQty {
		total += q
	}

	const source = 0
	supplyBase := int64(1)
	demandBase := supplyBase + int64(len(supply))
	sink := demandBase + int64(len(demand))

	g := simple.NewWeightedDirectedGraph(0, 0)
	g.AddNode(simple.Node(source))
	g.AddNode(simple.Node(sink))
	for i := range supply {
		g.AddNode(simple.Node(supplyBase + int64(i)))
	}
	for j := range demand {
		g.AddNode(simple.Node(demandBase + int64(j)))
	}

	type arcKey struct{ u, v int64 }
	cap := make(map[arcKey]int)
	arcCost := make(map[arcKey]float64)

	setArc := func(u, v int64, c float64, remaining int) {
		key := arcKey{u, v}
		cap[key] = remaining
		arcCost[key] = c
		syncEdge(g, u, v, c, remaining)
	}

	for i := range supply {
		setArc(source, supplyBase+int64(i), 0, supplyQty[i])
	}
	for j := range demand {
		setArc(demandBase+int64(j), sink, 0, demandQty[j])
	}
	for i, from := range supply {
		for j, to := range demand {
			c, ok := cost(from, to)
			if !ok {
				continue
			}
			setArc(supplyBase+int64(i), demandBase+int64(j), c, total) // effectively unbounded
		}
	}

	// Verify every (supply, demand) pair is routable before running SSP, so
	// failures point at a specific (i,j) pair rather than a generic "no
	// augmenting path" result.
	for i, from := range supply {
		if supplyQty[i] <= 0 {
			continue
		}
		for _, to := range demand {
			if _, ok := cost(from, to); !ok {
				return nil, &Infeasible{From: from, To: to}
			}
		}
	}

	flowOnArc := make(map[arcKey]int)

	remaining := total
	for remaining > 0 {
		tree, ok := shortest.BellmanFordFrom(g, int32(source))
		if !ok {
			return nil, fmt.Errorf("mincostflow: negative cycle in residual graph")
		}
		path, _, found := tree.PathTo(int32(sink))
		if !found {
			return nil, fmt.Errorf("mincostflow: no augmenting path remains with %d units unrouted", remaining)
		}

		bottleneck := remaining
		for k := 0; k+1 < len(path); k++ {
			key := arcKey{int64(path[k]), int64(path[k+1])}
			if c := cap[key]; c < bottleneck {
				bottleneck = c
			}
		}

		for k := 0; k+1 < len(path); k++ {
			u, v := int64(path[k]), int64(path[k+1])
			fwd := arcKey{u, v}
			rev := arcKey{v, u}
			cap[fwd] -= bottleneck
			cap[rev] += bottleneck
			arcCost[rev] = -arcCost[fwd]
			syncEdge(g, u, v, arcCost[fwd], cap[fwd])
			syncEdge(g, v, u, arcCost[rev], cap[rev])

			if u >= supplyBase && u < demandBase && v >= demandBase && v < sink {
				flowOnArc[fwd] += bottleneck
			}
			if v >= supplyBase && v < demandBase && u >= demandBase && u < sink {
				flowOnArc[arcKey{v, u}] -= bottleneck
			}
		}

		remaining -= bottleneck
	}

	var flows []Flow
	for i := range supply {
		for j := range demand {
			key := arcKey{supplyBase + int64(i), demandBase + int64(j)}
			if units := flowOnArc[key]; units > 0 {
				flows = append(flows, Flow{From: supply[i], To: demand[j], Units: units})
			}
		}
	}
	return flows, nil
}

// syncEdge keeps the gonum residual graph consistent with the capacity
// map: an arc with zero remaining capacity is removed entirely so
// Bellman-Ford never considers it.
func syncEdge(g *simple.WeightedDirectedGraph, u, v int64, cost float64, remaining int) {
	un, vn := simple.Node(u), simple.Node(v)
	if remaining <= 0 {
		if g.HasEdgeFromTo(un, vn) {
			g.RemoveEdge(g.Edge(un, vn))
		}
		return
	}
	g.SetWeightedEdge(g.NewWeightedEdge(un, vn, cost))
}
