// Package scc computes strongly connected components of a directed graph,
// used for the DRPP pre-flight blocker analysis (§4.E).
package scc

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Tarjan returns the strongly connected components of g as groups of dense
// node ids. Order of components and order of nodes within a component are
// not significant to callers; DRPP picks "the largest, tie-broken by
// smallest minimum node id" itself.
func Tarjan(g *simple.WeightedDirectedGraph) [][]int32 {
	components := topo.TarjanSCC(g)
	sccs := make([][]int32, len(components))
	for i, comp := range components {
		ids := make([]int32, len(comp))
		for j, n := range comp {
			ids[j] = int32(n.ID())
		}
		sccs[i] = ids
	}
	return sccs
}
