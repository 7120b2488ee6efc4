package euler

import "github.com/azybler/rpprouter/pkg/rpperr"

// ExtractTour runs Hierholzer's algorithm to pull a tour — a sequence of
// edge ids, with multiplicities, not just node ids — out of E (§4.F).
//
//   - hasStart == false: any Eulerian circuit, anchored at the
//     smallest-id non-isolated node for determinism.
//   - hasStart == true, hasEnd == false (or end == start): a circuit
//     anchored at start.
//   - hasStart and hasEnd both true and distinct: an Eulerian path from
//     start to end (E must have exactly start and end as its two
//     odd-degree / imbalanced nodes; the same stack algorithm produces a
//     path instead of a circuit when run from an odd-degree node of a
//     graph with exactly two such nodes).
//
// Returns the edge-id sequence and the corresponding node sequence
// (len(nodes) == len(edgeIDs)+1). An empty E (no required edges to route)
// yields the empty tour, not an error.
func ExtractTour(m *Multigraph, start int32, hasStart bool, end int32, hasEnd bool) (edgeIDs []int64, nodes []int32, err error) {
	if len(m.Edges) == 0 {
		return nil, nil, nil
	}

	startNode := start
	if !hasStart {
		startNode = smallestNonIsolated(m)
	}

	adj := buildAdjacency(m)
	ptr := make([]int, m.numNodes)
	used := make([]bool, len(m.Edges))

	curPath := []int32{startNode}
	curEdges := []int64{}
	var finalEdges []int64

	for len(curPath) > 0 {
		v := curPath[len(curPath)-1]
		nextEdge := int64(-1)
		var nextNode int32
		for int(ptr[v]) < len(adj[v]) {
			cand := adj[v][ptr[v]]
			ptr[v]++
			if used[cand.edge] {
				continue
			}
			nextEdge = cand.edge
			nextNode = cand.other
			break
		}

		if nextEdge == -1 {
			curPath = curPath[:len(curPath)-1]
			if len(curEdges) > 0 {
				finalEdges = append(finalEdges, curEdges[len(curEdges)-1])
				curEdges = curEdges[:len(curEdges)-1]
			}
			continue
		}

		used[nextEdge] = true
		curEdges = append(curEdges, nextEdge)
		curPath = append(curPath, nextNode)
	}

	// finalEdges was built by popping, so it is in reverse traversal order.
	for i, j := 0, len(finalEdges)-1; i < j; i, j = i+1, j-1 {
		finalEdges[i], finalEdges[j] = finalEdges[j], finalEdges[i]
	}

	if len(finalEdges) != len(m.Edges) {
		return nil, nil, &rpperr.InvariantFailure{Reason: "Hierholzer extraction did not consume every edge; E is not Eulerian from the chosen start"}
	}

	nodeSeq := make([]int32, 0, len(finalEdges)+1)
	cur := startNode
	nodeSeq = append(nodeSeq, cur)
	for _, eid := range finalEdges {
		e := m.Edges[eid]
		if e.U == cur {
			cur = e.V
		} else {
			cur = e.U
		}
		nodeSeq = append(nodeSeq, cur)
	}

	if hasEnd && nodeSeq[len(nodeSeq)-1] != end {
		return nil, nil, &rpperr.InvariantFailure{Reason: "extracted tour does not end at the requested node"}
	}

	return finalEdges, nodeSeq, nil
}

type adjEntry struct {
	edge  int64
	other int32
}

// buildAdjacency returns, per node, the list of (edge, far-endpoint) pairs
// reachable by leaving that node: both endpoints for undirected graphs,
// only the tail->head direction for directed ones.
func buildAdjacency(m *Multigraph) [][]adjEntry {
	adj := make([][]adjEntry, m.numNodes)
	for _, e := range m.Edges {
		adj[e.U] = append(adj[e.U], adjEntry{edge: e.ID, other: e.V})
		if !m.Directed && e.V != e.U {
			adj[e.V] = append(adj[e.V], adjEntry{edge: e.ID, other: e.U})
		}
	}
	return adj
}

func smallestNonIsolated(m *Multigraph) int32 {
	best := int32(-1)
	for _, e := range m.Edges {
		if best == -1 || e.U < best {
			best = e.U
		}
		if best == -1 || e.V < best {
			best = e.V
		}
	}
	return best
}
