// Package match computes a minimum-weight perfect matching on a small
// complete auxiliary graph — the odd-degree T-join step of the RPP solver
// (§4.D step 3). Two tiers: an exact bitmask DP (Held-Karp-style) for small
// node counts, and a deterministic greedy nearest-neighbor heuristic for
// larger ones, mirroring the two-tier shape of
// katalvlaran-lvlath/tsp/matching.go's greedyMatch (that function is
// unexported and reachable only through test hooks in lvlath, so its
// algorithm shape is reproduced here rather than imported).
package match

import "sort"

// CostFunc returns the cost of matching u with v, and whether such a pairing
// is even possible (false if no path exists between them).
type CostFunc func(u, v int32) (float64, bool)

// exactLimit bounds the bitmask DP: 2^20 states is the practical ceiling
// for in-memory float64 arrays at interactive latency; RPP instances with
// more than 20 odd-degree nodes fall back to the greedy heuristic.
const exactLimit = 20

// Pair is one matched node pair.
type Pair struct {
	U, V int32
}

// UnmatchableNode is returned by MinWeightPerfectMatching when some node has
// no feasible partner at all.
type UnmatchableNode struct {
	Node int32
}

func (e *UnmatchableNode) Error() string {
	return "no feasible matching partner for node"
}

// MinWeightPerfectMatching matches every node in nodes with exactly one
// other node, minimizing total cost. len(nodes) must be even (the parity
// lemma guarantees this for the odd-degree set). Returns an error if any
// node has no feasible partner.
func MinWeightPerfectMatching(nodes []int32, cost CostFunc) ([]Pair, error) {
	if len(nodes)%2 != 0 {
		panic("match: MinWeightPerfectMatching requires an even number of nodes")
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	// Fail fast if any node is entirely isolated in the auxiliary graph.
	for _, n := range nodes {
		reachable := false
		for _, other := range nodes {
			if other == n {
				continue
			}
			if _, ok := cost(n, other); ok {
				reachable = true
				break
			}
		}
		if !reachable {
			return nil, &UnmatchableNode{Node: n}
		}
	}

	if len(nodes) <= exactLimit {
		return exactMatch(nodes, cost)
	}
	return greedyMatch(nodes, cost), nil
}

// exactMatch solves minimum-weight perfect matching exactly via a bitmask
// DP over which nodes (by index into `nodes`) are already matched. Each
// transition pairs the first unmatched index with some later unmatched
// index; predecessor mask and the pair used are recorded for reconstruction.
func exactMatch(nodes []int32, cost CostFunc) ([]Pair, error) {
	n := len(nodes)
	full := 1 << uint(n)

	const inf = 1e18
	dp := make([]float64, full)
	predMask := make([]int32, full)
	pairI := make([]int16, full)
	pairJ := make([]int16, full)
	for i := range dp {
		dp[i] = inf
	}
	dp[0] = 0

	for mask := 0; mask < full; mask++ {
		if dp[mask] >= inf {
			continue
		}
		i := firstUnsetBit(mask, n)
		if i == -1 {
			continue // fully matched
		}
		for j := i + 1; j < n; j++ {
			if mask&(1<<uint(j)) != 0 {
				continue
			}
			c, ok := cost(nodes[i], nodes[j])
			if !ok {
				continue
			}
			next := mask | (1 << uint(i)) | (1 << uint(j))
			cand := dp[mask] + c
			if cand < dp[next] {
				dp[next] = cand
				predMask[next] = int32(mask)
				pairI[next] = int16(i)
				pairJ[next] = int16(j)
			}
		}
	}

	if dp[full-1] >= inf {
		return nil, &UnmatchableNode{Node: nodes[0]}
	}

	var pairs []Pair
	mask := full - 1
	for mask != 0 {
		i, j := pairI[mask], pairJ[mask]
		pairs = append(pairs, Pair{U: nodes[i], V: nodes[j]})
		mask = int(predMask[mask])
	}

	return pairs, nil
}

func firstUnsetBit(mask, n int) int {
	for b := 0; b < n; b++ {
		if mask&(1<<uint(b)) == 0 {
			return b
		}
	}
	return -1
}

// greedyMatch pairs the nearest unmatched node to each node in ascending
// node-id order, the deterministic tie-break rule used throughout this
// solver ("smaller vertex id wins", matching lvlath's greedyMatch symTol
// tie-break and spec.md §5's reproducibility requirement).
func greedyMatch(nodes []int32, cost CostFunc) []Pair {
	sorted := append([]int32(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	matched := make(map[int32]bool, len(sorted))
	var pairs []Pair

	for _, u := range sorted {
		if matched[u] {
			continue
		}
		bestV := int32(-1)
		bestCost := 1e18
		for _, v := range sorted {
			if v == u || matched[v] {
				continue
			}
			c, ok := cost(u, v)
			if !ok {
				continue
			}
			if c < bestCost || (c == bestCost && v < bestV) {
				bestCost = c
				bestV = v
			}
		}
		if bestV == -1 {
			continue // caller already validated reachability; shouldn't happen
		}
		matched[u] = true
		matched[bestV] = true
		pairs = append(pairs, Pair{U: u, V: bestV})
	}

	return pairs
}
