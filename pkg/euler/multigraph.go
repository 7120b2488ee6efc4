// Package euler holds the Eulerian multigraph `E` (§3, §9): edge-indexed
// storage so parallel duplications are distinguishable, plus Hierholzer
// tour extraction (§4.F). The same storage and extraction code serves both
// the undirected RPP solver and the directed DRPP solver; Multigraph.Directed
// controls whether Hierholzer may traverse an edge against its stored
// direction.
package euler

import "github.com/azybler/rpprouter/pkg/rgraph"

// Kind classifies why an edge was added to E (§3).
type Kind int

const (
	KindRequired Kind = iota
	KindConnector
	KindDuplicate
)

func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindConnector:
		return "connector"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Edge is one edge/arc of E. U, V are dense node ids from the Views the
// solver ran against; Weight and Geometry are copied from the service
// index at materialization time.
type Edge struct {
	ID       int64
	U, V     int32
	Weight   float64
	Geometry *rgraph.Polyline
	Kind     Kind
}

// Multigraph is the solver's Eulerian multigraph E. Directed=false means
// edges are traversable in either direction (the undirected RPP case,
// where E is fundamentally an undirected multigraph even though connector
// and duplicate edges were materialized from directed shortest paths);
// Directed=true restricts traversal to each arc's stored direction (DRPP).
type Multigraph struct {
	Directed bool
	Edges    []Edge
	numNodes int32

	// adj and adjBuilt are not read anywhere in this package: AddEdge only
	// clears adjBuilt, and ExtractTour builds its own adjacency lists with
	// buildAdjacency.
	adj      [][]int
	adjBuilt bool
}

// New creates an empty Eulerian multigraph over numNodes dense node ids.
func New(directed bool, numNodes int32) *Multigraph {
	return &Multigraph{Directed: directed, numNodes: numNodes}
}

// AddEdge appends a new edge/arc to E and returns its id.
func (m *Multigraph) AddEdge(u, v int32, weight float64, geom *rgraph.Polyline, kind Kind) int64 {
	id := int64(len(m.Edges))
	m.Edges = append(m.Edges, Edge{ID: id, U: u, V: v, Weight: weight, Geometry: geom, Kind: kind})
	m.adjBuilt = false
	return id
}

// NumNodes returns the node-id universe E was built over (not all nodes
// necessarily have incident edges).
func (m *Multigraph) NumNodes() int32 {
	return m.numNodes
}

// TotalWeight sums the weight of every edge in E.
func (m *Multigraph) TotalWeight() float64 {
	var total float64
	for _, e := range m.Edges {
		total += e.Weight
	}
	return total
}

// OutDegree returns the number of edges leaving node n (directed graphs
// only; treats U as "from").
func (m *Multigraph) OutDegree(n int32) int {
	var d int
	for _, e := range m.Edges {
		if e.U == n {
			d++
		}
	}
	return d
}

// InDegree returns the number of edges entering node n (directed graphs
// only; treats V as "to").
func (m *Multigraph) InDegree(n int32) int {
	var d int
	for _, e := range m.Edges {
		if e.V == n {
			d++
		}
	}
	return d
}

// Degree returns the undirected degree of node n: the number of incident
// edge-endpoints (a self-loop counts twice).
func (m *Multigraph) Degree(n int32) int {
	var d int
	for _, e := range m.Edges {
		if e.U == n {
			d++
		}
		if e.V == n {
			d++
		}
	}
	return d
}

// Imbalance returns outdeg(n) - indeg(n), the directed degree imbalance
// used by DRPP degree balancing (§4.E step 3).
func (m *Multigraph) Imbalance(n int32) int {
	return m.OutDegree(n) - m.InDegree(n)
}

// DegreeCounts returns the undirected degree of every node in one pass
// (a self-loop counts twice), indexed by dense node id.
func (m *Multigraph) DegreeCounts() []int {
	counts := make([]int, m.numNodes)
	for _, e := range m.Edges {
		counts[e.U]++
		counts[e.V]++
	}
	return counts
}

// ImbalanceCounts returns outdeg(n)-indeg(n) for every node in one pass,
// indexed by dense node id.
func (m *Multigraph) ImbalanceCounts() []int {
	counts := make([]int, m.numNodes)
	for _, e := range m.Edges {
		counts[e.U]++
		counts[e.V]--
	}
	return counts
}

// NonIsolatedNodes returns every node id that has at least one incident
// edge.
func (m *Multigraph) NonIsolatedNodes() []int32 {
	seen := make(map[int32]bool)
	var order []int32
	for _, e := range m.Edges {
		if !seen[e.U] {
			seen[e.U] = true
			order = append(order, e.U)
		}
		if !seen[e.V] {
			seen[e.V] = true
			order = append(order, e.V)
		}
	}
	return order
}
