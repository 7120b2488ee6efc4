package rgraph

import (
	"log"

	"github.com/azybler/rpprouter/pkg/rpperr"
	"gonum.org/v1/gonum/graph/simple"
)

// BuildOptions configures the Graph Builder (§4.B).
type BuildOptions struct {
	// IgnoreOneway treats one-ways bidirectionally for driving-graph
	// shortest paths (CLI flag --ignore-oneway).
	IgnoreOneway bool
}

// Views holds the three driving-graph views produced by the Graph Builder:
// D (directed), U (undirected projection of D), and S (the service index
// used for geometry/weight lookup at materialization time). Node ids in D
// and U are dense indices assigned at build time; NodeOSMID/OSMToDense
// translate back and forth, and NodeLat/NodeLon carry coordinates indexed
// by the same dense id.
type Views struct {
	D *simple.WeightedDirectedGraph
	U *simple.WeightedUndirectedGraph
	S *ServiceIndex

	NodeOSMID  []int64
	OSMToDense map[int64]int32
	NodeLat    []float64
	NodeLon    []float64
}

// DenseID returns the dense node index for an OSM node id, if present in
// the built views.
func (v *Views) DenseID(osmID int64) (int32, bool) {
	id, ok := v.OSMToDense[osmID]
	return id, ok
}

// NumNodes returns the number of nodes in the views.
func (v *Views) NumNodes() int {
	return len(v.NodeOSMID)
}

// Build implements the Graph Builder (§4.B): filter, restrict to the
// largest weakly connected component, attach weights, and produce the
// three views.
func Build(raw *RawGraph, opts BuildOptions) (*Views, error) {
	filtered := FilterEdges(raw.Edges)
	if len(filtered) == 0 {
		return nil, &rpperr.EmptyGraph{}
	}

	// Assign provisional dense indices to every OSM node referenced by a
	// surviving edge (nodes touched by excluded edges are simply dropped).
	provisional := make(map[int64]int32)
	nextID := int32(0)
	idOf := func(osmID int64) int32 {
		if id, ok := provisional[osmID]; ok {
			return id
		}
		id := nextID
		provisional[osmID] = id
		nextID++
		return id
	}
	for i := range filtered {
		idOf(filtered[i].FromOSM)
		idOf(filtered[i].ToOSM)
	}

	uf := NewUnionFind(nextID)
	for i := range filtered {
		u := provisional[filtered[i].FromOSM]
		v := provisional[filtered[i].ToOSM]
		uf.Union(u, v)
	}

	// Find the largest component's root, tie-break irrelevant since size
	// strictly orders roots; ties on size fall back to whichever root is
	// found first by ascending dense id, matching the "smallest node id"
	// reproducibility rule elsewhere in the pipeline.
	bestRoot := int32(-1)
	var bestSize int32
	for i := int32(0); i < nextID; i++ {
		root := uf.Find(i)
		sz := uf.Size(root)
		if sz > bestSize {
			bestSize = sz
			bestRoot = root
		}
	}

	// Final remap: only nodes in the largest component get a final dense
	// id, assigned in ascending order of their provisional id for
	// determinism.
	final := make(map[int64]int32, bestSize)
	var nodeOSMID []int64
	var nodeLat, nodeLon []float64
	nodeOf := make(map[int64]*RawNode, len(raw.Nodes))
	for i := range raw.Nodes {
		nodeOf[raw.Nodes[i].OSMID] = &raw.Nodes[i]
	}

	// Iterate OSM ids in the order nodes were first provisioned, to keep
	// output deterministic for a given input edge order.
	ordered := make([]int64, len(provisional))
	for osmID, pid := range provisional {
		ordered[pid] = osmID
	}
	for _, osmID := range ordered {
		pid := provisional[osmID]
		if uf.Find(pid) != bestRoot {
			continue
		}
		n, ok := nodeOf[osmID]
		var lat, lon float64
		if ok {
			lat, lon = n.Lat, n.Lon
		}
		final[osmID] = int32(len(nodeOSMID))
		nodeOSMID = append(nodeOSMID, osmID)
		nodeLat = append(nodeLat, lat)
		nodeLon = append(nodeLon, lon)
	}

	v := &Views{
		D:          simple.NewWeightedDirectedGraph(0, 0),
		U:          simple.NewWeightedUndirectedGraph(0, 0),
		S:          NewServiceIndex(),
		NodeOSMID:  nodeOSMID,
		OSMToDense: final,
		NodeLat:    nodeLat,
		NodeLon:    nodeLon,
	}
	for i := range nodeOSMID {
		v.D.AddNode(simple.Node(i))
		v.U.AddNode(simple.Node(i))
	}

	var fallbackWeightCount int
	for i := range filtered {
		e := &filtered[i]
		du, ok1 := final[e.FromOSM]
		dv, ok2 := final[e.ToOSM]
		if !ok1 || !ok2 {
			continue // edge touches a node outside the largest component
		}

		weight := e.Length
		if weight <= 0 {
			weight = 1.0
			fallbackWeightCount++
		}

		forward := e.Oneway != OnewayBackward
		backward := e.Oneway != OnewayForward
		if opts.IgnoreOneway {
			forward, backward = true, true
		}

		if forward {
			addArc(v.D, du, dv, weight)
			v.S.Add(du, dv, weight, e.Geometry)
		}
		if backward {
			addArc(v.D, dv, du, weight)
			v.S.Add(dv, du, weight, reverseGeometry(e.Geometry))
		}
		if forward || backward {
			addUndirected(v.U, du, dv, weight)
		}
	}

	if fallbackWeightCount > 0 {
		log.Printf("graph builder: %d edges had non-positive length, fell back to weight 1.0", fallbackWeightCount)
	}

	if len(v.D.Edges()) == 0 {
		return nil, &rpperr.EmptyGraph{}
	}

	return v, nil
}

func addArc(g *simple.WeightedDirectedGraph, u, v int32, weight float64) {
	un, vn := simple.Node(u), simple.Node(v)
	if existing := g.WeightedEdge(un, vn); existing != nil && existing.Weight() <= weight {
		return
	}
	g.SetWeightedEdge(g.NewWeightedEdge(un, vn, weight))
}

func addUndirected(g *simple.WeightedUndirectedGraph, u, v int32, weight float64) {
	un, vn := simple.Node(u), simple.Node(v)
	if existing := g.WeightedEdge(un, vn); existing != nil && existing.Weight() <= weight {
		return
	}
	g.SetWeightedEdge(g.NewWeightedEdge(un, vn, weight))
}

func reverseGeometry(p *Polyline) *Polyline {
	if p.Len() == 0 {
		return nil
	}
	return &Polyline{Lats: reverseFloat64(p.Lats), Lons: reverseFloat64(p.Lons)}
}

func reverseFloat64(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, x := range s {
		out[len(s)-1-i] = x
	}
	return out
}
