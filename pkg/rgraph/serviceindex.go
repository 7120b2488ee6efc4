package rgraph

// ServiceCandidate is one physical edge materialization available for a
// directed (u,v) dense-node pair: its weight and, optionally, its polyline
// geometry.
type ServiceCandidate struct {
	Weight   float64
	Geometry *Polyline
}

type nodePair struct {
	u, v int32
}

// ServiceIndex is the service graph `S` (§3): a lookup from a directed
// dense-node pair to every physical edge materialization available for it,
// used at connector/duplicate/geometry-export time to pick the best
// candidate (§4.H, "preferring candidates carrying a polyline; among
// those, the minimum-weight one" — also SPEC_FULL §4's extension of that
// rule to connector/duplicate materialization).
type ServiceIndex struct {
	candidates map[nodePair][]ServiceCandidate
}

// NewServiceIndex creates an empty service index.
func NewServiceIndex() *ServiceIndex {
	return &ServiceIndex{candidates: make(map[nodePair][]ServiceCandidate)}
}

// Add registers a physical edge's materialization as a candidate for the
// directed pair (u,v).
func (s *ServiceIndex) Add(u, v int32, weight float64, geom *Polyline) {
	key := nodePair{u, v}
	s.candidates[key] = append(s.candidates[key], ServiceCandidate{Weight: weight, Geometry: geom})
}

// Best returns the representative candidate for (u,v): prefer a candidate
// carrying geometry; among those (or, if none carry geometry, among all),
// the minimum-weight one.
func (s *ServiceIndex) Best(u, v int32) (ServiceCandidate, bool) {
	cands, ok := s.candidates[nodePair{u, v}]
	if !ok || len(cands) == 0 {
		return ServiceCandidate{}, false
	}

	var best ServiceCandidate
	found := false
	bestHasGeom := false

	for _, c := range cands {
		hasGeom := c.Geometry.Len() > 0
		switch {
		case !found:
			best, bestHasGeom, found = c, hasGeom, true
		case hasGeom && !bestHasGeom:
			best, bestHasGeom = c, true
		case hasGeom == bestHasGeom && c.Weight < best.Weight:
			best = c
		}
	}
	return best, found
}

// Weight returns just the shortest-path edge weight to use between u and v,
// falling back to ok=false if no candidate exists.
func (s *ServiceIndex) Weight(u, v int32) (float64, bool) {
	c, ok := s.Best(u, v)
	return c.Weight, ok
}
