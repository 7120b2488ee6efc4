package rgraph

// RequiredPreset names a configurable set of highway classes considered
// "required" by the Required-Edge Extractor (§4.C; SPEC_FULL §4 resolves
// the source's configurability ambiguity as "configurable, four-class
// default").
type RequiredPreset map[HighwayClass]bool

// DefaultRequiredPreset is spec.md §4.C's default: residential,
// living_street, tertiary, unclassified.
func DefaultRequiredPreset() RequiredPreset {
	return RequiredPreset{
		HwResidential:  true,
		HwLivingStreet: true,
		HwTertiary:     true,
		HwUnclassified: true,
	}
}

// PresetWithService adds `service` to the default set, exposed as an
// explicit opt-in per SPEC_FULL §4.
func PresetWithService() RequiredPreset {
	p := DefaultRequiredPreset()
	p[HwService] = true
	return p
}

// RequiredEdge is one edge/arc of the required graph R: a dense node pair
// plus the weight carried through from the driving graph.
type RequiredEdge struct {
	U, V   int32
	Weight float64
}

// RequiredUndirected walks U and collects edges whose primary highway
// class is in preset, producing R_u. Parallel arcs between the same node
// pair collapse into a single edge, keeping the minimum weight seen.
func RequiredUndirected(v *Views, raw *RawGraph, preset RequiredPreset) []RequiredEdge {
	classOf := classifyByDensePair(v, raw)
	seen := make(map[nodePair]float64)
	var order []nodePair

	for _, e := range v.U.WeightedEdges() {
		u := int32(e.From().ID())
		w := int32(e.To().ID())
		if u > w {
			u, w = w, u
		}
		cls, ok := classOf[nodePair{u, w}]
		if !ok {
			cls, ok = classOf[nodePair{w, u}]
		}
		if !ok || !preset[cls] {
			continue
		}
		key := nodePair{u, w}
		if existing, present := seen[key]; !present || e.Weight() < existing {
			if !present {
				order = append(order, key)
			}
			seen[key] = e.Weight()
		}
	}

	out := make([]RequiredEdge, 0, len(order))
	for _, key := range order {
		out = append(out, RequiredEdge{U: key.u, V: key.v, Weight: seen[key]})
	}
	return out
}

// RequiredDirected walks D and collects arcs whose primary highway class
// is in preset, producing R_d. Parallel arcs between the same ordered
// pair collapse into a single arc, keeping the minimum weight seen.
func RequiredDirected(v *Views, raw *RawGraph, preset RequiredPreset) []RequiredEdge {
	classOf := classifyByDensePair(v, raw)
	seen := make(map[nodePair]float64)
	var order []nodePair

	for _, e := range v.D.WeightedEdges() {
		u := int32(e.From().ID())
		w := int32(e.To().ID())
		cls, ok := classOf[nodePair{u, w}]
		if !ok || !preset[cls] {
			continue
		}
		key := nodePair{u, w}
		if existing, present := seen[key]; !present || e.Weight() < existing {
			if !present {
				order = append(order, key)
			}
			seen[key] = e.Weight()
		}
	}

	out := make([]RequiredEdge, 0, len(order))
	for _, key := range order {
		out = append(out, RequiredEdge{U: key.u, V: key.v, Weight: seen[key]})
	}
	return out
}

// classifyByDensePair reconstructs, for each directed dense node pair that
// survived into the built views, which raw edge's highway class it came
// from — the builder itself doesn't retain this, only weight/geometry
// (via the service index), so required-class lookup replays the original
// edge list against the final dense-id mapping.
func classifyByDensePair(v *Views, raw *RawGraph) map[nodePair]HighwayClass {
	out := make(map[nodePair]HighwayClass)
	for i := range raw.Edges {
		e := &raw.Edges[i]
		if !Drivable(e) {
			continue
		}
		du, ok1 := v.DenseID(e.FromOSM)
		dv, ok2 := v.DenseID(e.ToOSM)
		if !ok1 || !ok2 {
			continue
		}
		cls := e.PrimaryHighwayClass()
		out[nodePair{du, dv}] = cls
		out[nodePair{dv, du}] = cls
	}
	return out
}
