package rgraph

import "strings"

// excludedHighwayTokens are highway classes never drivable, per §4.A.
var excludedHighwayTokens = map[string]bool{
	"footway":    true,
	"pedestrian": true,
	"steps":      true,
	"path":       true,
	"corridor":   true,
	"cycleway":   true,
}

func eqFold(s, want string) bool {
	return strings.EqualFold(strings.TrimSpace(s), want)
}

// Drivable decides whether a raw edge is drivable, per §4.A. It is a pure
// function: same input, same output, no errors.
func Drivable(e *RawEdge) bool {
	for _, tok := range e.HighwayTokens {
		if excludedHighwayTokens[tok] {
			return false
		}
	}

	if eqFold(e.Access.Service, "parking_aisle") {
		return false
	}

	if isNoOrPrivate(e.Access.MotorVehicle) || isNoOrPrivate(e.Access.Vehicle) {
		return false
	}

	if isNoOrPrivate(e.Access.Access) {
		return false
	}

	return true
}

func isNoOrPrivate(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "no" || v == "private"
}

// FilterEdges returns the subset of edges that pass Drivable.
func FilterEdges(edges []RawEdge) []RawEdge {
	out := make([]RawEdge, 0, len(edges))
	for i := range edges {
		if Drivable(&edges[i]) {
			out = append(out, edges[i])
		}
	}
	return out
}
