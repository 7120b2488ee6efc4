package geo

// dist2 returns squared Euclidean distance between two (lat, lon) points.
// Used only for orientation comparisons, where the exact metric doesn't
// matter as long as it's monotonic with true distance over short spans.
func dist2(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return dLat*dLat + dLon*dLon
}

// OrientPolyline decides whether a stored polyline must be reversed to match
// a traversal from (uLat,uLon) to (vLat,vLon). shapeLats/shapeLons are the
// polyline's stored coordinates in original order; the polyline is assumed
// non-empty.
//
// Reverse iff NOT (d2(p0,u) <= d2(p0,v) AND d2(pk,v) <= d2(pk,u)).
func OrientPolyline(shapeLats, shapeLons []float64, uLat, uLon, vLat, vLon float64) bool {
	n := len(shapeLats)
	p0Lat, p0Lon := shapeLats[0], shapeLons[0]
	pkLat, pkLon := shapeLats[n-1], shapeLons[n-1]

	p0ToU := dist2(p0Lat, p0Lon, uLat, uLon)
	p0ToV := dist2(p0Lat, p0Lon, vLat, vLon)
	pkToV := dist2(pkLat, pkLon, vLat, vLon)
	pkToU := dist2(pkLat, pkLon, uLat, uLon)

	matches := p0ToU <= p0ToV && pkToV <= pkToU
	return !matches
}

// ReversedCopy returns a new slice with the elements of s in reverse order.
func ReversedCopy(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
