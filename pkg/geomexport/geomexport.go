// Package geomexport implements the Geometry Exporter (§4.H): walks an
// extracted tour and turns it into an ordered, deduplicated sequence of
// (lat, lon) points ready for a GPX track or GeoJSON LineString. Grounded
// on original_source/rpp/gpx_export.py's export_gpx (same orientation
// check and same-point dedup rule, reimplemented against this module's
// typed Multigraph/Views instead of networkx).
package geomexport

import (
	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/geo"
	"github.com/azybler/rpprouter/pkg/rgraph"
)

// Point is one exported coordinate.
type Point struct {
	Lat, Lon float64
}

// Walk produces the coordinate sequence for a tour: edgeIDs is the edge
// sequence returned by euler.ExtractTour, nodeSeq its parallel node
// sequence (len(nodeSeq) == len(edgeIDs)+1).
func Walk(v *rgraph.Views, E *euler.Multigraph, edgeIDs []int64, nodeSeq []int32) []Point {
	var out []Point
	emit := func(lat, lon float64) {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Lat == lat && last.Lon == lon {
				return
			}
		}
		out = append(out, Point{Lat: lat, Lon: lon})
	}

	for i, eid := range edgeIDs {
		e := E.Edges[eid]
		u, w := nodeSeq[i], nodeSeq[i+1]
		uLat, uLon := v.NodeLat[u], v.NodeLon[u]
		wLat, wLon := v.NodeLat[w], v.NodeLon[w]

		if e.Geometry.Len() == 0 {
			emit(uLat, uLon)
			emit(wLat, wLon)
			continue
		}

		lats, lons := e.Geometry.Lats, e.Geometry.Lons
		if geo.OrientPolyline(lats, lons, uLat, uLon, wLat, wLon) {
			lats = geo.ReversedCopy(lats)
			lons = geo.ReversedCopy(lons)
		}
		for k := range lats {
			emit(lats[k], lons[k])
		}
	}
	return out
}
