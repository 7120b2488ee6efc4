// Package geojsonexport emits an optional GeoJSON LineString for a solved
// tour (--geojson, SPEC_FULL §6), using github.com/paulmach/go.geojson as
// a map-viewer-consumable alternative to a rendered HTML map.
package geojsonexport

import (
	"os"

	"github.com/azybler/rpprouter/pkg/geomexport"
	"github.com/azybler/rpprouter/pkg/rpperr"
	geojson "github.com/paulmach/go.geojson"
)

// Write serializes points as a single-feature FeatureCollection containing
// one LineString geometry, GeoJSON coordinate order [lon, lat].
func Write(path string, points []geomexport.Point) error {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lon, p.Lat}
	}

	feature := geojson.NewFeature(geojson.NewLineStringGeometry(coords))
	feature.Properties = map[string]interface{}{"name": "rpprouter tour"}

	fc := geojson.NewFeatureCollection()
	fc.AddFeature(feature)

	body, err := fc.MarshalJSON()
	if err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	return nil
}
