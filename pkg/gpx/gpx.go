// Package gpx emits GPX 1.1 documents for a solved tour (§6). Built
// directly on stdlib encoding/xml, following the same struct-tag-driven
// marshaling idiom this module's JSON types use.
package gpx

import (
	"encoding/xml"
	"os"

	"github.com/azybler/rpprouter/pkg/geomexport"
	"github.com/azybler/rpprouter/pkg/rpperr"
)

type gpxDoc struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Tracks  []track  `xml:"trk"`
}

type track struct {
	Name    string  `xml:"name,omitempty"`
	Segment segment `xml:"trkseg"`
}

type segment struct {
	Points []trackPoint `xml:"trkpt"`
}

type trackPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// Write serializes points as a single-track, single-segment GPX 1.1
// document to path.
func Write(path, trackName string, points []geomexport.Point) error {
	return write(path, []track{toTrack(trackName, points)})
}

// WriteMultiTrack serializes one track per entry in tracks, used by
// --drpp-blockers-gpx to emit each dropped required arc as its own track
// for visual inspection.
func WriteMultiTrack(path string, names []string, tracks [][]geomexport.Point) error {
	trks := make([]track, len(tracks))
	for i, pts := range tracks {
		trks[i] = toTrack(names[i], pts)
	}
	return write(path, trks)
}

func toTrack(name string, points []geomexport.Point) track {
	t := track{Name: name}
	t.Segment.Points = make([]trackPoint, len(points))
	for i, p := range points {
		t.Segment.Points[i] = trackPoint{Lat: p.Lat, Lon: p.Lon}
	}
	return t
}

func write(path string, tracks []track) error {
	doc := gpxDoc{
		Version: "1.1",
		Creator: "rpprouter",
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Tracks:  tracks,
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	body = append([]byte(xml.Header), body...)

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	return nil
}
