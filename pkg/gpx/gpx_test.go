package gpx

import (
	"os"
	"strings"
	"testing"

	"github.com/azybler/rpprouter/pkg/geomexport"
)

func TestWriteRoundTripsShape(t *testing.T) {
	path := t.TempDir() + "/tour.gpx"
	points := []geomexport.Point{{Lat: 1.1, Lon: 2.2}, {Lat: 3.3, Lon: 4.4}}

	if err := Write(path, "tour", points); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, `version="1.1"`) {
		t.Errorf("missing GPX 1.1 version attribute: %s", body)
	}
	if strings.Count(body, "<trkpt") != 2 {
		t.Errorf("expected 2 trkpt elements, got body: %s", body)
	}
}

func TestWriteMultiTrackEmitsOneTrackPerEntry(t *testing.T) {
	path := t.TempDir() + "/blockers.gpx"
	names := []string{"blocker a", "blocker b"}
	tracks := [][]geomexport.Point{
		{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
		{{Lat: 3, Lon: 3}, {Lat: 4, Lon: 4}, {Lat: 5, Lon: 5}},
	}

	if err := WriteMultiTrack(path, names, tracks); err != nil {
		t.Fatalf("WriteMultiTrack: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	body := string(data)
	if strings.Count(body, "<trk>") != 2 {
		t.Errorf("expected 2 trk elements, got body: %s", body)
	}
	if strings.Count(body, "<trkpt") != 5 {
		t.Errorf("expected 5 trkpt elements, got body: %s", body)
	}
	if !strings.Contains(body, "blocker a") || !strings.Contains(body, "blocker b") {
		t.Errorf("expected both track names present: %s", body)
	}
}
