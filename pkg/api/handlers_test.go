package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/azybler/rpprouter/pkg/euler"
)

func testResult() *euler.Result {
	g := euler.New(false, 3)
	id0 := g.AddEdge(0, 1, 3, nil, euler.KindRequired)
	id1 := g.AddEdge(1, 2, 4, nil, euler.KindRequired)
	id2 := g.AddEdge(2, 0, 5, nil, euler.KindConnector)
	return &euler.Result{
		Graph:   g,
		NodeLat: []float64{0, 1, 2},
		NodeLon: []float64{0, 1, 2},
		EdgeIDs: []int64{id0, id1, id2},
		NodeSeq: []int32{0, 1, 2, 0},
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(testResult())

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHandlers(testResult())

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumNodes != 3 {
		t.Errorf("NumNodes = %d, want 3", resp.NumNodes)
	}
	if resp.NumEdges != 3 {
		t.Errorf("NumEdges = %d, want 3", resp.NumEdges)
	}
	if resp.TourLengthMeters != 12 {
		t.Errorf("TourLengthMeters = %v, want 12", resp.TourLengthMeters)
	}
	if resp.TourStops != 4 {
		t.Errorf("TourStops = %d, want 4", resp.TourStops)
	}
}

func TestHandleTour(t *testing.T) {
	h := NewHandlers(testResult())

	req := httptest.NewRequest("GET", "/api/v1/tour", nil)
	w := httptest.NewRecorder()
	h.HandleTour(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp TourResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []LatLngJSON{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 0, Lng: 0}}
	if len(resp.Points) != len(want) {
		t.Fatalf("len(Points) = %d, want %d: %v", len(resp.Points), len(want), resp.Points)
	}
	for i := range want {
		if resp.Points[i] != want[i] {
			t.Errorf("Points[%d] = %v, want %v", i, resp.Points[i], want[i])
		}
	}
}
