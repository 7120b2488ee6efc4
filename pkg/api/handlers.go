package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/geomexport"
	"github.com/azybler/rpprouter/pkg/rgraph"
)

// Handlers holds the HTTP handlers for the single solved tour a
// rppserver process was started against (§5: "read-only status/result
// server").
type Handlers struct {
	stats  StatsResponse
	points []geomexport.Point
}

// NewHandlers builds handlers from an euler.Result already loaded from
// disk. The coordinate stream is walked once here, not recomputed per
// request.
func NewHandlers(res *euler.Result) *Handlers {
	v := &rgraph.Views{NodeLat: res.NodeLat, NodeLon: res.NodeLon}
	points := geomexport.Walk(v, res.Graph, res.EdgeIDs, res.NodeSeq)

	stats := StatsResponse{
		NumNodes:         int(res.Graph.NumNodes()),
		NumEdges:         len(res.Graph.Edges),
		Directed:         res.Graph.Directed,
		TourStops:        len(res.NodeSeq),
		TourLengthMeters: res.Graph.TotalWeight(),
	}
	return &Handlers{stats: stats, points: points}
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats)
}

// HandleTour handles GET /api/v1/tour.
func (h *Handlers) HandleTour(w http.ResponseWriter, r *http.Request) {
	resp := TourResponse{Points: make([]LatLngJSON, len(h.points))}
	for i, p := range h.points {
		resp.Points[i] = LatLngJSON{Lat: p.Lat, Lng: p.Lon}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
