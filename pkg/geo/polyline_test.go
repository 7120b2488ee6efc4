package geo

import "testing"

func TestOrientPolyline(t *testing.T) {
	// Polyline p0 near (0,0), pk near (1,1).
	lats := []float64{0.0, 0.5, 1.0}
	lons := []float64{0.0, 0.5, 1.0}

	tests := []struct {
		name                 string
		uLat, uLon, vLat, vLon float64
		wantReverse          bool
	}{
		{
			name: "matches stored direction",
			uLat: 0.0, uLon: 0.0, vLat: 1.0, vLon: 1.0,
			wantReverse: false,
		},
		{
			name: "opposite of stored direction",
			uLat: 1.0, uLon: 1.0, vLat: 0.0, vLon: 0.0,
			wantReverse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrientPolyline(lats, lons, tt.uLat, tt.uLon, tt.vLat, tt.vLon)
			if got != tt.wantReverse {
				t.Errorf("OrientPolyline = %v, want %v", got, tt.wantReverse)
			}
		})
	}
}

func TestReversedCopy(t *testing.T) {
	in := []float64{1, 2, 3}
	out := ReversedCopy(in)
	want := []float64{3, 2, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("ReversedCopy[%d] = %v, want %v", i, out[i], want[i])
		}
	}
	if in[0] != 1 {
		t.Errorf("input slice mutated")
	}
}
