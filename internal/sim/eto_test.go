package sim

import (
	"math"
	"testing"
)

func TestETo(t *testing.T) {
	tests := []struct {
		name  string
		tmax  float64
		tmin  float64
		solar float64
		want  float64
	}{
		{
			// 0.0023 × (22.5+17.8) × √15 × 20×0.408
			name:  "typical summer day",
			tmax:  30,
			tmin:  15,
			solar: 20,
			want:  0.0023 * 40.3 * math.Sqrt(15) * 8.16,
		},
		{
			name:  "zero temperature range",
			tmax:  20,
			tmin:  20,
			solar: 18,
			want:  0,
		},
		{
			name:  "inverted range clamps to zero",
			tmax:  10,
			tmin:  15,
			solar: 18,
			want:  0,
		},
		{
			name:  "no radiation",
			tmax:  30,
			tmin:  15,
			solar: 0,
			want:  0,
		},
		{
			// (tavg+17.8) goes negative; result clamps at zero rather
			// than returning negative evapotranspiration.
			name:  "extreme cold clamps to zero",
			tmax:  -20,
			tmin:  -30,
			solar: 10,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ETo(tt.tmax, tt.tmin, tt.solar)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ETo(%v, %v, %v) = %v, want %v", tt.tmax, tt.tmin, tt.solar, got, tt.want)
			}
		})
	}
}

func TestEToNeverNegative(t *testing.T) {
	for tmax := -40.0; tmax <= 50; tmax += 10 {
		for tmin := -40.0; tmin <= 50; tmin += 10 {
			for solar := 0.0; solar <= 35; solar += 7 {
				got := ETo(tmax, tmin, solar)
				if got < 0 || math.IsNaN(got) {
					t.Fatalf("ETo(%v, %v, %v) = %v, want >= 0", tmax, tmin, solar, got)
				}
			}
		}
	}
}

func TestEToKnownValue(t *testing.T) {
	// Hand-computed anchor for a typical early-October day.
	got := ETo(30, 15, 20)
	if math.Abs(got-3.2) > 0.1 {
		t.Errorf("ETo(30, 15, 20) = %v, want ~3.2", got)
	}
}
