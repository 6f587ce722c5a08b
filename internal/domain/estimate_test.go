package domain

import (
	"math"
	"testing"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		band    byte
		seconds float64
		want    int64
	}{
		{'B', 86400, 13824000},
		{'H', 60, 24000},
		{'L', 10, 40},
		{'V', 10, 4},
		{'U', 1, 4},     // ceil(0.01) = 1 sample
		{'X', 100, 400}, // unknown band code
		{0, 100, 400},
		{'B', 0, 0},
		{'B', -5, 0},
	}

	for _, tt := range tests {
		got := Estimate(tt.band, tt.seconds)
		if got != tt.want {
			t.Errorf("Estimate(%q, %v) = %d, want %d", tt.band, tt.seconds, got, tt.want)
		}
	}
}

func TestEstimate_MatchesFormula(t *testing.T) {
	for band := range bandRates {
		for _, d := range []float64{1, 7, 3600, 86400} {
			want := int64(math.Ceil(SamplesPerSecond(band)*d)) * 4
			if got := Estimate(band, d); got != want {
				t.Errorf("Estimate(%q, %v) = %d, want %d", band, d, got, want)
			}
		}
	}
}

func TestEstimate_Monotonic(t *testing.T) {
	for _, band := range []byte("BHLMSEDCFGVURQPTAOWZ") {
		prev := int64(0)
		for d := 0.0; d <= 5000; d += 37 {
			got := Estimate(band, d)
			if got < 0 {
				t.Fatalf("Estimate(%q, %v) = %d, want non-negative", band, d, got)
			}
			if got < prev {
				t.Fatalf("Estimate(%q, %v) = %d decreased from %d", band, d, got, prev)
			}
			prev = got
		}
	}
}

func TestSamplesPerSecond_Default(t *testing.T) {
	if got := SamplesPerSecond('Z'); got != 1.0 {
		t.Errorf("SamplesPerSecond('Z') = %v, want 1", got)
	}
	if got := SamplesPerSecond('F'); got != 1000.0 {
		t.Errorf("SamplesPerSecond('F') = %v, want 1000", got)
	}
}
