package threshold

import (
	"math"
	"testing"
)

func TestZScoreThreshold(t *testing.T) {
	tests := []struct {
		name     string
		factor   float64
		mean     float64
		variance float64
		want     float64
	}{
		{"zero-variance", 5, 10, 0, 0},
		{"unit-variance", 5, 10, 1, 5},
		{"variance-four", 3, -2, 4, 6},
		{"mean-independent", 2, 1000, 9, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZScore{Factor: tt.factor}.Threshold(tt.mean, tt.variance)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Threshold: got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHybridVarianceOnlyBranch(t *testing.T) {
	h := Hybrid{Factor: 5}

	// mean <= 0: coefficient is fully variance-driven
	for _, mean := range []float64{0, -1, -100} {
		got := h.Threshold(mean, 2)
		want := 5.0 * 2.0
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("mean=%f: got %f, want %f", mean, got, want)
		}
	}
}

func TestHybridQuietSignalFloor(t *testing.T) {
	h := Hybrid{Factor: 5}

	// Zero variance, positive mean: fano=0, coeff=0, pure mean floor.
	got := h.Threshold(100, 0)
	want := (5.0 / 10.0) * 100.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("quiet floor: got %f, want %f", got, want)
	}
}

func TestHybridBlend(t *testing.T) {
	h := Hybrid{Factor: 2}
	mean, variance := 4.0, 8.0

	// fano = 2, coeff = 1 - exp(-1)
	coeff := 1 - math.Exp(-1)
	want := coeff*2*variance + (1-coeff)*(2.0/10.0)*mean

	got := h.Threshold(mean, variance)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("blend: got %f, want %f", got, want)
	}
}

func TestHybridCoefficientBounded(t *testing.T) {
	h := Hybrid{Factor: 1}

	// As dispersion grows the threshold approaches the pure variance term
	// from below; it never exceeds it for positive means.
	for _, variance := range []float64{0.1, 1, 10, 1e6} {
		got := h.Threshold(1, variance)
		if got > variance+0.1*1 {
			t.Fatalf("variance=%g: threshold %g above both terms", variance, got)
		}
		if got < 0 {
			t.Fatalf("variance=%g: negative threshold %g", variance, got)
		}
	}
}
