package detect

import (
	"errors"
	"math"
	"testing"
)

func mustNew(t *testing.T, config Config) *Detector {
	t.Helper()
	d, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"zero-lag", Config{Lag: 0, Threshold: 5, Influence: 0, Policy: PolicyWindowed}},
		{"negative-lag", Config{Lag: -3, Threshold: 5, Influence: 0, Policy: PolicyWindowed}},
		{"zero-threshold", Config{Lag: 5, Threshold: 0, Influence: 0, Policy: PolicyWindowed}},
		{"negative-threshold", Config{Lag: 5, Threshold: -1, Influence: 0, Policy: PolicyWindowed}},
		{"nan-threshold", Config{Lag: 5, Threshold: math.NaN(), Influence: 0, Policy: PolicyWindowed}},
		{"influence-below", Config{Lag: 5, Threshold: 5, Influence: -0.1, Policy: PolicyWindowed}},
		{"influence-above", Config{Lag: 5, Threshold: 5, Influence: 1.1, Policy: PolicyWindowed}},
		{"nan-influence", Config{Lag: 5, Threshold: 5, Influence: math.NaN(), Policy: PolicyWindowed}},
		{"unknown-policy", Config{Lag: 5, Threshold: 5, Influence: 0, Policy: "median"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestWarmupSuppression(t *testing.T) {
	// Wild values inside the warm-up horizon must never classify as peaks.
	configs := []Config{
		{Lag: 5, Threshold: 5, Influence: 0, Policy: PolicyWindowed},
		{Lag: 5, Threshold: 5, Influence: 0, Policy: PolicyExpZScore},
		{Lag: 5, Threshold: 5, Influence: 0, Policy: PolicyExpHybrid},
	}

	for _, config := range configs {
		d := mustNew(t, config)
		warmup := 1
		if config.Policy == PolicyWindowed {
			warmup = config.Lag
		}
		samples := []float64{1, 100, -50, 7, 3}
		for i := 0; i < warmup; i++ {
			r := d.Step(samples[i%len(samples)])
			if r.Signal != NoSignal {
				t.Fatalf("%s: warm-up sample %d classified %s", config.Policy, i, r.Signal)
			}
			if r.Filtered != samples[i%len(samples)] {
				t.Fatalf("%s: warm-up sample %d filtered %f, want pass-through", config.Policy, i, r.Filtered)
			}
		}
		if d.Warming() {
			t.Fatalf("%s: still warming after %d samples", config.Policy, warmup)
		}
	}
}

func TestConstantStreamStaysQuiet(t *testing.T) {
	// For any constant stream the variance converges to 0 and every
	// post-warm-up sample classifies as NoSignal, regardless of magnitude.
	for _, policy := range []Policy{PolicyWindowed, PolicyExpZScore, PolicyExpHybrid} {
		for _, v := range []float64{0, 5, -3, 1e6} {
			d := mustNew(t, Config{Lag: 5, Threshold: 5, Influence: 0, Policy: policy})
			for i := 0; i < 50; i++ {
				r := d.Step(v)
				if r.Signal != NoSignal {
					t.Fatalf("%s v=%g: sample %d classified %s", policy, v, i, r.Signal)
				}
			}
			if d.Variance() != 0 {
				t.Fatalf("%s v=%g: variance %g, want 0", policy, v, d.Variance())
			}
		}
	}
}

func TestSinglePeakDetection(t *testing.T) {
	for _, policy := range []Policy{PolicyWindowed, PolicyExpZScore, PolicyExpHybrid} {
		t.Run(string(policy), func(t *testing.T) {
			up := mustNew(t, Config{Lag: 5, Threshold: 5, Influence: 0, Policy: policy})
			down := mustNew(t, Config{Lag: 5, Threshold: 5, Influence: 0, Policy: policy})

			for i := 0; i < 20; i++ {
				up.Step(10)
				down.Step(10)
			}

			if r := up.Step(10 + 1000); r.Signal != PositivePeak {
				t.Fatalf("spike up: got %s, want positive_peak", r.Signal)
			}
			if r := down.Step(10 - 1000); r.Signal != NegativePeak {
				t.Fatalf("spike down: got %s, want negative_peak", r.Signal)
			}
		})
	}
}

func TestRobustInfluenceZero(t *testing.T) {
	// With influence=0 an arbitrarily large outlier must leave the baseline
	// untouched: the filtered value fed back is the previous filtered value.
	d := mustNew(t, Config{Lag: 5, Threshold: 5, Influence: 0, Policy: PolicyExpZScore})
	for i := 0; i < 10; i++ {
		d.Step(3)
	}
	meanBefore, varBefore := d.Mean(), d.Variance()

	r := d.Step(1e12)
	if r.Signal != PositivePeak {
		t.Fatalf("outlier: got %s, want positive_peak", r.Signal)
	}
	if r.Filtered != 3 {
		t.Fatalf("filtered: got %f, want previous filtered value 3", r.Filtered)
	}
	if d.Mean() != meanBefore || d.Variance() != varBefore {
		t.Fatalf("baseline moved: mean %f->%f variance %f->%f",
			meanBefore, d.Mean(), varBefore, d.Variance())
	}
}

func TestReactiveInfluenceOne(t *testing.T) {
	d := mustNew(t, Config{Lag: 5, Threshold: 5, Influence: 1, Policy: PolicyExpZScore})
	for i := 0; i < 10; i++ {
		d.Step(3)
	}

	r := d.Step(500)
	if r.Signal != PositivePeak {
		t.Fatalf("outlier: got %s, want positive_peak", r.Signal)
	}
	if r.Filtered != 500 {
		t.Fatalf("filtered: got %f, want raw sample 500", r.Filtered)
	}
	if d.Mean() == 3 {
		t.Fatal("baseline did not absorb the peak")
	}
}

func TestDeterminism(t *testing.T) {
	config := Config{Lag: 8, Threshold: 4, Influence: 0.25, Policy: PolicyExpHybrid}
	a := mustNew(t, config)
	b := mustNew(t, config)

	// Deterministic pseudo-noisy stream with a few injected spikes.
	for i := 0; i < 200; i++ {
		x := 10 + math.Sin(float64(i))*0.5
		if i%47 == 0 {
			x += 80
		}
		ra, rb := a.Step(x), b.Step(x)
		if ra != rb {
			t.Fatalf("sample %d: %+v != %+v", i, ra, rb)
		}
	}
}

func TestBaselineSpikeScenario(t *testing.T) {
	// Stream [1 x10, 50], lag=5, exp-zscore, threshold=5, influence=0:
	// samples 0-9 quiet, sample 10 is a positive peak, and the mean stays
	// at the baseline instead of being pulled toward 50.
	d := mustNew(t, Config{Lag: 5, Threshold: 5, Influence: 0, Policy: PolicyExpZScore})

	for i := 0; i < 10; i++ {
		r := d.Step(1)
		if r.Signal != NoSignal {
			t.Fatalf("sample %d: got %s, want no_signal", i, r.Signal)
		}
	}

	r := d.Step(50)
	if r.Signal != PositivePeak {
		t.Fatalf("sample 10: got %s, want positive_peak", r.Signal)
	}
	if math.Abs(r.Mean-1) > 1e-9 {
		t.Fatalf("mean after spike: got %f, want to stay near 1", r.Mean)
	}
}

func TestSignalString(t *testing.T) {
	tests := []struct {
		signal Signal
		want   string
	}{
		{NoSignal, "no_signal"},
		{PositivePeak, "positive_peak"},
		{NegativePeak, "negative_peak"},
	}
	for _, tt := range tests {
		if got := tt.signal.String(); got != tt.want {
			t.Fatalf("String(%d): got %q, want %q", tt.signal, got, tt.want)
		}
	}
}
