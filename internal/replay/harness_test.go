package replay

import (
	"math"
	"testing"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/detect"
)

func baselineSpikeStream() []float64 {
	s := make([]float64, 10)
	for i := range s {
		s[i] = 1
	}
	return append(s, 50)
}

func TestRunDetectsSpike(t *testing.T) {
	config := detect.Config{Lag: 5, Threshold: 5, Influence: 0, Policy: detect.PolicyExpZScore}
	outcomes, summary, err := Run(baselineSpikeStream(), config)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcomes) != 11 {
		t.Fatalf("outcomes: got %d, want 11", len(outcomes))
	}
	if summary.Total != 11 || summary.Positive != 1 || summary.Negative != 0 || summary.Quiet != 10 {
		t.Fatalf("summary counts: %+v", summary)
	}

	peaks := Peaks(outcomes)
	if len(peaks) != 1 {
		t.Fatalf("peaks: got %d, want 1", len(peaks))
	}
	if peaks[0].Index != 10 || peaks[0].Signal != detect.PositivePeak {
		t.Fatalf("peak: got %+v", peaks[0])
	}
	// influence=0: the spike never reaches the baseline
	if math.Abs(peaks[0].Mean-1) > 1e-9 {
		t.Fatalf("baseline after spike: got %f, want 1", peaks[0].Mean)
	}
}

func TestRunSkipsNonFinite(t *testing.T) {
	samples := []float64{1, 1, math.NaN(), 1, math.Inf(1), 1, math.Inf(-1), 1}
	config := detect.Config{Lag: 3, Threshold: 5, Influence: 0, Policy: detect.PolicyExpZScore}

	outcomes, summary, err := Run(samples, config)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 3 {
		t.Fatalf("skipped: got %d, want 3", summary.Skipped)
	}
	if summary.Total != 5 || len(outcomes) != 5 {
		t.Fatalf("total: got %d outcomes, summary %+v", len(outcomes), summary)
	}
	// Original arrival indices survive the skips.
	if outcomes[2].Index != 3 || outcomes[3].Index != 5 {
		t.Fatalf("indices: got %d and %d, want 3 and 5", outcomes[2].Index, outcomes[3].Index)
	}
	// The estimator never saw the poison values.
	if outcomes[4].Mean != 1 || outcomes[4].Variance != 0 {
		t.Fatalf("estimates poisoned: %+v", outcomes[4])
	}
}

func TestRunSummaryStatistics(t *testing.T) {
	samples := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	config := detect.Config{Lag: 4, Threshold: 10, Influence: 0, Policy: detect.PolicyWindowed}

	_, summary, err := Run(samples, config)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(summary.Avg-5) > 1e-9 {
		t.Fatalf("avg: got %f, want 5", summary.Avg)
	}
	if math.Abs(summary.Variance-4) > 1e-9 {
		t.Fatalf("variance: got %f, want 4", summary.Variance)
	}
	if summary.Peak != 9 {
		t.Fatalf("peak: got %f, want 9", summary.Peak)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	_, _, err := Run([]float64{1, 2, 3}, detect.Config{Lag: 0, Threshold: 5, Policy: detect.PolicyWindowed})
	if err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestRunDeterministic(t *testing.T) {
	samples := baselineSpikeStream()
	config := detect.Config{Lag: 5, Threshold: 5, Influence: 0.5, Policy: detect.PolicyExpHybrid}

	a, sa, _ := Run(samples, config)
	b, sb, _ := Run(samples, config)
	if sa != sb {
		t.Fatalf("summaries diverge: %+v vs %+v", sa, sb)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("outcome %d diverges: %+v vs %+v", i, a[i], b[i])
		}
	}
}
