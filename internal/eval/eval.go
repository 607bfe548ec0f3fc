package eval

import (
	"fmt"
	"math"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/replay"
)

// #region check-harness
// CheckHarness validates a run summary against configured bounds.
type CheckHarness struct {
	config CheckConfig
}

// NewCheckHarness creates a harness with the given bounds.
func NewCheckHarness(config CheckConfig) *CheckHarness {
	return &CheckHarness{config: config}
}

// Run checks the summary statistics: average, peak, and stddev windows,
// plus the structural relation that the peak can never fall below the
// average. Returns pass/fail with per-check metrics.
func (h *CheckHarness) Run(summary replay.Summary) CheckResult {
	var metrics []CheckMetric
	passed := true
	var failReasons []string

	inBounds := func(name string, value, min, max float64) {
		if max == 0 {
			return
		}
		ok := value >= min && value <= max
		metrics = append(metrics, CheckMetric{Name: name, Value: value, Pass: ok})
		if !ok {
			passed = false
			failReasons = append(failReasons,
				fmt.Sprintf("%s %.4f outside [%.4f, %.4f]", name, value, min, max))
		}
	}

	inBounds("avg", summary.Avg, h.config.MinAvg, h.config.MaxAvg)
	inBounds("peak", summary.Peak, h.config.MinPeak, h.config.MaxPeak)
	inBounds("stddev", math.Sqrt(summary.Variance), h.config.MinStddev, h.config.MaxStddev)

	relOK := summary.Peak >= summary.Avg
	metrics = append(metrics, CheckMetric{Name: "peak_vs_avg", Value: summary.Peak - summary.Avg, Pass: relOK})
	if !relOK {
		passed = false
		failReasons = append(failReasons,
			fmt.Sprintf("peak %.4f below avg %.4f", summary.Peak, summary.Avg))
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("check failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("check failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return CheckResult{Passed: passed, Metrics: metrics, Reason: reason}
}

// #endregion check-harness
