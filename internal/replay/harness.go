package replay

import (
	"math"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/detect"
)

// #region types
// Outcome captures the detector output for a single sample of a run.
type Outcome struct {
	Index    int
	Value    float64
	Signal   detect.Signal
	Filtered float64
	Mean     float64
	Variance float64
}

// Summary aggregates a whole run: signal counts plus the raw-stream
// average, population variance, and peak value, the quantities the
// profiler itself reports as "avg/var/peak".
type Summary struct {
	Total    int `json:"total"`
	Quiet    int `json:"quiet"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Skipped  int `json:"skipped"`

	Avg      float64 `json:"avg"`
	Variance float64 `json:"variance"`
	Peak     float64 `json:"peak"`
}

// #endregion types

// #region run
// Run drives one detector over the sample stream in arrival order,
// returning the per-sample outcomes and the aggregate summary. Non-finite
// samples are a contract violation of the producing adapter; they are
// skipped before reaching the detector and counted in Summary.Skipped.
func Run(samples []float64, config detect.Config) ([]Outcome, Summary, error) {
	d, err := detect.New(config)
	if err != nil {
		return nil, Summary{}, err
	}

	outcomes := make([]Outcome, 0, len(samples))
	var summary Summary
	var sum, sumSq float64

	for i, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			summary.Skipped++
			continue
		}

		r := d.Step(x)
		outcomes = append(outcomes, Outcome{
			Index:    i,
			Value:    x,
			Signal:   r.Signal,
			Filtered: r.Filtered,
			Mean:     r.Mean,
			Variance: r.Variance,
		})

		summary.Total++
		switch r.Signal {
		case detect.PositivePeak:
			summary.Positive++
		case detect.NegativePeak:
			summary.Negative++
		default:
			summary.Quiet++
		}

		sum += x
		sumSq += x * x
		if summary.Total == 1 || x > summary.Peak {
			summary.Peak = x
		}
	}

	if summary.Total > 0 {
		n := float64(summary.Total)
		summary.Avg = sum / n
		summary.Variance = sumSq/n - summary.Avg*summary.Avg
		if summary.Variance < 0 {
			summary.Variance = 0
		}
	}
	return outcomes, summary, nil
}

// #endregion run

// #region peaks

// Peaks filters outcomes down to the classified peaks.
func Peaks(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Signal != detect.NoSignal {
			out = append(out, o)
		}
	}
	return out
}

// #endregion peaks
