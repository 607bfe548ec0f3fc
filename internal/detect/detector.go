package detect

import (
	"fmt"
	"math"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/stats"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/threshold"
)

// #region detector
// Detector consumes a scalar stream one sample at a time and classifies each
// sample against an adaptive baseline, using only past samples. Peaks are
// damped before they reach the estimator so a genuine anomaly at sample k
// does not corrupt the baseline used at sample k+1.
//
// A Detector is exclusively owned by the loop driving it; one instance per
// stream, no sharing.
type Detector struct {
	config       Config
	estimator    stats.Estimator
	model        threshold.Model
	warmup       int
	count        int
	prevFiltered float64
}

// New validates config and builds a detector. Fails wrapping
// ErrInvalidConfig on out-of-range parameters.
func New(config Config) (*Detector, error) {
	if config.Lag < 1 {
		return nil, fmt.Errorf("%w: lag must be >= 1, got %d", ErrInvalidConfig, config.Lag)
	}
	if !(config.Threshold > 0) || math.IsInf(config.Threshold, 0) {
		return nil, fmt.Errorf("%w: threshold must be > 0, got %g", ErrInvalidConfig, config.Threshold)
	}
	if !(config.Influence >= 0 && config.Influence <= 1) {
		return nil, fmt.Errorf("%w: influence must be in [0,1], got %g", ErrInvalidConfig, config.Influence)
	}

	d := &Detector{config: config}
	switch config.Policy {
	case PolicyWindowed:
		d.estimator = stats.NewWindowed(config.Lag)
		d.model = threshold.ZScore{Factor: config.Threshold}
		d.warmup = config.Lag
	case PolicyExpZScore:
		d.estimator = stats.NewExponential(config.Lag)
		d.model = threshold.ZScore{Factor: config.Threshold}
		d.warmup = 1
	case PolicyExpHybrid:
		d.estimator = stats.NewExponential(config.Lag)
		d.model = threshold.Hybrid{Factor: config.Threshold}
		d.warmup = 1
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, config.Policy)
	}
	return d, nil
}

// #endregion detector

// #region step

// Step classifies one sample and mutates the detector state. Warm-up samples
// classify as NoSignal and pass through unfiltered. Post-warm-up, the sample
// is tested against the threshold computed from the statistics as they stood
// before this sample; peak samples are damped toward the previous filtered
// value before feeding the estimator.
//
// Non-finite input is a contract violation of the upstream adapter; callers
// must reject NaN/Inf at the boundary.
func (d *Detector) Step(sample float64) Result {
	if d.count < d.warmup {
		mean, variance := d.estimator.Update(sample)
		d.prevFiltered = sample
		d.count++
		return Result{Signal: NoSignal, Filtered: sample, Mean: mean, Variance: variance}
	}

	mean := d.estimator.Mean()
	variance := d.estimator.Variance()
	band := d.model.Threshold(mean, variance)

	signal := NoSignal
	filtered := sample
	if math.Abs(sample-mean) > band {
		if sample > mean {
			signal = PositivePeak
		} else {
			signal = NegativePeak
		}
		filtered = d.config.Influence*sample + (1-d.config.Influence)*d.prevFiltered
	}

	newMean, newVariance := d.estimator.Update(filtered)
	d.prevFiltered = filtered
	d.count++
	return Result{Signal: signal, Filtered: filtered, Mean: newMean, Variance: newVariance}
}

// #endregion step

// #region accessors

// Warming reports whether the detector is still inside its warm-up horizon.
func (d *Detector) Warming() bool { return d.count < d.warmup }

// Count returns the number of samples processed so far.
func (d *Detector) Count() int { return d.count }

// Mean returns the current baseline mean estimate.
func (d *Detector) Mean() float64 { return d.estimator.Mean() }

// Variance returns the current baseline variance estimate.
func (d *Detector) Variance() float64 { return d.estimator.Variance() }

// Config returns the construction-time configuration.
func (d *Detector) Config() Config { return d.config }

// #endregion accessors
