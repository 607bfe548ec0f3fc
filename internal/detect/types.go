package detect

import "errors"

// #region signal
// Signal classifies one sample against the adaptive baseline.
type Signal int

const (
	NoSignal     Signal = 0
	PositivePeak Signal = 1
	NegativePeak Signal = -1
)

// String returns the stable textual form used in fixtures and run output.
func (s Signal) String() string {
	switch s {
	case PositivePeak:
		return "positive_peak"
	case NegativePeak:
		return "negative_peak"
	default:
		return "no_signal"
	}
}

// #endregion signal

// #region policy
// Policy selects the statistics and threshold strategy for a run.
type Policy string

const (
	// PolicyWindowed uses a sliding window of the last lag filtered values
	// with a z-score threshold.
	PolicyWindowed Policy = "windowed"

	// PolicyExpZScore uses exponential smoothing with a z-score threshold.
	PolicyExpZScore Policy = "exp-zscore"

	// PolicyExpHybrid uses exponential smoothing with the Fano-blended
	// variance/mean threshold.
	PolicyExpHybrid Policy = "exp-hybrid"
)

// #endregion policy

// #region config
// Config holds the immutable detector parameters, supplied at construction.
type Config struct {
	// Lag is the smoothing horizon: window length under PolicyWindowed,
	// decay horizon under the exponential policies. Must be >= 1.
	Lag int

	// Threshold is the sensitivity multiplier applied by the threshold
	// model. Must be > 0.
	Threshold float64

	// Influence is the peak-damping weight in [0, 1]. 0 keeps peaks out of
	// the baseline entirely; 1 absorbs them immediately.
	Influence float64

	// Policy selects the statistics/threshold strategy.
	Policy Policy
}

// DefaultConfig returns the parameters the original stream detector shipped
// with: a 30-sample window, 5 stddev sensitivity, fully robust damping.
func DefaultConfig() Config {
	return Config{
		Lag:       30,
		Threshold: 5,
		Influence: 0,
		Policy:    PolicyWindowed,
	}
}

// #endregion config

// #region result
// Result is the per-sample detector output. Mean and Variance are the
// post-update estimates, diagnostic only; Signal alone decides peaks.
type Result struct {
	Signal   Signal
	Filtered float64
	Mean     float64
	Variance float64
}

// #endregion result

// #region errors

// ErrInvalidConfig is wrapped by all construction failures.
var ErrInvalidConfig = errors.New("invalid detector configuration")

// #endregion errors
