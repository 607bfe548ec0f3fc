package threshold

import "math"

// #region model
// Model computes the admission band outside of which a sample is flagged as
// a peak. Pure function of the current estimates.
type Model interface {
	// Threshold returns the non-negative band half-width for the given
	// mean and variance.
	Threshold(mean, variance float64) float64
}

// #endregion model

// #region zscore
// ZScore flags a sample when it deviates from the mean by more than
// Factor standard deviations.
type ZScore struct {
	Factor float64
}

// Threshold returns Factor * sqrt(variance).
func (z ZScore) Threshold(mean, variance float64) float64 {
	if variance < 0 {
		variance = 0
	}
	return z.Factor * math.Sqrt(variance)
}

// #endregion zscore

// #region hybrid
// Hybrid blends a variance-driven and a mean-driven threshold according to
// the stream's dispersion ratio (variance over mean). A steady low-variance
// signal collapses a pure variance threshold toward 0 and fires on noise;
// the mean-based floor keeps quiet signals quiet without losing sensitivity
// on bursty ones. Unlike ZScore this model compares against the variance
// itself, not its square root; the two comparison semantics are intentionally
// independent.
type Hybrid struct {
	Factor float64
}

// Threshold returns the blended band half-width.
// With mean <= 0 the dispersion ratio is undefined and the coefficient
// defaults to fully variance-driven.
func (h Hybrid) Threshold(mean, variance float64) float64 {
	if variance < 0 {
		variance = 0
	}
	coeff := 1.0
	if mean > 0 {
		fano := variance / mean
		coeff = 1 - math.Exp(-fano/2)
	}
	return coeff*h.Factor*variance + (1-coeff)*(h.Factor/10)*mean
}

// #endregion hybrid
