package stats

// #region exponential
// Exponential maintains mean and variance incrementally with decay factor
// alpha = 2 / (lag + 1). The very first value initializes the mean directly
// and the variance to 0.
type Exponential struct {
	alpha    float64
	count    int
	mean     float64
	variance float64
}

// NewExponential creates an exponential estimator with smoothing horizon lag.
// lag must be >= 1.
func NewExponential(lag int) *Exponential {
	if lag < 1 {
		lag = 1
	}
	return &Exponential{alpha: 2.0 / (float64(lag) + 1.0)}
}

// #endregion exponential

// #region update

// Update absorbs one value. The variance is updated with the pre-update
// mean; variance before mean is the required order here, feeding the new
// mean into the variance term corrupts the estimate.
func (e *Exponential) Update(value float64) (float64, float64) {
	if e.count == 0 {
		e.mean = value
		e.variance = 0
		e.count = 1
		return e.mean, e.variance
	}
	d := value - e.mean
	e.variance = (1 - e.alpha) * (e.variance + e.alpha*d*d)
	if e.variance < 0 {
		e.variance = 0
	}
	e.mean = e.alpha*value + (1-e.alpha)*e.mean
	e.count++
	return e.mean, e.variance
}

// #endregion update

// #region accessors

// Mean returns the current smoothed mean.
func (e *Exponential) Mean() float64 { return e.mean }

// Variance returns the current smoothed variance.
func (e *Exponential) Variance() float64 { return e.variance }

// Count returns the number of values absorbed so far.
func (e *Exponential) Count() int { return e.count }

// Alpha returns the decay factor 2/(lag+1).
func (e *Exponential) Alpha() float64 { return e.alpha }

// #endregion accessors
