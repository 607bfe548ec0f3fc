package stats

// #region estimator
// Estimator maintains running mean and variance estimates over a stream of
// filtered values, one value per call, in arrival order.
type Estimator interface {
	// Update absorbs one value and returns the new (mean, variance).
	// Variance is never negative.
	Update(value float64) (mean, variance float64)

	// Mean returns the current mean estimate without absorbing a value.
	Mean() float64

	// Variance returns the current variance estimate without absorbing a value.
	Variance() float64

	// Count returns the number of values absorbed so far.
	Count() int
}

// #endregion estimator
