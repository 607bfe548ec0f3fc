package eval

// #region check-config
// CheckConfig holds the acceptance bounds for a run summary. A bound pair
// with Max == 0 disables that check. Stddev bounds apply to the square root
// of the summary variance.
type CheckConfig struct {
	MinAvg    float64
	MaxAvg    float64
	MinPeak   float64
	MaxPeak   float64
	MinStddev float64
	MaxStddev float64
}

// PageRampConfig returns the bounds the page-ramp workload is expected to
// satisfy for a given page count: the ramp averages a bit over half its
// span, peaks at the full span, and its spread sits near a quarter of it.
func PageRampConfig(maxPages float64) CheckConfig {
	return CheckConfig{
		MinAvg:    0.5 * maxPages,
		MaxAvg:    0.7 * maxPages,
		MinPeak:   maxPages,
		MaxPeak:   1.1 * maxPages,
		MinStddev: 0.2 * maxPages,
		MaxStddev: 0.3 * maxPages,
	}
}

// #endregion check-config

// #region check-metric
// CheckMetric captures a single bounds check result.
type CheckMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion check-metric

// #region check-result
// CheckResult is the output of run validation.
type CheckResult struct {
	Passed  bool
	Metrics []CheckMetric
	Reason  string
}

// #endregion check-result
