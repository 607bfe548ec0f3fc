package trace

// #region point
// Point is one row of a working-set-size trace: a time index plus the
// instruction-page and data-page working-set sizes at that instant.
type Point struct {
	T    int64
	Insn float64
	Data float64
}

// #endregion point

// #region trace
// Trace is an ordered working-set-size time series.
type Trace struct {
	Points []Point
}

// InsnSeries returns the instruction working-set values in arrival order.
func (tr *Trace) InsnSeries() []float64 {
	out := make([]float64, len(tr.Points))
	for i, p := range tr.Points {
		out[i] = p.Insn
	}
	return out
}

// DataSeries returns the data working-set values in arrival order.
func (tr *Trace) DataSeries() []float64 {
	out := make([]float64, len(tr.Points))
	for i, p := range tr.Points {
		out[i] = p.Data
	}
	return out
}

// #endregion trace
