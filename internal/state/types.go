package state

import "time"

// #region run-record
// RunRecord is one persisted detection run: the source trace, the detector
// configuration and summary as JSON snapshots, and the raw sample stream so
// the run can be replayed bit-for-bit later.
type RunRecord struct {
	RunID       string
	Source      string // trace path, or "fixture:<path>"
	Series      string // which column was analyzed: "data" | "insn" | "stream"
	ConfigJSON  string
	SummaryJSON string
	Samples     []float64
	CreatedAt   time.Time
}

// #endregion run-record

// #region peak-record
// PeakRecord is one detected peak within a run.
type PeakRecord struct {
	RunID       string
	SampleIndex int
	T           int64
	Value       float64
	Signal      string // "positive_peak" | "negative_peak"
	Mean        float64
	Variance    float64
}

// #endregion peak-record
