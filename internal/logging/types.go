package logging

import "time"

// #region run-entry
// RunEntry is a single row in the run_log table: which run was produced,
// what triggered it, the config/summary snapshots, and the check decision.
type RunEntry struct {
	RunID       string
	TriggerType string // "analyze" | "replay" | "fixture"
	ConfigJSON  string
	SummaryJSON string
	Decision    string // "pass" | "fail" | "recorded"
	Reason      string
	CreatedAt   time.Time
}

// #endregion run-entry
