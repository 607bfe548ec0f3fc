package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-run
// LogRun writes a provenance entry to the run_log table.
func LogRun(db *sql.DB, entry RunEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO run_log (run_id, trigger_type, config_json, summary_json, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.TriggerType,
		nullIfEmpty(entry.ConfigJSON),
		nullIfEmpty(entry.SummaryJSON),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log run: %w", err)
	}
	return nil
}

// #endregion log-run

// #region list-entries
// ListEntries returns the run_log rows for one run, oldest first.
func ListEntries(db *sql.DB, runID string) ([]RunEntry, error) {
	rows, err := db.Query(
		`SELECT run_id, trigger_type, config_json, summary_json, decision, reason, created_at
		 FROM run_log WHERE run_id = ? ORDER BY created_at ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run log: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var configJSON, summaryJSON, reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.RunID, &e.TriggerType, &configJSON, &summaryJSON, &e.Decision, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run log: %w", err)
		}
		e.ConfigJSON = configJSON.String
		e.SummaryJSON = summaryJSON.String
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list-entries

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
