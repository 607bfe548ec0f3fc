package state

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	series        TEXT NOT NULL,
	config_json   TEXT NOT NULL,
	summary_json  TEXT,
	samples       BLOB NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS peaks (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	sample_index  INTEGER NOT NULL,
	t             INTEGER,
	value         REAL NOT NULL,
	signal        TEXT NOT NULL,
	mean          REAL,
	variance      REAL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS run_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	trigger_type  TEXT NOT NULL,
	config_json   TEXT,
	summary_json  TEXT,
	decision      TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// #endregion schema

// #region store-struct
// Store manages persisted detection runs in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save-run
// SaveRun inserts a run and its peaks atomically.
func (s *Store) SaveRun(rec RunRecord, peaks []PeakRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, source, series, config_json, summary_json, samples, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Source, rec.Series, rec.ConfigJSON,
		nullIfEmpty(rec.SummaryJSON), encodeSamples(rec.Samples),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range peaks {
		_, err = tx.Exec(
			`INSERT INTO peaks (run_id, sample_index, t, value, signal, mean, variance)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, p.SampleIndex, p.T, p.Value, p.Signal, p.Mean, p.Variance,
		)
		if err != nil {
			return fmt.Errorf("insert peak %d: %w", p.SampleIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save-run

// #region get-run
// GetRun retrieves a run by ID, including its sample stream.
func (s *Store) GetRun(id string) (RunRecord, error) {
	var rec RunRecord
	var summaryJSON sql.NullString
	var blob []byte
	var createdStr string

	err := s.db.QueryRow(
		`SELECT run_id, source, series, config_json, summary_json, samples, created_at
		 FROM runs WHERE run_id = ?`, id,
	).Scan(&rec.RunID, &rec.Source, &rec.Series, &rec.ConfigJSON, &summaryJSON, &blob, &createdStr)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}

	if summaryJSON.Valid {
		rec.SummaryJSON = summaryJSON.String
	}
	rec.Samples = decodeSamples(blob)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// #endregion get-run

// #region get-peaks
// GetPeaks returns the peaks of a run in sample order.
func (s *Store) GetPeaks(runID string) ([]PeakRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, sample_index, t, value, signal, mean, variance
		 FROM peaks WHERE run_id = ? ORDER BY sample_index ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get peaks %s: %w", runID, err)
	}
	defer rows.Close()

	var peaks []PeakRecord
	for rows.Next() {
		var p PeakRecord
		if err := rows.Scan(&p.RunID, &p.SampleIndex, &p.T, &p.Value, &p.Signal, &p.Mean, &p.Variance); err != nil {
			return nil, fmt.Errorf("scan peak: %w", err)
		}
		peaks = append(peaks, p)
	}
	return peaks, rows.Err()
}

// #endregion get-peaks

// #region list-runs
// ListRuns returns the most recent runs, newest first, without their
// sample streams.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, source, series, config_json, summary_json, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var summaryJSON sql.NullString
		var createdStr string
		if err := rows.Scan(&rec.RunID, &rec.Source, &rec.Series, &rec.ConfigJSON, &summaryJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if summaryJSON.Valid {
			rec.SummaryJSON = summaryJSON.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-runs

// #region sample-encoding
func encodeSamples(samples []float64) []byte {
	buf := make([]byte, len(samples)*8)
	for i, f := range samples {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeSamples(b []byte) []float64 {
	samples := make([]float64, len(b)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return samples
}

// #endregion sample-encoding

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
