package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/logging"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/replay"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/state"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to analyzer db")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show single run detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/analyzer.db [--last N] [--run id] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *runID != "" {
		err = runDetailMode(store, *runID, *jsonOut)
	} else {
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID     string  `json:"run_id"`
	Source    string  `json:"source"`
	Series    string  `json:"series"`
	Samples   int     `json:"samples"`
	Positive  int     `json:"positive"`
	Negative  int     `json:"negative"`
	Avg       float64 `json:"avg"`
	Peak      float64 `json:"peak"`
	CreatedAt string  `json:"created_at"`
}

func runListMode(store *state.Store, last int, jsonOut bool) error {
	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]listRow, len(runs))
	for i, r := range runs {
		var summary replay.Summary
		if r.SummaryJSON != "" {
			_ = json.Unmarshal([]byte(r.SummaryJSON), &summary)
		}
		rows[i] = listRow{
			RunID:     r.RunID,
			Source:    r.Source,
			Series:    r.Series,
			Samples:   summary.Total,
			Positive:  summary.Positive,
			Negative:  summary.Negative,
			Avg:       summary.Avg,
			Peak:      summary.Peak,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Printf("%-38s| %-20s| %-6s| %8s| %5s| %5s| %10s| %10s\n",
		"run", "source", "series", "samples", "pos", "neg", "avg", "peak")
	for _, row := range rows {
		fmt.Printf("%-38s| %-20s| %-6s| %8d| %5d| %5d| %10.1f| %10.1f\n",
			row.RunID, row.Source, row.Series, row.Samples,
			row.Positive, row.Negative, row.Avg, row.Peak)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOut struct {
	Run   listRow       `json:"run"`
	Peaks []peakOut     `json:"peaks"`
	Log   []logEntryOut `json:"log"`
}

type peakOut struct {
	SampleIndex int     `json:"sample_index"`
	T           int64   `json:"t"`
	Value       float64 `json:"value"`
	Signal      string  `json:"signal"`
	Mean        float64 `json:"mean"`
	Variance    float64 `json:"variance"`
}

type logEntryOut struct {
	TriggerType string `json:"trigger_type"`
	Decision    string `json:"decision"`
	Reason      string `json:"reason,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func runDetailMode(store *state.Store, runID string, jsonOut bool) error {
	rec, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	peaks, err := store.GetPeaks(runID)
	if err != nil {
		return err
	}
	entries, err := logging.ListEntries(store.DB(), runID)
	if err != nil {
		return err
	}

	var summary replay.Summary
	if rec.SummaryJSON != "" {
		_ = json.Unmarshal([]byte(rec.SummaryJSON), &summary)
	}

	if jsonOut {
		out := detailOut{
			Run: listRow{
				RunID:     rec.RunID,
				Source:    rec.Source,
				Series:    rec.Series,
				Samples:   summary.Total,
				Positive:  summary.Positive,
				Negative:  summary.Negative,
				Avg:       summary.Avg,
				Peak:      summary.Peak,
				CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
			},
		}
		for _, p := range peaks {
			out.Peaks = append(out.Peaks, peakOut{
				SampleIndex: p.SampleIndex,
				T:           p.T,
				Value:       p.Value,
				Signal:      p.Signal,
				Mean:        p.Mean,
				Variance:    p.Variance,
			})
		}
		for _, e := range entries {
			out.Log = append(out.Log, logEntryOut{
				TriggerType: e.TriggerType,
				Decision:    e.Decision,
				Reason:      e.Reason,
				CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("run %s\n", rec.RunID)
	fmt.Printf("  source: %s (%s series), %d samples\n", rec.Source, rec.Series, len(rec.Samples))
	fmt.Printf("  config: %s\n", rec.ConfigJSON)
	fmt.Printf("  avg/var/peak: %.1f/%.1f/%.1f\n", summary.Avg, summary.Variance, summary.Peak)

	if len(peaks) == 0 {
		fmt.Println("  no peaks")
	}
	for _, p := range peaks {
		fmt.Printf("  peak @%d t=%d value=%.1f baseline=%.1f %s\n",
			p.SampleIndex, p.T, p.Value, p.Mean, p.Signal)
	}

	for _, e := range entries {
		fmt.Printf("  log %s: %s %s\n", e.TriggerType, e.Decision, e.Reason)
	}
	return nil
}

// #endregion detail-mode
