package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/replay"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/state"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to analyzer db")
	runID := flag.String("run", "", "run ID to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *runID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --run <id> --out path/to/fixture.json")
		os.Exit(2)
	}

	if err := run(*dbPath, *runID, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run exports a stored run as a replay fixture: the persisted samples and
// config, with expected signals regenerated by a fresh detector pass. The
// detector is deterministic, so the regenerated signals are the recorded
// behavior and the fixture pins it for regression runs.
func run(dbPath, runID, outPath string) error {
	store, err := state.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	rec, err := store.GetRun(runID)
	if err != nil {
		return err
	}

	var fc replay.FixtureConfig
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &fc); err != nil {
		return fmt.Errorf("parse stored config: %w", err)
	}

	outcomes, _, err := replay.Run(rec.Samples, fc.ToDetectorConfig())
	if err != nil {
		return fmt.Errorf("replay run: %w", err)
	}

	expected := make([]string, len(rec.Samples))
	for i := range expected {
		expected[i] = "no_signal"
	}
	for _, o := range outcomes {
		expected[o.Index] = o.Signal.String()
	}

	fixture := replay.Fixture{
		Description:     fmt.Sprintf("exported from run %s (%s, %s series)", rec.RunID, rec.Source, rec.Series),
		Config:          fc,
		Stream:          rec.Samples,
		ExpectedSignals: expected,
	}

	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", outPath, err)
	}

	fmt.Printf("exported %d samples, %d expected signals to %s\n",
		len(fixture.Stream), len(fixture.ExpectedSignals), outPath)
	return nil
}

// #endregion export
