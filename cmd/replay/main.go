package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/detect"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/replay"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/state"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	dbPath := flag.String("db", "", "path to analyzer db (DB mode)")
	runID := flag.String("run", "", "run ID to replay (DB mode)")
	flag.Parse()

	fixtureMode := *fixturePath != ""
	dbMode := *dbPath != "" && *runID != ""
	if fixtureMode == dbMode {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --db path/to/analyzer.db --run <id>")
		os.Exit(2)
	}

	var exitCode int
	if fixtureMode {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *runID)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	outcomes, summary, err := replay.Run(f.Stream, f.Config.ToDetectorConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "run fixture: %v\n", err)
		return 2
	}

	if len(f.ExpectedSignals) == 0 {
		// No expectations recorded: just report what the detector saw.
		for _, o := range replay.Peaks(outcomes) {
			fmt.Printf("sample %d: %s (value %.4f, baseline %.4f)\n",
				o.Index, o.Signal, o.Value, o.Mean)
		}
		fmt.Printf("\n%d samples, %d positive, %d negative\n",
			summary.Total, summary.Positive, summary.Negative)
		return 0
	}

	expected := make([]detect.Signal, len(outcomes))
	for i, o := range outcomes {
		sig, err := replay.ParseSignal(f.ExpectedSignals[o.Index])
		if err != nil {
			fmt.Fprintf(os.Stderr, "fixture signal %d: %v\n", o.Index, err)
			return 2
		}
		expected[i] = sig
	}
	return printComparison(outcomes, expected)
}

// #endregion fixture-mode

// #region db-mode

func runDBMode(dbPath, runID string) int {
	store, err := state.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	rec, err := store.GetRun(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get run: %v\n", err)
		return 2
	}
	storedPeaks, err := store.GetPeaks(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get peaks: %v\n", err)
		return 2
	}

	var fc replay.FixtureConfig
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &fc); err != nil {
		fmt.Fprintf(os.Stderr, "parse stored config: %v\n", err)
		return 2
	}

	outcomes, _, err := replay.Run(rec.Samples, fc.ToDetectorConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay run: %v\n", err)
		return 2
	}

	// Identical configuration over identical samples must reproduce the
	// stored peak set exactly.
	expected := make([]detect.Signal, len(outcomes))
	byIndex := make(map[int]detect.Signal, len(storedPeaks))
	for _, p := range storedPeaks {
		sig, err := replay.ParseSignal(p.Signal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stored peak %d: %v\n", p.SampleIndex, err)
			return 2
		}
		byIndex[p.SampleIndex] = sig
	}
	for i, o := range outcomes {
		expected[i] = byIndex[o.Index]
	}
	return printComparison(outcomes, expected)
}

// #endregion db-mode

// #region output

// printComparison outputs a per-peak comparison table and returns the exit
// code: 0 when every sample matches, 1 on divergence. Quiet samples that
// match are summarized, not listed.
func printComparison(outcomes []replay.Outcome, expected []detect.Signal) int {
	fmt.Printf("%-8s| %-15s| %-15s| %s\n", "sample", "expected", "replayed", "match")
	fmt.Printf("%-8s+%-16s+%-16s+%s\n", "--------", "----------------", "----------------", "------")

	matches := 0
	for i, o := range outcomes {
		match := o.Signal == expected[i]
		if match {
			matches++
		}
		if !match || o.Signal != detect.NoSignal {
			status := "DIFF"
			if match {
				status = "OK"
			}
			fmt.Printf("%-8d| %-15s| %-15s| %s\n", o.Index, expected[i], o.Signal, status)
		}
	}

	diverge := len(outcomes) - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", len(outcomes), matches, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion output
