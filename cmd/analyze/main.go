package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/detect"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/eval"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/logging"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/replay"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/state"
	"github.com/wstools/ws-analyzer/go-analyzer/internal/trace"
)

// #region main

func main() {
	_ = godotenv.Load()

	def := detect.DefaultConfig()
	file := flag.String("file", "", "trace file to analyze")
	format := flag.String("format", "ws", "trace format: ws | columns")
	series := flag.String("series", "data", "which column to analyze: data | insn")
	lag := flag.Int("lag", def.Lag, "smoothing horizon (window length)")
	factor := flag.Float64("threshold", def.Threshold, "sensitivity multiplier")
	influence := flag.Float64("influence", def.Influence, "peak damping weight in [0,1]")
	policy := flag.String("policy", string(def.Policy), "policy: windowed | exp-zscore | exp-hybrid")
	dbPath := flag.String("db", envOr("ANALYZER_DB", ""), "persist the run to this SQLite db")
	checkPages := flag.Float64("check-pages", 0, "validate summary against the page-ramp bounds for N pages")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze --file trace.log [--format ws|columns] [--series data|insn]")
		fmt.Fprintln(os.Stderr, "               [--lag N] [--threshold F] [--influence F] [--policy P]")
		fmt.Fprintln(os.Stderr, "               [--db path] [--check-pages N]")
		os.Exit(2)
	}

	os.Exit(run(log, *file, *format, *series, detect.Config{
		Lag:       *lag,
		Threshold: *factor,
		Influence: *influence,
		Policy:    detect.Policy(*policy),
	}, *dbPath, *checkPages))
}

// #endregion main

// #region run

func run(log zerolog.Logger, file, format, series string, config detect.Config, dbPath string, checkPages float64) int {
	tr, info, err := trace.ParseFile(file, format)
	if err != nil {
		log.Error().Err(err).Str("file", file).Msg("parse trace")
		return 1
	}
	if info.HeaderLine > 0 {
		log.Info().Int("line", info.HeaderLine).Msg("found WS data")
	}
	log.Info().Int("lines", info.Lines).Int("points", len(tr.Points)).
		Int("skipped", info.Skipped).Msg("parsed trace")

	samples := tr.DataSeries()
	if series == "insn" {
		samples = tr.InsnSeries()
	}

	outcomes, summary, err := replay.Run(samples, config)
	if err != nil {
		log.Error().Err(err).Msg("run detector")
		return 1
	}

	printPeaks(tr, replay.Peaks(outcomes))
	printSummary(series, summary)

	exitCode := 0
	decision, reason := "recorded", ""
	if checkPages > 0 {
		result := eval.NewCheckHarness(eval.PageRampConfig(checkPages)).Run(summary)
		decision, reason = "pass", result.Reason
		if !result.Passed {
			decision = "fail"
			exitCode = 1
		}
		for _, m := range result.Metrics {
			status := "ok"
			if !m.Pass {
				status = "FAIL"
			}
			fmt.Printf("check %-12s %12.4f  %s\n", m.Name, m.Value, status)
		}
		fmt.Printf("checks: %s\n", result.Reason)
	}

	if dbPath != "" {
		var peaks []state.PeakRecord
		for _, o := range replay.Peaks(outcomes) {
			var t int64
			if o.Index < len(tr.Points) {
				t = tr.Points[o.Index].T
			}
			peaks = append(peaks, state.PeakRecord{
				SampleIndex: o.Index,
				T:           t,
				Value:       o.Value,
				Signal:      o.Signal.String(),
				Mean:        o.Mean,
				Variance:    o.Variance,
			})
		}
		if err := persist(file, series, config, samples, peaks, summary, dbPath, decision, reason); err != nil {
			log.Error().Err(err).Msg("persist run")
			return 1
		}
		log.Info().Str("db", dbPath).Msg("run persisted")
	}
	return exitCode
}

// #endregion run

// #region output

func printPeaks(tr *trace.Trace, peaks []replay.Outcome) {
	if len(peaks) == 0 {
		fmt.Println("no peaks detected")
		return
	}
	fmt.Printf("%-8s| %-12s| %-14s| %-14s| %s\n", "idx", "t", "value", "baseline", "signal")
	for _, p := range peaks {
		var t int64
		if p.Index < len(tr.Points) {
			t = tr.Points[p.Index].T
		}
		fmt.Printf("%-8d| %-12d| %-14s| %-14s| %s\n",
			p.Index, t,
			humanize.CommafWithDigits(p.Value, 1),
			humanize.CommafWithDigits(p.Mean, 1),
			p.Signal)
	}
}

func printSummary(series string, summary replay.Summary) {
	label := "Data"
	if series == "insn" {
		label = "Insn"
	}
	fmt.Printf("%s WSS avg/var/peak: %s/%s/%s\n", label,
		humanize.CommafWithDigits(summary.Avg, 1),
		humanize.CommafWithDigits(summary.Variance, 1),
		humanize.CommafWithDigits(summary.Peak, 1))
	fmt.Printf("samples: %s (%d skipped), peaks: %d positive, %d negative\n",
		humanize.Comma(int64(summary.Total)), summary.Skipped,
		summary.Positive, summary.Negative)
}

// #endregion output

// #region persist

func persist(file, series string, config detect.Config, samples []float64,
	peaks []state.PeakRecord, summary replay.Summary, dbPath, decision, reason string) error {

	store, err := state.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	configJSON, err := json.Marshal(replay.FromDetectorConfig(config))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	rec := state.RunRecord{
		RunID:       uuid.New().String(),
		Source:      file,
		Series:      series,
		ConfigJSON:  string(configJSON),
		SummaryJSON: string(summaryJSON),
		Samples:     samples,
		CreatedAt:   time.Now().UTC(),
	}
	for i := range peaks {
		peaks[i].RunID = rec.RunID
	}

	if err := store.SaveRun(rec, peaks); err != nil {
		return err
	}
	return logging.LogRun(store.DB(), logging.RunEntry{
		RunID:       rec.RunID,
		TriggerType: "analyze",
		ConfigJSON:  rec.ConfigJSON,
		SummaryJSON: rec.SummaryJSON,
		Decision:    decision,
		Reason:      reason,
	})
}

// #endregion persist

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
