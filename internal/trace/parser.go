package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// #region parse-info
// ParseInfo reports what the parser saw, for progress logging.
type ParseInfo struct {
	Lines      int // total lines read
	HeaderLine int // 1-based line of the table header, 0 if bare mode
	Skipped    int // non-matching or non-finite lines inside the table
}

// #endregion parse-info

// #region ws-format

var wsTableRow = regexp.MustCompile(`^[\s\t]*(\d+)[\s\t]+(\d+)[\s\t]+(\d+)[\s\t]*$`)

// ParseWS reads the profiler's report format: everything up to the
// "Working sets:" header is preamble, then whitespace-separated rows of
// t/insn-pages/data-pages. Rows that stop matching are skipped, so the
// trailing summary section of a report never pollutes the series.
func ParseWS(r io.Reader) (*Trace, ParseInfo, error) {
	var tr Trace
	var info ParseInfo

	inside := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		info.Lines++
		line := scanner.Text()
		if !inside {
			if strings.HasPrefix(line, "Working sets:") {
				inside = true
				info.HeaderLine = info.Lines
			}
			continue
		}
		m := wsTableRow.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) != "" {
				info.Skipped++
			}
			continue
		}
		t, _ := strconv.ParseInt(m[1], 10, 64)
		insn, _ := strconv.ParseFloat(m[2], 64)
		data, _ := strconv.ParseFloat(m[3], 64)
		tr.Points = append(tr.Points, Point{T: t, Insn: insn, Data: data})
	}
	if err := scanner.Err(); err != nil {
		return nil, info, fmt.Errorf("read trace: %w", err)
	}
	if !inside {
		return nil, info, fmt.Errorf("no %q section found in %d lines", "Working sets:", info.Lines)
	}
	return &tr, info, nil
}

// #endregion ws-format

// #region columns-format

// ParseColumns reads a bare three-column trace (t insn data) with no
// preamble. Blank lines and '#' comments are ignored; malformed rows and
// rows carrying non-finite values are skipped and counted, never passed on.
func ParseColumns(r io.Reader) (*Trace, ParseInfo, error) {
	var tr Trace
	var info ParseInfo

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		info.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			info.Skipped++
			continue
		}
		t, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			info.Skipped++
			continue
		}
		insn, err1 := strconv.ParseFloat(fields[1], 64)
		data, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || !finite(insn) || !finite(data) {
			info.Skipped++
			continue
		}
		tr.Points = append(tr.Points, Point{T: t, Insn: insn, Data: data})
	}
	if err := scanner.Err(); err != nil {
		return nil, info, fmt.Errorf("read trace: %w", err)
	}
	return &tr, info, nil
}

// #endregion columns-format

// #region file

// ParseFile opens path and parses it with the given format, "ws" or
// "columns".
func ParseFile(path, format string) (*Trace, ParseInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseInfo{}, fmt.Errorf("open trace %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case "ws":
		return ParseWS(f)
	case "columns":
		return ParseColumns(f)
	default:
		return nil, ParseInfo{}, fmt.Errorf("unknown trace format %q", format)
	}
}

// #endregion file

// #region helpers

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// #endregion helpers
