package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wstools/ws-analyzer/go-analyzer/internal/detect"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: one sample
// stream, the detector configuration to run it with, and the expected
// per-sample signals.
type Fixture struct {
	Description     string        `json:"description"`
	Config          FixtureConfig `json:"config"`
	Stream          []float64     `json:"stream"`
	ExpectedSignals []string      `json:"expected_signals"`
}

// FixtureConfig mirrors detect.Config with JSON tags.
type FixtureConfig struct {
	Lag       int     `json:"lag"`
	Threshold float64 `json:"threshold"`
	Influence float64 `json:"influence"`
	Policy    string  `json:"policy"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.ExpectedSignals) > 0 && len(f.ExpectedSignals) != len(f.Stream) {
		return nil, fmt.Errorf("fixture %s: %d expected signals for %d samples",
			path, len(f.ExpectedSignals), len(f.Stream))
	}
	return &f, nil
}

// ToDetectorConfig converts a FixtureConfig to a domain detect.Config.
func (fc *FixtureConfig) ToDetectorConfig() detect.Config {
	return detect.Config{
		Lag:       fc.Lag,
		Threshold: fc.Threshold,
		Influence: fc.Influence,
		Policy:    detect.Policy(fc.Policy),
	}
}

// FromDetectorConfig converts a detect.Config to its fixture form.
func FromDetectorConfig(config detect.Config) FixtureConfig {
	return FixtureConfig{
		Lag:       config.Lag,
		Threshold: config.Threshold,
		Influence: config.Influence,
		Policy:    string(config.Policy),
	}
}

// #endregion fixture-loader

// #region signal-names

// ParseSignal maps the fixture signal name to its detect.Signal value.
func ParseSignal(name string) (detect.Signal, error) {
	switch name {
	case "no_signal":
		return detect.NoSignal, nil
	case "positive_peak":
		return detect.PositivePeak, nil
	case "negative_peak":
		return detect.NegativePeak, nil
	default:
		return detect.NoSignal, fmt.Errorf("unknown signal name %q", name)
	}
}

// #endregion signal-names
