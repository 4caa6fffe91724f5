package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// maxBackoffStageLimit bounds cw_min << max_backoff_stage well inside int range.
const maxBackoffStageLimit = 20

// Scenario describes a parameter sweep, loadable from a YAML file.
// Every station count is simulated with the same seed, windows and timing.
type Scenario struct {
	Seed            int64        `yaml:"seed"`
	Samples         int          `yaml:"samples"`
	CWMin           int          `yaml:"cw_min"`
	MaxBackoffStage int          `yaml:"max_backoff_stage"`
	RTSCTS          bool         `yaml:"rts_cts"`
	StationCounts   []int        `yaml:"station_counts"`
	Timing          TimingConfig `yaml:"timing"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict field checking: typos must cause errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Samples == 0 {
		sc.Samples = DefaultSampleThreshold
	}
	if sc.Seed == 0 {
		sc.Seed = DefaultSeed
	}
	sc.Timing = sc.Timing.WithDefaults()
	return &sc, nil
}

// Validate checks windows, station counts and timing.
func (sc *Scenario) Validate() error {
	if sc.CWMin <= 0 {
		return fmt.Errorf("%w: cw_min must be positive, got %d", ErrInvalidConfig, sc.CWMin)
	}
	if sc.MaxBackoffStage < 0 || sc.MaxBackoffStage > maxBackoffStageLimit {
		return fmt.Errorf("%w: max_backoff_stage must be in [0, %d], got %d",
			ErrInvalidConfig, maxBackoffStageLimit, sc.MaxBackoffStage)
	}
	if sc.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, sc.Samples)
	}
	if len(sc.StationCounts) == 0 {
		return fmt.Errorf("%w: station_counts must not be empty", ErrInvalidConfig)
	}
	for _, n := range sc.StationCounts {
		if n <= 0 {
			return fmt.Errorf("%w: station count must be positive, got %d", ErrInvalidConfig, n)
		}
	}
	return sc.Timing.Validate()
}

// SimConfigs expands the scenario into one SimConfig per station count.
func (sc *Scenario) SimConfigs() []SimConfig {
	out := make([]SimConfig, 0, len(sc.StationCounts))
	for _, n := range sc.StationCounts {
		out = append(out, SimConfig{
			StationCount:    n,
			UseRTSCTS:       sc.RTSCTS,
			CWMin:           sc.CWMin,
			CWMax:           CWMaxForStage(sc.CWMin, sc.MaxBackoffStage),
			SampleThreshold: sc.Samples,
			Seed:            sc.Seed,
			Timing:          sc.Timing,
		})
	}
	return out
}
