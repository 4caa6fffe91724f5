package sim

import (
	"fmt"

	"github.com/inference-sim/dcf-sim/sim/trace"
)

// DefaultSampleThreshold is the number of completed attempts after which the
// first station to exceed it stops the run.
const DefaultSampleThreshold = 10000

// SimConfig groups every parameter of a single simulation run.
type SimConfig struct {
	StationCount    int          // number of contending stations (must be > 0)
	UseRTSCTS       bool         // RTS/CTS access instead of basic access
	CWMin           int          // initial contention window (must be > 0)
	CWMax           int          // saturated contention window (>= CWMin)
	SampleThreshold int          // attempts (successes + failures) that end the run
	Seed            int64        // master seed for all backoff draws
	Timing          TimingConfig // zero-valued fields fall back to defaults
	Trace           trace.TraceConfig
}

// NewSimConfig returns a config with default timing and sample threshold.
func NewSimConfig(stationCount int, useRTSCTS bool, cwMin, cwMax int) SimConfig {
	return SimConfig{
		StationCount:    stationCount,
		UseRTSCTS:       useRTSCTS,
		CWMin:           cwMin,
		CWMax:           cwMax,
		SampleThreshold: DefaultSampleThreshold,
		Timing:          DefaultTimingConfig(),
	}
}

// Validate checks station count, contention window bounds, threshold and timing.
func (c SimConfig) Validate() error {
	if c.StationCount <= 0 {
		return fmt.Errorf("%w: station count must be positive, got %d", ErrInvalidConfig, c.StationCount)
	}
	if c.CWMin <= 0 {
		return fmt.Errorf("%w: cw_min must be positive, got %d", ErrInvalidConfig, c.CWMin)
	}
	if c.CWMax < c.CWMin {
		return fmt.Errorf("%w: cw_max (%d) must be >= cw_min (%d)", ErrInvalidConfig, c.CWMax, c.CWMin)
	}
	if c.SampleThreshold <= 0 {
		return fmt.Errorf("%w: sample threshold must be positive, got %d", ErrInvalidConfig, c.SampleThreshold)
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, c.Trace.Level)
	}
	return c.Timing.WithDefaults().Validate()
}

// CWMaxForStage returns cwMin doubled maxBackoffStage times.
func CWMaxForStage(cwMin, maxBackoffStage int) int {
	return cwMin << maxBackoffStage
}

// MaxBackoffStage returns the number of doublings from cwMin before the
// window saturates at cwMax.
func MaxBackoffStage(cwMin, cwMax int) int {
	stage := 0
	for cw := cwMin; cw > 0 && cw < cwMax; cw *= 2 {
		stage++
	}
	return stage
}
