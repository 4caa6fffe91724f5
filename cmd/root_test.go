package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/dcf-sim/sim"
	"github.com/inference-sim/dcf-sim/sim/trace"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}

func TestRunSimulation_PrintsResultsAndModel(t *testing.T) {
	// GIVEN a small run with round tracing
	cfg := sim.NewSimConfig(5, false, 32, 512)
	cfg.SampleThreshold = 100
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelRounds}

	// WHEN it is executed
	var buf bytes.Buffer
	require.NoError(t, runSimulation(cfg, &buf))
	output := buf.String()

	// THEN per-station results, the model and the trace summary are printed
	assert.Contains(t, output, "Simulation Results")
	assert.Contains(t, output, "Station   4")
	assert.Contains(t, output, "Theoretical Model")
	assert.Contains(t, output, "Simulation vs Model")
	assert.Contains(t, output, "Round Trace")
}

func TestRunSimulation_InvalidConfig(t *testing.T) {
	cfg := sim.NewSimConfig(5, false, 32, 16)
	var buf bytes.Buffer
	err := runSimulation(cfg, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestRunTheory_Output(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runTheory(10, 32, 4, &buf))

	output := buf.String()
	assert.Contains(t, output, "n=10, W=32, m=4")
	assert.Contains(t, output, "Success Prob (1 - p)   : 0.707")
	assert.Contains(t, output, "Throughput (RTS/CTS)")
}

func TestRunTheory_InvalidInput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runTheory(0, 32, 4, &buf))
}

func TestRunSweep_OneRowPerStationCount(t *testing.T) {
	// GIVEN a scenario file with three station counts
	yaml := "seed: 3\nsamples: 100\ncw_min: 32\nmax_backoff_stage: 4\nstation_counts: [1, 4, 8]\n"
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	sc, err := sim.LoadScenario(path)
	require.NoError(t, err)

	// WHEN swept
	var buf bytes.Buffer
	require.NoError(t, runSweep(sc, &buf))

	// THEN the table has a header and one row per station count
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "stations"))
	// a lone station never collides
	assert.Contains(t, lines[1], "1.0000")
}

func TestRunSweep_InvalidScenario(t *testing.T) {
	var buf bytes.Buffer
	err := runSweep(&sim.Scenario{CWMin: 32, Samples: 10, Timing: sim.DefaultTimingConfig()}, &buf)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestSweepPoint_MatchesModel(t *testing.T) {
	cfg := sim.NewSimConfig(10, false, 32, 512)
	cfg.SampleThreshold = 1000

	row, err := sweepPoint(cfg, 4)

	require.NoError(t, err)
	assert.Equal(t, 10, row.Stations)
	assert.InDelta(t, row.ModelSuccess, row.SimSuccess, 0.05)
	assert.InDelta(t, row.ModelThroughput, row.SimThroughput, 0.05)
	assert.Greater(t, row.Fairness, 0.9)
}
