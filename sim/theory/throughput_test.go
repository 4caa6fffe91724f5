package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/dcf-sim/sim"
)

func TestSaturationThroughput_BasicAccess(t *testing.T) {
	// GIVEN the reference operating point
	r, err := Calculate(10, 32, 4)
	require.NoError(t, err)

	// WHEN throughput is evaluated with default timing
	th := SaturationThroughput(r, 10, sim.DefaultTimingConfig(), false)

	// THEN the probabilities are valid and throughput is below the 1 Mbit/s line rate
	assert.Greater(t, th.TransmitProbability, 0.0)
	assert.LessOrEqual(t, th.TransmitProbability, 1.0)
	assert.Greater(t, th.SuccessGivenTx, 0.0)
	assert.LessOrEqual(t, th.SuccessGivenTx, 1.0)
	assert.InDelta(t, 0.768, th.Mbps, 2e-3)
}

func TestSaturationThroughput_SingleStation(t *testing.T) {
	r, err := Calculate(1, 32, 4)
	require.NoError(t, err)

	th := SaturationThroughput(r, 1, sim.DefaultTimingConfig(), false)

	// a lone station always succeeds when it transmits
	assert.InDelta(t, 1.0, th.SuccessGivenTx, 1e-12)
	assert.InDelta(t, 0.8535, th.Mbps, 1e-3)
}

func TestSaturationThroughput_RTSCTSBeatsBasicUnderContention(t *testing.T) {
	r, err := Solve(50, 32, 4)
	require.NoError(t, err)
	timing := sim.DefaultTimingConfig()

	basic := SaturationThroughput(r, 50, timing, false)
	rts := SaturationThroughput(r, 50, timing, true)

	// collisions cost an RTS instead of a whole data frame
	assert.Greater(t, rts.Mbps, basic.Mbps)
}

func TestSaturationThroughput_ZeroTao(t *testing.T) {
	th := SaturationThroughput(Result{}, 10, sim.TimingConfig{}, false)
	assert.Equal(t, Throughput{}, th)
}
