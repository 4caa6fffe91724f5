package theory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/dcf-sim/sim"
	"github.com/inference-sim/dcf-sim/sim/internal/testutil"
)

const goldenRelTol = 1e-5

// TestSolve_GoldenDataset pins the solved operating points and the saturation
// throughput of both access modes against testdata/goldendataset.json.
func TestSolve_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	timing := sim.DefaultTimingConfig()

	for _, tc := range dataset.OperatingPoints {
		name := fmt.Sprintf("n=%d_W=%d_m=%d", tc.Stations, tc.CWMin, tc.MaxBackoffStage)
		t.Run(name, func(t *testing.T) {
			r, err := Solve(tc.Stations, tc.CWMin, tc.MaxBackoffStage)
			require.NoError(t, err)

			testutil.AssertFloat64Equal(t, "tao", tc.Tao, r.Tao, goldenRelTol)
			testutil.AssertFloat64Equal(t, "success_probability", tc.SuccessProbability, r.SuccessProbability, goldenRelTol)

			basic := SaturationThroughput(r, tc.Stations, timing, false)
			testutil.AssertFloat64Equal(t, "basic_mbps", tc.BasicMbps, basic.Mbps, goldenRelTol)
			rts := SaturationThroughput(r, tc.Stations, timing, true)
			testutil.AssertFloat64Equal(t, "rts_cts_mbps", tc.RTSCTSMbps, rts.Mbps, goldenRelTol)
		})
	}
}
