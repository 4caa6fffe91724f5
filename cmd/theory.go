package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/dcf-sim/sim"
	"github.com/inference-sim/dcf-sim/sim/theory"
)

// theoryCmd solves the analytical model without simulating
var theoryCmd = &cobra.Command{
	Use:   "theory",
	Short: "Solve the Bianchi fixed-point model for tao and success probability",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTheory(numStations, cwMin, maxBackoffStage, os.Stdout); err != nil {
			logrus.Fatalf("Model failed: %v", err)
		}
	},
}

func runTheory(n, w, m int, out io.Writer) error {
	r, err := theory.Solve(n, w, m)
	if err != nil {
		return err
	}
	timing := sim.DefaultTimingConfig()
	fmt.Fprintf(out, "n=%d, W=%d, m=%d\n", n, w, m)
	printTheory(out, r, theory.SaturationThroughput(r, n, timing, false))
	fmt.Fprintf(out, "Throughput (RTS/CTS)   : %.4f Mbit/s\n", theory.SaturationThroughput(r, n, timing, true).Mbps)
	return nil
}
