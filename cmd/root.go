package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/dcf-sim/sim"
	"github.com/inference-sim/dcf-sim/sim/trace"
)

var (
	// CLI flags for the contention setup
	seed            int64  // Seed for backoff draws
	logLevel        string // Log verbosity level
	numStations     int    // Number of contending stations
	cwMin           int    // Minimum contention window
	cwMax           int    // Maximum contention window (0 = derived from max backoff stage)
	maxBackoffStage int    // Number of window doublings before saturation
	useRTSCTS       bool   // RTS/CTS access instead of basic access
	samples         int    // Attempts after which the first station to exceed it stops the run
	traceLevel      string // Round trace verbosity
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dcf-sim",
	Short: "Discrete-event simulator for the 802.11 DCF",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate N saturated stations and compare with the analytical model",
	Run: func(cmd *cobra.Command, args []string) {
		if cwMax == 0 {
			cwMax = sim.CWMaxForStage(cwMin, maxBackoffStage)
		}
		cfg := sim.SimConfig{
			StationCount:    numStations,
			UseRTSCTS:       useRTSCTS,
			CWMin:           cwMin,
			CWMax:           cwMax,
			SampleThreshold: samples,
			Seed:            seed,
			Timing:          sim.DefaultTimingConfig(),
			Trace:           trace.TraceConfig{Level: trace.TraceLevel(traceLevel)},
		}

		logrus.Infof("Starting simulation with %d stations, cw=[%d,%d], rts/cts=%v, samples=%d",
			numStations, cwMin, cwMax, useRTSCTS, samples)
		startTime := time.Now()

		if err := runSimulation(cfg, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerContentionFlags adds the flags shared by every simulation command.
func registerContentionFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&numStations, "stations", 10, "Number of contending stations")
	cmd.Flags().IntVar(&cwMin, "cw-min", 32, "Minimum contention window")
	cmd.Flags().IntVar(&maxBackoffStage, "max-backoff-stage", 4, "Number of window doublings before it saturates")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerContentionFlags(runCmd)
	runCmd.Flags().IntVar(&cwMax, "cw-max", 0, "Maximum contention window (0 = cw-min doubled max-backoff-stage times)")
	runCmd.Flags().BoolVar(&useRTSCTS, "rts-cts", false, "Use the RTS/CTS handshake instead of basic access")
	runCmd.Flags().Int64Var(&seed, "seed", sim.DefaultSeed, "Seed for backoff draws")
	runCmd.Flags().IntVar(&samples, "samples", sim.DefaultSampleThreshold, "Attempts after which the first station to exceed it stops the run")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Round trace level (none, rounds)")

	registerContentionFlags(theoryCmd)

	sweepCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML sweep scenario")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd, theoryCmd, sweepCmd)
}
