package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/dcf-sim/sim"
	"github.com/inference-sim/dcf-sim/sim/theory"
	"github.com/inference-sim/dcf-sim/sim/trace"
)

// runSimulation solves the analytical model, runs the simulation to its stop
// condition and writes both results to w.
func runSimulation(cfg sim.SimConfig, w io.Writer) error {
	stage := sim.MaxBackoffStage(cfg.CWMin, cfg.CWMax)
	model, err := theory.Solve(cfg.StationCount, cfg.CWMin, stage)
	if err != nil {
		return fmt.Errorf("solving analytical model: %w", err)
	}

	s, err := sim.NewScheduler(cfg)
	if err != nil {
		return err
	}
	if err := s.Run(); err != nil {
		return err
	}
	if v := s.Violations(); len(v) > 0 {
		logrus.Warnf("%d invariant violations during the run; first: %v", len(v), v[0])
	}

	m := s.Report()
	m.Print(w)
	printTheory(w, model, theory.SaturationThroughput(model, cfg.StationCount, s.Config().Timing, cfg.UseRTSCTS))
	printComparison(w, m.Summarize(), model)
	if tr := s.Trace(); tr != nil {
		printTrace(w, trace.Summarize(tr))
	}
	return nil
}

func printTheory(w io.Writer, r theory.Result, th theory.Throughput) {
	fmt.Fprintln(w, "=== Theoretical Model ===")
	fmt.Fprintf(w, "Tao                    : %.6f\n", r.Tao)
	fmt.Fprintf(w, "Success Prob (1 - p)   : %.4f\n", r.SuccessProbability)
	fmt.Fprintf(w, "Saturation Throughput  : %.4f Mbit/s\n", th.Mbps)
	fmt.Fprintf(w, "Iterations             : %d\n", r.Iterations)
}

func printComparison(w io.Writer, s sim.Summary, r theory.Result) {
	fmt.Fprintln(w, "=== Simulation vs Model ===")
	fmt.Fprintf(w, "Success Prob Error     : %+.4f\n", s.AggregateSuccessProb-r.SuccessProbability)
}

func printTrace(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Round Trace ===")
	fmt.Fprintf(w, "Rounds                 : %d (%d ok, %d collided)\n", ts.TotalRounds, ts.SuccessfulRounds, ts.CollidedRounds)
	fmt.Fprintf(w, "Collision Rate         : %.4f\n", ts.CollisionRate())
	fmt.Fprintf(w, "Participants           : mean %.3f, max %d\n", ts.MeanParticipants, ts.MaxParticipants)
	fmt.Fprintf(w, "Busy Time              : %d us\n", ts.BusyTime)
}
