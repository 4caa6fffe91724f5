// Tracks per-station and aggregate channel statistics such as:
// success probability, transmitted bits and throughput.

package sim

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Stations  []StationStats // per-station counters, ordered by ID
	ElapsedUs int64          // simulated clock at the end of the run (in µs)
}

// NewMetrics creates a Metrics value from station snapshots and the elapsed clock.
func NewMetrics(stations []StationStats, elapsedUs int64) *Metrics {
	return &Metrics{Stations: stations, ElapsedUs: elapsedUs}
}

// Summary holds cross-station aggregates.
type Summary struct {
	Successes                int
	Failures                 int
	TotalBits                int64
	AggregateSuccessProb     float64 // total successes / total attempts
	MeanSuccessProb          float64 // mean of per-station success probabilities
	StdDevSuccessProb        float64 // sample std dev of per-station success probabilities
	ThroughputMbps           float64
	FairnessIndex            float64 // Jain's index over per-station transmitted bits
	MinSamples, MaxSamples   int
	StationsWithoutAnySample int
}

// ThroughputMbps returns total transmitted bits per elapsed µs, i.e. Mbit/s.
func (m *Metrics) ThroughputMbps() float64 {
	if m.ElapsedUs <= 0 {
		return 0
	}
	var bits int64
	for _, st := range m.Stations {
		bits += st.TransmittedBits
	}
	return float64(bits) / float64(m.ElapsedUs)
}

// SuccessProbabilities returns the per-station success probabilities, ordered by ID.
func (m *Metrics) SuccessProbabilities() []float64 {
	out := make([]float64, len(m.Stations))
	for i, st := range m.Stations {
		out[i] = st.SuccessProbability()
	}
	return out
}

// Summarize computes cross-station aggregates.
func (m *Metrics) Summarize() Summary {
	sum := Summary{ThroughputMbps: m.ThroughputMbps()}
	if len(m.Stations) == 0 {
		return sum
	}

	bits := make([]float64, len(m.Stations))
	sum.MinSamples = m.Stations[0].Samples()
	for i, st := range m.Stations {
		sum.Successes += st.Successes
		sum.Failures += st.Failures
		sum.TotalBits += st.TransmittedBits
		bits[i] = float64(st.TransmittedBits)
		sum.MinSamples = min(sum.MinSamples, st.Samples())
		sum.MaxSamples = max(sum.MaxSamples, st.Samples())
		if st.Samples() == 0 {
			sum.StationsWithoutAnySample++
		}
	}
	if attempts := sum.Successes + sum.Failures; attempts > 0 {
		sum.AggregateSuccessProb = float64(sum.Successes) / float64(attempts)
	}

	probs := m.SuccessProbabilities()
	if len(probs) > 1 {
		sum.MeanSuccessProb, sum.StdDevSuccessProb = stat.MeanStdDev(probs, nil)
	} else {
		sum.MeanSuccessProb = probs[0]
	}
	sum.FairnessIndex = jainIndex(bits)
	return sum
}

// jainIndex returns (Σx)² / (n·Σx²); 1 means perfectly even shares.
// An all-zero allocation is reported as perfectly fair.
func jainIndex(x []float64) float64 {
	sq := floats.Dot(x, x)
	if len(x) == 0 || sq == 0 {
		return 1
	}
	total := floats.Sum(x)
	return total * total / (float64(len(x)) * sq)
}

// Print writes per-station success probabilities and aggregates to w.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Results ===")
	for _, st := range m.Stations {
		fmt.Fprintf(w, "Station %3d : success prob %.4f (%d ok / %d failed)\n",
			st.ID, st.SuccessProbability(), st.Successes, st.Failures)
	}
	s := m.Summarize()
	fmt.Fprintf(w, "Aggregate Success Prob : %.4f\n", s.AggregateSuccessProb)
	fmt.Fprintf(w, "Mean Station Success   : %.4f (stddev %.4f)\n", s.MeanSuccessProb, s.StdDevSuccessProb)
	fmt.Fprintf(w, "Throughput             : %.4f Mbit/s (%d bits in %d us)\n", s.ThroughputMbps, s.TotalBits, m.ElapsedUs)
	fmt.Fprintf(w, "Fairness (Jain)        : %.4f\n", s.FairnessIndex)
	fmt.Fprintf(w, "Samples per Station    : min %d, max %d\n", s.MinSamples, s.MaxSamples)
}
