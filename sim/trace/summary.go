package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRounds      int
	SuccessfulRounds int
	CollidedRounds   int
	MeanParticipants float64
	MaxParticipants  int
	BusyTime         int64       // sum of round durations (µs)
	Distribution     map[int]int // participants per round → count of rounds
}

// CollisionRate returns CollidedRounds / TotalRounds, or 0 for an empty trace.
func (s *TraceSummary) CollisionRate() float64 {
	if s.TotalRounds == 0 {
		return 0
	}
	return float64(s.CollidedRounds) / float64(s.TotalRounds)
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Distribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalRounds = len(st.Rounds)
	totalParticipants := 0
	for _, r := range st.Rounds {
		n := len(r.Participants)
		if r.Success {
			summary.SuccessfulRounds++
		} else {
			summary.CollidedRounds++
		}
		summary.Distribution[n]++
		totalParticipants += n
		if n > summary.MaxParticipants {
			summary.MaxParticipants = n
		}
		summary.BusyTime += r.Duration()
	}
	if summary.TotalRounds > 0 {
		summary.MeanParticipants = float64(totalParticipants) / float64(summary.TotalRounds)
	}

	return summary
}
