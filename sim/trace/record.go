package trace

// RoundRecord captures a single busy period of the shared channel: the
// maximal interval during which at least one station was transmitting.
type RoundRecord struct {
	Start        int64 // first StartTransmit of the round (µs)
	End          int64 // last EndTransmit of the round (µs)
	Participants []int // station IDs in StartTransmit order
	Success      bool  // true iff exactly one station transmitted
}

// Duration returns End - Start.
func (r RoundRecord) Duration() int64 {
	return r.End - r.Start
}
