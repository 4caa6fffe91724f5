package theory

import (
	"math"

	"github.com/inference-sim/dcf-sim/sim"
)

// Throughput is Bianchi's saturation throughput for a solved operating point.
type Throughput struct {
	TransmitProbability float64 // P_tr: at least one station transmits in a slot
	SuccessGivenTx      float64 // P_s: exactly one transmits, given at least one does
	Mbps                float64 // payload bits per µs
}

// SaturationThroughput evaluates
//
//	S = P_s·P_tr·E[P] / ((1 - P_tr)·σ + P_tr·P_s·T_s + P_tr·(1 - P_s)·T_c)
//
// using the same slot, round and payload durations as the simulator.
func SaturationThroughput(r Result, stationCount int, timing sim.TimingConfig, rtsCTS bool) Throughput {
	timing = timing.WithDefaults()
	n := float64(stationCount)
	idle := math.Pow(1.0-r.Tao, n)
	ptr := 1.0 - idle
	if ptr <= 0 {
		return Throughput{}
	}
	ps := n * r.Tao * math.Pow(1.0-r.Tao, n-1) / ptr

	slot := float64(timing.SlotTime)
	ts := float64(timing.SuccessRoundTime(rtsCTS))
	tc := float64(timing.CollisionRoundTime(rtsCTS))
	payload := float64(timing.PayloadBits)

	mbps := ps * ptr * payload / (idle*slot + ptr*ps*ts + ptr*(1.0-ps)*tc)
	return Throughput{
		TransmitProbability: ptr,
		SuccessGivenTx:      ps,
		Mbps:                mbps,
	}
}
