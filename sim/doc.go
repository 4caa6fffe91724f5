// Package sim provides the discrete-event simulation engine for the IEEE
// 802.11 Distributed Coordination Function (CSMA/CA with binary exponential
// backoff) under saturation.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go: Event kinds that drive the simulation (DecrementBackoff, StartTransmit, EndTransmit)
//   - station.go: per-station contention state machine (Backoff → InTransmit → WaitChannel)
//   - scheduler.go: the event loop, shared-channel bookkeeping and fan-out
//
// # Channel Model
//
// A round is the maximal interval during which at least one station is
// transmitting. A round succeeds iff exactly one StartTransmit occurred in it;
// otherwise every participant records a failure. Stations never observe each
// other: the Scheduler notifies all of them when a round starts (freeze
// backoff) and when it ends (resume after a deferral that depends on the
// round outcome and the access mode).
//
// # Determinism
//
// Events are dispatched in (time, insertion order). Every station draws its
// backoff counters from its own stream of a PartitionedRNG, so the same
// SimConfig and seed always yield identical per-station statistics.
//
// Sub-packages:
//   - sim/theory/: Bianchi fixed-point model for cross-checking results
//   - sim/trace/: optional per-round trace records
package sim
