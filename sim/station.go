package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// StationState is the contention state of a station.
//
// A station cycles Backoff -> InTransmit -> WaitChannel -> Backoff. Collisions
// never add states; they only change which statistics an EndTransmit updates.
type StationState int

const (
	// StateBackoff: counting down the backoff counter while the channel is idle.
	StateBackoff StationState = iota
	// StateWaitChannel: backoff frozen until the current busy period ends.
	StateWaitChannel
	// StateInTransmit: counter exhausted; the station's frame is (or is about to be) on air.
	StateInTransmit
)

// String returns a human-readable state name.
func (s StationState) String() string {
	switch s {
	case StateBackoff:
		return "Backoff"
	case StateWaitChannel:
		return "WaitChannel"
	case StateInTransmit:
		return "InTransmit"
	default:
		return fmt.Sprintf("StationState(%d)", int(s))
	}
}

// noTick marks a station with no armed DecrementBackoff.
const noTick int64 = -1

// StationStats is a read-only snapshot of a station's counters.
type StationStats struct {
	ID              int
	Successes       int
	Failures        int
	TransmittedBits int64
}

// Samples returns the number of completed transmission attempts.
func (s StationStats) Samples() int {
	return s.Successes + s.Failures
}

// SuccessProbability returns Successes / Samples, or 0 if no attempt completed.
func (s StationStats) SuccessProbability() float64 {
	if s.Samples() == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Samples())
}

// Station is a saturated DCF station: it always has a frame to send.
//
// Handlers are invoked only by the Scheduler. Each returns at most one
// follow-up event, and an *InvariantViolation instead of an event when called
// in a state the protocol never produces.
type Station struct {
	id       int
	state    StationState
	backoff  int
	cw       int
	cwMin    int
	cwMax    int
	nextTick int64 // time of the armed DecrementBackoff, noTick when frozen

	successes       int
	failures        int
	transmittedBits int64

	timing TimingConfig
	rtsCTS bool
	rng    *rand.Rand
}

// NewStation creates a station in Backoff with a random initial counter in
// [0, cwMin). Its first tick is expected at timing.StartTime.
func NewStation(id, cwMin, cwMax int, rtsCTS bool, timing TimingConfig, rng *rand.Rand) *Station {
	s := &Station{
		id:       id,
		state:    StateBackoff,
		cw:       cwMin,
		cwMin:    cwMin,
		cwMax:    cwMax,
		nextTick: timing.StartTime,
		timing:   timing,
		rtsCTS:   rtsCTS,
		rng:      rng,
	}
	s.backoff = s.drawBackoff()
	return s
}

// ID returns the station identifier.
func (s *Station) ID() int { return s.id }

// State returns the current contention state.
func (s *Station) State() StationState { return s.state }

// Backoff returns the remaining backoff counter, in slots.
func (s *Station) Backoff() int { return s.backoff }

// ContentionWindow returns the current contention window.
func (s *Station) ContentionWindow() int { return s.cw }

// Stats returns a snapshot of the station's counters.
func (s *Station) Stats() StationStats {
	return StationStats{
		ID:              s.id,
		Successes:       s.successes,
		Failures:        s.failures,
		TransmittedBits: s.transmittedBits,
	}
}

func (s *Station) drawBackoff() int {
	return s.rng.Intn(s.cw)
}

func (s *Station) violation(op string, now int64, reason string) *InvariantViolation {
	return &InvariantViolation{
		StationID: s.id,
		Op:        op,
		State:     s.state,
		Backoff:   s.backoff,
		Time:      now,
		Reason:    reason,
	}
}

// OnDecrementBackoff handles a backoff tick. While the counter is positive it
// consumes one slot and arms the next tick; at zero the station commits to
// transmitting and asks for a StartTransmit after the propagation delay.
// Ticks delivered while frozen, or ticks the station no longer has armed,
// are ignored.
func (s *Station) OnDecrementBackoff(now int64) (*Event, error) {
	switch s.state {
	case StateWaitChannel:
		return nil, nil
	case StateInTransmit:
		return nil, s.violation("OnDecrementBackoff", now, "backoff tick while in transmission")
	case StateBackoff:
		if now != s.nextTick {
			logrus.Debugf("[tick %07d] station %d: dropping stale backoff tick (armed=%d)", now, s.id, s.nextTick)
			return nil, nil
		}
		if s.backoff > 0 {
			s.backoff--
			s.nextTick = now + s.timing.SlotTime
			ev := NewEvent(EventDecrementBackoff, s.id, s.nextTick)
			return &ev, nil
		}
		s.state = StateInTransmit
		s.nextTick = noTick
		ev := NewEvent(EventStartTransmit, s.id, now+s.timing.PropagationDelay)
		return &ev, nil
	default:
		panic(fmt.Sprintf("station %d: unknown state %d", s.id, int(s.state)))
	}
}

// OnTransmitStart puts the frame on air and asks for the matching EndTransmit.
func (s *Station) OnTransmitStart(now int64) (*Event, error) {
	if s.backoff != 0 {
		return nil, s.violation("OnTransmitStart", now, "backoff counter not exhausted")
	}
	if s.state != StateInTransmit {
		return nil, s.violation("OnTransmitStart", now, "station not committed to transmit")
	}
	ev := NewEvent(EventEndTransmit, s.id, now+s.timing.TxDuration(s.rtsCTS))
	return &ev, nil
}

// OnTransmitEnd settles a transmission attempt. success is true iff the
// station was the only transmitter of its round. The contention window resets
// on success and doubles (bounded by cwMax) on failure; either way a new
// backoff counter is drawn and the station waits for the channel to clear.
func (s *Station) OnTransmitEnd(now int64, success bool) error {
	if s.state != StateInTransmit {
		return s.violation("OnTransmitEnd", now, "transmission ended while not transmitting")
	}
	if success {
		s.successes++
		s.transmittedBits += s.timing.PayloadBits
		s.cw = s.cwMin
	} else {
		s.failures++
		s.cw = min(s.cw*2, s.cwMax)
	}
	s.backoff = s.drawBackoff()
	s.state = StateWaitChannel
	return nil
}

// OnChannelBusy freezes a counting-down station. Other states are unaffected.
func (s *Station) OnChannelBusy(now int64) {
	switch s.state {
	case StateBackoff:
		s.state = StateWaitChannel
		s.nextTick = noTick
	case StateWaitChannel, StateInTransmit:
	}
}

// OnChannelFree resumes a frozen station after the deferral that follows the
// ended round. success and rtsCTS select one of the four deferral intervals.
func (s *Station) OnChannelFree(now int64, success, rtsCTS bool) *Event {
	switch s.state {
	case StateWaitChannel:
		s.state = StateBackoff
		s.nextTick = now + s.timing.Defer(success, rtsCTS)
		ev := NewEvent(EventDecrementBackoff, s.id, s.nextTick)
		return &ev
	case StateBackoff, StateInTransmit:
	}
	return nil
}
