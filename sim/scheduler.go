// sim/scheduler.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/dcf-sim/sim/trace"
)

// DefaultSeed is the master seed used when a caller does not pick one.
const DefaultSeed int64 = 42

// Scheduler is the core object that holds simulation time, the stations, the
// shared channel and the event loop.
//
// The scheduler is the sole arbiter of channel state: stations never see each
// other, and every cross-station effect (freezing on a busy channel, resuming
// after a round) is fanned out from here.
type Scheduler struct {
	Clock int64

	config   SimConfig
	queue    *EventQueue
	stations []*Station
	rng      *PartitionedRNG

	// channel bookkeeping, mutated only by StartTransmit/EndTransmit dispatch
	activeTransmitters int
	roundCollisionFree bool

	pendingStarts int // StartTransmit events scheduled but not yet dispatched
	stopped       bool
	err           error
	eventCounts   map[EventKind]int
	violations    []error

	trace *trace.SimulationTrace
	round *trace.RoundRecord // in-progress busy period, nil when idle or tracing is off
}

// NewScheduler builds cfg.StationCount stations, each with its own seeded RNG
// and a random initial backoff in [0, CWMin), and schedules each station's
// first DecrementBackoff at Timing.StartTime.
func NewScheduler(cfg SimConfig) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	cfg.Timing = cfg.Timing.WithDefaults()

	s := &Scheduler{
		config:             cfg,
		queue:              NewEventQueue(),
		stations:           make([]*Station, 0, cfg.StationCount),
		rng:                NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		roundCollisionFree: true,
		eventCounts:        make(map[EventKind]int),
	}
	if cfg.Trace.Enabled() {
		s.trace = trace.NewSimulationTrace(cfg.Trace)
	}

	for id := 0; id < cfg.StationCount; id++ {
		st := NewStation(id, cfg.CWMin, cfg.CWMax, cfg.UseRTSCTS, cfg.Timing, s.rng.ForSubsystem(SubsystemStation(id)))
		s.stations = append(s.stations, st)
		s.Schedule(NewEvent(EventDecrementBackoff, id, cfg.Timing.StartTime))
	}
	logrus.Infof("Scheduler ready: %d stations, cw=[%d,%d], rts/cts=%v, seed=%d, samples=%d",
		cfg.StationCount, cfg.CWMin, cfg.CWMax, cfg.UseRTSCTS, cfg.Seed, cfg.SampleThreshold)
	return s, nil
}

// NewSchedulerFromParams builds a scheduler with default timing, sample
// threshold and seed.
func NewSchedulerFromParams(stationCount int, useRTSCTS bool, cwMin, cwMax int) (*Scheduler, error) {
	return NewScheduler(NewSimConfig(stationCount, useRTSCTS, cwMin, cwMax))
}

// Schedule pushes an event into the scheduler's EventQueue.
func (s *Scheduler) Schedule(ev Event) {
	if ev.Kind() == EventStartTransmit {
		s.pendingStarts++
	}
	s.queue.Schedule(ev)
}

// Step dispatches the earliest pending event and reports whether the run can
// continue. It returns false once the sample threshold stop has been raised,
// or when the queue is exhausted (Err then returns ErrEventQueueExhausted).
func (s *Scheduler) Step() bool {
	if s.stopped {
		return false
	}
	ev, ok := s.queue.PopNext()
	if !ok {
		if s.err == nil {
			s.err = ErrEventQueueExhausted
			logrus.Errorf("[tick %07d] no more events in the queue; cannot proceed", s.Clock)
		}
		return false
	}

	s.Clock = ev.Timestamp()
	s.eventCounts[ev.Kind()]++
	logrus.Debugf("[tick %07d] Executing %s", s.Clock, ev)

	if ev.StationID() < 0 || ev.StationID() >= len(s.stations) {
		s.recordViolation(fmt.Errorf("%s addressed to unknown station", ev))
		return true
	}
	st := s.stations[ev.StationID()]

	switch ev.Kind() {
	case EventDecrementBackoff:
		next, err := st.OnDecrementBackoff(s.Clock)
		if err != nil {
			s.recordViolation(err)
			return true
		}
		if next != nil {
			s.Schedule(*next)
		}
	case EventStartTransmit:
		s.pendingStarts--
		s.startTransmit(st)
	case EventEndTransmit:
		s.endTransmit(st)
	default:
		s.recordViolation(fmt.Errorf("unknown event kind %s", ev.Kind()))
	}
	return true
}

func (s *Scheduler) startTransmit(st *Station) {
	end, err := st.OnTransmitStart(s.Clock)
	if err != nil {
		s.recordViolation(err)
		return
	}
	if s.activeTransmitters > 0 {
		s.roundCollisionFree = false
	}
	s.activeTransmitters++
	s.Schedule(*end)
	s.traceStart(st.ID())

	for _, other := range s.stations {
		other.OnChannelBusy(s.Clock)
	}
}

func (s *Scheduler) endTransmit(st *Station) {
	if err := st.OnTransmitEnd(s.Clock, s.roundCollisionFree); err != nil {
		s.recordViolation(err)
		return
	}
	s.activeTransmitters--

	if s.activeTransmitters == 0 {
		// busy period over: every frozen station resumes after the round's deferral
		for _, other := range s.stations {
			if next := other.OnChannelFree(s.Clock, s.roundCollisionFree, s.config.UseRTSCTS); next != nil {
				s.Schedule(*next)
			}
		}
		s.traceEnd()
		s.roundCollisionFree = true
	}

	if samples := st.Stats().Samples(); samples > s.config.SampleThreshold {
		s.stopped = true
		logrus.Infof("[tick %07d] station %d collected %d samples; enough statistics", s.Clock, st.ID(), samples)
	}
}

func (s *Scheduler) recordViolation(err error) {
	logrus.Warnf("[tick %07d] invariant violation: %v", s.Clock, err)
	s.violations = append(s.violations, err)
}

func (s *Scheduler) traceStart(id int) {
	if s.trace == nil {
		return
	}
	if s.round == nil {
		s.round = &trace.RoundRecord{Start: s.Clock}
	}
	s.round.Participants = append(s.round.Participants, id)
}

func (s *Scheduler) traceEnd() {
	if s.trace == nil || s.round == nil {
		return
	}
	s.round.End = s.Clock
	s.round.Success = s.roundCollisionFree
	s.trace.RecordRound(*s.round)
	s.round = nil
}

// Run steps the simulation until it stops and returns Err.
func (s *Scheduler) Run() error {
	for s.Step() {
	}
	logrus.Infof("[tick %07d] Simulation ended", s.Clock)
	return s.Err()
}

// Err returns ErrEventQueueExhausted if the run halted for lack of events, nil otherwise.
func (s *Scheduler) Err() error { return s.err }

// Stopped reports whether a station has exceeded the sample threshold.
func (s *Scheduler) Stopped() bool { return s.stopped }

// ActiveTransmitters returns the number of frames currently on the channel.
func (s *Scheduler) ActiveTransmitters() int { return s.activeTransmitters }

// RoundCollisionFree reports whether at most one StartTransmit has occurred
// since the current busy period began.
func (s *Scheduler) RoundCollisionFree() bool { return s.roundCollisionFree }

// PendingStarts returns the number of StartTransmit events not yet dispatched.
func (s *Scheduler) PendingStarts() int { return s.pendingStarts }

// PendingEvents returns the number of events in the queue.
func (s *Scheduler) PendingEvents() int { return s.queue.Len() }

// Config returns the effective configuration (defaults applied).
func (s *Scheduler) Config() SimConfig { return s.config }

// EventCounts returns the number of dispatched events per kind.
func (s *Scheduler) EventCounts() map[EventKind]int {
	out := make(map[EventKind]int, len(s.eventCounts))
	for k, v := range s.eventCounts {
		out[k] = v
	}
	return out
}

// Violations returns every invariant violation observed so far, in order.
func (s *Scheduler) Violations() []error {
	return append([]error(nil), s.violations...)
}

// Trace returns the round trace, or nil if tracing is disabled.
func (s *Scheduler) Trace() *trace.SimulationTrace { return s.trace }

// StationStats returns a snapshot of every station's counters, ordered by ID.
func (s *Scheduler) StationStats() []StationStats {
	out := make([]StationStats, len(s.stations))
	for i, st := range s.stations {
		out[i] = st.Stats()
	}
	return out
}

// StationStates returns every station's current contention state, ordered by ID.
func (s *Scheduler) StationStates() []StationState {
	out := make([]StationState, len(s.stations))
	for i, st := range s.stations {
		out[i] = st.State()
	}
	return out
}

// CheckChannelInvariant verifies that the stations committed to transmitting
// are exactly those on air plus those whose StartTransmit is still pending.
// Between a station's backoff exhaustion and its StartTransmit (one
// propagation delay) it is InTransmit without being counted as active.
func (s *Scheduler) CheckChannelInvariant() error {
	inTransmit := 0
	for _, st := range s.stations {
		if st.State() == StateInTransmit {
			inTransmit++
		}
	}
	if inTransmit != s.activeTransmitters+s.pendingStarts {
		return fmt.Errorf("%d stations in transmit, but %d active + %d pending starts",
			inTransmit, s.activeTransmitters, s.pendingStarts)
	}
	if s.activeTransmitters == 0 && !s.roundCollisionFree {
		return errors.New("idle channel marked as collided")
	}
	return nil
}

// Report returns the per-station statistics and the elapsed simulated time.
func (s *Scheduler) Report() *Metrics {
	return NewMetrics(s.StationStats(), s.Clock)
}
