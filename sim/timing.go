package sim

import "fmt"

// TimingConfig groups the PHY/MAC timing parameters of the channel model.
// All durations are in microseconds (one simulation tick = 1 µs).
// Defaults follow the FHSS parameter set used in Bianchi's DCF analysis.
type TimingConfig struct {
	SlotTime         int64 `yaml:"slot_time"`         // backoff decrement quantum
	SIFS             int64 `yaml:"sifs"`              // short inter-frame spacing
	DIFS             int64 `yaml:"difs"`              // DCF inter-frame spacing
	PropagationDelay int64 `yaml:"propagation_delay"` // backoff exhaustion -> frame on air
	PacketDuration   int64 `yaml:"packet_duration"`   // PHY header + MAC header + payload
	ACKDuration      int64 `yaml:"ack_duration"`
	RTSDuration      int64 `yaml:"rts_duration"`
	CTSDuration      int64 `yaml:"cts_duration"`
	PayloadBits      int64 `yaml:"payload_bits"` // credited to a station per successful frame
	StartTime        int64 `yaml:"start_time"`   // time of every station's first backoff tick
}

// DefaultTimingConfig returns the default timing parameters.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		SlotTime:         50,
		SIFS:             28,
		DIFS:             128,
		PropagationDelay: 1,
		PacketDuration:   8584,
		ACKDuration:      72,
		RTSDuration:      288,
		CTSDuration:      240,
		PayloadBits:      8184,
		StartTime:        1,
	}
}

// WithDefaults returns a copy of t where every zero field is replaced by its default.
func (t TimingConfig) WithDefaults() TimingConfig {
	d := DefaultTimingConfig()
	fill := func(v *int64, def int64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&t.SlotTime, d.SlotTime)
	fill(&t.SIFS, d.SIFS)
	fill(&t.DIFS, d.DIFS)
	fill(&t.PropagationDelay, d.PropagationDelay)
	fill(&t.PacketDuration, d.PacketDuration)
	fill(&t.ACKDuration, d.ACKDuration)
	fill(&t.RTSDuration, d.RTSDuration)
	fill(&t.CTSDuration, d.CTSDuration)
	fill(&t.PayloadBits, d.PayloadBits)
	fill(&t.StartTime, d.StartTime)
	return t
}

// Validate checks that every duration is positive and that a transmission
// always outlasts a backoff slot. The latter keeps a frozen station's last
// armed tick inside the busy period that froze it.
func (t TimingConfig) Validate() error {
	fields := []struct {
		name string
		v    int64
	}{
		{"slot_time", t.SlotTime},
		{"sifs", t.SIFS},
		{"difs", t.DIFS},
		{"propagation_delay", t.PropagationDelay},
		{"packet_duration", t.PacketDuration},
		{"ack_duration", t.ACKDuration},
		{"rts_duration", t.RTSDuration},
		{"cts_duration", t.CTSDuration},
		{"payload_bits", t.PayloadBits},
	}
	for _, f := range fields {
		if f.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, f.name, f.v)
		}
	}
	if t.StartTime < 0 {
		return fmt.Errorf("%w: start_time must be non-negative, got %d", ErrInvalidConfig, t.StartTime)
	}
	for _, rtsCTS := range []bool{false, true} {
		if d := t.TxDuration(rtsCTS); d <= t.SlotTime {
			return fmt.Errorf("%w: transmission duration %d (rts/cts=%v) must exceed slot_time %d",
				ErrInvalidConfig, d, rtsCTS, t.SlotTime)
		}
	}
	return nil
}

// TxDuration is how long a station occupies the channel per transmission attempt.
// With RTS/CTS only the RTS frame is exposed to collisions; the rest of the
// exchange is accounted for in RTSSuccessDefer.
func (t TimingConfig) TxDuration(rtsCTS bool) int64 {
	if rtsCTS {
		return t.RTSDuration
	}
	return t.PacketDuration
}

// BasicSuccessDefer is the deferral after a successful basic-access round (SIFS + ACK + DIFS).
func (t TimingConfig) BasicSuccessDefer() int64 {
	return t.SIFS + t.ACKDuration + t.DIFS + t.PropagationDelay
}

// BasicCollisionDefer is the deferral after a collided basic-access round.
func (t TimingConfig) BasicCollisionDefer() int64 {
	return t.DIFS + t.PropagationDelay
}

// RTSSuccessDefer is the deferral after a successful RTS: CTS, DATA and ACK
// exchanged under SIFS spacing, then DIFS.
func (t TimingConfig) RTSSuccessDefer() int64 {
	return t.SIFS + t.CTSDuration + t.SIFS + t.PacketDuration + t.SIFS + t.ACKDuration + t.DIFS + t.PropagationDelay
}

// RTSCollisionDefer is the deferral after collided RTS frames.
func (t TimingConfig) RTSCollisionDefer() int64 {
	return t.DIFS + t.PropagationDelay
}

// Defer selects the channel-free deferral for a round outcome and access mode.
func (t TimingConfig) Defer(success, rtsCTS bool) int64 {
	switch {
	case rtsCTS && success:
		return t.RTSSuccessDefer()
	case rtsCTS:
		return t.RTSCollisionDefer()
	case success:
		return t.BasicSuccessDefer()
	default:
		return t.BasicCollisionDefer()
	}
}

// SuccessRoundTime is the total channel time consumed by a successful round.
func (t TimingConfig) SuccessRoundTime(rtsCTS bool) int64 {
	return t.PropagationDelay + t.TxDuration(rtsCTS) + t.Defer(true, rtsCTS)
}

// CollisionRoundTime is the total channel time consumed by a collided round.
func (t TimingConfig) CollisionRoundTime(rtsCTS bool) int64 {
	return t.PropagationDelay + t.TxDuration(rtsCTS) + t.Defer(false, rtsCTS)
}
