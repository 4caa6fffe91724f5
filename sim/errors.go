package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrEventQueueExhausted means the scheduler ran out of events before any
	// station collected enough samples. Every saturated station always has a
	// pending action, so this indicates a modeling defect.
	ErrEventQueueExhausted = errors.New("event queue exhausted before sample threshold")

	// ErrInvalidConfig is wrapped by every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// InvariantViolation reports a station handler invoked in a state that the
// protocol model never produces. The scheduler logs it, suppresses the
// resulting event and keeps running.
type InvariantViolation struct {
	StationID int
	Op        string // handler name, e.g. "OnTransmitStart"
	State     StationState
	Backoff   int
	Time      int64
	Reason    string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("station %d: %s at t=%d: %s (state=%s, backoff=%d)",
		v.StationID, v.Op, v.Time, v.Reason, v.State, v.Backoff)
}
