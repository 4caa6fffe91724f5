package sim

import "fmt"

// EventKind identifies what a scheduled event asks its target station to do.
type EventKind int

const (
	// EventDecrementBackoff ticks the station's backoff counter by one slot.
	EventDecrementBackoff EventKind = iota
	// EventStartTransmit puts the station's frame on the shared channel.
	EventStartTransmit
	// EventEndTransmit takes the station's frame off the channel and settles its outcome.
	EventEndTransmit
)

// String returns a human-readable event kind name.
func (k EventKind) String() string {
	switch k {
	case EventDecrementBackoff:
		return "DecrementBackoff"
	case EventStartTransmit:
		return "StartTransmit"
	case EventEndTransmit:
		return "EndTransmit"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is an immutable (kind, station, time) record.
// Events carry no payload; all state lives on the station they address.
type Event struct {
	kind      EventKind
	stationID int
	time      int64 // scheduled simulation time (in µs)
}

// NewEvent creates an event addressed to stationID at the given time.
func NewEvent(kind EventKind, stationID int, time int64) Event {
	return Event{kind: kind, stationID: stationID, time: time}
}

// Kind returns the event kind.
func (e Event) Kind() EventKind { return e.kind }

// StationID returns the id of the station the event is addressed to.
func (e Event) StationID() int { return e.stationID }

// Timestamp returns the scheduled time of the event (in µs).
func (e Event) Timestamp() int64 { return e.time }

func (e Event) String() string {
	return fmt.Sprintf("%s(station=%d, t=%d)", e.kind, e.stationID, e.time)
}
