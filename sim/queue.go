package sim

import "container/heap"

// queueEntry wraps an Event with a sequence ID for deterministic FIFO
// tie-breaking when timestamps are equal.
type queueEntry struct {
	event Event
	seqID uint64
}

// eventEntries is the heap.Interface backing store of EventQueue.
type eventEntries []queueEntry

func (q eventEntries) Len() int { return len(q) }

func (q eventEntries) Less(i, j int) bool {
	if q[i].event.Timestamp() != q[j].event.Timestamp() {
		return q[i].event.Timestamp() < q[j].event.Timestamp()
	}
	return q[i].seqID < q[j].seqID
}

func (q eventEntries) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventEntries) Push(x any) {
	*q = append(*q, x.(queueEntry))
}

func (q *eventEntries) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// EventQueue is a min-heap of events ordered by (Timestamp, insertion order).
// Events scheduled for the same instant are dispatched in the order they were
// scheduled, so a run never depends on heap layout or wall-clock time.
//
// Thread-safety: NOT thread-safe. Must be used from a single goroutine.
type EventQueue struct {
	entries eventEntries
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{entries: make(eventEntries, 0)}
	heap.Init(&q.entries)
	return q
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return q.entries.Len()
}

// Schedule adds an event to the queue.
func (q *EventQueue) Schedule(e Event) {
	heap.Push(&q.entries, queueEntry{event: e, seqID: q.nextSeq})
	q.nextSeq++
}

// PopNext removes and returns the earliest event. ok is false if the queue is empty.
func (q *EventQueue) PopNext() (e Event, ok bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return heap.Pop(&q.entries).(queueEntry).event, true
}

// Peek returns the earliest event without removing it.
func (q *EventQueue) Peek() (e Event, ok bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return q.entries[0].event, true
}
