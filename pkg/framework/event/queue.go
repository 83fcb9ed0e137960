package event

// Queue is a bounded, frame-sorted event buffer. The backing storage is
// allocated once up front; pushing and clearing never allocate, so a
// queue is safe to use from the audio thread. When the queue is full,
// new events are dropped and counted rather than blocking or growing.
type Queue struct {
	events  []Event
	dropped uint64
}

// NewQueue returns a queue holding at most capacity events.
func NewQueue(capacity int) *Queue {
	return &Queue{
		events: make([]Event, 0, capacity),
	}
}

// Push inserts ev in frame order. Events pushed at a frame already in
// the queue land after the existing ones, so same-frame events keep
// their enqueue order. Returns false if the queue is full, in which
// case the event is dropped and counted.
func (q *Queue) Push(ev Event) bool {
	if len(q.events) == cap(q.events) {
		q.dropped++
		return false
	}

	// Hosts mostly enqueue in order, so appending is the common case.
	latest := 0
	if n := len(q.events); n > 0 {
		latest = q.events[n-1].Frame
	}
	if latest <= ev.Frame {
		q.events = append(q.events, ev)
		return true
	}

	idx := 0
	for i := range q.events {
		if q.events[i].Frame > ev.Frame {
			idx = i
			break
		}
	}

	q.events = append(q.events, Event{})
	copy(q.events[idx+1:], q.events[idx:])
	q.events[idx] = ev
	return true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}

// At returns the event at position i in frame order.
func (q *Queue) At(i int) *Event {
	return &q.events[i]
}

// Clear empties the queue, retaining its storage.
func (q *Queue) Clear() {
	q.events = q.events[:0]
}

// Dropped returns how many events have been rejected by a full queue
// since the queue was created.
func (q *Queue) Dropped() uint64 {
	return q.dropped
}
