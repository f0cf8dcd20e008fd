// Package event provides the time-ordered event queue that drives a
// simulation run. The queue is a strict min-heap on scheduled time with a
// monotonic sequence number as tie-break, so pops are always chronological
// and stable for equal times.
package event

import (
	"container/heap"
	"fmt"
)

// Kind tags a queue entry with the actor it belongs to.
type Kind string

const (
	// KindHunter marks the hunter's next attack action.
	KindHunter Kind = "hunter"
	// KindEnemy marks the current enemy or boss's next attack action.
	KindEnemy Kind = "enemy"
	// KindRegen marks the shared regeneration tick.
	KindRegen Kind = "regen"
)

// Entry is a single scheduled action.
type Entry struct {
	// Time is the simulated second at which the entry is due.
	Time float64
	// Seq is the insertion sequence number, used as tie-break for equal times.
	Seq int64
	// Kind identifies the actor the entry belongs to.
	Kind Kind
}

// entryHeap implements heap.Interface over Entry values.
type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Seq < h[j].Seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(Entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Queue is the shared scheduling structure for one simulation run.
// It is not safe for concurrent use; the simulation is single-threaded
// and the driver is the sole loop owner.
type Queue struct {
	entries entryHeap
	nextSeq int64
}

// NewQueue creates an empty Queue.
//
// Postcondition: Returns a non-nil Queue with Len() == 0.
func NewQueue() *Queue {
	return &Queue{}
}

// Len returns the number of scheduled entries.
func (q *Queue) Len() int { return len(q.entries) }

// Push schedules an entry of the given kind at the given time.
//
// Postcondition: The entry is in the heap with a sequence number greater
// than that of every previously pushed entry.
func (q *Queue) Push(time float64, kind Kind) {
	q.nextSeq++
	heap.Push(&q.entries, Entry{Time: time, Seq: q.nextSeq, Kind: kind})
}

// Pop removes and returns the chronologically next entry.
//
// Postcondition: Returns (entry, true) with the minimal (Time, Seq) pair,
// or (Entry{}, false) when the queue is empty.
func (q *Queue) Pop() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return heap.Pop(&q.entries).(Entry), true
}

// Peek returns the chronologically next entry without removing it.
func (q *Queue) Peek() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// Reschedule locates the single entry of the given kind and moves it delta
// seconds later, preserving its sequence number. This is how stuns are
// applied: the unit's pending action slides forward in time.
//
// Precondition: Exactly one entry of the given kind exists in the queue.
// Postcondition: On success the entry's Time is increased by delta and the
// heap invariant holds. Returns an error if the kind is absent or duplicated;
// callers treat that as a scheduler programming error, not a combat outcome.
func (q *Queue) Reschedule(kind Kind, delta float64) error {
	idx := -1
	for i, e := range q.entries {
		if e.Kind != kind {
			continue
		}
		if idx >= 0 {
			return fmt.Errorf("event: duplicate %q entries in queue", kind)
		}
		idx = i
	}
	if idx < 0 {
		return fmt.Errorf("event: no %q entry in queue", kind)
	}
	q.entries[idx].Time += delta
	heap.Fix(&q.entries, idx)
	return nil
}

// RemoveKind purges every entry of the given kind and restores the heap
// invariant. Death cleanup uses this; at most one enemy entry exists at a
// time, but the purge handles any count.
//
// Postcondition: No entry of the given kind remains; all other entries are
// untouched. Returns the number of entries removed.
func (q *Queue) RemoveKind(kind Kind) int {
	kept := q.entries[:0]
	removed := 0
	for _, e := range q.entries {
		if e.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
	if removed > 0 {
		heap.Init(&q.entries)
	}
	return removed
}

// Entries returns a snapshot of all scheduled entries in heap order.
// Intended for tests and diagnostics only.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}
