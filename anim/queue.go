package anim

import "time"

// Entry is one queued animation. OnStart is called when the entry's turn comes,
// right before its timer starts; it usually installs the animated value on the
// object being animated.
type Entry struct {
	Timer    *Timer
	Parallel bool
	OnStart  func(now time.Time)
}

// Queue plays animations in order. A run of consecutive parallel entries at the
// front starts together; anything else waits for everything before it to finish.
type Queue struct {
	entries []*Entry
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an entry
func (q *Queue) Push(e *Entry) {
	if e == nil || e.Timer == nil {
		return
	}
	q.entries = append(q.entries, e)
}

// Advance drops finished entries from the front and starts whatever may
// start at now, so an entry begins on the same tick its predecessor ends. It
// returns the number of entries started.
func (q *Queue) Advance(now time.Time) int {
	started := 0
	for {
		q.pop(now)
		n := q.startFront(now)
		if n == 0 {
			return started
		}
		started += n
	}
}

func (q *Queue) pop(now time.Time) {
	for len(q.entries) > 0 && q.entries[0].Timer.Finished(now) {
		q.entries[0] = nil
		q.entries = q.entries[1:]
	}
}

// startFront starts the front entry, together with the parallel run it opens
func (q *Queue) startFront(now time.Time) int {
	started := 0
	var prev *Entry
	for i, e := range q.entries {
		if e.Timer.Started() {
			break
		}
		if i != 0 && !(e.Parallel && prev.Parallel) {
			break
		}

		if e.OnStart != nil {
			e.OnStart(now)
		}
		e.Timer.Start(now)
		started++
		prev = e
	}
	return started
}

// Len returns the number of queued or running entries
func (q *Queue) Len() int {
	return len(q.entries)
}

// Idle reports whether nothing is queued or running
func (q *Queue) Idle() bool {
	return len(q.entries) == 0
}

// Pause pauses every running entry
func (q *Queue) Pause(now time.Time) {
	for _, e := range q.entries {
		e.Timer.Pause(now)
	}
}

// Resume resumes every paused entry
func (q *Queue) Resume(now time.Time) {
	for _, e := range q.entries {
		e.Timer.Resume(now)
	}
}

// Clear drops everything, leaving animated values wherever they currently are
func (q *Queue) Clear() {
	q.entries = nil
}
