package timeline

import (
	"sync/atomic"

	"github.com/weftlabs/weft/internal/event"
)

// Clock is a monotonic logical clock stamping notification records.
//
// Sequence numbers make the "ordered, synchronous" notification contract
// checkable: a listener observing records sees strictly increasing seqs,
// and a journaled replay reproduces the same stamps.
//
// Safe for concurrent use, though the core only calls it from the single
// mutating goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used when resuming a set rehydrated from the store.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// ChangeContext carries the situational fields of a timeline change.
type ChangeContext struct {
	// Timeline is the timeline the event entered or left.
	Timeline *Timeline

	// IsLiveAppend is true exactly when the event was appended to the
	// current live timeline in the forward direction.
	IsLiveAppend bool

	// Filter is the set's configured filter, if any, so consumers can
	// re-evaluate view membership without reaching back into the set.
	Filter event.Filter
}

// TimelineChange is emitted for every event added to or removed from the
// graph, in processing order.
type TimelineChange struct {
	Seq       int64
	Event     *event.Event
	Prepended bool
	Removed   bool
	Context   ChangeContext
}

// LiveReset is emitted after the live timeline has been replaced in
// response to a transport-reported gap.
type LiveReset struct {
	Seq int64
}

// Listener observes set mutations. Emission is synchronous and inline
// with the mutation: a listener must not re-enter a mutating operation on
// the same set from within a handler; behavior in that case is
// unspecified.
type Listener interface {
	OnTimelineChange(c TimelineChange)
	OnLiveReset(r LiveReset)
}

// ChangeRecorder is a Listener that accumulates records in order.
// Useful in tests and in the CLI's replay trace.
type ChangeRecorder struct {
	Changes []TimelineChange
	Resets  []LiveReset
}

// OnTimelineChange implements Listener.
func (r *ChangeRecorder) OnTimelineChange(c TimelineChange) {
	r.Changes = append(r.Changes, c)
}

// OnLiveReset implements Listener.
func (r *ChangeRecorder) OnLiveReset(reset LiveReset) {
	r.Resets = append(r.Resets, reset)
}

func (s *TimelineSet) emitChange(c TimelineChange) {
	c.Seq = s.clock.Next()
	for _, l := range s.listeners {
		l.OnTimelineChange(c)
	}
}

func (s *TimelineSet) emitReset() {
	r := LiveReset{Seq: s.clock.Next()}
	for _, l := range s.listeners {
		l.OnLiveReset(r)
	}
}
