package timeline

import (
	"log/slog"

	"github.com/weftlabs/weft/internal/event"
)

// TimelineSet owns the timeline graph for a room (or filtered view): the
// registry of timelines, the distinguished live timeline, and the event
// index mapping every indexed event ID to its single owning timeline.
//
// All mutations must come from one goroutine; see the package comment.
type TimelineSet struct {
	roomID string

	timelines map[Handle]*Timeline
	live      Handle

	// index maps event ID -> owning timeline handle. Every event
	// reachable through any timeline's sequence has exactly one entry.
	index map[string]Handle

	timelineSupport bool
	filter          event.Filter
	handles         HandleGenerator
	guard           func(stored *event.Event) bool

	listeners []Listener
	clock     *Clock
}

// Option configures a TimelineSet at construction.
type Option func(*TimelineSet)

// WithTimelineSupport enables retention of historical timelines. When
// disabled (the default), a live reset discards all prior history and
// AddTimeline fails.
func WithTimelineSupport(enabled bool) Option {
	return func(s *TimelineSet) {
		s.timelineSupport = enabled
	}
}

// WithFilter installs the view filter applied to live events.
func WithFilter(f event.Filter) Option {
	return func(s *TimelineSet) {
		s.filter = f
	}
}

// WithHandleGenerator replaces the handle generator. Tests use
// NewFixedGenerator for deterministic handles.
func WithHandleGenerator(g HandleGenerator) Option {
	return func(s *TimelineSet) {
		s.handles = g
	}
}

// WithSubstitutionGuard replaces the predicate consulted by the
// duplicate-replace path. When the guard reports true for the stored
// event, the stored object is preserved and only its metadata is
// recomputed. The default guard reports true when the stored event
// carries an encryption marker.
func WithSubstitutionGuard(guard func(stored *event.Event) bool) Option {
	return func(s *TimelineSet) {
		s.guard = guard
	}
}

// defaultGuard preserves stored events carrying decrypted/encrypted
// payload state.
func defaultGuard(stored *event.Event) bool {
	return stored.Encryption != nil
}

// NewTimelineSet creates a set with one empty timeline, which becomes the
// initial live timeline.
func NewTimelineSet(roomID string, opts ...Option) *TimelineSet {
	s := &TimelineSet{
		roomID:    roomID,
		timelines: make(map[Handle]*Timeline),
		index:     make(map[string]Handle),
		handles:   UUIDv7Generator{},
		guard:     defaultGuard,
		clock:     NewClock(),
	}
	for _, opt := range opts {
		opt(s)
	}

	live := newTimeline(s.handles.Generate(), roomID)
	s.timelines[live.handle] = live
	s.live = live.handle

	return s
}

// RoomID returns the room this set tracks.
func (s *TimelineSet) RoomID() string {
	return s.roomID
}

// TimelineSupport reports whether historical timelines are retained.
func (s *TimelineSet) TimelineSupport() bool {
	return s.timelineSupport
}

// Filter returns the configured view filter, or nil.
func (s *TimelineSet) Filter() event.Filter {
	return s.filter
}

// Clock returns the set's notification clock.
func (s *TimelineSet) Clock() *Clock {
	return s.clock
}

// RegisterListener adds a notification listener. Listeners are invoked
// synchronously, in registration order, and must not re-enter the set.
func (s *TimelineSet) RegisterListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// LiveTimeline returns the current live timeline.
func (s *TimelineSet) LiveTimeline() *Timeline {
	return s.timelines[s.live]
}

// Timelines returns every timeline in the set, in no particular order.
func (s *TimelineSet) Timelines() []*Timeline {
	out := make([]*Timeline, 0, len(s.timelines))
	for _, t := range s.timelines {
		out = append(out, t)
	}
	return out
}

// TimelineByHandle resolves a handle against the registry, or nil.
func (s *TimelineSet) TimelineByHandle(h Handle) *Timeline {
	return s.timelines[h]
}

// TimelineForEvent returns the timeline owning the given event ID, or nil
// if the ID was never indexed. A miss is not an error.
func (s *TimelineSet) TimelineForEvent(id string) *Timeline {
	h, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.timelines[h]
}

// FindEventByID returns the indexed event with the given ID, or nil.
func (s *TimelineSet) FindEventByID(id string) *event.Event {
	t := s.TimelineForEvent(id)
	if t == nil {
		return nil
	}
	i := t.indexOf(id)
	if i < 0 {
		return nil
	}
	return t.events[i]
}

// IndexSize returns the number of indexed events. Used by tests and the
// CLI's summary output.
func (s *TimelineSet) IndexSize() int {
	return len(s.index)
}

// AddTimeline allocates an empty, unlinked timeline and adds it to the
// set. Fails with ErrTimelineSupportDisabled unless historical timeline
// retention is enabled.
func (s *TimelineSet) AddTimeline() (*Timeline, error) {
	if !s.timelineSupport {
		return nil, ErrTimelineSupportDisabled
	}
	t := newTimeline(s.handles.Generate(), s.roomID)
	s.timelines[t.handle] = t
	slog.Debug("timeline allocated", "room", s.roomID, "handle", t.handle)
	return t, nil
}

// RemoveEvent removes the event with the given ID from its owning
// timeline and the index, emitting a removal notification. Returns
// (nil, false) without mutation if the ID is unknown.
func (s *TimelineSet) RemoveEvent(id string) (*event.Event, bool) {
	h, ok := s.index[id]
	if !ok {
		return nil, false
	}
	t := s.timelines[h]
	ev, removed := t.RemoveEvent(id)
	if !removed {
		// Index said the timeline owns it but the timeline disagrees.
		// Leave the graph alone rather than guess.
		slog.Warn("event index inconsistency on removal", "room", s.roomID, "event", id, "handle", h)
		return nil, false
	}

	delete(s.index, id)
	s.emitChange(TimelineChange{
		Event:   ev,
		Removed: true,
		Context: ChangeContext{Timeline: t, Filter: s.filter},
	})
	return ev, true
}

// setEventMetadata resolves sender (and, for membership events, target)
// sentinels against the given state snapshot and attaches them to the
// event. State events being prepended are marked backward-looking.
func setEventMetadata(ev *event.Event, state *event.State, toStart bool) {
	sender := state.ResolveSentinel(ev.Sender)
	ev.SenderSentinel = &sender

	if ev.Type == event.TypeMember && ev.StateKey != nil {
		target := state.ResolveSentinel(*ev.StateKey)
		ev.TargetSentinel = &target
	}

	if ev.IsState() && toStart {
		ev.BackwardLooking = true
	}
}
