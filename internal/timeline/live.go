package timeline

import (
	"log/slog"

	"github.com/weftlabs/weft/internal/event"
)

// DuplicateStrategy governs live-event ingestion when the event's ID is
// already indexed.
type DuplicateStrategy int

const (
	// DuplicateIgnore drops the duplicate. The default.
	DuplicateIgnore DuplicateStrategy = iota
	// DuplicateReplace substitutes the stored event with the incoming
	// one, unless the substitution guard protects the stored object.
	DuplicateReplace
)

// AddLiveEvent ingests one real-time event.
//
// The configured filter, if any, is applied first; a veto drops the event
// silently. Duplicates are handled per the strategy. New events are
// appended to the live timeline's forward end, indexed, and announced
// with a change notification whose context marks a genuine live append.
func (s *TimelineSet) AddLiveEvent(ev *event.Event, strategy DuplicateStrategy) {
	if s.filter != nil {
		if passed := s.filter.Apply([]*event.Event{ev}); len(passed) == 0 {
			slog.Debug("live event vetoed by filter", "room", s.roomID, "event", ev.ID)
			return
		}
	}

	if ownerHandle, known := s.index[ev.ID]; known {
		if strategy == DuplicateReplace {
			s.replaceStoredEvent(ev, s.timelines[ownerHandle])
		}
		return
	}

	live := s.timelines[s.live]
	setEventMetadata(ev, live.State(Forwards), false)
	live.AddEvent(ev, false)
	s.index[ev.ID] = live.handle

	s.emitChange(TimelineChange{
		Event: ev,
		Context: ChangeContext{
			Timeline:     live,
			IsLiveAppend: true,
			Filter:       s.filter,
		},
	})
}

// replaceStoredEvent handles a live duplicate under DuplicateReplace.
//
// Metadata is recomputed against the owning timeline's forward-looking
// state on whichever object remains stored: if the substitution guard
// protects the stored event (by default, when it carries
// encrypted-payload state), the stored object is kept and refreshed;
// otherwise the incoming event takes the stored slot.
func (s *TimelineSet) replaceStoredEvent(incoming *event.Event, owner *Timeline) {
	pos := owner.indexOf(incoming.ID)
	if pos < 0 {
		slog.Warn("event index inconsistency on replace", "room", s.roomID, "event", incoming.ID, "handle", owner.handle)
		return
	}

	stored := owner.events[pos]
	if s.guard(stored) {
		setEventMetadata(stored, owner.State(Forwards), false)
		return
	}

	setEventMetadata(incoming, owner.State(Forwards), false)
	owner.events[pos] = incoming
}

// ResetLiveTimeline replaces the live timeline in response to a
// transport-reported gap.
//
// With timeline support disabled, the entire set is discarded: all
// timelines and every index entry go away, and a single fresh timeline
// becomes live. With timeline support enabled, a new timeline is
// allocated, seeded with a copy of the old live timeline's
// forward-looking state, and given newBackwardToken as its backward
// pagination token before anything else observes it; the old live
// timeline stays in the set as an orphaned chain.
//
// The old and new live timelines are deliberately not linked: the gap is
// exactly the transport's statement that the intervening events are
// unknown. Linking would assert false continuity; a later backward
// pagination may discover the bridge, and until then the comparator
// correctly reports unknown order across the gap.
func (s *TimelineSet) ResetLiveTimeline(newBackwardToken string) error {
	if !s.timelineSupport {
		fresh := newTimeline(s.handles.Generate(), s.roomID)
		s.timelines = map[Handle]*Timeline{fresh.handle: fresh}
		s.index = make(map[string]Handle)
		s.live = fresh.handle

		slog.Info("live timeline reset, history discarded", "room", s.roomID, "handle", fresh.handle)
		s.emitReset()
		return nil
	}

	fresh, err := s.AddTimeline()
	if err != nil {
		return err
	}

	oldLive := s.timelines[s.live]
	forward := oldLive.State(Forwards)
	fresh.setStates(forward.Clone(), forward.Clone())
	fresh.SetToken(newBackwardToken, Backwards)
	s.live = fresh.handle

	slog.Info("live timeline reset, history retained",
		"room", s.roomID,
		"old", oldLive.handle,
		"new", fresh.handle,
	)
	s.emitReset()
	return nil
}
