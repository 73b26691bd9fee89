package timeline

import (
	"fmt"

	"github.com/weftlabs/weft/internal/event"
)

// RehydrateTimeline rebuilds a timeline from persisted fields. Events are
// attached in stored order; neighbor handles are recorded as-is and
// validated when the set is rehydrated.
func RehydrateTimeline(handle Handle, roomID string, events []*event.Event, prevToken, nextToken string, prevNeighbor, nextNeighbor Handle) *Timeline {
	t := newTimeline(handle, roomID)
	t.events = append(t.events, events...)
	t.prevToken = prevToken
	t.nextToken = nextToken
	t.prevNeighbor = prevNeighbor
	t.nextNeighbor = nextNeighbor
	return t
}

// RehydrateSet rebuilds a TimelineSet from persisted timelines, rebuilding
// the event index and resuming the notification clock.
//
// The persisted graph is validated on the way in: every event ID may be
// owned by exactly one timeline, neighbor handles must resolve and be
// mutual, the live handle must resolve, and the live timeline must have no
// forward neighbor. Violations mean the snapshot is corrupt and are
// reported as errors.
func RehydrateSet(roomID string, live Handle, timelines []*Timeline, clockStart int64, opts ...Option) (*TimelineSet, error) {
	s := &TimelineSet{
		roomID:    roomID,
		timelines: make(map[Handle]*Timeline, len(timelines)),
		index:     make(map[string]Handle),
		handles:   UUIDv7Generator{},
		guard:     defaultGuard,
		clock:     NewClockAt(clockStart),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, t := range timelines {
		if _, dup := s.timelines[t.handle]; dup {
			return nil, fmt.Errorf("rehydrate set %s: duplicate timeline handle %s", roomID, t.handle)
		}
		s.timelines[t.handle] = t
	}

	for _, t := range timelines {
		for _, ev := range t.events {
			if owner, dup := s.index[ev.ID]; dup {
				return nil, fmt.Errorf("rehydrate set %s: event %s owned by both %s and %s", roomID, ev.ID, owner, t.handle)
			}
			s.index[ev.ID] = t.handle
		}

		for _, dir := range []Direction{Backwards, Forwards} {
			n := t.Neighbor(dir)
			if n == None {
				continue
			}
			neighbor, ok := s.timelines[n]
			if !ok {
				return nil, fmt.Errorf("rehydrate set %s: timeline %s has dangling %s neighbor %s", roomID, t.handle, dir, n)
			}
			if neighbor.Neighbor(dir.Opposite()) != t.handle {
				return nil, fmt.Errorf("rehydrate set %s: neighbor link %s -> %s is not mutual", roomID, t.handle, n)
			}
		}
	}

	liveTimeline, ok := s.timelines[live]
	if !ok {
		return nil, fmt.Errorf("rehydrate set %s: live handle %s not in set", roomID, live)
	}
	if liveTimeline.Neighbor(Forwards) != None {
		return nil, fmt.Errorf("rehydrate set %s: live timeline %s has a forward neighbor", roomID, live)
	}
	s.live = live

	return s, nil
}
