package timeline

import (
	"github.com/weftlabs/weft/internal/event"
)

// Direction distinguishes the two temporal edges of a timeline.
type Direction int

const (
	// Backwards is toward older events (the start of a timeline).
	Backwards Direction = iota + 1
	// Forwards is toward newer events (the end of a timeline).
	Forwards
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Backwards {
		return Forwards
	}
	return Backwards
}

func (d Direction) String() string {
	if d == Backwards {
		return "backwards"
	}
	return "forwards"
}

// Timeline is a contiguous run of events in a room: an ordered sequence,
// a room-state snapshot for each temporal edge, an optional pagination
// token per direction, and at most one neighbor per direction.
//
// Events may only be appended or prepended, never inserted randomly.
// Neighbors are stored as handles and resolved through the owning set's
// registry; a Timeline on its own cannot reach its neighbors.
type Timeline struct {
	handle Handle
	roomID string
	events []*event.Event

	startState *event.State // backward-looking edge
	endState   *event.State // forward-looking edge

	prevToken string
	nextToken string

	prevNeighbor Handle
	nextNeighbor Handle
}

// newTimeline creates an empty, unlinked timeline with fresh edge states.
func newTimeline(handle Handle, roomID string) *Timeline {
	return &Timeline{
		handle:     handle,
		roomID:     roomID,
		startState: event.NewState(roomID),
		endState:   event.NewState(roomID),
	}
}

// Handle returns the timeline's stable opaque handle.
func (t *Timeline) Handle() Handle {
	return t.handle
}

// RoomID returns the room this timeline belongs to.
func (t *Timeline) RoomID() string {
	return t.roomID
}

// Events returns the ordered event sequence. The returned slice is a live
// view owned by the timeline; callers must not mutate it.
func (t *Timeline) Events() []*event.Event {
	return t.events
}

// AddEvent appends (atStart = false) or prepends (atStart = true) an event.
func (t *Timeline) AddEvent(ev *event.Event, atStart bool) {
	if atStart {
		t.events = append([]*event.Event{ev}, t.events...)
	} else {
		t.events = append(t.events, ev)
	}
}

// RemoveEvent removes the event with the given ID from the sequence.
// Returns the removed event, or (nil, false) if the ID is not present.
func (t *Timeline) RemoveEvent(id string) (*event.Event, bool) {
	for i, ev := range t.events {
		if ev.ID == id {
			t.events = append(t.events[:i], t.events[i+1:]...)
			return ev, true
		}
	}
	return nil, false
}

// indexOf returns the position of an event ID in the sequence, or -1.
func (t *Timeline) indexOf(id string) int {
	for i, ev := range t.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

// State returns the room-state snapshot for the given edge.
func (t *Timeline) State(dir Direction) *event.State {
	if dir == Backwards {
		return t.startState
	}
	return t.endState
}

// InitialiseState seeds both edge snapshots from the given state events.
// Must be called before any events are added.
func (t *Timeline) InitialiseState(stateEvents []*event.Event) {
	t.startState.Apply(stateEvents)
	t.endState.Apply(stateEvents)
}

// setStates replaces both edge snapshots. Used by live reset to seed a
// fresh timeline from the previous live timeline's forward edge.
func (t *Timeline) setStates(start, end *event.State) {
	t.startState = start
	t.endState = end
}

// Token returns the pagination token for the given direction, or "".
func (t *Timeline) Token(dir Direction) string {
	if dir == Backwards {
		return t.prevToken
	}
	return t.nextToken
}

// SetToken stores the pagination token for the given direction.
func (t *Timeline) SetToken(token string, dir Direction) {
	if dir == Backwards {
		t.prevToken = token
	} else {
		t.nextToken = token
	}
}

// Neighbor returns the neighbor handle in the given direction, or None.
func (t *Timeline) Neighbor(dir Direction) Handle {
	if dir == Backwards {
		return t.prevNeighbor
	}
	return t.nextNeighbor
}

// SetNeighbor records a neighbor handle in the given direction.
//
// Callers are responsible for keeping links mutual: if A's forward
// neighbor is B then B's backward neighbor must be A. The set's join
// engine always writes both halves; going behind its back can corrupt the
// graph, and the core does not defend against a corrupted graph.
func (t *Timeline) SetNeighbor(h Handle, dir Direction) {
	if dir == Backwards {
		t.prevNeighbor = h
	} else {
		t.nextNeighbor = h
	}
}
