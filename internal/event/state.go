package event

import (
	"golang.org/x/text/unicode/norm"
)

// Sentinel is the resolved display identity of a user at a specific point
// in room state. It is a value: resolving the same user against the same
// snapshot always yields an equal Sentinel.
type Sentinel struct {
	UserID      string
	DisplayName string
	AvatarURL   string
	Membership  string
}

// State is a room-state snapshot for one temporal edge of a timeline.
//
// The snapshot is seeded once (InitialiseState on the owning timeline, or a
// Clone taken during live reset) and read-only afterwards. It indexes state
// events by (type, state key).
type State struct {
	roomID string
	events map[string]map[string]*Event // type -> state key -> event
}

// NewState creates an empty snapshot for the given room.
func NewState(roomID string) *State {
	return &State{
		roomID: roomID,
		events: make(map[string]map[string]*Event),
	}
}

// RoomID returns the room this snapshot belongs to.
func (s *State) RoomID() string {
	return s.roomID
}

// Apply seeds the snapshot with state events. Later events for the same
// (type, state key) win. Non-state events are ignored.
func (s *State) Apply(events []*Event) {
	for _, ev := range events {
		if ev == nil || !ev.IsState() {
			continue
		}
		byKey := s.events[ev.Type]
		if byKey == nil {
			byKey = make(map[string]*Event)
			s.events[ev.Type] = byKey
		}
		byKey[*ev.StateKey] = ev
	}
}

// Get returns the state event for (evType, stateKey), or nil.
func (s *State) Get(evType, stateKey string) *Event {
	return s.events[evType][stateKey]
}

// Events returns every state event held, in no particular order.
func (s *State) Events() []*Event {
	var out []*Event
	for _, byKey := range s.events {
		for _, ev := range byKey {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns the number of state events held.
func (s *State) Len() int {
	n := 0
	for _, byKey := range s.events {
		n += len(byKey)
	}
	return n
}

// ResolveSentinel resolves the display identity for a user against this
// snapshot. Unknown users resolve to a sentinel that echoes the user ID
// with membership "leave"; resolution never fails.
func (s *State) ResolveSentinel(userID string) Sentinel {
	member := s.Get(TypeMember, userID)
	if member == nil {
		return Sentinel{
			UserID:      userID,
			DisplayName: userID,
			Membership:  "leave",
		}
	}

	display := member.ContentString("displayname")
	if display == "" {
		display = userID
	}

	return Sentinel{
		UserID: userID,
		// Display names arrive in whatever Unicode form the sender's
		// client produced; normalize so equal names compare equal.
		DisplayName: norm.NFC.String(display),
		AvatarURL:   member.ContentString("avatar_url"),
		Membership:  member.Membership(),
	}
}

// Clone returns an independent snapshot holding the same state events.
// The event pointers are shared; state events are not mutated through
// snapshots.
func (s *State) Clone() *State {
	c := NewState(s.roomID)
	for evType, byKey := range s.events {
		dst := make(map[string]*Event, len(byKey))
		for key, ev := range byKey {
			dst[key] = ev
		}
		c.events[evType] = dst
	}
	return c
}
