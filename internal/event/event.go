package event

import (
	"github.com/tidwall/gjson"
)

// Well-known event types read by the core.
const (
	// TypeMember is the membership state event type. Events of this type
	// get a target sentinel resolved from their state key.
	TypeMember = "m.room.member"

	// TypeMessage is the plain message event type.
	TypeMessage = "m.room.message"
)

// EncryptionInfo marks an event as carrying encrypted-payload state
// (the ciphertext envelope, or a decrypted clear event attached to one).
// The duplicate-replace path refuses to substitute a stored event whose
// marker is set, so that decryption results are not silently discarded.
type EncryptionInfo struct {
	Algorithm string
	SessionID string
}

// Event is a single room event plus the annotations the owning timeline
// set maintains on it.
//
// Wire fields are written once at construction and treated as immutable.
// Annotation fields are mutated by the timeline set as the event enters a
// timeline; this is the only sanctioned mutation of a stored event, and
// callers aliasing Event pointers must tolerate it.
type Event struct {
	ID        string `json:"event_id"`
	Type      string `json:"type"`
	Sender    string `json:"sender"`
	RoomID    string `json:"room_id,omitempty"`
	Timestamp int64  `json:"origin_server_ts"`

	// StateKey is nil for non-state events. Note the difference between
	// nil and a pointer to "": an empty state key is still a state event.
	StateKey *string `json:"state_key,omitempty"`

	// Content holds the raw JSON content as received. Read it through the
	// gjson accessors below rather than decoding it wholesale.
	Content []byte `json:"content,omitempty"`

	// Unsigned holds the raw unsigned envelope, if any.
	Unsigned []byte `json:"unsigned,omitempty"`

	// Annotations, maintained by the owning timeline set.

	// SenderSentinel is the sender's resolved identity at the state edge
	// the event entered through.
	SenderSentinel *Sentinel `json:"-"`

	// TargetSentinel is the resolved identity of the member a membership
	// event acts on. Nil for non-membership events.
	TargetSentinel *Sentinel `json:"-"`

	// BackwardLooking is set on state events inserted at the start of a
	// timeline. Consumers must then read any prev_content the event
	// carries as the state *after* the event, not before: walking
	// backwards through history, state regresses as earlier events are
	// revealed.
	BackwardLooking bool `json:"-"`

	// Encryption, when non-nil, marks the event as carrying
	// encrypted-payload state. See EncryptionInfo.
	Encryption *EncryptionInfo `json:"-"`
}

// IsState reports whether the event carries room-state semantics.
func (e *Event) IsState() bool {
	return e.StateKey != nil
}

// ContentString extracts a string field from the raw content by gjson path.
// Returns "" if the field is absent or not a string.
func (e *Event) ContentString(path string) string {
	return gjson.GetBytes(e.Content, path).String()
}

// Membership returns the membership value of a membership event
// ("join", "leave", "invite", "ban"), or "" for other events.
func (e *Event) Membership() string {
	if e.Type != TypeMember {
		return ""
	}
	return e.ContentString("membership")
}

// PrevContent returns the raw prev_content carried in the unsigned
// envelope, or nil if absent.
func (e *Event) PrevContent() []byte {
	res := gjson.GetBytes(e.Unsigned, "prev_content")
	if !res.Exists() {
		return nil
	}
	return []byte(res.Raw)
}
