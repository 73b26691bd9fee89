// Package testutil provides deterministic event builders shared by the
// weft package tests.
package testutil

import (
	"fmt"

	"github.com/weftlabs/weft/internal/event"
)

// Message builds a plain message event with the given ID.
func Message(id, sender, body string) *event.Event {
	return &event.Event{
		ID:      id,
		Type:    event.TypeMessage,
		Sender:  sender,
		Content: []byte(fmt.Sprintf(`{"msgtype":"m.text","body":%q}`, body)),
	}
}

// Member builds a membership state event for target, sent by sender.
func Member(id, sender, target, membership, displayName string) *event.Event {
	key := target
	return &event.Event{
		ID:       id,
		Type:     event.TypeMember,
		Sender:   sender,
		StateKey: &key,
		Content:  []byte(fmt.Sprintf(`{"membership":%q,"displayname":%q}`, membership, displayName)),
	}
}

// Encrypted builds a message event flagged as carrying encrypted-payload
// state, so the default substitution guard protects it.
func Encrypted(id, sender string) *event.Event {
	ev := Message(id, sender, "**encrypted**")
	ev.Encryption = &event.EncryptionInfo{
		Algorithm: "m.megolm.v1.aes-sha2",
		SessionID: "session-" + id,
	}
	return ev
}

// StateEvent builds a generic state event of the given type and state key.
func StateEvent(id, evType, sender, stateKey, rawContent string) *event.Event {
	key := stateKey
	return &event.Event{
		ID:       id,
		Type:     evType,
		Sender:   sender,
		StateKey: &key,
		Content:  []byte(rawContent),
	}
}

// Messages builds n message events with IDs prefix-1..prefix-n.
func Messages(prefix, sender string, n int) []*event.Event {
	out := make([]*event.Event, n)
	for i := range out {
		id := fmt.Sprintf("%s-%d", prefix, i+1)
		out[i] = Message(id, sender, "message "+id)
	}
	return out
}
