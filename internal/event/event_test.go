package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_IsState(t *testing.T) {
	msg := &Event{ID: "$1", Type: TypeMessage}
	assert.False(t, msg.IsState())

	empty := ""
	topic := &Event{ID: "$2", Type: "m.room.topic", StateKey: &empty}
	assert.True(t, topic.IsState(), "empty state key is still a state event")
}

func TestEvent_ContentString(t *testing.T) {
	ev := &Event{
		ID:      "$1",
		Type:    TypeMessage,
		Content: []byte(`{"msgtype":"m.text","body":"hello"}`),
	}

	assert.Equal(t, "hello", ev.ContentString("body"))
	assert.Equal(t, "", ev.ContentString("missing"))
}

func TestEvent_Membership(t *testing.T) {
	key := "@bob:example.org"
	member := &Event{
		ID:       "$1",
		Type:     TypeMember,
		Sender:   "@bob:example.org",
		StateKey: &key,
		Content:  []byte(`{"membership":"join","displayname":"Bob"}`),
	}
	assert.Equal(t, "join", member.Membership())

	msg := &Event{
		ID:      "$2",
		Type:    TypeMessage,
		Content: []byte(`{"membership":"join"}`),
	}
	assert.Equal(t, "", msg.Membership(), "non-member events have no membership")
}

func TestEvent_PrevContent(t *testing.T) {
	ev := &Event{
		ID:       "$1",
		Type:     TypeMember,
		Unsigned: []byte(`{"prev_content":{"membership":"invite"}}`),
	}

	prev := ev.PrevContent()
	require.NotNil(t, prev)
	assert.JSONEq(t, `{"membership":"invite"}`, string(prev))

	bare := &Event{ID: "$2", Type: TypeMessage}
	assert.Nil(t, bare.PrevContent())
}
