package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberEvent(id, userID, membership, displayName string) *Event {
	key := userID
	return &Event{
		ID:       id,
		Type:     TypeMember,
		Sender:   userID,
		StateKey: &key,
		Content:  []byte(`{"membership":"` + membership + `","displayname":"` + displayName + `"}`),
	}
}

func TestState_ResolveSentinel(t *testing.T) {
	st := NewState("!room:example.org")
	st.Apply([]*Event{memberEvent("$m1", "@alice:example.org", "join", "Alice")})

	got := st.ResolveSentinel("@alice:example.org")
	assert.Equal(t, Sentinel{
		UserID:      "@alice:example.org",
		DisplayName: "Alice",
		Membership:  "join",
	}, got)
}

func TestState_ResolveSentinel_Unknown(t *testing.T) {
	st := NewState("!room:example.org")

	got := st.ResolveSentinel("@ghost:example.org")
	assert.Equal(t, "@ghost:example.org", got.UserID)
	assert.Equal(t, "@ghost:example.org", got.DisplayName, "unknown users echo their ID")
	assert.Equal(t, "leave", got.Membership)
}

func TestState_ResolveSentinel_NormalizesDisplayName(t *testing.T) {
	// "e" + combining acute accent: NFD form of "é".
	st := NewState("!room:example.org")
	st.Apply([]*Event{memberEvent("$m1", "@rene:example.org", "join", "René")})

	got := st.ResolveSentinel("@rene:example.org")
	assert.Equal(t, "René", got.DisplayName)
}

func TestState_Apply_LaterEventWins(t *testing.T) {
	st := NewState("!room:example.org")
	st.Apply([]*Event{
		memberEvent("$m1", "@alice:example.org", "invite", "Alice"),
		memberEvent("$m2", "@alice:example.org", "join", "Alice A."),
	})

	got := st.ResolveSentinel("@alice:example.org")
	assert.Equal(t, "join", got.Membership)
	assert.Equal(t, "Alice A.", got.DisplayName)
	assert.Equal(t, 1, st.Len())
}

func TestState_Apply_IgnoresNonState(t *testing.T) {
	st := NewState("!room:example.org")
	st.Apply([]*Event{{ID: "$1", Type: TypeMessage}})
	assert.Equal(t, 0, st.Len())
}

func TestState_Clone_Independent(t *testing.T) {
	st := NewState("!room:example.org")
	st.Apply([]*Event{memberEvent("$m1", "@alice:example.org", "join", "Alice")})

	clone := st.Clone()
	require.Equal(t, 1, clone.Len())
	assert.Equal(t, st.RoomID(), clone.RoomID())

	// Mutating the clone must not leak into the original.
	clone.Apply([]*Event{memberEvent("$m2", "@bob:example.org", "join", "Bob")})
	assert.Equal(t, 2, clone.Len())
	assert.Equal(t, 1, st.Len())
}

func TestTypeFilter_Apply(t *testing.T) {
	f := NewTypeFilter(TypeMessage)

	msg := &Event{ID: "$1", Type: TypeMessage}
	member := memberEvent("$2", "@a:example.org", "join", "A")

	passed := f.Apply([]*Event{msg, member})
	require.Len(t, passed, 1)
	assert.Equal(t, "$1", passed[0].ID)

	assert.Empty(t, f.Apply([]*Event{member}), "all vetoed yields empty result")
}
