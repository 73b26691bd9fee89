package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/event"
	"github.com/weftlabs/weft/internal/testutil"
	"github.com/weftlabs/weft/internal/timeline"
)

// buildPopulatedSet ingests a small history: a live timeline seeded with
// member state, two live events, and a backfilled historical timeline
// linked behind it.
func buildPopulatedSet(t *testing.T) *timeline.TimelineSet {
	t.Helper()

	set := timeline.NewTimelineSet("!roundtrip:example.org",
		timeline.WithTimelineSupport(true),
		timeline.WithHandleGenerator(timeline.NewFixedGenerator("tl")),
	)

	live := set.LiveTimeline()
	live.InitialiseState([]*event.Event{
		testutil.Member("$join-alice", "@alice:example.org", "@alice:example.org", "join", "Alice"),
	})

	set.AddLiveEvent(testutil.Message("$m1", "@alice:example.org", "hello"), timeline.DuplicateIgnore)
	set.AddLiveEvent(testutil.Member("$m2", "@alice:example.org", "@bob:example.org", "invite", "Bob"), timeline.DuplicateIgnore)

	hist, err := set.AddTimeline()
	require.NoError(t, err)
	require.NoError(t, set.AddEventsToTimeline(testutil.Messages("$old", "@alice:example.org", 2), true, hist, "tokB"))

	// Joining a known historical event onto the live timeline's start
	// links the two timelines.
	require.NoError(t, set.AddEventsToTimeline(
		[]*event.Event{testutil.Message("$old-1", "@alice:example.org", "message $old-1")},
		true, live, "unused",
	))

	return set
}

func TestSaveSet_LoadSet_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved := buildPopulatedSet(t)
	require.NoError(t, s.SaveSet(ctx, saved))

	loaded, found, err := s.LoadSet(ctx, saved.RoomID())
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, saved.RoomID(), loaded.RoomID())
	assert.True(t, loaded.TimelineSupport())
	assert.Equal(t, saved.LiveTimeline().Handle(), loaded.LiveTimeline().Handle())
	assert.Equal(t, saved.IndexSize(), loaded.IndexSize())
	assert.Equal(t, saved.Clock().Current(), loaded.Clock().Current())

	savedTimelines := saved.Timelines()
	require.Len(t, loaded.Timelines(), len(savedTimelines))

	for _, want := range savedTimelines {
		got := loaded.TimelineByHandle(want.Handle())
		require.NotNil(t, got, "timeline %s missing after reload", want.Handle())

		assert.Equal(t, eventIDs(want.Events()), eventIDs(got.Events()),
			"event order for %s", want.Handle())
		for _, dir := range []timeline.Direction{timeline.Backwards, timeline.Forwards} {
			assert.Equal(t, want.Token(dir), got.Token(dir), "%s token for %s", dir, want.Handle())
			assert.Equal(t, want.Neighbor(dir), got.Neighbor(dir), "%s neighbor for %s", dir, want.Handle())
		}
	}
}

func TestSaveSet_LoadSet_PreservesAnnotations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved := buildPopulatedSet(t)
	require.NoError(t, s.SaveSet(ctx, saved))

	loaded, found, err := s.LoadSet(ctx, saved.RoomID())
	require.NoError(t, err)
	require.True(t, found)

	m1 := loaded.FindEventByID("$m1")
	require.NotNil(t, m1)
	require.NotNil(t, m1.SenderSentinel)
	assert.Equal(t, "@alice:example.org", m1.SenderSentinel.UserID)
	assert.Equal(t, "Alice", m1.SenderSentinel.DisplayName)
	assert.Equal(t, "join", m1.SenderSentinel.Membership)

	m2 := loaded.FindEventByID("$m2")
	require.NotNil(t, m2)
	require.NotNil(t, m2.TargetSentinel, "member events carry a target sentinel")
	assert.Equal(t, "@bob:example.org", m2.TargetSentinel.UserID)
}

func TestSaveSet_LoadSet_PreservesEdgeState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved := buildPopulatedSet(t)
	require.NoError(t, s.SaveSet(ctx, saved))

	loaded, found, err := s.LoadSet(ctx, saved.RoomID())
	require.NoError(t, err)
	require.True(t, found)

	live := loaded.LiveTimeline()
	for _, dir := range []timeline.Direction{timeline.Backwards, timeline.Forwards} {
		got := live.State(dir).Get(event.TypeMember, "@alice:example.org")
		require.NotNil(t, got, "%s edge lost the seeded member state", dir)
		assert.Equal(t, "$join-alice", got.ID)
		assert.Equal(t, "join", got.Membership())
	}

	// The historical timeline was never seeded; its snapshots stay empty.
	hist := loaded.TimelineByHandle("tl-2")
	require.NotNil(t, hist)
	assert.Zero(t, hist.State(timeline.Forwards).Len())
}

func TestSaveSet_OverwritesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved := buildPopulatedSet(t)
	require.NoError(t, s.SaveSet(ctx, saved))

	// Mutate and save again; the reload must reflect only the new shape.
	saved.AddLiveEvent(testutil.Message("$m3", "@alice:example.org", "again"), timeline.DuplicateIgnore)
	require.NoError(t, s.SaveSet(ctx, saved))

	loaded, found, err := s.LoadSet(ctx, saved.RoomID())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved.IndexSize(), loaded.IndexSize())
	assert.NotNil(t, loaded.FindEventByID("$m3"))
}

func eventIDs(events []*event.Event) []string {
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}
	return ids
}
