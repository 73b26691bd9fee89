package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/event"
	"github.com/weftlabs/weft/internal/testutil"
)

// newTestSet creates a set with timeline support and deterministic
// handles: tl-1 is the initial live timeline.
func newTestSet(t *testing.T, opts ...Option) *TimelineSet {
	t.Helper()
	opts = append([]Option{
		WithTimelineSupport(true),
		WithHandleGenerator(NewFixedGenerator("tl")),
	}, opts...)
	return NewTimelineSet("!room:example.org", opts...)
}

// seedTimeline allocates a timeline and forward-fills it with events.
func seedTimeline(t *testing.T, s *TimelineSet, events ...*event.Event) *Timeline {
	t.Helper()
	tl, err := s.AddTimeline()
	require.NoError(t, err)
	require.NoError(t, s.AddEventsToTimeline(events, false, tl, ""))
	return tl
}

func eventIDs(tl *Timeline) []string {
	ids := make([]string, 0, len(tl.Events()))
	for _, ev := range tl.Events() {
		ids = append(ids, ev.ID)
	}
	return ids
}

func TestAddEventsToTimeline_NoTarget(t *testing.T) {
	s := newTestSet(t)
	err := s.AddEventsToTimeline(testutil.Messages("$a", "@a:example.org", 1), false, nil, "")
	assert.ErrorIs(t, err, ErrNoTimeline)
}

func TestAddEventsToTimeline_ForwardIntoLive(t *testing.T) {
	s := newTestSet(t)
	err := s.AddEventsToTimeline(testutil.Messages("$a", "@a:example.org", 1), false, s.LiveTimeline(), "")
	assert.ErrorIs(t, err, ErrLiveForwardPagination)

	// Backward pagination into the live timeline is fine.
	err = s.AddEventsToTimeline(testutil.Messages("$a", "@a:example.org", 1), true, s.LiveTimeline(), "")
	assert.NoError(t, err)
}

func TestAddEventsToTimeline_PrependsBackwards(t *testing.T) {
	s := newTestSet(t)
	c := testutil.Message("$c", "@a:example.org", "c")
	tl := seedTimeline(t, s, c)

	a := testutil.Message("$a", "@a:example.org", "a")
	b := testutil.Message("$b", "@a:example.org", "b")
	// Backward pagination delivers newest-first: the batch walks from $b
	// back to $a, each prepended in turn.
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{b, a}, true, tl, "back-tok"))

	assert.Equal(t, []string{"$a", "$b", "$c"}, eventIDs(tl))
	assert.Equal(t, "back-tok", tl.Token(Backwards))
	assert.Equal(t, "", tl.Token(Forwards))
}

func TestAddEventsToTimeline_BackwardLookingStateEvents(t *testing.T) {
	s := newTestSet(t)
	tl := seedTimeline(t, s, testutil.Message("$c", "@a:example.org", "c"))

	topic := testutil.StateEvent("$topic", "m.room.topic", "@a:example.org", "", `{"topic":"old"}`)
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{topic}, true, tl, ""))

	assert.True(t, topic.BackwardLooking, "prepended state events are marked backward-looking")
	assert.NotNil(t, topic.SenderSentinel)
}

// The worked join scenario: four seeded timelines [M], [P], [S], [T] with
// [S] and [T] already linked. Ingesting [M N P R S T U] from the [M]
// timeline stitches everything into one chain and lands the token on the
// final timeline.
func TestAddEventsToTimeline_JoinsChains(t *testing.T) {
	s := newTestSet(t)

	mkEv := func(id string) *event.Event { return testutil.Message(id, "@a:example.org", id) }

	m, n := mkEv("$m"), mkEv("$n")
	p, r := mkEv("$p"), mkEv("$r")
	sv, tv, u := mkEv("$s"), mkEv("$t"), mkEv("$u")

	tlM := seedTimeline(t, s, m)   // tl-2
	tlP := seedTimeline(t, s, p)   // tl-3
	tlS := seedTimeline(t, s, sv)  // tl-4
	tlT := seedTimeline(t, s, tv)  // tl-5

	tlS.SetNeighbor(tlT.Handle(), Forwards)
	tlT.SetNeighbor(tlS.Handle(), Backwards)

	batch := []*event.Event{m, n, p, r, sv, tv, u}
	require.NoError(t, s.AddEventsToTimeline(batch, false, tlM, "tok1"))

	assert.Equal(t, []string{"$m", "$n"}, eventIDs(tlM))
	assert.Equal(t, []string{"$p", "$r"}, eventIDs(tlP))
	assert.Equal(t, []string{"$s"}, eventIDs(tlS))
	assert.Equal(t, []string{"$t", "$u"}, eventIDs(tlT))

	// Chain: [M,N] <-> [P,R] <-> [S] <-> [T,U], all links mutual.
	assert.Equal(t, tlP.Handle(), tlM.Neighbor(Forwards))
	assert.Equal(t, tlM.Handle(), tlP.Neighbor(Backwards))
	assert.Equal(t, tlS.Handle(), tlP.Neighbor(Forwards))
	assert.Equal(t, tlP.Handle(), tlS.Neighbor(Backwards))
	assert.Equal(t, tlT.Handle(), tlS.Neighbor(Forwards))
	assert.Equal(t, tlS.Handle(), tlT.Neighbor(Backwards))

	// $u, the last processed event, was new: the token lands on the
	// final timeline in the travel direction.
	assert.Equal(t, "tok1", tlT.Token(Forwards))
	assert.Equal(t, "", tlM.Token(Forwards))

	// Every event has exactly one owner and it is the right one.
	for _, tc := range []struct {
		id string
		tl *Timeline
	}{
		{"$m", tlM}, {"$n", tlM}, {"$p", tlP}, {"$r", tlP},
		{"$s", tlS}, {"$t", tlT}, {"$u", tlT},
	} {
		assert.Same(t, tc.tl, s.TimelineForEvent(tc.id), "owner of %s", tc.id)
	}
}

func TestAddEventsToTimeline_WalkIntoLiveIsLiveAppend(t *testing.T) {
	s := newTestSet(t)
	rec := &ChangeRecorder{}
	s.RegisterListener(rec)

	liveEv := testutil.Message("$live", "@a:example.org", "live")
	s.AddLiveEvent(liveEv, DuplicateIgnore)

	old := testutil.Message("$old", "@a:example.org", "old")
	tl2 := seedTimeline(t, s, old)

	// Backward pagination bridges tl-2 behind the live timeline.
	live := s.LiveTimeline()
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{old}, true, live, ""))
	require.Equal(t, live.Handle(), tl2.Neighbor(Forwards))

	// A forward batch from tl-2 follows that link into the live timeline,
	// so the new event lands there as a genuine live append.
	x := testutil.Message("$x", "@a:example.org", "x")
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{liveEv, x}, false, tl2, ""))

	last := rec.Changes[len(rec.Changes)-1]
	require.Equal(t, "$x", last.Event.ID)
	assert.Same(t, live, last.Context.Timeline)
	assert.True(t, last.Context.IsLiveAppend,
		"forward append to the live timeline is a live append even on the batch path")

	// Prepends to the live timeline are never live appends.
	pre := testutil.Message("$pre", "@a:example.org", "pre")
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{pre}, true, live, ""))
	last = rec.Changes[len(rec.Changes)-1]
	require.Equal(t, "$pre", last.Event.ID)
	assert.False(t, last.Context.IsLiveAppend)
}

// A forward walk that reaches the live timeline and then meets another
// chain links the live timeline forwards. The in-memory graph tolerates
// this, but RehydrateSet rejects such a snapshot; see the join engine's
// linking comment.
func TestAddEventsToTimeline_WalkThroughLiveLinksForward(t *testing.T) {
	s := newTestSet(t)

	liveEv := testutil.Message("$live", "@a:example.org", "live")
	s.AddLiveEvent(liveEv, DuplicateIgnore)

	old := testutil.Message("$old", "@a:example.org", "old")
	tl2 := seedTimeline(t, s, old)
	ahead := testutil.Message("$ahead", "@a:example.org", "ahead")
	tl3 := seedTimeline(t, s, ahead)

	live := s.LiveTimeline()
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{old}, true, live, ""))

	require.NoError(t, s.AddEventsToTimeline([]*event.Event{liveEv, ahead}, false, tl2, ""))
	assert.Equal(t, tl3.Handle(), live.Neighbor(Forwards))
}

func TestAddEventsToTimeline_TokenSuppression(t *testing.T) {
	t.Run("all known, no link formed: token superseded", func(t *testing.T) {
		s := newTestSet(t)
		a := testutil.Message("$a", "@a:example.org", "a")
		b := testutil.Message("$b", "@a:example.org", "b")
		tl := seedTimeline(t, s, a, b)
		tl.SetToken("stale", Forwards)

		require.NoError(t, s.AddEventsToTimeline([]*event.Event{a, b}, false, tl, "fresh"))
		assert.Equal(t, "fresh", tl.Token(Forwards),
			"an unproductive batch should supersede the stale token")
	})

	t.Run("all known, link formed: token retained", func(t *testing.T) {
		s := newTestSet(t)
		a := testutil.Message("$a", "@a:example.org", "a")
		b := testutil.Message("$b", "@a:example.org", "b")
		tlA := seedTimeline(t, s, a)
		tlB := seedTimeline(t, s, b)
		tlB.SetToken("old", Forwards)

		require.NoError(t, s.AddEventsToTimeline([]*event.Event{a, b}, false, tlA, "fresh"))

		// The batch linked the two timelines, so it was not unproductive;
		// the final timeline keeps its own token.
		assert.Equal(t, tlB.Handle(), tlA.Neighbor(Forwards))
		assert.Equal(t, "old", tlB.Token(Forwards))
	})
}

func TestAddEventsToTimeline_FollowsExistingNeighbor(t *testing.T) {
	s := newTestSet(t)
	a := testutil.Message("$a", "@a:example.org", "a")
	b := testutil.Message("$b", "@a:example.org", "b")
	c := testutil.Message("$c", "@a:example.org", "c")

	tlA := seedTimeline(t, s, a) // tl-2
	tlB := seedTimeline(t, s, b) // tl-3
	tlC := seedTimeline(t, s, c) // tl-4

	// tl-2 already has a forward neighbor (tl-3). A duplicate owned by
	// tl-4 must follow the existing link instead of re-linking.
	tlA.SetNeighbor(tlB.Handle(), Forwards)
	tlB.SetNeighbor(tlA.Handle(), Backwards)

	d := testutil.Message("$d", "@a:example.org", "d")
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{a, c, d}, false, tlA, "tok"))

	// The walk moved to tl-3 (the existing neighbor), not tl-4, and $d
	// was appended there.
	assert.Equal(t, []string{"$b", "$d"}, eventIDs(tlB))
	assert.Equal(t, tlB.Handle(), tlA.Neighbor(Forwards), "existing link untouched")
	assert.Equal(t, None, tlC.Neighbor(Backwards), "no new link to the duplicate's owner")
	assert.Equal(t, "tok", tlB.Token(Forwards))
}

func TestAddEventsToTimeline_SenderSentinelFromForwardState(t *testing.T) {
	s := newTestSet(t)
	tl, err := s.AddTimeline()
	require.NoError(t, err)
	tl.InitialiseState([]*event.Event{
		testutil.Member("$mem", "@alice:example.org", "@alice:example.org", "join", "Alice"),
	})

	msg := testutil.Message("$1", "@alice:example.org", "hi")
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{msg}, false, tl, ""))

	require.NotNil(t, msg.SenderSentinel)
	assert.Equal(t, "Alice", msg.SenderSentinel.DisplayName)
	assert.Equal(t, "join", msg.SenderSentinel.Membership)
}

func TestAddEventsToTimeline_MemberTargetSentinel(t *testing.T) {
	s := newTestSet(t)
	tl, err := s.AddTimeline()
	require.NoError(t, err)

	invite := testutil.Member("$inv", "@alice:example.org", "@bob:example.org", "invite", "Bob")
	require.NoError(t, s.AddEventsToTimeline([]*event.Event{invite}, false, tl, ""))

	require.NotNil(t, invite.TargetSentinel)
	assert.Equal(t, "@bob:example.org", invite.TargetSentinel.UserID)
}
