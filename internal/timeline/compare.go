package timeline

// CompareEventOrdering answers "which of two indexed events happened
// first" across the timeline graph.
//
// The result is (cmp, true) where cmp is negative if id1 precedes id2,
// positive if it follows, and 0 if the IDs are equal. The result is
// (0, false) - order unknown - when either ID is unindexed or the two
// events live on chains not known to be connected.
//
// Within one timeline, order is the difference of sequence positions.
// Across timelines, the neighbor chain is walked forwards and then
// backwards from id1's timeline; each walk terminates at the first
// timeline lacking the relevant neighbor. A corrupted (cyclic) graph is
// not defended against.
func (s *TimelineSet) CompareEventOrdering(id1, id2 string) (int, bool) {
	if id1 == id2 {
		return 0, true
	}

	h1, ok := s.index[id1]
	if !ok {
		return 0, false
	}
	h2, ok := s.index[id2]
	if !ok {
		return 0, false
	}

	if h1 == h2 {
		t := s.timelines[h1]
		return t.indexOf(id1) - t.indexOf(id2), true
	}

	// Walk forwards from id1's timeline: finding id2's timeline there
	// means id1 precedes id2.
	for cur := s.timelines[h1].Neighbor(Forwards); cur != None; cur = s.timelines[cur].Neighbor(Forwards) {
		if cur == h2 {
			return -1, true
		}
	}

	for cur := s.timelines[h1].Neighbor(Backwards); cur != None; cur = s.timelines[cur].Neighbor(Backwards) {
		if cur == h2 {
			return 1, true
		}
	}

	return 0, false
}
