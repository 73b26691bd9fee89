// Package timeline implements the weft timeline core: an ordered but
// possibly discontinuous history of room events, maintained as a graph of
// timelines (contiguous event runs) joined by neighbor links.
//
// ARCHITECTURE:
//
// Single-threaded mutation core:
// Every operation runs to completion before returning. There is no
// background task and no internal suspension point; the sync/transport
// layer drives the core from one goroutine. This keeps the join algorithm,
// the event index, and notification emission trivially deterministic.
//
// The graph:
// A TimelineSet owns a registry of Timelines, one of which is live (the one
// receiving real-time events). Timelines reference their neighbors through
// opaque handles resolved against the registry, never through direct
// pointers, so a disconnected, mutable graph carries no aliasing or cycle
// hazards. Links are always created as mutual pairs, and the live timeline
// never has a forward neighbor.
//
// Ingestion paths:
// 1. AddEventsToTimeline walks a paginated batch, appending unknown events
//    and stitching timelines together when a known event proves two chains
//    meet. Pagination-token disposition tracks whether the batch taught us
//    anything new.
// 2. AddLiveEvent appends a single real-time event to the live timeline,
//    with a configurable duplicate strategy.
// A gap reported by the transport resets the live timeline; the old and new
// live timelines are deliberately left unlinked, because the gap is exactly
// the assertion that the bridge between them is unknown.
//
// Notifications:
// Mutations emit ordered change records synchronously, each stamped with a
// monotonic sequence number. Listeners must not re-enter the set from
// inside a handler.
package timeline
