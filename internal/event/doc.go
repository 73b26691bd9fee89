// Package event defines the record vocabulary for the weft timeline core.
//
// An Event is a single room event as received from the wire: identifier,
// type, sender, optional state key, and the raw JSON content. The content is
// kept as raw bytes and read through gjson accessors; weft never maintains a
// parallel decoded representation that could drift from the wire form.
//
// Events carry a small set of annotations maintained by the owning timeline
// set: the resolved sender and target sentinels, the backward-looking flag
// set on prepended state events, and an encryption marker consulted by the
// duplicate-replace path.
//
// State is a room-state snapshot keyed by (type, state key). It answers
// sentinel-member queries: "who was this user, as of this edge of the
// timeline". Snapshots are seeded through InitialiseState (or copied on live
// reset) and are immutable afterwards; room-state conflict resolution is
// outside this core.
package event
