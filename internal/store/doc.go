// Package store provides durable SQLite storage for weft timeline sets.
//
// Two things are persisted:
//
//   - Snapshots: the complete state of a TimelineSet - its timelines,
//     their event sequences and annotations, edge-state events, tokens,
//     neighbor links, and the live pointer. SaveSet replaces the stored
//     snapshot wholesale inside one transaction; LoadSet rebuilds an
//     equivalent set, validating the graph invariants on the way in.
//
//   - The ingest journal: an ordered record of the ingestion steps applied
//     to a room's set (backfills, live events, gaps, removals), keyed by
//     sequence number. Replaying the journal against an empty set
//     reproduces the snapshot.
//
// The database runs in WAL mode with a single writer connection, the same
// configuration discipline as the rest of weft's single-threaded core.
package store
