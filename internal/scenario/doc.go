// Package scenario provides declarative transcript execution for weft
// timeline sets.
//
// A transcript is a YAML (or JSON) document describing a sequence of
// ingestion steps - seeded timelines, pre-established links, backfill
// batches, live events, gaps, removals - applied to one timeline set. The
// runner executes the steps with deterministic timeline handles and
// returns the resulting set alongside the ordered notification trace.
//
// # Transcript Format
//
//	name: backfill_joins_chains
//	room: "!demo:example.org"
//	timeline_support: true
//	steps:
//	  - seed:
//	      events: [{id: "$m"}]
//	  - backfill:
//	      target: tl-2
//	      token: tok1
//	      events: [{id: "$m"}, {id: "$n"}]
//	  - live:
//	      event: {id: "$u", sender: "@u:example.org"}
//	  - gap:
//	      token: tok2
//
// The initial live timeline is always tl-1; seeded timelines take the next
// handles in order.
//
// # Deterministic Testing
//
// Runs use a fixed handle generator and the set's logical notification
// clock, so the rendered snapshot of a transcript - its chains, tokens,
// index size, and trace - is byte-stable and suitable for golden file
// comparison via RunGolden.
package scenario
