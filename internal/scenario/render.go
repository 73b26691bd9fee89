package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/weftlabs/weft/internal/timeline"
)

// Render produces a deterministic text snapshot of a run: the segment
// chains with their event sequences and tokens, followed by the ordered
// notification trace. The output is byte-stable across runs and is what
// golden files capture.
func (r *Result) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "transcript %s\n", r.Transcript.Name)
	fmt.Fprintf(&b, "room %s\n", r.Set.RoomID())
	fmt.Fprintf(&b, "live %s\n", r.Set.LiveTimeline().Handle())
	fmt.Fprintf(&b, "indexed %d\n", r.Set.IndexSize())

	b.WriteString("\nchains:\n")
	b.WriteString(RenderChains(r.Set))

	b.WriteString("\ntrace:\n")
	for _, line := range traceLines(r.Recorder) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	return b.String()
}

// RenderChains formats every chain in the set, one line per chain, in
// stable order. Shared by transcript snapshots and the CLI's show command.
func RenderChains(set *timeline.TimelineSet) string {
	var b strings.Builder
	for _, head := range chainHeads(set) {
		b.WriteString("  ")
		for t := head; t != nil; t = set.TimelineByHandle(t.Neighbor(timeline.Forwards)) {
			if t != head {
				b.WriteString(" <-> ")
			}
			b.WriteString(renderTimeline(t))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderTimeline formats one timeline as handle[events]{tokens}.
func renderTimeline(t *timeline.Timeline) string {
	var b strings.Builder
	b.WriteString(string(t.Handle()))

	b.WriteString("[")
	for i, ev := range t.Events() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(ev.ID)
	}
	b.WriteString("]")

	var tokens []string
	if tok := t.Token(timeline.Backwards); tok != "" {
		tokens = append(tokens, "prev="+tok)
	}
	if tok := t.Token(timeline.Forwards); tok != "" {
		tokens = append(tokens, "next="+tok)
	}
	if len(tokens) > 0 {
		b.WriteString("{" + strings.Join(tokens, ",") + "}")
	}

	return b.String()
}

// chainHeads returns the backward-most timeline of every chain, in stable
// handle order (numeric for same-length handles from the fixed generator).
func chainHeads(set *timeline.TimelineSet) []*timeline.Timeline {
	var heads []*timeline.Timeline
	for _, t := range set.Timelines() {
		if t.Neighbor(timeline.Backwards) == timeline.None {
			heads = append(heads, t)
		}
	}
	sort.Slice(heads, func(i, j int) bool {
		a, b := string(heads[i].Handle()), string(heads[j].Handle())
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return heads
}

// traceLines merges change and reset records into one seq-ordered listing.
func traceLines(rec *timeline.ChangeRecorder) []string {
	type entry struct {
		seq  int64
		line string
	}
	var entries []entry

	for _, c := range rec.Changes {
		verb := "add"
		switch {
		case c.Removed:
			verb = "remove"
		case c.Context.IsLiveAppend:
			verb = "live"
		}
		line := fmt.Sprintf("#%d %s %s @%s", c.Seq, verb, c.Event.ID, c.Context.Timeline.Handle())
		if c.Prepended {
			line += " prepended"
		}
		entries = append(entries, entry{c.Seq, line})
	}
	for _, r := range rec.Resets {
		entries = append(entries, entry{r.Seq, fmt.Sprintf("#%d live-reset", r.Seq)})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.line
	}
	return lines
}
