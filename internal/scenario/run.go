package scenario

import (
	"fmt"

	"github.com/weftlabs/weft/internal/event"
	"github.com/weftlabs/weft/internal/timeline"
)

// Result holds the outcome of a transcript run: the final set and the
// ordered notification trace observed while running it.
type Result struct {
	Transcript *Transcript
	Set        *timeline.TimelineSet
	Recorder   *timeline.ChangeRecorder
}

// Run executes a transcript against a fresh timeline set.
//
// Handles are generated by a fixed sequential generator ("tl-1" is the
// initial live timeline), so repeated runs of the same transcript produce
// identical graphs and traces.
func Run(tr *Transcript) (*Result, error) {
	opts := []timeline.Option{
		timeline.WithHandleGenerator(timeline.NewFixedGenerator("tl")),
	}
	if tr.TimelineSupport {
		opts = append(opts, timeline.WithTimelineSupport(true))
	}
	if len(tr.FilterTypes) > 0 {
		opts = append(opts, timeline.WithFilter(event.NewTypeFilter(tr.FilterTypes...)))
	}

	set := timeline.NewTimelineSet(tr.Room, opts...)
	recorder := &timeline.ChangeRecorder{}
	set.RegisterListener(recorder)

	for i, step := range tr.Steps {
		if err := applyStep(set, step); err != nil {
			kind, _ := step.Kind()
			return nil, fmt.Errorf("transcript %s: step %d (%s): %w", tr.Name, i+1, kind, err)
		}
	}

	return &Result{Transcript: tr, Set: set, Recorder: recorder}, nil
}

// applyStep dispatches one transcript step against the set.
func applyStep(set *timeline.TimelineSet, step Step) error {
	switch {
	case step.Seed != nil:
		return applySeed(set, step.Seed)

	case step.Link != nil:
		return applyLink(set, step.Link)

	case step.Backfill != nil:
		return applyBackfill(set, step.Backfill)

	case step.Live != nil:
		return applyLive(set, step.Live)

	case step.Gap != nil:
		return set.ResetLiveTimeline(step.Gap.Token)

	case step.Remove != nil:
		set.RemoveEvent(step.Remove.Event)
		return nil

	default:
		return fmt.Errorf("empty step")
	}
}

func applySeed(set *timeline.TimelineSet, seed *SeedStep) error {
	t, err := set.AddTimeline()
	if err != nil {
		return err
	}

	if len(seed.State) > 0 {
		stateEvents, err := buildEvents(set.RoomID(), seed.State)
		if err != nil {
			return err
		}
		t.InitialiseState(stateEvents)
	}

	events, err := buildEvents(set.RoomID(), seed.Events)
	if err != nil {
		return err
	}
	if err := set.AddEventsToTimeline(events, false, t, ""); err != nil {
		return err
	}

	if seed.Token != "" {
		t.SetToken(seed.Token, timeline.Backwards)
	}
	return nil
}

func applyLink(set *timeline.TimelineSet, link *LinkStep) error {
	from := set.TimelineByHandle(timeline.Handle(link.From))
	to := set.TimelineByHandle(timeline.Handle(link.To))
	if from == nil || to == nil {
		return fmt.Errorf("link %s -> %s: unknown timeline handle", link.From, link.To)
	}
	from.SetNeighbor(to.Handle(), timeline.Forwards)
	to.SetNeighbor(from.Handle(), timeline.Backwards)
	return nil
}

func applyBackfill(set *timeline.TimelineSet, bf *BackfillStep) error {
	target := set.TimelineByHandle(timeline.Handle(bf.Target))
	if target == nil {
		return fmt.Errorf("backfill: unknown timeline handle %s", bf.Target)
	}
	events, err := buildEvents(set.RoomID(), bf.Events)
	if err != nil {
		return err
	}
	return set.AddEventsToTimeline(events, bf.ToStart, target, bf.Token)
}

func applyLive(set *timeline.TimelineSet, live *LiveStep) error {
	ev, err := live.Event.Build(set.RoomID())
	if err != nil {
		return err
	}

	strategy := timeline.DuplicateIgnore
	switch live.Strategy {
	case "", "ignore":
	case "replace":
		strategy = timeline.DuplicateReplace
	default:
		return fmt.Errorf("unknown duplicate strategy %q", live.Strategy)
	}

	set.AddLiveEvent(ev, strategy)
	return nil
}

func buildEvents(roomID string, specs []EventSpec) ([]*event.Event, error) {
	out := make([]*event.Event, 0, len(specs))
	for _, spec := range specs {
		ev, err := spec.Build(roomID)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
