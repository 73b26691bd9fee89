package store

import (
	"context"
	"fmt"

	"github.com/weftlabs/weft/internal/event"
	"github.com/weftlabs/weft/internal/timeline"
)

// SaveSet replaces the stored snapshot for the set's room in a single
// transaction: set row, timelines, event sequences with annotations, and
// edge-state events. A crash mid-save leaves the previous snapshot intact.
func (s *Store) SaveSet(ctx context.Context, set *timeline.TimelineSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save set: begin: %w", err)
	}
	defer tx.Rollback()

	roomID := set.RoomID()

	// Wholesale replacement; timeline and event rows cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM timeline_sets WHERE room_id = ?`, roomID); err != nil {
		return fmt.Errorf("save set: clear previous snapshot: %w", err)
	}

	support := 0
	if set.TimelineSupport() {
		support = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO timeline_sets (room_id, live_handle, timeline_support, clock_seq)
		VALUES (?, ?, ?, ?)
	`, roomID, string(set.LiveTimeline().Handle()), support, set.Clock().Current())
	if err != nil {
		return fmt.Errorf("save set: insert set row: %w", err)
	}

	for _, t := range set.Timelines() {
		if err := saveTimeline(ctx, tx, roomID, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save set: commit: %w", err)
	}
	return nil
}

func saveTimeline(ctx context.Context, tx execer, roomID string, t *timeline.Timeline) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO timelines (handle, room_id, prev_token, next_token, prev_neighbor, next_neighbor)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		string(t.Handle()),
		roomID,
		t.Token(timeline.Backwards),
		t.Token(timeline.Forwards),
		string(t.Neighbor(timeline.Backwards)),
		string(t.Neighbor(timeline.Forwards)),
	)
	if err != nil {
		return fmt.Errorf("save timeline %s: %w", t.Handle(), err)
	}

	for ord, ev := range t.Events() {
		if err := saveTimelineEvent(ctx, tx, roomID, t.Handle(), ord, ev); err != nil {
			return err
		}
	}

	for _, edge := range []timeline.Direction{timeline.Backwards, timeline.Forwards} {
		if err := saveEdgeState(ctx, tx, t.Handle(), edge, t.State(edge)); err != nil {
			return err
		}
	}

	return nil
}

func saveTimelineEvent(ctx context.Context, tx execer, roomID string, handle timeline.Handle, ord int, ev *event.Event) error {
	senderJSON, err := marshalSentinel(ev.SenderSentinel)
	if err != nil {
		return fmt.Errorf("save event %s: %w", ev.ID, err)
	}
	targetJSON, err := marshalSentinel(ev.TargetSentinel)
	if err != nil {
		return fmt.Errorf("save event %s: %w", ev.ID, err)
	}
	encJSON, err := marshalEncryption(ev.Encryption)
	if err != nil {
		return fmt.Errorf("save event %s: %w", ev.ID, err)
	}

	backward := 0
	if ev.BackwardLooking {
		backward = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO timeline_events
		(room_id, event_id, handle, ord, type, sender, state_key, origin_ts,
		 content, unsigned, backward_looking, sender_sentinel, target_sentinel, encryption)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		roomID,
		ev.ID,
		string(handle),
		ord,
		ev.Type,
		ev.Sender,
		ev.StateKey,
		ev.Timestamp,
		ev.Content,
		ev.Unsigned,
		backward,
		senderJSON,
		targetJSON,
		encJSON,
	)
	if err != nil {
		return fmt.Errorf("save event %s: %w", ev.ID, err)
	}
	return nil
}

func saveEdgeState(ctx context.Context, tx execer, handle timeline.Handle, edge timeline.Direction, st *event.State) error {
	edgeName := "start"
	if edge == timeline.Forwards {
		edgeName = "end"
	}

	for _, ev := range stateEvents(st) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO timeline_state_events
			(handle, edge, type, state_key, event_id, sender, origin_ts, content)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			string(handle),
			edgeName,
			ev.Type,
			*ev.StateKey,
			ev.ID,
			ev.Sender,
			ev.Timestamp,
			ev.Content,
		)
		if err != nil {
			return fmt.Errorf("save %s state for timeline %s: %w", edgeName, handle, err)
		}
	}
	return nil
}

// AppendJournal records one ingestion step for a room.
// Uses ON CONFLICT DO NOTHING for idempotency - re-recording a step
// already journaled at the same seq is silently ignored.
func (s *Store) AppendJournal(ctx context.Context, roomID string, rec JournalRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_journal (room_id, seq, kind, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, roomID, rec.Seq, string(rec.Kind), rec.Payload)
	if err != nil {
		return fmt.Errorf("append journal for %s: %w", roomID, err)
	}
	return nil
}
