package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/weftlabs/weft/internal/event"
	"github.com/weftlabs/weft/internal/timeline"
)

// execer abstracts *sql.Tx / *sql.DB for the write helpers.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// JournalKind classifies an ingestion step in the journal.
type JournalKind string

const (
	JournalSeed     JournalKind = "seed"
	JournalLink     JournalKind = "link"
	JournalBackfill JournalKind = "backfill"
	JournalLive     JournalKind = "live"
	JournalGap      JournalKind = "gap"
	JournalRemove   JournalKind = "remove"
)

// JournalRecord is one ingestion step: a sequence number, a kind, and the
// step's JSON payload (the scenario-step shape).
type JournalRecord struct {
	Seq     int64
	Kind    JournalKind
	Payload string
}

// stateEvents returns a snapshot's state events for persistence.
func stateEvents(st *event.State) []*event.Event {
	return st.Events()
}

// LoadSet rebuilds the stored TimelineSet for a room. Returns (nil, false,
// nil) if no snapshot exists for the room - an expected miss, not an error.
//
// Rehydration validates the stored graph (ownership uniqueness, mutual
// neighbor links, live pointer); a snapshot failing validation is reported
// as an error.
func (s *Store) LoadSet(ctx context.Context, roomID string, opts ...timeline.Option) (*timeline.TimelineSet, bool, error) {
	var (
		liveHandle string
		support    int
		clockSeq   int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT live_handle, timeline_support, clock_seq
		FROM timeline_sets WHERE room_id = ?
	`, roomID).Scan(&liveHandle, &support, &clockSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load set %s: %w", roomID, err)
	}

	timelines, err := s.loadTimelines(ctx, roomID)
	if err != nil {
		return nil, false, err
	}

	if support == 1 {
		opts = append(opts, timeline.WithTimelineSupport(true))
	}
	set, err := timeline.RehydrateSet(roomID, timeline.Handle(liveHandle), timelines, clockSeq, opts...)
	if err != nil {
		return nil, false, fmt.Errorf("load set %s: %w", roomID, err)
	}
	return set, true, nil
}

func (s *Store) loadTimelines(ctx context.Context, roomID string) ([]*timeline.Timeline, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT handle, prev_token, next_token, prev_neighbor, next_neighbor
		FROM timelines WHERE room_id = ? ORDER BY handle
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("load timelines for %s: %w", roomID, err)
	}
	defer rows.Close()

	type rawTimeline struct {
		handle, prevToken, nextToken, prevNeighbor, nextNeighbor string
	}
	var raws []rawTimeline
	for rows.Next() {
		var r rawTimeline
		if err := rows.Scan(&r.handle, &r.prevToken, &r.nextToken, &r.prevNeighbor, &r.nextNeighbor); err != nil {
			return nil, fmt.Errorf("load timelines for %s: %w", roomID, err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load timelines for %s: %w", roomID, err)
	}

	var out []*timeline.Timeline
	for _, r := range raws {
		events, err := s.loadTimelineEvents(ctx, r.handle)
		if err != nil {
			return nil, err
		}

		t := timeline.RehydrateTimeline(
			timeline.Handle(r.handle),
			roomID,
			events,
			r.prevToken,
			r.nextToken,
			timeline.Handle(r.prevNeighbor),
			timeline.Handle(r.nextNeighbor),
		)

		if err := s.loadEdgeStates(ctx, t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) loadTimelineEvents(ctx context.Context, handle string) ([]*event.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, type, sender, state_key, origin_ts, content, unsigned,
		       backward_looking, sender_sentinel, target_sentinel, encryption
		FROM timeline_events WHERE handle = ? ORDER BY ord
	`, handle)
	if err != nil {
		return nil, fmt.Errorf("load events for timeline %s: %w", handle, err)
	}
	defer rows.Close()

	var out []*event.Event
	for rows.Next() {
		var (
			ev         event.Event
			stateKey   sql.NullString
			backward   int
			senderJSON string
			targetJSON string
			encJSON    string
		)
		err := rows.Scan(
			&ev.ID, &ev.Type, &ev.Sender, &stateKey, &ev.Timestamp,
			&ev.Content, &ev.Unsigned, &backward, &senderJSON, &targetJSON, &encJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("load events for timeline %s: %w", handle, err)
		}

		if stateKey.Valid {
			key := stateKey.String
			ev.StateKey = &key
		}
		ev.BackwardLooking = backward == 1

		if ev.SenderSentinel, err = unmarshalSentinel(senderJSON); err != nil {
			return nil, fmt.Errorf("load event %s: %w", ev.ID, err)
		}
		if ev.TargetSentinel, err = unmarshalSentinel(targetJSON); err != nil {
			return nil, fmt.Errorf("load event %s: %w", ev.ID, err)
		}
		if ev.Encryption, err = unmarshalEncryption(encJSON); err != nil {
			return nil, fmt.Errorf("load event %s: %w", ev.ID, err)
		}

		out = append(out, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load events for timeline %s: %w", handle, err)
	}
	return out, nil
}

func (s *Store) loadEdgeStates(ctx context.Context, t *timeline.Timeline) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT edge, type, state_key, event_id, sender, origin_ts, content
		FROM timeline_state_events WHERE handle = ?
	`, string(t.Handle()))
	if err != nil {
		return fmt.Errorf("load edge states for timeline %s: %w", t.Handle(), err)
	}
	defer rows.Close()

	var start, end []*event.Event
	for rows.Next() {
		var (
			edge, stateKey string
			ev             event.Event
		)
		if err := rows.Scan(&edge, &ev.Type, &stateKey, &ev.ID, &ev.Sender, &ev.Timestamp, &ev.Content); err != nil {
			return fmt.Errorf("load edge states for timeline %s: %w", t.Handle(), err)
		}
		key := stateKey
		ev.StateKey = &key

		if edge == "start" {
			start = append(start, &ev)
		} else {
			end = append(end, &ev)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load edge states for timeline %s: %w", t.Handle(), err)
	}

	t.State(timeline.Backwards).Apply(start)
	t.State(timeline.Forwards).Apply(end)
	return nil
}

// ReadJournal returns a room's journal records ordered by seq.
func (s *Store) ReadJournal(ctx context.Context, roomID string) ([]JournalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, payload FROM ingest_journal
		WHERE room_id = ? ORDER BY seq
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("read journal for %s: %w", roomID, err)
	}
	defer rows.Close()

	var out []JournalRecord
	for rows.Next() {
		var (
			rec  JournalRecord
			kind string
		)
		if err := rows.Scan(&rec.Seq, &kind, &rec.Payload); err != nil {
			return nil, fmt.Errorf("read journal for %s: %w", roomID, err)
		}
		rec.Kind = JournalKind(kind)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal for %s: %w", roomID, err)
	}
	return out, nil
}
