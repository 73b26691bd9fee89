package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "weft.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weft.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestOpen_AppliesSchemaVersion(t *testing.T) {
	s := openTestStore(t)

	var version int
	require.NoError(t, s.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestLoadSet_MissingRoom(t *testing.T) {
	s := openTestStore(t)

	set, found, err := s.LoadSet(context.Background(), "!nothing:example.org")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, set)
}

func TestJournal_AppendAndRead(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recs := []JournalRecord{
		{Seq: 1, Kind: JournalSeed, Payload: `{"seed":{"events":[{"id":"$a"}]}}`},
		{Seq: 2, Kind: JournalLive, Payload: `{"live":{"event":{"id":"$b"}}}`},
		{Seq: 3, Kind: JournalGap, Payload: `{"gap":{"token":"b1"}}`},
	}
	for _, rec := range recs {
		require.NoError(t, s.AppendJournal(ctx, "!r:example.org", rec))
	}

	got, err := s.ReadJournal(ctx, "!r:example.org")
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	other, err := s.ReadJournal(ctx, "!other:example.org")
	require.NoError(t, err)
	assert.Empty(t, other, "journals are per room")
}

func TestJournal_AppendIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := JournalRecord{Seq: 1, Kind: JournalLive, Payload: `{}`}
	require.NoError(t, s.AppendJournal(ctx, "!r:example.org", rec))
	require.NoError(t, s.AppendJournal(ctx, "!r:example.org", rec))

	got, err := s.ReadJournal(ctx, "!r:example.org")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
