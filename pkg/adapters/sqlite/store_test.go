package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/core"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "notes.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	d1 := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	n := core.NewNote("Shop", "milk", 2)
	n.SetExecutionDates([]time.Time{d1, d2})
	n.SetReminderDates([]time.Time{d2})

	created, err := s.Create(ctx, n)
	require.NoError(t, err)
	require.True(t, created.HasID())

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Shop", got.Headline)
	assert.Equal(t, "milk", got.NoteText)
	assert.Equal(t, 2, got.Priority)
	require.Len(t, got.ExecutionDates, 2)
	assert.True(t, d1.Equal(got.ExecutionDates[0]), "date order is preserved")
	assert.True(t, d2.Equal(got.ExecutionDates[1]))
	require.Len(t, got.ReminderDates, 1)

	got.SetHeadline("Shop more")
	got.SetExecutionDates(nil)
	require.NoError(t, s.Update(ctx, got))

	all, err = s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Shop more", all[0].Headline)
	assert.Empty(t, all[0].ExecutionDates)

	require.NoError(t, s.Delete(ctx, got.ID))
	all, err = s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_MissingRows(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	ghost := core.NewNote("ghost", "", 1)
	ghost.ID = 41
	assert.ErrorIs(t, s.Update(ctx, ghost), core.ErrNoteNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 41), core.ErrRejected)
}

func TestStore_Persistent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.sqlite3")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Create(ctx, core.NewNote("kept", "", 4))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Headline)
}

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))
	_, err = s.Create(ctx, core.NewNote("a", "", 1))
	require.NoError(t, err)
	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "sqlite-store", s.ComponentType())
}
