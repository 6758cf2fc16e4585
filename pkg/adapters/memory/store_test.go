package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/core"
)

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewStore(core.NewNote("seed", "", 3))

	created, err := s.Create(ctx, core.NewNote("second", "text", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	created.SetHeadline("second, renamed")
	require.NoError(t, s.Update(ctx, created))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "seed", all[0].Headline)
	assert.Equal(t, "second, renamed", all[1].Headline)

	require.NoError(t, s.Delete(ctx, 1))
	all, err = s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	in := core.NewNote("a", "", 2)

	created, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.False(t, in.HasID(), "the input note is not modified")

	created.Headline = "mutated"
	all, _ := s.FetchAll(ctx)
	assert.Equal(t, "a", all[0].Headline)
}

func TestStore_UnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	ghost := core.NewNote("ghost", "", 1)
	ghost.ID = 7
	assert.ErrorIs(t, s.Update(ctx, ghost), core.ErrNoteNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 7), core.ErrRejected)
}

func TestStore_IDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := NewStore(core.NewNote("a", "", 1))

	require.NoError(t, s.Delete(ctx, 1))
	created, err := s.Create(ctx, core.NewNote("b", "", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, NewStore().Ping(ctx), context.Canceled)
}
