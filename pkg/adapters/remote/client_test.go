package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/adapters/memory"
	"github.com/aretw0/notebook/pkg/adapters/remote"
	"github.com/aretw0/notebook/pkg/core"
	"github.com/aretw0/notebook/pkg/server"
)

func newClient(t *testing.T, handler http.Handler) *remote.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := remote.NewClient(remote.Config{BaseURL: ts.URL})
	require.NoError(t, err)
	return c
}

func TestClient_AgainstServer(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, server.New(memory.NewStore(), nil))

	require.NoError(t, c.Ping(ctx))

	d := time.Date(2024, 9, 1, 7, 0, 0, 0, time.UTC)
	n := core.NewNote("Shop", "milk", 2)
	n.SetReminderDates([]time.Time{d})
	created, err := c.Create(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	created.SetHeadline("Shop today")
	require.NoError(t, c.Update(ctx, created))

	all, err := c.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Shop today", all[0].Headline)
	require.Len(t, all[0].ReminderDates, 1)
	assert.True(t, d.Equal(all[0].ReminderDates[0]))

	require.NoError(t, c.Delete(ctx, created.ID))
	all, err = c.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClient_NotFound(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, server.New(memory.NewStore(), nil))

	ghost := core.NewNote("ghost", "", 1)
	ghost.ID = 3
	err := c.Update(ctx, ghost)
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	assert.ErrorIs(t, err, core.ErrRejected)
	assert.False(t, remote.IsUnavailable(err))
}

func TestClient_ServerErrors(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))

	_, err := c.FetchAll(ctx)
	require.Error(t, err)
	assert.True(t, remote.IsUnavailable(err))
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_MalformedBody(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))

	_, err := c.FetchAll(context.Background())
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := remote.NewClient(remote.Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.FetchAll(context.Background())
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.FetchAll(ctx)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestNewClient_BaseURL(t *testing.T) {
	c, err := remote.NewClient(remote.Config{BaseURL: "localhost:8080"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())

	_, err = remote.NewClient(remote.Config{BaseURL: "  "})
	assert.Error(t, err)
}

func TestClient_WithManager(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, server.New(memory.NewStore(core.NewNote("seed", "", 4)), nil))

	m := core.NewManager(c, nil)
	require.NoError(t, m.LoadNotes(ctx))
	n := core.NewNote("added", "", 1)
	require.NoError(t, m.AddNote(ctx, n))
	n.SetNoteText("updated")
	require.NoError(t, m.UpdateNote(ctx, n))

	require.NoError(t, m.LoadNotes(ctx))
	got, ok := m.Note(n.ID)
	require.True(t, ok)
	assert.Equal(t, "updated", got.NoteText)
	assert.Equal(t, "remote-store", m.State().(core.ManagerState).StoreType)
}
