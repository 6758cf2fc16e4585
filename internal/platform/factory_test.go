package platform

import (
	"context"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/adapters/memory"
	"github.com/aretw0/notebook/pkg/adapters/remote"
	"github.com/aretw0/notebook/pkg/core"
	"github.com/aretw0/notebook/pkg/server"
)

func TestInit_InjectedStore(t *testing.T) {
	store := memory.NewStore()
	got, err := Init(WithStore(store))
	require.NoError(t, err)
	assert.Same(t, store, got)
}

func TestInit_RemoteFromHost(t *testing.T) {
	store, err := Init(WithHost(HostConfig{URL: "example.org", Port: 9000}))
	require.NoError(t, err)

	client, ok := store.(*remote.Client)
	require.True(t, ok, "expected a remote client")
	assert.Equal(t, "http://example.org:9000", client.BaseURL())
}

func TestInit_RemoteHostWithScheme(t *testing.T) {
	path := writeHostFile(t, "HOST_URL: http://notes.example\nHOST_PORT: \"9000\"\n")

	store, err := Init(WithHost(ResolveHost(path, nil)))
	require.NoError(t, err)
	assert.Equal(t, "http://notes.example:9000", store.(*remote.Client).BaseURL())
}

func TestInit_RemoteDefaultsWhenConfigMissing(t *testing.T) {
	store, err := Init(WithHostConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, err)

	client := store.(*remote.Client)
	assert.Equal(t, "http://localhost:8080", client.BaseURL())
}

func TestNew_AgainstServer(t *testing.T) {
	ts := httptest.NewServer(server.New(memory.NewStore(core.NewNote("Seed", "", 3)), nil))
	defer ts.Close()

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	m, err := New(WithHost(HostConfig{URL: u.Hostname(), Port: port}))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, m.LoadNotes(ctx))
	assert.Equal(t, 1, m.Len())

	n := core.NewNote("Added", "body", 2)
	require.NoError(t, m.AddNote(ctx, n))
	assert.True(t, n.HasID())
	assert.Equal(t, 2, m.Len())
}

func TestOpenBackend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, name := range []string{BackendMemory, BackendSQLite, BackendFS} {
		t.Run(name, func(t *testing.T) {
			path := ""
			switch name {
			case BackendSQLite:
				path = filepath.Join(t.TempDir(), "notes.sqlite3")
			case BackendFS:
				path = filepath.Join(t.TempDir(), "notes")
			}

			store, closeFn, err := OpenBackend(ctx, name, path, nil)
			require.NoError(t, err)
			defer closeFn()

			created, err := store.Create(ctx, core.NewNote("Hello", "", 1))
			require.NoError(t, err)
			assert.True(t, created.HasID())

			all, err := store.FetchAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, closeFn, err := OpenBackend(ctx, "postgres", "", nil)
		assert.Error(t, err)
		assert.NotNil(t, closeFn)
	})
}
