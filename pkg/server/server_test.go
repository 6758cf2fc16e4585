package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/adapters/memory"
	"github.com/aretw0/notebook/pkg/adapters/remote"
	"github.com/aretw0/notebook/pkg/core"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	s := New(memory.NewStore(core.NewNote("seed", "", 3)), nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []*core.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&notes))
	require.Len(t, notes, 1)

	rec = do(t, s, http.MethodPost, "/notes", `{"headline":"new","noteText":"","priority":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created core.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, int64(2), created.ID)
	assert.NotNil(t, created.ExecutionDates)

	rec = do(t, s, http.MethodPut, "/notes/2", `{"id":2,"headline":"renamed","priority":1}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/notes/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/notes", "")
	notes = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "renamed", notes[0].Headline)
}

func TestServer_Errors(t *testing.T) {
	s := New(memory.NewStore(core.NewNote("seed", "", 3)), nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"Unknown Note", http.MethodPut, "/notes/9", `{"headline":"x","priority":1}`, http.StatusNotFound},
		{"Delete Unknown", http.MethodDelete, "/notes/9", "", http.StatusNotFound},
		{"Empty Headline", http.MethodPost, "/notes", `{"headline":"","priority":1}`, http.StatusBadRequest},
		{"Priority Out Of Range", http.MethodPost, "/notes", `{"headline":"x","priority":9}`, http.StatusBadRequest},
		{"Unknown Field", http.MethodPost, "/notes", `{"headline":"x","priority":1,"tags":[]}`, http.StatusBadRequest},
		{"Mismatched ID", http.MethodPut, "/notes/1", `{"id":2,"headline":"x","priority":1}`, http.StatusBadRequest},
		{"Malformed", http.MethodPost, "/notes", `{`, http.StatusBadRequest},
		{"Bad Path", http.MethodPut, "/notes/abc", `{}`, http.StatusNotFound},
		{"Zero ID", http.MethodDelete, "/notes/0", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := do(t, s, http.MethodPost, "/notes", `{"headline":"","priority":1}`)
	var body remote.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Error, "headline")
}

type downStore struct{ *memory.Store }

func (downStore) Ping(context.Context) error { return errors.New("disk gone") }

func (downStore) FetchAll(context.Context) ([]*core.Note, error) {
	return nil, core.ErrStoreUnavailable
}

func TestServer_Unavailable(t *testing.T) {
	s := New(downStore{memory.NewStore()}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/notes", "").Code)
}

func TestServer_ServeShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(memory.NewStore(), nil).Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
