// Package server exposes any core.NoteStore over HTTP/JSON so that notebook
// clients can reach it as their remote note store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/aretw0/notebook/pkg/adapters/remote"
	"github.com/aretw0/notebook/pkg/core"
)

const maxBodyBytes = 1 << 20

// Server serves the note routes documented in package remote.
type Server struct {
	store  core.NoteStore
	logger *slog.Logger
	router *mux.Router
}

// New creates a Server over store.
func New(store core.NoteStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		store:  store,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.accessLog)
	s.router.Methods(http.MethodGet).Path("/healthz").HandlerFunc(s.health)
	s.router.Methods(http.MethodGet).Path("/notes").HandlerFunc(s.listNotes)
	s.router.Methods(http.MethodPost).Path("/notes").HandlerFunc(s.createNote)
	s.router.Methods(http.MethodPut).Path("/notes/{id:[0-9]+}").HandlerFunc(s.updateNote)
	s.router.Methods(http.MethodDelete).Path("/notes/{id:[0-9]+}").HandlerFunc(s.deleteNote)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	// The serve loop must outlive ctx until Shutdown has drained it.
	lifecycle.Go(context.WithoutCancel(ctx), func(context.Context) error {
		s.logger.Info("note server listening", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
		return nil
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("note server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled", "method", r.Method, "url", r.URL.String(), "duration", m.Duration, "status", m.Code)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(core.Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.writeError(w, fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err))
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.FetchAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if notes == nil {
		notes = []*core.Note{}
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	n, err := decodeNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	n.ID = core.NoID
	created, err := s.store.Create(r.Context(), n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, err := decodeNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if n.ID != core.NoID && n.ID != id {
		s.writeError(w, fmt.Errorf("%w: body id %d does not match path id %d", core.ErrRejected, n.ID, id))
		return
	}
	n.ID = id
	if err := s.store.Update(r.Context(), n); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid note id %q", core.ErrRejected, mux.Vars(r)["id"])
	}
	return id, nil
}

func decodeNote(r *http.Request) (*core.Note, error) {
	var n core.Note
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("%w: invalid note body: %v", core.ErrRejected, err)
	}
	if err := validate(&n); err != nil {
		return nil, err
	}
	n.Normalize()
	return &n, nil
}

func validate(n *core.Note) error {
	if n.Headline == "" {
		return fmt.Errorf("%w: headline must not be empty", core.ErrRejected)
	}
	if n.Priority < core.MaxPriority || n.Priority > core.MinPriority {
		return fmt.Errorf("%w: priority %d outside [%d,%d]", core.ErrRejected, n.Priority, core.MaxPriority, core.MinPriority)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNoteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrRejected):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, remote.ErrorBody{Error: err.Error()})
}
