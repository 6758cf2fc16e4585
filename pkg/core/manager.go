package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// Manager owns the authoritative in-memory note collection and keeps it in
// sync with a NoteStore. Every successful mutation is applied to the store
// first and to the collection second; failed store calls leave the collection
// as it was.
type Manager struct {
	mu     sync.RWMutex
	store  NoteStore
	notes  []*Note
	logger *slog.Logger
	loaded bool
}

// NewManager creates a Manager backed by store. A nil logger discards output.
func NewManager(store NoteStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// LoadNotes replaces the collection with the full note set of the store.
// On failure the previous snapshot is kept.
func (m *Manager) LoadNotes(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fetched, err := m.store.FetchAll(ctx)
	if err != nil {
		m.logger.Error("loading notes failed", "error", err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	seen := make(map[int64]struct{}, len(fetched))
	notes := make([]*Note, 0, len(fetched))
	for i, n := range fetched {
		if n == nil || !n.HasID() {
			m.logger.Error("loading notes failed", "error", "entry has no id", "index", i)
			return fmt.Errorf("%w: entry %d has no id", ErrStoreUnavailable, i)
		}
		if _, dup := seen[n.ID]; dup {
			m.logger.Error("loading notes failed", "error", "duplicate note id", "id", n.ID)
			return fmt.Errorf("%w: duplicate note id %d", ErrStoreUnavailable, n.ID)
		}
		seen[n.ID] = struct{}{}
		n.Normalize()
		notes = append(notes, n)
	}

	m.notes = notes
	m.loaded = true
	m.logger.Debug("notes loaded", "count", len(notes))
	return nil
}

// SelectedNotes applies selector to the last loaded snapshot without touching
// the store. A nil selector returns every note in collection order.
func (m *Manager) SelectedNotes(selector NoteSelector) []*Note {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if selector == nil {
		return slices.Clone(m.notes)
	}
	return selector.Select(m.notes)
}

// AddNote persists n and inserts it into the collection. The store assigns the
// canonical id, which is written back into n.
func (m *Manager) AddNote(ctx context.Context, n *Note) error {
	if n == nil {
		return persistenceError("create", NoID, fmt.Errorf("nil note"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.HasID() || m.indexOf(n) >= 0 {
		m.logger.Error("note is already stored", "id", n.ID, "headline", n.Headline)
		return persistenceError("create", n.ID, fmt.Errorf("%w: note is already stored", ErrRejected))
	}

	// n stays untouched until the store accepted it.
	pending := n.Clone()
	pending.Normalize()
	created, err := m.store.Create(ctx, pending.Clone())
	if err != nil {
		m.logger.Error("creating note failed", "headline", n.Headline, "error", err)
		return persistenceError("create", NoID, err)
	}
	if created == nil || !created.HasID() {
		return persistenceError("create", NoID, fmt.Errorf("%w: store returned no id", ErrStoreUnavailable))
	}
	if m.indexOf(&Note{ID: created.ID}) >= 0 {
		return persistenceError("create", created.ID, fmt.Errorf("%w: id already in use", ErrStoreUnavailable))
	}

	n.CopyFieldsFrom(pending)
	n.ID = created.ID
	m.notes = append(m.notes, n)
	m.logger.Debug("note created", "id", n.ID)
	return nil
}

// UpdateNote pushes the current fields of n to the store. n must be part of
// the collection. Local edits are not rolled back when the store fails.
func (m *Manager) UpdateNote(ctx context.Context, n *Note) error {
	if n == nil {
		return persistenceError("update", NoID, fmt.Errorf("nil note"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(n)
	if i < 0 || !n.HasID() {
		return persistenceError("update", n.ID, ErrNoteNotFound)
	}

	n.Normalize()
	if err := m.store.Update(ctx, n.Clone()); err != nil {
		m.logger.Error("updating note failed", "id", n.ID, "error", err)
		return persistenceError("update", n.ID, err)
	}

	// The caller may hold a different instance with the same id.
	if m.notes[i] != n {
		m.notes[i].CopyFieldsFrom(n)
	}
	m.logger.Debug("note updated", "id", n.ID)
	return nil
}

// DeleteNote removes n from the store and, only when that succeeded, from the
// collection.
func (m *Manager) DeleteNote(ctx context.Context, n *Note) error {
	if n == nil {
		return persistenceError("delete", NoID, fmt.Errorf("nil note"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(n)
	if i < 0 {
		return persistenceError("delete", n.ID, ErrNoteNotFound)
	}

	if n.HasID() {
		if err := m.store.Delete(ctx, n.ID); err != nil {
			m.logger.Error("deleting note failed", "id", n.ID, "error", err)
			return persistenceError("delete", n.ID, err)
		}
	}

	m.notes = slices.Delete(m.notes, i, i+1)
	m.logger.Debug("note deleted", "id", n.ID)
	return nil
}

// Note returns the note with the given id from the snapshot.
func (m *Manager) Note(id int64) (*Note, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, n := range m.notes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Len returns the size of the snapshot.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notes)
}

func (m *Manager) indexOf(n *Note) int {
	return slices.IndexFunc(m.notes, n.SameIdentity)
}
