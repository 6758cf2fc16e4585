// Package memory provides an in-memory core.NoteStore.
// It is meant for tests and for running a throwaway note server.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/notebook/pkg/core"
)

// Store keeps notes in insertion order and assigns ids from a counter.
type Store struct {
	mu     sync.RWMutex
	notes  map[int64]*core.Note
	order  []int64
	nextID int64
}

// NewStore creates an empty store. Optional seed notes are created in order.
func NewStore(seed ...*core.Note) *Store {
	s := &Store{
		notes:  make(map[int64]*core.Note),
		nextID: 1,
	}
	for _, n := range seed {
		_, _ = s.Create(context.Background(), n)
	}
	return s
}

// FetchAll returns copies of all notes.
func (s *Store) FetchAll(ctx context.Context) ([]*core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Note, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.notes[id].Clone())
	}
	return out, nil
}

// Create stores a copy of n under a fresh id.
func (s *Store) Create(ctx context.Context, n *core.Note) (*core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("%w: nil note", core.ErrRejected)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := n.Clone()
	stored.ID = s.nextID
	s.nextID++
	s.notes[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return stored.Clone(), nil
}

// Update replaces an existing note.
func (s *Store) Update(ctx context.Context, n *core.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("%w: nil note", core.ErrRejected)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[n.ID]; !ok {
		return fmt.Errorf("%w: %w: %d", core.ErrRejected, core.ErrNoteNotFound, n.ID)
	}
	s.notes[n.ID] = n.Clone()
	return nil
}

// Delete removes a note.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return fmt.Errorf("%w: %w: %d", core.ErrRejected, core.ErrNoteNotFound, id)
	}
	delete(s.notes, id)
	s.order = slices.DeleteFunc(s.order, func(v int64) bool { return v == id })
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var _ core.NoteStore = (*Store)(nil)
var _ core.Pinger = (*Store)(nil)
