package core_test

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/notebook/pkg/core"
)

var errInjected = errors.New("injected failure")

// MockStore implements core.NoteStore in memory with switchable failures.
type MockStore struct {
	notes  []*core.Note
	nextID int64

	FailFetch  bool
	FailCreate bool
	FailUpdate bool
	FailDelete bool

	// FetchResult overrides FetchAll when set.
	FetchResult []*core.Note

	Updates int
}

func NewMockStore(seed ...*core.Note) *MockStore {
	m := &MockStore{nextID: 1}
	for _, n := range seed {
		_, _ = m.Create(context.Background(), n)
	}
	return m
}

func (m *MockStore) FetchAll(ctx context.Context) ([]*core.Note, error) {
	if m.FailFetch {
		return nil, errInjected
	}
	src := m.notes
	if m.FetchResult != nil {
		src = m.FetchResult
	}
	out := make([]*core.Note, 0, len(src))
	for _, n := range src {
		if n == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, n.Clone())
	}
	return out, nil
}

func (m *MockStore) Create(ctx context.Context, n *core.Note) (*core.Note, error) {
	if m.FailCreate {
		return nil, errInjected
	}
	stored := n.Clone()
	stored.ID = m.nextID
	m.nextID++
	m.notes = append(m.notes, stored)
	return stored.Clone(), nil
}

func (m *MockStore) Update(ctx context.Context, n *core.Note) error {
	if m.FailUpdate {
		return errInjected
	}
	i := m.index(n.ID)
	if i < 0 {
		return fmt.Errorf("%w: %d", core.ErrNoteNotFound, n.ID)
	}
	m.notes[i] = n.Clone()
	m.Updates++
	return nil
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	if m.FailDelete {
		return errInjected
	}
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", core.ErrNoteNotFound, id)
	}
	m.notes = slices.Delete(m.notes, i, i+1)
	return nil
}

func (m *MockStore) Stored(id int64) *core.Note {
	if i := m.index(id); i >= 0 {
		return m.notes[i].Clone()
	}
	return nil
}

func (m *MockStore) index(id int64) int {
	return slices.IndexFunc(m.notes, func(n *core.Note) bool { return n.ID == id })
}
