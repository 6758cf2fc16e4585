package core

import "context"

// NoteStore defines the contract for the remote persistence of notes.
// The Manager only talks to durable storage through this interface, so the
// transport (HTTP, SQL, files) stays outside of the core.
type NoteStore interface {
	// FetchAll returns every stored note.
	FetchAll(ctx context.Context) ([]*Note, error)

	// Create persists a new note and returns it with the id assigned by the store.
	Create(ctx context.Context, n *Note) (*Note, error)

	// Update replaces the stored version of an existing note.
	Update(ctx context.Context, n *Note) error

	// Delete removes a note by its id.
	Delete(ctx context.Context, id int64) error
}

// Pinger is implemented by stores that can report reachability without a full fetch.
type Pinger interface {
	Ping(ctx context.Context) error
}
