package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrConfiguration marks a configuration resource that is missing or unparseable.
	// Callers recover from it by falling back to defaults.
	ErrConfiguration = errors.New("configuration could not be loaded")

	// ErrStoreUnavailable is returned when the note store cannot be reached
	// or answers with data that cannot be used.
	ErrStoreUnavailable = errors.New("note store unavailable")

	// ErrPersistence marks a create, update or delete that failed at the store.
	ErrPersistence = errors.New("note could not be persisted")

	// ErrRejected is returned by stores that refuse a note (validation, unknown id).
	ErrRejected = errors.New("note rejected by store")

	// ErrNoteNotFound is returned when a note is not part of the collection.
	ErrNoteNotFound = errors.New("note not found")

	// ErrInvalidQuery is returned when a selector query does not compile.
	ErrInvalidQuery = errors.New("invalid selector query")
)

// PersistenceError identifies the operation and note of a failed mutation.
type PersistenceError struct {
	Op     string
	NoteID int64
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.NoteID == NoID {
		return fmt.Sprintf("%s unsaved note: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s note %d: %v", e.Op, e.NoteID, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying cause to errors.Is.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

func persistenceError(op string, id int64, err error) error {
	return &PersistenceError{Op: op, NoteID: id, Err: err}
}
