// Package sqlite implements core.NoteStore on top of a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/notebook/pkg/core"
)

// Store handles SQLite operations for notes.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL"
	if path == ":memory:" {
		dsn = path
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    headline TEXT NOT NULL,
    note_text TEXT NOT NULL,
    priority INTEGER NOT NULL,
    execution_dates TEXT NOT NULL,
    reminder_dates TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// FetchAll returns every note ordered by id.
func (s *Store) FetchAll(ctx context.Context) ([]*core.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, headline, note_text, priority, execution_dates, reminder_dates
		FROM notes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query notes: %w", core.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	notes := []*core.Note{}
	for rows.Next() {
		var n core.Note
		var execRaw, remRaw string
		if err := rows.Scan(&n.ID, &n.Headline, &n.NoteText, &n.Priority, &execRaw, &remRaw); err != nil {
			return nil, fmt.Errorf("%w: scan note: %w", core.ErrStoreUnavailable, err)
		}
		if n.ExecutionDates, err = decodeDates(execRaw); err != nil {
			return nil, fmt.Errorf("%w: note %d execution dates: %w", core.ErrStoreUnavailable, n.ID, err)
		}
		if n.ReminderDates, err = decodeDates(remRaw); err != nil {
			return nil, fmt.Errorf("%w: note %d reminder dates: %w", core.ErrStoreUnavailable, n.ID, err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate notes: %w", core.ErrStoreUnavailable, err)
	}
	return notes, nil
}

// Create inserts n and returns it with the generated id.
func (s *Store) Create(ctx context.Context, n *core.Note) (*core.Note, error) {
	execRaw, remRaw, err := encodeNoteDates(n)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (headline, note_text, priority, execution_dates, reminder_dates)
		VALUES (?, ?, ?, ?, ?)
	`, n.Headline, n.NoteText, n.Priority, execRaw, remRaw)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert note id: %w", err)
	}

	created := n.Clone()
	created.ID = id
	return created, nil
}

// Update replaces every field of an existing note.
func (s *Store) Update(ctx context.Context, n *core.Note) error {
	execRaw, remRaw, err := encodeNoteDates(n)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET headline = ?, note_text = ?, priority = ?, execution_dates = ?, reminder_dates = ?
		WHERE id = ?
	`, n.Headline, n.NoteText, n.Priority, execRaw, remRaw, n.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return expectOneRow(res, n.ID)
}

// Delete removes a note by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return expectOneRow(res, id)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

func expectOneRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %w: %d", core.ErrRejected, core.ErrNoteNotFound, id)
	}
	return nil
}

func encodeNoteDates(n *core.Note) (string, string, error) {
	execRaw, err := encodeDates(n.ExecutionDates)
	if err != nil {
		return "", "", err
	}
	remRaw, err := encodeDates(n.ReminderDates)
	if err != nil {
		return "", "", err
	}
	return execRaw, remRaw, nil
}

func encodeDates(dates []time.Time) (string, error) {
	if dates == nil {
		dates = []time.Time{}
	}
	data, err := json.Marshal(dates)
	if err != nil {
		return "", fmt.Errorf("encode dates: %w", err)
	}
	return string(data), nil
}

func decodeDates(raw string) ([]time.Time, error) {
	if raw == "" {
		return []time.Time{}, nil
	}
	var dates []time.Time
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		return nil, errors.Join(errors.New("malformed date list"), err)
	}
	if dates == nil {
		dates = []time.Time{}
	}
	return dates, nil
}

var _ core.NoteStore = (*Store)(nil)
var _ core.Pinger = (*Store)(nil)
