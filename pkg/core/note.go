package core

import (
	"slices"
	"time"
)

const (
	// NoID marks a note that has not been persisted yet.
	NoID int64 = 0

	// MaxPriority is the most urgent priority value.
	MaxPriority = 1
	// MinPriority is the least urgent priority value and the default for new notes.
	MinPriority = 5

	// DefaultHeadline is used when a note is created without a headline.
	DefaultHeadline = "New Note"
)

// Note is the central entity of the domain.
// It is agnostic to storage format; adapters map it to JSON, YAML or SQL rows.
type Note struct {
	ID             int64       `json:"id" yaml:"id"`
	Headline       string      `json:"headline" yaml:"headline"`
	NoteText       string      `json:"noteText" yaml:"noteText"`
	Priority       int         `json:"priority" yaml:"priority"`
	ExecutionDates []time.Time `json:"executionDates" yaml:"executionDates"`
	ReminderDates  []time.Time `json:"reminderDates" yaml:"reminderDates"`
}

// NewNote creates an unsaved note with empty date sequences.
func NewNote(headline, noteText string, priority int) *Note {
	n := &Note{
		NoteText:       noteText,
		ExecutionDates: []time.Time{},
		ReminderDates:  []time.Time{},
	}
	n.SetHeadline(headline)
	n.SetPriority(priority)
	return n
}

// HasID reports whether the note was persisted by a store.
func (n *Note) HasID() bool {
	return n.ID != NoID
}

// SetHeadline replaces the headline, falling back to DefaultHeadline when empty.
func (n *Note) SetHeadline(headline string) {
	if headline == "" {
		headline = DefaultHeadline
	}
	n.Headline = headline
}

// SetNoteText replaces the body.
func (n *Note) SetNoteText(text string) {
	n.NoteText = text
}

// SetPriority stores the priority clamped into [MaxPriority, MinPriority].
func (n *Note) SetPriority(priority int) {
	n.Priority = ClampPriority(priority)
}

// ClampPriority maps any integer into the valid priority range.
func ClampPriority(priority int) int {
	return min(max(priority, MaxPriority), MinPriority)
}

// GetExecutionDates returns a copy of the execution dates.
func (n *Note) GetExecutionDates() []time.Time {
	return copyDates(n.ExecutionDates)
}

// SetExecutionDates replaces the execution dates with a copy of dates.
func (n *Note) SetExecutionDates(dates []time.Time) {
	n.ExecutionDates = copyDates(dates)
}

// GetReminderDates returns a copy of the reminder dates.
func (n *Note) GetReminderDates() []time.Time {
	return copyDates(n.ReminderDates)
}

// SetReminderDates replaces the reminder dates with a copy of dates.
func (n *Note) SetReminderDates(dates []time.Time) {
	n.ReminderDates = copyDates(dates)
}

// ReferenceDate is the earliest execution date, used for date ordering.
func (n *Note) ReferenceDate() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, d := range n.ExecutionDates {
		if d.IsZero() {
			continue
		}
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	}
	return earliest, found
}

// Normalize restores the entity invariants on data read from a store:
// default headline, clamped priority and no zero dates.
func (n *Note) Normalize() {
	n.SetHeadline(n.Headline)
	n.SetPriority(n.Priority)
	n.ExecutionDates = stripZero(n.ExecutionDates)
	n.ReminderDates = stripZero(n.ReminderDates)
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	c.ExecutionDates = copyDates(n.ExecutionDates)
	c.ReminderDates = copyDates(n.ReminderDates)
	return &c
}

// CopyFieldsFrom overwrites every field except the identity.
func (n *Note) CopyFieldsFrom(other *Note) {
	n.Headline = other.Headline
	n.NoteText = other.NoteText
	n.Priority = other.Priority
	n.ExecutionDates = copyDates(other.ExecutionDates)
	n.ReminderDates = copyDates(other.ReminderDates)
}

// SameIdentity compares persisted notes by ID and unsaved notes by reference.
func (n *Note) SameIdentity(other *Note) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.HasID() && other.HasID() {
		return n.ID == other.ID
	}
	return n == other
}

func copyDates(dates []time.Time) []time.Time {
	if dates == nil {
		return []time.Time{}
	}
	return slices.Clone(dates)
}

func stripZero(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			out = append(out, d)
		}
	}
	return out
}
