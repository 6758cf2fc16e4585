package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"
)

// Policy decides what happens to unsaved edits at a boundary
// (switching the selected note, closing, refreshing the list).
type Policy struct {
	AutoSave         bool `json:"autoSave" yaml:"autoSave"`
	AskBeforeClosing bool `json:"alwaysAskToSaveBeforeClosingNote" yaml:"alwaysAskToSaveBeforeClosingNote"`
}

// DefaultPolicy saves automatically.
func DefaultPolicy() Policy {
	return Policy{AutoSave: true, AskBeforeClosing: true}
}

// Confirmer asks the user whether the edits on a note should be saved.
type Confirmer interface {
	Confirm(ctx context.Context, n *Note) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, n *Note) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, n *Note) (bool, error) {
	return f(ctx, n)
}

// Shift is a relative offset applied to a date.
type Shift struct {
	Minutes int
	Hours   int
	Days    int
	Months  int
}

// Common shifts.
var (
	Plus5Minutes  = Shift{Minutes: 5}
	Plus15Minutes = Shift{Minutes: 15}
	PlusHour      = Shift{Hours: 1}
	PlusDay       = Shift{Days: 1}
	PlusWeek      = Shift{Days: 7}
	PlusMonth     = Shift{Months: 1}
)

// Apply returns t moved by the shift.
func (s Shift) Apply(t time.Time) time.Time {
	t = t.Add(time.Duration(s.Minutes)*time.Minute + time.Duration(s.Hours)*time.Hour)
	return t.AddDate(0, 0, s.Days).AddDate(0, s.Months, 0)
}

// EditSession tracks the note currently being edited. Edits go to a draft
// copy; the draft reaches the note and the store only when it is saved,
// either explicitly or by the Policy at a boundary.
type EditSession struct {
	manager   *Manager
	policy    Policy
	confirmer Confirmer
	logger    *slog.Logger

	current *Note
	draft   *Note
	changed bool
}

// NewEditSession creates a session. confirmer may be nil, in which case a
// confirmation request is treated as declined.
func NewEditSession(m *Manager, policy Policy, confirmer Confirmer, logger *slog.Logger) *EditSession {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &EditSession{
		manager:   m,
		policy:    policy,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Open runs the boundary for the previously edited note and then starts
// editing n. If the boundary fails n is not opened.
func (s *EditSession) Open(ctx context.Context, n *Note) error {
	if err := s.Boundary(ctx); err != nil {
		return err
	}
	s.attach(n)
	return nil
}

// Close runs the boundary and detaches the current note.
func (s *EditSession) Close(ctx context.Context) error {
	if err := s.Boundary(ctx); err != nil {
		return err
	}
	s.attach(nil)
	return nil
}

// Refresh runs the boundary, reloads the manager and re-opens the current
// note when it still exists.
func (s *EditSession) Refresh(ctx context.Context) error {
	if err := s.Boundary(ctx); err != nil {
		return err
	}
	if err := s.manager.LoadNotes(ctx); err != nil {
		return err
	}
	if s.current == nil {
		return nil
	}
	reloaded, ok := s.manager.Note(s.current.ID)
	if !ok {
		reloaded = nil
	}
	s.attach(reloaded)
	return nil
}

// Boundary applies the policy to pending edits. A failed save keeps the
// edits and the changed flag so the caller can retry.
func (s *EditSession) Boundary(ctx context.Context) error {
	if s.current == nil || !s.changed {
		s.logger.Debug("note was not changed, skipping auto-save")
		return nil
	}
	if !s.stillManaged() {
		s.logger.Debug("edited note is gone, dropping edits", "id", s.current.ID)
		s.discard()
		return nil
	}

	switch {
	case s.policy.AutoSave:
		s.logger.Debug("auto-saving note", "id", s.current.ID)
		return s.Save(ctx)
	case s.policy.AskBeforeClosing:
		ok, err := s.confirm(ctx)
		if err != nil {
			return fmt.Errorf("confirm save: %w", err)
		}
		if ok {
			s.logger.Debug("saving note after confirmation", "id", s.current.ID)
			return s.Save(ctx)
		}
		s.logger.Debug("save declined, discarding edits", "id", s.current.ID)
		s.discard()
		return nil
	default:
		s.discard()
		return nil
	}
}

// Save commits the draft into the current note and persists it.
func (s *EditSession) Save(ctx context.Context) error {
	if s.current == nil {
		return nil
	}
	s.current.CopyFieldsFrom(s.draft)
	if err := s.manager.UpdateNote(ctx, s.current); err != nil {
		return err
	}
	s.draft = s.current.Clone()
	s.changed = false
	return nil
}

// Current returns the note being edited, or nil.
func (s *EditSession) Current() *Note { return s.current }

// Draft returns a copy of the pending field values.
func (s *EditSession) Draft() *Note {
	if s.draft == nil {
		return nil
	}
	return s.draft.Clone()
}

// Changed reports whether the draft holds unsaved edits.
func (s *EditSession) Changed() bool { return s.changed }

// SetHeadline changes the draft headline.
func (s *EditSession) SetHeadline(headline string) {
	s.edit(func(d *Note) { d.SetHeadline(headline) })
}

// SetNoteText changes the draft text.
func (s *EditSession) SetNoteText(text string) {
	s.edit(func(d *Note) { d.SetNoteText(text) })
}

// SetPriority changes the draft priority, clamped into range.
func (s *EditSession) SetPriority(priority int) {
	s.edit(func(d *Note) { d.SetPriority(priority) })
}

// AddExecutionDate inserts t at the head of the execution dates.
func (s *EditSession) AddExecutionDate(t time.Time) bool {
	return s.addDate(&s.draftOrEmpty().ExecutionDates, t)
}

// RemoveExecutionDate removes the execution date at index i.
func (s *EditSession) RemoveExecutionDate(i int) error {
	return s.removeDate(&s.draftOrEmpty().ExecutionDates, i)
}

// ShiftExecutionDate moves the execution date at index i by shift and puts
// the result at the head.
func (s *EditSession) ShiftExecutionDate(i int, shift Shift) error {
	return s.shiftDate(&s.draftOrEmpty().ExecutionDates, i, shift)
}

// AddReminderDate inserts t at the head of the reminder dates.
func (s *EditSession) AddReminderDate(t time.Time) bool {
	return s.addDate(&s.draftOrEmpty().ReminderDates, t)
}

// RemoveReminderDate removes the reminder date at index i.
func (s *EditSession) RemoveReminderDate(i int) error {
	return s.removeDate(&s.draftOrEmpty().ReminderDates, i)
}

// ShiftReminderDate moves the reminder date at index i by shift and puts
// the result at the head.
func (s *EditSession) ShiftReminderDate(i int, shift Shift) error {
	return s.shiftDate(&s.draftOrEmpty().ReminderDates, i, shift)
}

func (s *EditSession) addDate(dates *[]time.Time, t time.Time) bool {
	if s.current == nil || t.IsZero() {
		return false
	}
	*dates = slices.Insert(*dates, 0, t)
	s.changed = true
	return true
}

func (s *EditSession) removeDate(dates *[]time.Time, i int) error {
	if s.current == nil {
		return ErrNoteNotFound
	}
	if i < 0 || i >= len(*dates) {
		return fmt.Errorf("date index %d out of range [0,%d)", i, len(*dates))
	}
	*dates = slices.Delete(*dates, i, i+1)
	s.changed = true
	return nil
}

func (s *EditSession) shiftDate(dates *[]time.Time, i int, shift Shift) error {
	if s.current == nil {
		return ErrNoteNotFound
	}
	if i < 0 || i >= len(*dates) {
		return fmt.Errorf("date index %d out of range [0,%d)", i, len(*dates))
	}
	moved := shift.Apply((*dates)[i])
	*dates = slices.Delete(*dates, i, i+1)
	*dates = slices.Insert(*dates, 0, moved)
	s.changed = true
	return nil
}

func (s *EditSession) edit(fn func(d *Note)) {
	if s.current == nil {
		return
	}
	fn(s.draft)
	s.changed = true
}

// draftOrEmpty keeps the date helpers nil-safe when no note is open.
func (s *EditSession) draftOrEmpty() *Note {
	if s.draft == nil {
		return &Note{}
	}
	return s.draft
}

func (s *EditSession) attach(n *Note) {
	s.current = n
	s.draft = nil
	if n != nil {
		s.draft = n.Clone()
		s.draft.Normalize()
	}
	s.changed = false
}

func (s *EditSession) discard() {
	s.draft = s.current.Clone()
	s.changed = false
}

func (s *EditSession) confirm(ctx context.Context) (bool, error) {
	if s.confirmer == nil {
		return false, nil
	}
	return s.confirmer.Confirm(ctx, s.draft.Clone())
}

func (s *EditSession) stillManaged() bool {
	if !s.current.HasID() {
		return false
	}
	_, ok := s.manager.Note(s.current.ID)
	return ok
}
