package core

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// NoteSelector selects and orders a subset of a note collection.
// Implementations must not mutate the input and must return a fresh slice.
type NoteSelector interface {
	Select(notes []*Note) []*Note
}

// ViewSelector filters notes by headline and body substrings (case-sensitive),
// an optional boolean query and orders the result by SortOrder.
//
// Query is an expr-lang expression evaluated against the variables
// id, headline, noteText, priority, executionDates, reminderDates and now,
// e.g. `priority <= 2 && len(reminderDates) > 0`.
type ViewSelector struct {
	HeadlineContains string
	NoteTextContains string
	Query            string
	SortOrder        SortOrder

	// Logger receives query evaluation failures. Optional.
	Logger *slog.Logger

	program *exprvm.Program
	source  string
}

// NewViewSelector creates a selector with the given order and no filters.
func NewViewSelector(order SortOrder) *ViewSelector {
	return &ViewSelector{SortOrder: order}
}

// Compile validates and caches the query program.
// Select compiles lazily, so calling Compile is only needed to surface errors early.
func (s *ViewSelector) Compile() error {
	if s.Query == "" {
		s.program, s.source = nil, ""
		return nil
	}
	if s.program != nil && s.source == s.Query {
		return nil
	}
	program, err := exprlang.Compile(s.Query,
		exprlang.Env(queryEnv(NewNote("", "", MinPriority), time.Time{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	s.program, s.source = program, s.Query
	return nil
}

// Select applies the filters and the sort order to notes.
// A query that fails to compile selects nothing.
func (s *ViewSelector) Select(notes []*Note) []*Note {
	out := make([]*Note, 0, len(notes))
	if err := s.Compile(); err != nil {
		s.logError("selector query rejected", err)
		return out
	}

	now := time.Now()
	for _, n := range notes {
		if n == nil || !s.matches(n, now) {
			continue
		}
		out = append(out, n)
	}
	sortNotes(out, s.SortOrder)
	return out
}

func (s *ViewSelector) matches(n *Note, now time.Time) bool {
	if s.HeadlineContains != "" && !strings.Contains(n.Headline, s.HeadlineContains) {
		return false
	}
	if s.NoteTextContains != "" && !strings.Contains(n.NoteText, s.NoteTextContains) {
		return false
	}
	if s.program == nil {
		return true
	}
	result, err := exprlang.Run(s.program, queryEnv(n, now))
	if err != nil {
		s.logError("selector query failed", err, "id", n.ID)
		return false
	}
	ok, _ := result.(bool)
	return ok
}

func (s *ViewSelector) logError(msg string, err error, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, append([]any{"query", s.Query, "error", err}, args...)...)
}

func queryEnv(n *Note, now time.Time) map[string]any {
	return map[string]any{
		"id":             n.ID,
		"headline":       n.Headline,
		"noteText":       n.NoteText,
		"priority":       n.Priority,
		"executionDates": n.GetExecutionDates(),
		"reminderDates":  n.GetReminderDates(),
		"now":            now,
	}
}

// sortNotes orders notes in place. SortNone keeps the input order; every other
// order breaks ties by id ascending and then by input order.
func sortNotes(notes []*Note, order SortOrder) {
	if order == SortNone {
		return
	}
	slices.SortStableFunc(notes, func(a, b *Note) int {
		if c := order.compare(a, b); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

var _ NoteSelector = (*ViewSelector)(nil)
