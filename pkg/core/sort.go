package core

import (
	"cmp"
	"fmt"
	"strings"
)

// SortOrder selects how a view orders its notes.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortIDAsc
	SortIDDesc
	SortDateAsc
	SortDateDesc
	SortNameAsc
	SortNameDesc
	SortPriorityAsc
	SortPriorityDesc
)

var sortOrderNames = map[SortOrder]string{
	SortNone:         "NONE",
	SortIDAsc:        "ID_ASC",
	SortIDDesc:       "ID_DESC",
	SortDateAsc:      "DATE_ASC",
	SortDateDesc:     "DATE_DESC",
	SortNameAsc:      "NAME_ASC",
	SortNameDesc:     "NAME_DESC",
	SortPriorityAsc:  "PRIORITY_ASC",
	SortPriorityDesc: "PRIORITY_DESC",
}

// SortOrders lists every order, SortNone first.
func SortOrders() []SortOrder {
	return []SortOrder{
		SortNone,
		SortIDAsc, SortIDDesc,
		SortDateAsc, SortDateDesc,
		SortNameAsc, SortNameDesc,
		SortPriorityAsc, SortPriorityDesc,
	}
}

func (o SortOrder) String() string {
	if name, ok := sortOrderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("SortOrder(%d)", int(o))
}

// ParseSortOrder accepts tokens like "ID_DESC", "name-asc" or "none".
func ParseSortOrder(s string) (SortOrder, error) {
	token := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if token == "" {
		return SortNone, nil
	}
	for order, name := range sortOrderNames {
		if name == token {
			return order, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort order: %q", s)
}

// compare orders two notes for o. Zero means "no preference" and
// falls through to the tie breakers in sortNotes.
func (o SortOrder) compare(a, b *Note) int {
	switch o {
	case SortIDAsc:
		return cmp.Compare(a.ID, b.ID)
	case SortIDDesc:
		return cmp.Compare(b.ID, a.ID)
	case SortDateAsc:
		return compareDates(a, b)
	case SortDateDesc:
		return compareDates(b, a)
	case SortNameAsc:
		return strings.Compare(a.Headline, b.Headline)
	case SortNameDesc:
		return strings.Compare(b.Headline, a.Headline)
	case SortPriorityAsc:
		return cmp.Compare(a.Priority, b.Priority)
	case SortPriorityDesc:
		return cmp.Compare(b.Priority, a.Priority)
	default:
		return 0
	}
}

// compareDates puts dated notes before undated ones; undated notes keep
// their collection order.
func compareDates(a, b *Note) int {
	da, okA := a.ReferenceDate()
	db, okB := b.ReferenceDate()
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}
