package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DefaultMaxMonthsAhead is how far past the current month the visible month
// may be advanced.
const DefaultMaxMonthsAhead = 3

// Navigation directions.
const (
	DirectionPrev = "prev"
	DirectionNext = "next"
)

// ErrInvalidDirection is returned for an unknown navigation direction.
var ErrInvalidDirection = errors.New("direction must be 'prev' or 'next'")

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// AddMonths moves m by n months (n may be negative).
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the following month.
func (m Month) Next() Month { return m.AddMonths(1) }

// Prev returns the preceding month.
func (m Month) Prev() Month { return m.AddMonths(-1) }

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Days returns the number of days in m.
func (m Month) Days() int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of m.
func (m Month) FirstWeekday() time.Weekday {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// First returns the 1st day of m.
func (m Month) First() Date { return Date{Year: m.Year, Month: m.Month, Day: 1} }

// Last returns the last day of m.
func (m Month) Last() Date { return Date{Year: m.Year, Month: m.Month, Day: m.Days()} }

// String formats m as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Cell is one slot of the month grid. Blank cells pad the first week so the
// 1st lands under its weekday column.
type Cell struct {
	Blank bool
	Date  Date
}

// Grid lays out m as a Sunday-first month grid: FirstWeekday blank cells
// followed by one cell per day.
// PRE: none
// POST: len(result) == int(m.FirstWeekday()) + m.Days()
func Grid(m Month) []Cell {
	blanks := int(m.FirstWeekday())
	days := m.Days()
	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, Cell{Date: Date{Year: m.Year, Month: m.Month, Day: day}})
	}
	return cells
}

// LastBookable returns the last day of the month maxAhead months after
// today's, the furthest day the month grid can show.
func LastBookable(today Date, maxAhead int) Date {
	return MonthOf(today).AddMonths(maxAhead).Last()
}

// Navigate moves the visible month one step in direction. Moving forward is
// refused once visible reaches current+maxAhead; moving back is unbounded.
// PRE: direction is DirectionPrev or DirectionNext
// POST: returns the new visible month and whether it changed
func Navigate(visible, current Month, maxAhead int, direction string) (Month, bool, error) {
	switch direction {
	case DirectionPrev:
		return visible.Prev(), true, nil
	case DirectionNext:
		if !CanAdvance(visible, current, maxAhead) {
			return visible, false, nil
		}
		return visible.Next(), true, nil
	default:
		return visible, false, ErrInvalidDirection
	}
}

// CanAdvance reports whether visible may move one month forward.
func CanAdvance(visible, current Month, maxAhead int) bool {
	return visible.Before(current.AddMonths(maxAhead))
}
