package calendar

import (
	"errors"
	"fmt"
)

// Phase says which endpoint the next date tap sets.
type Phase int

const (
	PickingStart Phase = iota
	PickingEnd
)

// ErrInvalidPhase is returned when a phase name is not recognised.
var ErrInvalidPhase = errors.New("phase must be 'start' or 'end'")

// ErrRangeOrder is returned when a selection has its end before its start.
var ErrRangeOrder = errors.New("range end must not precede range start")

// ErrEndWithoutStart is returned when a selection has an end but no start.
var ErrEndWithoutStart = errors.New("range end set without a range start")

func (p Phase) String() string {
	if p == PickingEnd {
		return "end"
	}
	return "start"
}

// ParsePhase converts "start" or "end" to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "start":
		return PickingStart, nil
	case "end":
		return PickingEnd, nil
	}
	return PickingStart, fmt.Errorf("%w: %q", ErrInvalidPhase, s)
}

// Selection is a range of calendar days chosen by successive taps.
// A zero End means a single-day selection.
// INVARIANT: when both Start and End are set, Start <= End.
// INVARIANT: End is never set while Start is unset.
type Selection struct {
	Start Date
	End   Date
	Phase Phase
}

// NewSelection returns an empty selection waiting for a start date.
func NewSelection() Selection {
	return Selection{Phase: PickingStart}
}

// SeedSelection returns a single-day selection on start. The next tap
// extends it, so it begins in PickingEnd.
func SeedSelection(start Date) Selection {
	return Selection{Start: start, Phase: PickingEnd}
}

// Tap applies one date tap and returns the resulting selection.
// PRE: today is the current calendar day; last is the latest bookable day,
// or zero for no ceiling
// POST: picked before today or after last returns s unchanged
// POST: every accepted tap flips Phase
// INVARIANT: the returned selection satisfies Validate
func (s Selection) Tap(picked, today, last Date) Selection {
	if picked.IsZero() || picked.Before(today) {
		return s
	}
	if !last.IsZero() && picked.After(last) {
		return s
	}

	// PickingEnd without a start has nothing to extend; treat it as a start pick.
	if s.Phase == PickingStart || s.Start.IsZero() {
		next := Selection{Start: picked, End: s.End, Phase: PickingEnd}
		if !next.End.IsZero() && next.End.Before(picked) {
			next.End = Date{}
		}
		return next
	}

	switch picked.Compare(s.Start) {
	case -1:
		return Selection{Start: picked, End: s.Start, Phase: PickingStart}
	case 0:
		return Selection{Start: s.Start, Phase: PickingStart}
	default:
		return Selection{Start: s.Start, End: picked, Phase: PickingStart}
	}
}

// Focus sets which endpoint the next tap edits without touching the dates.
func (s Selection) Focus(p Phase) Selection {
	s.Phase = p
	return s
}

// ResetToSingleDay drops the end date and waits for a new start.
func (s Selection) ResetToSingleDay() Selection {
	return Selection{Start: s.Start, Phase: PickingStart}
}

// IsSingleDay reports whether the selection covers at most one day.
func (s Selection) IsSingleDay() bool {
	return s.End.IsZero()
}

// LastDay returns the inclusive last day: End when set, otherwise Start.
func (s Selection) LastDay() Date {
	if s.End.IsZero() {
		return s.Start
	}
	return s.End
}

// Contains reports whether d falls within the selection.
func (s Selection) Contains(d Date) bool {
	if s.Start.IsZero() {
		return false
	}
	return !d.Before(s.Start) && !d.After(s.LastDay())
}

// Dates expands the selection into every calendar day it covers.
// POST: returns nil when Start is unset
func (s Selection) Dates() []Date {
	if s.Start.IsZero() {
		return nil
	}
	return DaysBetween(s.Start, s.LastDay())
}

// Validate checks the selection invariants.
func (s Selection) Validate() error {
	if s.Start.IsZero() {
		if !s.End.IsZero() {
			return ErrEndWithoutStart
		}
		return nil
	}
	if !s.End.IsZero() && s.End.Before(s.Start) {
		return ErrRangeOrder
	}
	return nil
}
