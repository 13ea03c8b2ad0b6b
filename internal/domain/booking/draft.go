package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courtside/internal/domain/calendar"
	"courtside/internal/domain/session"
)

// Time slot names accepted by ChangeTime.
const (
	SlotStart = "start"
	SlotEnd   = "end"
)

// ErrInvalidSelection is the single failure class for a booking that cannot
// be submitted. The reason errors below wrap it.
var ErrInvalidSelection = errors.New("invalid selection")

// Reasons a draft cannot be submitted.
var (
	ErrNoStart   = fmt.Errorf("%w: no start date selected", ErrInvalidSelection)
	ErrNoPlayers = fmt.Errorf("%w: no players selected", ErrInvalidSelection)
	ErrTimeOrder = fmt.Errorf("%w: end time must be after start time", ErrInvalidSelection)
)

// Input errors on individual draft events. Time, type and notes share the
// session sentinels so errors.Is matches either package.
var (
	ErrInvalidSlot  = errors.New("slot must be 'start' or 'end'")
	ErrInvalidTime  = session.ErrInvalidClock
	ErrInvalidType  = session.ErrInvalidType
	ErrNotesTooLong = session.ErrNotesTooLong
)

// Draft holds the in-progress booking form: who, when in the day, and what kind.
// INVARIANT: Type == Private implies len(PlayerIDs) <= 1.
// INVARIANT: StartTime and EndTime are valid HH:MM clocks.
type Draft struct {
	Type      string
	PlayerIDs []string
	StartTime string
	EndTime   string
	Notes     string
}

// NewDraft returns a draft with the default slot and type and no players.
func NewDraft() Draft {
	return Draft{
		Type:      session.DefaultType,
		StartTime: session.DefaultStartTime,
		EndTime:   session.DefaultEndTime,
	}
}

// TogglePlayer applies the player-selection policy for the draft's type.
// Private replaces the selection with id. Group and Match toggle membership.
// POST: for Private, selecting the already-chosen player keeps it selected
func (d *Draft) TogglePlayer(id string) {
	if d.Type == session.TypePrivate {
		d.PlayerIDs = []string{id}
		return
	}
	for i, existing := range d.PlayerIDs {
		if existing == id {
			d.PlayerIDs = append(d.PlayerIDs[:i:i], d.PlayerIDs[i+1:]...)
			return
		}
	}
	d.PlayerIDs = append(d.PlayerIDs, id)
}

// ChangeType switches the session type.
// POST: switching to Private truncates the selection to its first player
func (d *Draft) ChangeType(t string) error {
	if !session.IsValidType(t) {
		return ErrInvalidType
	}
	d.Type = t
	if t == session.TypePrivate && len(d.PlayerIDs) > 1 {
		d.PlayerIDs = d.PlayerIDs[:1:1]
	}
	return nil
}

// ChangeTime sets the start or end clock. Malformed values are rejected and
// leave the draft unchanged. Order is not checked here; Check reports it.
func (d *Draft) ChangeTime(slot, value string) error {
	if !session.IsValidClock(value) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	switch slot {
	case SlotStart:
		d.StartTime = value
	case SlotEnd:
		d.EndTime = value
	default:
		return ErrInvalidSlot
	}
	return nil
}

// SetNotes replaces the free-text notes copied onto every booked session.
func (d *Draft) SetNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > session.MaxNotesLength {
		return ErrNotesTooLong
	}
	d.Notes = notes
	return nil
}

// Check reports why the draft cannot be booked against sel, or nil when it can.
// PRE: none
// POST: any non-nil error satisfies errors.Is(err, ErrInvalidSelection)
func (d Draft) Check(sel calendar.Selection) error {
	if sel.Start.IsZero() {
		return ErrNoStart
	}
	if len(d.PlayerIDs) == 0 {
		return ErrNoPlayers
	}
	if d.StartTime >= d.EndTime {
		return ErrTimeOrder
	}
	return nil
}

// Expand builds one scheduled session per calendar day of sel.
// PRE: d.Check(sel) == nil
// POST: len(result) == len(sel.Dates()); ids come from newID and are used in order
// POST: each session carries its own copy of the player list
func (d Draft) Expand(sel calendar.Selection, newID func() string, now time.Time) ([]session.Session, error) {
	if err := d.Check(sel); err != nil {
		return nil, err
	}
	dates := sel.Dates()
	sessions := make([]session.Session, 0, len(dates))
	for _, date := range dates {
		players := make([]string, len(d.PlayerIDs))
		copy(players, d.PlayerIDs)
		sessions = append(sessions, session.Session{
			ID:        newID(),
			PlayerIDs: players,
			Date:      date,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Type:      d.Type,
			Status:    session.StatusScheduled,
			Notes:     d.Notes,
			CreatedAt: now,
		})
	}
	return sessions, nil
}

// IsSelected reports whether id is in the draft's player set.
func (d Draft) IsSelected(id string) bool {
	for _, existing := range d.PlayerIDs {
		if existing == id {
			return true
		}
	}
	return false
}
