package session

import (
	"errors"
	"strings"
	"time"

	"courtside/internal/domain/calendar"
)

// Session types
const (
	TypePrivate = "Private"
	TypeGroup   = "Group"
	TypeMatch   = "Match"
)

// Session statuses
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Default booking slot.
const (
	DefaultStartTime = "10:00"
	DefaultEndTime   = "11:00"
	DefaultType      = TypePrivate
)

// Bookable slot window, in clock strings.
const (
	FirstSlot    = "08:00"
	LastSlot     = "19:00"
	SlotInterval = 30 * time.Minute
)

// MaxNotesLength caps free-text notes on a session.
const MaxNotesLength = 1000

// ClockLayout is the wall-clock format for StartTime and EndTime.
const ClockLayout = "15:04"

// ValidTypes contains all valid session types.
var ValidTypes = []string{TypePrivate, TypeGroup, TypeMatch}

// Domain errors
var (
	ErrEmptyID          = errors.New("session ID cannot be empty")
	ErrNoPlayers        = errors.New("session must have at least one player")
	ErrMissingDate      = errors.New("session date is required")
	ErrInvalidClock     = errors.New("time must be in HH:MM format")
	ErrTimeOrder        = errors.New("end time must be after start time")
	ErrInvalidType      = errors.New("type must be 'Private', 'Group', or 'Match'")
	ErrInvalidStatus    = errors.New("status must be 'Scheduled', 'Completed', or 'Cancelled'")
	ErrTooManyPrivate   = errors.New("private sessions take exactly one player")
	ErrNotesTooLong     = errors.New("notes cannot exceed 1000 characters")
	ErrStatusTransition = errors.New("only scheduled sessions can change status")
	ErrSameStatus       = errors.New("session already has that status")
	ErrNotFound         = errors.New("session not found")
)

// Session is one booked training slot.
// INVARIANT: StartTime < EndTime, both zero-padded HH:MM on Date.
type Session struct {
	ID        string
	PlayerIDs []string
	Date      calendar.Date
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Type      string
	Status    string
	Notes     string
	CreatedAt time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if len(s.PlayerIDs) == 0 {
		return ErrNoPlayers
	}
	if s.Date.IsZero() {
		return ErrMissingDate
	}
	if !IsValidClock(s.StartTime) || !IsValidClock(s.EndTime) {
		return ErrInvalidClock
	}
	if s.StartTime >= s.EndTime {
		return ErrTimeOrder
	}
	if !IsValidType(s.Type) {
		return ErrInvalidType
	}
	if s.Type == TypePrivate && len(s.PlayerIDs) != 1 {
		return ErrTooManyPrivate
	}
	if !isValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	if len(s.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// SetStatus moves a scheduled session to completed or cancelled.
// PRE: Status is StatusScheduled
// POST: Status is next, or an error is returned and Status is unchanged
func (s *Session) SetStatus(next string) error {
	if !isValidStatus(next) {
		return ErrInvalidStatus
	}
	if s.Status == next {
		return ErrSameStatus
	}
	if s.Status != StatusScheduled {
		return ErrStatusTransition
	}
	s.Status = next
	return nil
}

// HasPlayer reports whether playerID is booked on the session.
func (s *Session) HasPlayer(playerID string) bool {
	for _, id := range s.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Duration returns the length of the session.
// PRE: StartTime and EndTime are valid clocks
func (s *Session) Duration() time.Duration {
	start, err := time.Parse(ClockLayout, s.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(ClockLayout, s.EndTime)
	if err != nil {
		return 0
	}
	return end.Sub(start)
}

// IsValidClock reports whether v is a zero-padded 24h HH:MM string.
// Fixed width keeps lexicographic and chronological order identical.
func IsValidClock(v string) bool {
	if len(v) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, v)
	return err == nil
}

// IsValidType reports whether t is a known session type.
func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

// TimeSlots returns the bookable clock values from FirstSlot to LastSlot.
// POST: values are ascending and SlotInterval apart
func TimeSlots() []string {
	first, _ := time.Parse(ClockLayout, FirstSlot)
	last, _ := time.Parse(ClockLayout, LastSlot)
	var slots []string
	for t := first; !t.After(last); t = t.Add(SlotInterval) {
		slots = append(slots, t.Format(ClockLayout))
	}
	return slots
}

func isValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}
