package player

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
	MaxPhoneLength = 32
	MaxURLLength   = 2048
)

// Skill levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelPro          = "Pro"
)

// ValidLevels lists skill levels from lowest to highest.
var ValidLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelPro}

// Domain errors
var (
	ErrEmptyName    = errors.New("player name cannot be empty")
	ErrNameTooLong  = errors.New("player name cannot exceed 100 characters")
	ErrInvalidEmail = errors.New("player email must contain '@'")
	ErrEmailTooLong = errors.New("player email cannot exceed 254 characters")
	ErrPhoneTooLong = errors.New("player phone cannot exceed 32 characters")
	ErrInvalidLevel = errors.New("level must be 'Beginner', 'Intermediate', 'Advanced', or 'Pro'")
	ErrImageURLLong = errors.New("image URL cannot exceed 2048 characters")
	ErrNotFound     = errors.New("player not found")
	ErrHasSessions  = errors.New("player has scheduled sessions")
)

// Player is someone the coach trains.
type Player struct {
	ID        string
	Name      string
	Email     string // optional
	Phone     string // optional
	Level     string
	ImageURL  string // optional
	CreatedAt time.Time
}

// Validate checks if the Player has valid data.
// PRE: Player struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: Name is non-blank and Level is one of ValidLevels
func (p *Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if p.Email != "" {
		if len(p.Email) > MaxEmailLength {
			return ErrEmailTooLong
		}
		if !strings.Contains(p.Email, "@") {
			return ErrInvalidEmail
		}
	}
	if len(p.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if !IsValidLevel(p.Level) {
		return ErrInvalidLevel
	}
	if len(p.ImageURL) > MaxURLLength {
		return ErrImageURLLong
	}
	return nil
}

// Initials returns up to two uppercase initials for avatar placeholders.
func (p *Player) Initials() string {
	var out []rune
	for _, part := range strings.Fields(p.Name) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// MatchesQuery reports whether q (case-insensitive) appears in the name or email.
func (p *Player) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Email), q)
}

// IsValidLevel reports whether level is a known skill level.
func IsValidLevel(level string) bool {
	for _, l := range ValidLevels {
		if l == level {
			return true
		}
	}
	return false
}
