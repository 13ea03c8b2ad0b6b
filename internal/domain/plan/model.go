package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"courtside/internal/domain/player"
)

// Focus areas
const (
	FocusSpeed     = "Speed"
	FocusPower     = "Power"
	FocusTechnique = "Technique"
	FocusStamina   = "Stamina"
)

// ValidFocusAreas contains all valid focus areas.
var ValidFocusAreas = []string{FocusSpeed, FocusPower, FocusTechnique, FocusStamina}

// MaxDrills caps the drills on a single plan.
const MaxDrills = 20

// Domain errors
var (
	ErrEmptyPlayerID    = errors.New("player ID is required")
	ErrEmptyPlayerName  = errors.New("player name is required")
	ErrInvalidFocusArea = errors.New("focus area must be 'Speed', 'Power', 'Technique', or 'Stamina'")
	ErrNoDrills         = errors.New("plan must contain at least one drill")
	ErrTooManyDrills    = errors.New("plan cannot exceed 20 drills")
	ErrNotFound         = errors.New("training plan not found")
	ErrNoEmail          = errors.New("player has no email address")
)

// TrainingPlan is a generated list of drills for one player.
type TrainingPlan struct {
	ID          string
	PlayerID    string
	PlayerName  string
	FocusArea   string
	Drills      []string
	GeneratedAt time.Time
}

// Validate checks if the TrainingPlan has valid data.
// PRE: TrainingPlan struct is populated
// POST: Returns nil if valid, error otherwise
func (p *TrainingPlan) Validate() error {
	if strings.TrimSpace(p.PlayerID) == "" {
		return ErrEmptyPlayerID
	}
	if strings.TrimSpace(p.PlayerName) == "" {
		return ErrEmptyPlayerName
	}
	if !IsValidFocusArea(p.FocusArea) {
		return ErrInvalidFocusArea
	}
	if len(p.Drills) == 0 {
		return ErrNoDrills
	}
	if len(p.Drills) > MaxDrills {
		return ErrTooManyDrills
	}
	return nil
}

// Markdown renders the plan as a Markdown document.
func (p *TrainingPlan) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Training plan for %s\n\n", p.PlayerName)
	fmt.Fprintf(&b, "**Focus:** %s  \n", p.FocusArea)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", p.GeneratedAt.Format("2 Jan 2006"))
	b.WriteString("## Drills\n\n")
	for i, d := range p.Drills {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}
	return b.String()
}

// Generator produces a plan for a player. ID and GeneratedAt are left for
// the caller to assign.
type Generator interface {
	Generate(p player.Player) TrainingPlan
}

// LookupGenerator picks drills from a fixed table keyed by skill level.
type LookupGenerator struct{}

// Generate implements Generator.
// POST: FocusArea is Technique and Drills is DrillsForLevel(p.Level)
func (LookupGenerator) Generate(p player.Player) TrainingPlan {
	return TrainingPlan{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		FocusArea:  FocusTechnique,
		Drills:     DrillsForLevel(p.Level),
	}
}

// DrillsForLevel returns the drill list for a skill level. Advanced, Pro and
// unrecognised levels share the high-intensity list.
func DrillsForLevel(level string) []string {
	switch level {
	case player.LevelBeginner:
		return []string{"Wall volley (10 mins)", "Forehand toss feed (15 mins)", "Mini tennis (10 mins)"}
	case player.LevelIntermediate:
		return []string{"Cross-court rallies (15 mins)", "Serve placement drills (15 mins)", "Approach shots (20 mins)"}
	default:
		return []string{"High-intensity interval feeding (20 mins)", "Match play simulation (30 mins)", "Target serving under pressure (20 mins)"}
	}
}

// IsValidFocusArea reports whether f is a known focus area.
func IsValidFocusArea(f string) bool {
	for _, v := range ValidFocusAreas {
		if v == f {
			return true
		}
	}
	return false
}
