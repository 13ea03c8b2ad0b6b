package web

import (
	"time"

	"courtside/internal/application/coordinator"
	"courtside/internal/application/projections"
	"courtside/internal/domain/analysis"
	"courtside/internal/domain/calendar"
	"courtside/internal/domain/outbox"
	"courtside/internal/domain/plan"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

type playerJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Initials  string    `json:"initials"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Level     string    `json:"level"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toPlayerJSON(p player.Player) playerJSON {
	return playerJSON{
		ID:        p.ID,
		Name:      p.Name,
		Initials:  p.Initials(),
		Email:     p.Email,
		Phone:     p.Phone,
		Level:     p.Level,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

func toPlayersJSON(ps []player.Player) []playerJSON {
	out := make([]playerJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPlayerJSON(p))
	}
	return out
}

type sessionJSON struct {
	ID          string    `json:"id"`
	PlayerIDs   []string  `json:"player_ids"`
	PlayerNames []string  `json:"player_names,omitempty"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSessionJSON(s session.Session, names []string) sessionJSON {
	return sessionJSON{
		ID:          s.ID,
		PlayerIDs:   s.PlayerIDs,
		PlayerNames: names,
		Date:        s.Date.String(),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Type:        s.Type,
		Status:      s.Status,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
	}
}

func toSessionsJSON(ss []session.Session) []sessionJSON {
	out := make([]sessionJSON, 0, len(ss))
	for _, s := range ss {
		out = append(out, toSessionJSON(s, nil))
	}
	return out
}

func toAgendaJSON(entries []projections.AgendaEntry) []sessionJSON {
	out := make([]sessionJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toSessionJSON(e.Session, e.PlayerNames))
	}
	return out
}

type cellJSON struct {
	Blank      bool   `json:"blank,omitempty"`
	Date       string `json:"date,omitempty"`
	Day        int    `json:"day,omitempty"`
	Today      bool   `json:"today,omitempty"`
	Past       bool   `json:"past,omitempty"`
	InRange    bool   `json:"in_range,omitempty"`
	RangeStart bool   `json:"range_start,omitempty"`
	RangeEnd   bool   `json:"range_end,omitempty"`
	Marked     bool   `json:"marked,omitempty"`
}

type draftJSON struct {
	Type      string   `json:"type"`
	PlayerIDs []string `json:"player_ids"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Notes     string   `json:"notes,omitempty"`
	TimeSlots []string `json:"time_slots"`
}

type scheduleJSON struct {
	Today        string        `json:"today"`
	VisibleMonth string        `json:"visible_month"`
	CanAdvance   bool          `json:"can_advance"`
	Grid         []cellJSON    `json:"grid"`
	RangeStart   string        `json:"range_start"`
	RangeEnd     string        `json:"range_end"`
	ActivePhase  string        `json:"active_phase"`
	Draft        draftJSON     `json:"draft"`
	CanSubmit    bool          `json:"can_submit"`
	Reason       string        `json:"reason,omitempty"`
	Agenda       []sessionJSON `json:"agenda"`
	MarkedDates  []string      `json:"marked_dates"`
}

// toScheduleJSON flattens a coordinator snapshot and its agenda for the client.
func toScheduleJSON(snap coordinator.Snapshot, agenda projections.GetAgendaResult) scheduleJSON {
	marked := make(map[calendar.Date]bool, len(agenda.MarkedDates))
	markedDates := make([]string, 0, len(agenda.MarkedDates))
	for _, d := range agenda.MarkedDates {
		marked[d] = true
		markedDates = append(markedDates, d.String())
	}

	sel := snap.Selection
	last := sel.LastDay()
	grid := make([]cellJSON, 0, len(snap.Grid))
	for _, c := range snap.Grid {
		if c.Blank {
			grid = append(grid, cellJSON{Blank: true})
			continue
		}
		grid = append(grid, cellJSON{
			Date:       c.Date.String(),
			Day:        c.Date.Day,
			Today:      c.Date == snap.Today,
			Past:       c.Date.Before(snap.Today),
			InRange:    sel.Contains(c.Date),
			RangeStart: !sel.Start.IsZero() && c.Date == sel.Start,
			RangeEnd:   !last.IsZero() && c.Date == last,
			Marked:     marked[c.Date],
		})
	}

	playerIDs := snap.Draft.PlayerIDs
	if playerIDs == nil {
		playerIDs = []string{}
	}
	return scheduleJSON{
		Today:        snap.Today.String(),
		VisibleMonth: snap.VisibleMonth.String(),
		CanAdvance:   snap.CanAdvance,
		Grid:         grid,
		RangeStart:   sel.Start.String(),
		RangeEnd:     sel.End.String(),
		ActivePhase:  sel.Phase.String(),
		Draft: draftJSON{
			Type:      snap.Draft.Type,
			PlayerIDs: playerIDs,
			StartTime: snap.Draft.StartTime,
			EndTime:   snap.Draft.EndTime,
			Notes:     snap.Draft.Notes,
			TimeSlots: session.TimeSlots(),
		},
		CanSubmit:   snap.CanSubmit,
		Reason:      snap.Reason,
		Agenda:      toAgendaJSON(agenda.Entries),
		MarkedDates: markedDates,
	}
}

type resultJSON struct {
	Speed          int      `json:"speed_kmh"`
	TechniqueScore float64  `json:"technique_score"`
	Feedback       []string `json:"feedback"`
}

type analysisJSON struct {
	ID           string      `json:"id"`
	PlayerID     string      `json:"player_id"`
	VideoURI     string      `json:"video_uri"`
	VideoType    string      `json:"video_type"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	Status       string      `json:"status"`
	Result       *resultJSON `json:"result,omitempty"`
	Error        string      `json:"error,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

func toAnalysisJSON(a analysis.Analysis) analysisJSON {
	out := analysisJSON{
		ID:           a.ID,
		PlayerID:     a.PlayerID,
		VideoURI:     a.VideoURI,
		VideoType:    a.VideoType,
		ThumbnailURL: a.ThumbnailURL,
		Status:       a.Status,
		Error:        a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
	}
	if a.Result != nil {
		out.Result = &resultJSON{
			Speed:          a.Result.Speed,
			TechniqueScore: a.Result.TechniqueScore,
			Feedback:       a.Result.Feedback,
		}
	}
	if !a.CompletedAt.IsZero() {
		t := a.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

func toAnalysesJSON(as []analysis.Analysis) []analysisJSON {
	out := make([]analysisJSON, 0, len(as))
	for _, a := range as {
		out = append(out, toAnalysisJSON(a))
	}
	return out
}

type planJSON struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	FocusArea   string    `json:"focus_area"`
	Drills      []string  `json:"drills"`
	GeneratedAt time.Time `json:"generated_at"`
}

func toPlanJSON(p plan.TrainingPlan) planJSON {
	return planJSON{
		ID:          p.ID,
		PlayerID:    p.PlayerID,
		PlayerName:  p.PlayerName,
		FocusArea:   p.FocusArea,
		Drills:      p.Drills,
		GeneratedAt: p.GeneratedAt,
	}
}

func toPlansJSON(ps []plan.TrainingPlan) []planJSON {
	out := make([]planJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPlanJSON(p))
	}
	return out
}

type outboxJSON struct {
	ID              string     `json:"id"`
	ActionType      string     `json:"action_type"`
	Status          string     `json:"status"`
	Attempts        int        `json:"attempts"`
	MaxAttempts     int        `json:"max_attempts"`
	LastAttemptedAt *time.Time `json:"last_attempted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ExternalID      string     `json:"external_id,omitempty"`
	Error           string     `json:"error,omitempty"`
}

func toOutboxJSON(e outbox.Entry) outboxJSON {
	out := outboxJSON{
		ID:          e.ID,
		ActionType:  e.ActionType,
		Status:      e.Status,
		Attempts:    e.Attempts,
		MaxAttempts: e.MaxAttempts,
		CreatedAt:   e.CreatedAt,
		ExternalID:  e.ExternalID,
		Error:       e.ErrorMessage,
	}
	if !e.LastAttemptedAt.IsZero() {
		t := e.LastAttemptedAt
		out.LastAttemptedAt = &t
	}
	return out
}
