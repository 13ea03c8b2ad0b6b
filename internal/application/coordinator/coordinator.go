package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"courtside/internal/application/orchestrators"
	"courtside/internal/domain/booking"
	"courtside/internal/domain/calendar"
	"courtside/internal/domain/session"
)

// Options configures a Coordinator.
type Options struct {
	Now            func() time.Time
	Location       *time.Location // the coach's time zone; defines "today"
	MaxMonthsAhead int // values below 1 mean calendar.DefaultMaxMonthsAhead
}

// Snapshot is a read-only view of the coordinator after an event.
type Snapshot struct {
	Today        calendar.Date
	VisibleMonth calendar.Month
	Grid         []calendar.Cell
	CanAdvance   bool
	Selection    calendar.Selection
	Draft        booking.Draft
	CanSubmit    bool
	Reason       string // why CanSubmit is false; empty otherwise
}

// Coordinator holds one client's calendar selection and booking draft.
// Every event is applied under one lock and returns the snapshot it produced.
// INVARIANT: the selection satisfies calendar.Selection.Validate
// INVARIANT: the draft satisfies the booking.Draft invariants
type Coordinator struct {
	mu        sync.Mutex
	opts      Options
	visible   calendar.Month
	selection calendar.Selection
	draft     booking.Draft
}

// New creates a coordinator seeded with today as a single-day selection and
// the current month visible.
func New(opts Options) *Coordinator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxMonthsAhead <= 0 {
		opts.MaxMonthsAhead = calendar.DefaultMaxMonthsAhead
	}
	today := calendar.Today(opts.Now(), opts.Location)
	return &Coordinator{
		opts:      opts,
		visible:   calendar.MonthOf(today),
		selection: calendar.SeedSelection(today),
		draft:     booking.NewDraft(),
	}
}

func (c *Coordinator) today() calendar.Date {
	return calendar.Today(c.opts.Now(), c.opts.Location)
}

// rollOver moves a selection that has slipped into the past, after midnight
// passed on a long-lived coordinator, back onto bookable days.
// POST: the selection has no day before today
func (c *Coordinator) rollOver(today calendar.Date) {
	sel := c.selection
	if sel.Start.IsZero() || !sel.Start.Before(today) {
		return
	}
	if sel.LastDay().Before(today) {
		c.selection = calendar.SeedSelection(today)
		return
	}
	sel.Start = today
	if sel.End == today {
		sel.End = calendar.Date{}
	}
	c.selection = sel
}

// NavigateMonth moves the visible month. A refused "next" is not an error.
// PRE: direction is "prev" or "next"
func (c *Coordinator) NavigateMonth(direction string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, _, err := calendar.Navigate(c.visible, calendar.MonthOf(c.today()), c.opts.MaxMonthsAhead, direction)
	if err != nil {
		return c.snapshot(), err
	}
	c.visible = next
	return c.snapshot(), nil
}

// TapDate applies a date tap. Past dates and dates beyond the last month the
// grid can reach are ignored.
func (c *Coordinator) TapDate(picked calendar.Date) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	today := c.today()
	c.rollOver(today)
	c.selection = c.selection.Tap(picked, today, calendar.LastBookable(today, c.opts.MaxMonthsAhead))
	return c.snapshot()
}

// Focus sets which endpoint the next tap edits.
func (c *Coordinator) Focus(phase calendar.Phase) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = c.selection.Focus(phase)
	return c.snapshot()
}

// ResetToSingleDay drops the range end.
func (c *Coordinator) ResetToSingleDay() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = c.selection.ResetToSingleDay()
	return c.snapshot()
}

// TogglePlayer applies the draft's player-selection policy. Unknown ids are
// accepted here and rejected at submission.
func (c *Coordinator) TogglePlayer(playerID string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if playerID != "" {
		c.draft.TogglePlayer(playerID)
	}
	return c.snapshot()
}

// ToggleRosterPlayer is TogglePlayer with a roster check on additions.
// Removing a player skips the check so a player deleted mid-draft can still
// be deselected.
// POST: when exists fails the draft is unchanged and its error is returned
func (c *Coordinator) ToggleRosterPlayer(playerID string, exists func(id string) error) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if playerID == "" {
		return c.snapshot(), nil
	}
	if !c.draft.IsSelected(playerID) {
		if err := exists(playerID); err != nil {
			return c.snapshot(), err
		}
	}
	c.draft.TogglePlayer(playerID)
	return c.snapshot(), nil
}

// ChangeType switches the draft's session type.
func (c *Coordinator) ChangeType(sessionType string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.draft.ChangeType(sessionType)
	return c.snapshot(), err
}

// ChangeTime sets the draft's start or end clock.
func (c *Coordinator) ChangeTime(slot, value string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.draft.ChangeTime(slot, value)
	return c.snapshot(), err
}

// SetNotes sets the draft's notes.
func (c *Coordinator) SetNotes(notes string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.draft.SetNotes(notes)
	return c.snapshot(), err
}

// CloseBooking discards the draft. The selection is kept.
func (c *Coordinator) CloseBooking() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = booking.NewDraft()
	return c.snapshot()
}

// Submit books the draft against the current selection.
// PRE: deps are wired
// POST: on success the sessions are appended and the draft is reset
// POST: on error the draft and selection are unchanged; selection problems
// satisfy errors.Is(err, booking.ErrInvalidSelection)
func (c *Coordinator) Submit(ctx context.Context, deps orchestrators.BookSessionsDeps) ([]session.Session, Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollOver(c.today())

	draft := c.draft
	draft.PlayerIDs = append([]string(nil), c.draft.PlayerIDs...)
	res, err := orchestrators.ExecuteBookSessions(ctx, orchestrators.BookSessionsInput{
		Selection: c.selection,
		Draft:     draft,
	}, deps)
	if err != nil {
		if !errors.Is(err, booking.ErrInvalidSelection) {
			slog.Error("booking_event", "event", "submit_failed", "error", err)
		}
		return nil, c.snapshot(), err
	}
	c.draft = booking.NewDraft()
	return res.Sessions, c.snapshot(), nil
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// snapshot also rolls a stale selection forward, so every event sees
// bookable days.
func (c *Coordinator) snapshot() Snapshot {
	c.rollOver(c.today())
	draft := c.draft
	draft.PlayerIDs = append([]string(nil), c.draft.PlayerIDs...)
	s := Snapshot{
		Today:        c.today(),
		VisibleMonth: c.visible,
		Grid:         calendar.Grid(c.visible),
		CanAdvance:   calendar.CanAdvance(c.visible, calendar.MonthOf(c.today()), c.opts.MaxMonthsAhead),
		Selection:    c.selection,
		Draft:        draft,
		CanSubmit:    true,
	}
	if err := c.draft.Check(c.selection); err != nil {
		s.CanSubmit = false
		s.Reason = Reason(err)
	}
	return s
}

// Reason turns a selection error into the short message shown next to the
// disabled submit button.
func Reason(err error) string {
	switch {
	case errors.Is(err, booking.ErrNoStart):
		return "Pick a start date"
	case errors.Is(err, booking.ErrNoPlayers):
		return "Select at least one player"
	case errors.Is(err, booking.ErrTimeOrder):
		return "End time must be after start time"
	case errors.Is(err, orchestrators.ErrUnknownPlayer):
		return "A selected player no longer exists"
	case err != nil:
		return err.Error()
	}
	return ""
}
