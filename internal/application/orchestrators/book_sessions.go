package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courtside/internal/domain/booking"
	"courtside/internal/domain/calendar"
	domainOutbox "courtside/internal/domain/outbox"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

// ErrUnknownPlayer is returned when a draft names a player the directory does not hold.
var ErrUnknownPlayer = fmt.Errorf("%w: unknown player", booking.ErrInvalidSelection)

// SessionAppender is the write side of the session collection used by booking.
type SessionAppender interface {
	Append(ctx context.Context, sessions []session.Session) error
}

// PlayerLookup resolves player IDs against the directory.
type PlayerLookup interface {
	GetByID(ctx context.Context, id string) (player.Player, error)
}

// OutboxEnqueuer queues a side effect for later delivery.
type OutboxEnqueuer interface {
	Save(ctx context.Context, e domainOutbox.Entry) error
}

// BookingMetrics receives booking outcomes.
type BookingMetrics interface {
	RecordBooking(sessionType string, sessions int)
	RecordBookingRejected(reason string)
}

// BookSessionsInput carries the committed selection and the draft to book.
type BookSessionsInput struct {
	Selection calendar.Selection
	Draft     booking.Draft
}

// BookSessionsResult lists the sessions that were appended.
type BookSessionsResult struct {
	Sessions []session.Session
}

// BookSessionsDeps holds dependencies for BookSessions.
// OutboxStore and Metrics are optional.
type BookSessionsDeps struct {
	SessionStore SessionAppender
	PlayerLookup PlayerLookup
	OutboxStore  OutboxEnqueuer
	Metrics      BookingMetrics
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteBookSessions expands the selection into one session per day and appends them.
// PRE: none; an invalid selection or draft is reported, not assumed
// POST: on success len(Sessions) == len(Selection.Dates()), all appended in one transaction
// POST: on error nothing was written; selection errors satisfy errors.Is(err, booking.ErrInvalidSelection)
// INVARIANT: existing sessions are never modified
func ExecuteBookSessions(ctx context.Context, input BookSessionsInput, deps BookSessionsDeps) (BookSessionsResult, error) {
	if err := input.Draft.Check(input.Selection); err != nil {
		recordRejection(deps.Metrics, err)
		return BookSessionsResult{}, err
	}

	players := make([]player.Player, 0, len(input.Draft.PlayerIDs))
	for _, id := range input.Draft.PlayerIDs {
		p, err := deps.PlayerLookup.GetByID(ctx, id)
		if errors.Is(err, player.ErrNotFound) {
			recordRejection(deps.Metrics, ErrUnknownPlayer)
			return BookSessionsResult{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		if err != nil {
			return BookSessionsResult{}, fmt.Errorf("lookup player %s: %w", id, err)
		}
		players = append(players, p)
	}

	now := deps.Now()
	sessions, err := input.Draft.Expand(input.Selection, deps.GenerateID, now)
	if err != nil {
		return BookSessionsResult{}, err
	}
	for i := range sessions {
		if err := sessions[i].Validate(); err != nil {
			return BookSessionsResult{}, err
		}
	}

	if err := deps.SessionStore.Append(ctx, sessions); err != nil {
		return BookSessionsResult{}, fmt.Errorf("append sessions: %w", err)
	}

	if deps.Metrics != nil {
		deps.Metrics.RecordBooking(input.Draft.Type, len(sessions))
	}
	slog.Info("booking_event", "event", "sessions_booked",
		"count", len(sessions), "type", input.Draft.Type, "players", len(players),
		"from", input.Selection.Start.String(), "to", input.Selection.LastDay().String())

	if deps.OutboxStore != nil {
		enqueueBookingConfirmations(ctx, deps, players, sessions, now)
	}

	return BookSessionsResult{Sessions: sessions}, nil
}

// enqueueBookingConfirmations queues one email per player with an address.
// Failures are logged; the booking itself has already been committed.
func enqueueBookingConfirmations(ctx context.Context, deps BookSessionsDeps, players []player.Player, sessions []session.Session, now time.Time) {
	for _, p := range players {
		if p.Email == "" {
			continue
		}
		payload, err := json.Marshal(EmailPayload{
			To:       []string{p.Email},
			Subject:  bookingSubject(sessions),
			Markdown: bookingMarkdown(p, sessions),
		})
		if err != nil {
			slog.Error("booking_confirmation_encode_failed", "player_id", p.ID, "error", err)
			continue
		}
		entry := domainOutbox.Entry{
			ID:         deps.GenerateID(),
			ActionType: domainOutbox.ActionBookingConfirmation,
			Payload:    string(payload),
			Status:     domainOutbox.StatusPending,
			CreatedAt:  now,
		}
		if err := entry.Validate(); err != nil {
			slog.Error("booking_confirmation_invalid", "player_id", p.ID, "error", err)
			continue
		}
		if err := deps.OutboxStore.Save(ctx, entry); err != nil {
			slog.Error("booking_confirmation_enqueue_failed", "player_id", p.ID, "error", err)
		}
	}
}

func bookingSubject(sessions []session.Session) string {
	first := sessions[0].Date.Time()
	if len(sessions) == 1 {
		return "Training booked for " + first.Format("Mon 2 Jan")
	}
	last := sessions[len(sessions)-1].Date.Time()
	return fmt.Sprintf("Training booked: %s to %s", first.Format("2 Jan"), last.Format("2 Jan"))
}

func bookingMarkdown(p player.Player, sessions []session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", p.Name)
	s := sessions[0]
	fmt.Fprintf(&b, "You're booked for **%s** training, %s-%s, on:\n\n", s.Type, s.StartTime, s.EndTime)
	for _, s := range sessions {
		fmt.Fprintf(&b, "- %s\n", s.Date.Time().Format("Mon 2 Jan 2006"))
	}
	if s.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Notes)
	}
	b.WriteString("\nSee you on court.\n")
	return b.String()
}

func recordRejection(m BookingMetrics, err error) {
	if m == nil {
		return
	}
	m.RecordBookingRejected(RejectionReason(err))
}

// RejectionReason maps a booking error to a short metric label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, booking.ErrNoStart):
		return "no_start"
	case errors.Is(err, booking.ErrNoPlayers):
		return "no_players"
	case errors.Is(err, booking.ErrTimeOrder):
		return "time_order"
	case errors.Is(err, ErrUnknownPlayer):
		return "unknown_player"
	}
	return "other"
}
