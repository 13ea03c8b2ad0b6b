package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "courtside/internal/adapters/email"
	domain "courtside/internal/domain/outbox"
)

// ErrEntryTerminal is returned when a manual retry targets a finished entry.
var ErrEntryTerminal = errors.New("outbox entry is in a terminal state")

// OutboxStore is the persistence the processor needs.
type OutboxStore interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the action with the given payload and returns the
	// provider's ID for it.
	Execute(ctx context.Context, payload string) (string, error)
}

// OutboxMetrics receives delivery outcomes.
type OutboxMetrics interface {
	RecordOutboxDelivery(action, outcome string)
}

// OutboxProcessor delivers queued side effects with exponential backoff.
type OutboxProcessor struct {
	store     OutboxStore
	executors map[string]ActionExecutor
	metrics   OutboxMetrics
	now       func() time.Time
	batchSize int
}

// NewOutboxProcessor creates a processor. metrics may be nil.
func NewOutboxProcessor(store OutboxStore, executors map[string]ActionExecutor, metrics OutboxMetrics, now func() time.Time) *OutboxProcessor {
	if now == nil {
		now = time.Now
	}
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		metrics:   metrics,
		now:       now,
		batchSize: 25,
	}
}

// ProcessPending attempts every pending entry whose backoff has elapsed.
// PRE: Context is valid
// POST: due entries are attempted once and saved; returns the number attempted
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (int, error) {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending outbox entries: %w", err)
	}

	now := p.now()
	attempted := 0
	for _, entry := range entries {
		if !entry.IsDue(now) {
			continue
		}
		attempted++
		if err := p.attempt(ctx, entry, now); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err)
		}
	}
	if attempted > 0 {
		slog.Info("outbox_retry_complete", "pending", len(entries), "attempted", attempted)
	}
	return attempted, nil
}

// ProcessSingle attempts one entry immediately, ignoring backoff. An entry
// that exhausted its attempts is granted one more.
// PRE: entryID is non-empty
// POST: Entry is attempted and saved unless done or abandoned
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, err
	}
	if entry.Status == domain.StatusDone || entry.Status == domain.StatusAbandoned {
		return entry, fmt.Errorf("%w: %s", ErrEntryTerminal, entryID)
	}
	if entry.Attempts >= entry.MaxAttempts {
		entry.MaxAttempts = entry.Attempts + 1
	}
	if err := p.attempt(ctx, entry, p.now()); err != nil {
		return domain.Entry{}, err
	}
	return p.store.GetByID(ctx, entryID)
}

// AbandonEntry marks an entry as abandoned.
// PRE: entryID is non-empty
// POST: Entry status set to abandoned
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	entry.MarkAbandoned()
	slog.Info("outbox_abandoned", "entry_id", entry.ID, "action_type", entry.ActionType)
	return p.store.Save(ctx, entry)
}

func (p *OutboxProcessor) attempt(ctx context.Context, entry domain.Entry, now time.Time) error {
	entry.MarkAttempt(now)

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkFailed(fmt.Errorf("no executor registered for action type: %s", entry.ActionType))
		p.record(entry.ActionType, "failed")
		return p.store.Save(ctx, entry)
	}

	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		p.record(entry.ActionType, "failed")
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err)
	} else {
		entry.MarkSuccess(externalID)
		p.record(entry.ActionType, "sent")
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

func (p *OutboxProcessor) record(action, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordOutboxDelivery(action, outcome)
	}
}

// EmailPayload is the JSON body of every email outbox entry.
type EmailPayload struct {
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	Markdown string   `json:"markdown"`
}

// EmailExecutor renders an EmailPayload and hands it to a Sender.
type EmailExecutor struct {
	Sender emailAdapter.Sender
}

// Execute sends an email from the payload.
// PRE: payload is valid JSON matching EmailPayload
// POST: email accepted by the sender, returns its message ID
// INVARIANT: outbox entry status managed by caller
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	html, err := emailAdapter.RenderMarkdown(p.Markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	res, err := e.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      p.To,
		Subject: p.Subject,
		HTML:    html,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// EmailExecutors registers executor for every email action type.
func EmailExecutors(executor ActionExecutor) map[string]ActionExecutor {
	return map[string]ActionExecutor{
		domain.ActionBookingConfirmation: executor,
		domain.ActionPlanEmail:           executor,
	}
}
