package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	domainOutbox "courtside/internal/domain/outbox"
	"courtside/internal/domain/plan"
)

// PlanStore is the persistence the plan flows need.
type PlanStore interface {
	GetByID(ctx context.Context, id string) (plan.TrainingPlan, error)
	Save(ctx context.Context, p plan.TrainingPlan) error
}

// PlanMetrics receives plan generation events.
type PlanMetrics interface {
	RecordPlanGenerated()
}

// GeneratePlanDeps holds dependencies for GeneratePlan. Metrics is optional.
type GeneratePlanDeps struct {
	PlayerLookup PlayerLookup
	PlanStore    PlanStore
	Generator    plan.Generator
	Metrics      PlanMetrics
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteGeneratePlan builds and stores a training plan for a player.
// PRE: playerID names an existing player
// POST: plan persisted with a fresh ID and GeneratedAt = now
func ExecuteGeneratePlan(ctx context.Context, playerID string, deps GeneratePlanDeps) (plan.TrainingPlan, error) {
	p, err := deps.PlayerLookup.GetByID(ctx, playerID)
	if err != nil {
		return plan.TrainingPlan{}, err
	}
	tp := deps.Generator.Generate(p)
	tp.ID = deps.GenerateID()
	tp.GeneratedAt = deps.Now()
	if err := tp.Validate(); err != nil {
		return plan.TrainingPlan{}, err
	}
	if err := deps.PlanStore.Save(ctx, tp); err != nil {
		return plan.TrainingPlan{}, err
	}
	if deps.Metrics != nil {
		deps.Metrics.RecordPlanGenerated()
	}
	slog.Info("plan_event", "event", "plan_generated", "plan_id", tp.ID, "player_id", p.ID, "focus", tp.FocusArea, "drills", len(tp.Drills))
	return tp, nil
}

// EmailPlanDeps holds dependencies for EmailPlan.
type EmailPlanDeps struct {
	PlanStore    PlanStore
	PlayerLookup PlayerLookup
	OutboxStore  OutboxEnqueuer
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteEmailPlan queues the plan for delivery to its player.
// PRE: planID names an existing plan whose player has an email address
// POST: one pending plan_email outbox entry is stored and returned
func ExecuteEmailPlan(ctx context.Context, planID string, deps EmailPlanDeps) (domainOutbox.Entry, error) {
	tp, err := deps.PlanStore.GetByID(ctx, planID)
	if err != nil {
		return domainOutbox.Entry{}, err
	}
	p, err := deps.PlayerLookup.GetByID(ctx, tp.PlayerID)
	if err != nil {
		return domainOutbox.Entry{}, err
	}
	if p.Email == "" {
		return domainOutbox.Entry{}, fmt.Errorf("%w: %s", plan.ErrNoEmail, p.Name)
	}

	payload, err := json.Marshal(EmailPayload{
		To:       []string{p.Email},
		Subject:  "Your training plan: " + tp.FocusArea,
		Markdown: tp.Markdown(),
	})
	if err != nil {
		return domainOutbox.Entry{}, err
	}
	entry := domainOutbox.Entry{
		ID:         deps.GenerateID(),
		ActionType: domainOutbox.ActionPlanEmail,
		Payload:    string(payload),
		Status:     domainOutbox.StatusPending,
		CreatedAt:  deps.Now(),
	}
	if err := entry.Validate(); err != nil {
		return domainOutbox.Entry{}, err
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		return domainOutbox.Entry{}, err
	}
	slog.Info("plan_event", "event", "plan_email_queued", "plan_id", tp.ID, "entry_id", entry.ID)
	return entry, nil
}
