package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	domainOutbox "courtside/internal/domain/outbox"
	"courtside/internal/domain/plan"
	"courtside/internal/domain/player"
)

func planPlayers() *mockPlayerStore {
	return newMockPlayerStore(
		player.Player{ID: "p1", Name: "John Smith", Email: "john@tennis.com", Level: player.LevelBeginner},
		player.Player{ID: "p2", Name: "Maria Garcia", Level: player.LevelIntermediate},
	)
}

// TestExecuteGeneratePlan tests lookup-table plans.
func TestExecuteGeneratePlan(t *testing.T) {
	store := newMockPlanStore()
	metrics := newRecordingMetrics()

	tp, err := ExecuteGeneratePlan(context.Background(), "p1", GeneratePlanDeps{
		PlayerLookup: planPlayers(),
		PlanStore:    store,
		Generator:    plan.LookupGenerator{},
		Metrics:      metrics,
		GenerateID:   sequentialIDs("t"),
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.ID != "t-1" || tp.PlayerName != "John Smith" || tp.FocusArea != plan.FocusTechnique || !tp.GeneratedAt.Equal(fixedTime) {
		t.Errorf("unexpected plan %+v", tp)
	}
	if len(tp.Drills) != 3 || tp.Drills[0] != "Wall volley (10 mins)" {
		t.Errorf("expected beginner drills, got %v", tp.Drills)
	}
	if _, ok := store.plans["t-1"]; !ok {
		t.Error("plan not saved")
	}
	if metrics.plans != 1 {
		t.Error("expected plan generation to be recorded")
	}

	if _, err := ExecuteGeneratePlan(context.Background(), "ghost", GeneratePlanDeps{
		PlayerLookup: planPlayers(), PlanStore: store, Generator: plan.LookupGenerator{},
		GenerateID: sequentialIDs("t"), Now: fixedNow,
	}); !errors.Is(err, player.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestExecuteEmailPlan tests queueing and the missing-address refusal.
func TestExecuteEmailPlan(t *testing.T) {
	plans := newMockPlanStore(
		plan.TrainingPlan{ID: "t1", PlayerID: "p1", PlayerName: "John Smith", FocusArea: plan.FocusTechnique,
			Drills: plan.DrillsForLevel(player.LevelBeginner), GeneratedAt: fixedTime},
		plan.TrainingPlan{ID: "t2", PlayerID: "p2", PlayerName: "Maria Garcia", FocusArea: plan.FocusTechnique,
			Drills: plan.DrillsForLevel(player.LevelIntermediate), GeneratedAt: fixedTime},
	)
	outbox := newMockOutboxStore()
	deps := EmailPlanDeps{PlanStore: plans, PlayerLookup: planPlayers(), OutboxStore: outbox, GenerateID: sequentialIDs("o"), Now: fixedNow}

	entry, err := ExecuteEmailPlan(context.Background(), "t1", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ActionType != domainOutbox.ActionPlanEmail || entry.Status != domainOutbox.StatusPending || entry.MaxAttempts != domainOutbox.DefaultMaxAttempts {
		t.Errorf("unexpected entry %+v", entry)
	}
	var payload EmailPayload
	if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.To[0] != "john@tennis.com" || !strings.Contains(payload.Markdown, "# Training plan for John Smith") {
		t.Errorf("unexpected payload %+v", payload)
	}

	if _, err := ExecuteEmailPlan(context.Background(), "t2", deps); !errors.Is(err, plan.ErrNoEmail) {
		t.Errorf("expected ErrNoEmail, got %v", err)
	}
	if _, err := ExecuteEmailPlan(context.Background(), "nope", deps); !errors.Is(err, plan.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(outbox.list()) != 1 {
		t.Errorf("expected exactly one queued email, got %d", len(outbox.list()))
	}
}
