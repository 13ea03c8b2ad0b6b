package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	emailAdapter "courtside/internal/adapters/email"
	domainOutbox "courtside/internal/domain/outbox"
)

// failingSender rejects every send.
type failingSender struct{}

func (failingSender) Send(context.Context, emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	return emailAdapter.SendResult{}, errors.New("provider unavailable")
}

func pendingEmail(t *testing.T, id string) domainOutbox.Entry {
	t.Helper()
	payload, _ := json.Marshal(EmailPayload{To: []string{"john@tennis.com"}, Subject: "Plan", Markdown: "# Training plan for John"})
	e := domainOutbox.Entry{ID: id, ActionType: domainOutbox.ActionPlanEmail, Payload: string(payload),
		Status: domainOutbox.StatusPending, CreatedAt: fixedTime}
	if err := e.Validate(); err != nil {
		t.Fatal(err)
	}
	return e
}

// TestOutboxProcessor_Delivers tests a successful delivery through the email executor.
func TestOutboxProcessor_Delivers(t *testing.T) {
	store := newMockOutboxStore()
	_ = store.Save(context.Background(), pendingEmail(t, "o1"))
	sender := emailAdapter.NewNoopSender()
	metrics := newRecordingMetrics()
	p := NewOutboxProcessor(store, EmailExecutors(&EmailExecutor{Sender: sender}), metrics, fixedNow)

	n, err := p.ProcessPending(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("ProcessPending = %d, %v", n, err)
	}
	got, _ := store.GetByID(context.Background(), "o1")
	if got.Status != domainOutbox.StatusDone || got.ExternalID == "" || got.Attempts != 1 {
		t.Fatalf("unexpected entry %+v", got)
	}
	sent := sender.Sent()
	if len(sent) != 1 || !strings.Contains(sent[0].HTML, "<h1>Training plan for John</h1>") {
		t.Fatalf("expected rendered HTML email, got %+v", sent)
	}
	if metrics.deliveries["plan_email/sent"] != 1 {
		t.Errorf("expected delivery recorded, got %v", metrics.deliveries)
	}
}

// TestOutboxProcessor_BackoffAndExhaustion tests retry timing and the final failure.
func TestOutboxProcessor_BackoffAndExhaustion(t *testing.T) {
	store := newMockOutboxStore()
	e := pendingEmail(t, "o1")
	e.MaxAttempts = 2
	_ = store.Save(context.Background(), e)

	now := fixedTime
	p := NewOutboxProcessor(store, EmailExecutors(&EmailExecutor{Sender: failingSender{}}), nil, func() time.Time { return now })

	if n, _ := p.ProcessPending(context.Background()); n != 1 {
		t.Fatalf("expected first attempt, got %d", n)
	}
	got, _ := store.GetByID(context.Background(), "o1")
	if got.Status != domainOutbox.StatusRetrying || got.ErrorMessage != "provider unavailable" {
		t.Fatalf("expected retrying entry, got %+v", got)
	}

	now = fixedTime.Add(10 * time.Second)
	if n, _ := p.ProcessPending(context.Background()); n != 0 {
		t.Fatalf("entry should wait out its backoff, attempted %d", n)
	}

	now = fixedTime.Add(2 * domainOutbox.BaseRetryDelay)
	if n, _ := p.ProcessPending(context.Background()); n != 1 {
		t.Fatalf("expected second attempt after backoff, got %d", n)
	}
	got, _ = store.GetByID(context.Background(), "o1")
	if got.Status != domainOutbox.StatusFailed || !got.IsTerminal() {
		t.Fatalf("expected terminal failure, got %+v", got)
	}
	if pending, _ := store.ListPending(context.Background(), 10); len(pending) != 0 {
		t.Error("failed entry should leave the pending list")
	}
}

// TestOutboxProcessor_ManualRetryAndAbandon tests the admin actions.
func TestOutboxProcessor_ManualRetryAndAbandon(t *testing.T) {
	store := newMockOutboxStore()
	failed := pendingEmail(t, "o1")
	failed.MaxAttempts = 1
	failed.MarkAttempt(fixedTime)
	failed.MarkFailed(errors.New("bounce"))
	_ = store.Save(context.Background(), failed)
	_ = store.Save(context.Background(), pendingEmail(t, "o2"))

	p := NewOutboxProcessor(store, EmailExecutors(&EmailExecutor{Sender: emailAdapter.NewNoopSender()}), nil, fixedNow)

	got, err := p.ProcessSingle(context.Background(), "o1")
	if err != nil {
		t.Fatalf("ProcessSingle: %v", err)
	}
	if got.Status != domainOutbox.StatusDone || got.Attempts != 2 {
		t.Fatalf("expected manual retry to deliver, got %+v", got)
	}
	if _, err := p.ProcessSingle(context.Background(), "o1"); !errors.Is(err, ErrEntryTerminal) {
		t.Errorf("expected ErrEntryTerminal for a delivered entry, got %v", err)
	}

	if err := p.AbandonEntry(context.Background(), "o2"); err != nil {
		t.Fatal(err)
	}
	abandoned, _ := store.GetByID(context.Background(), "o2")
	if abandoned.Status != domainOutbox.StatusAbandoned {
		t.Errorf("expected abandoned, got %s", abandoned.Status)
	}
}

// TestOutboxProcessor_UnknownAction tests entries with no executor.
func TestOutboxProcessor_UnknownAction(t *testing.T) {
	store := newMockOutboxStore()
	_ = store.Save(context.Background(), pendingEmail(t, "o1"))
	p := NewOutboxProcessor(store, map[string]ActionExecutor{}, nil, fixedNow)

	if _, err := p.ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, _ := store.GetByID(context.Background(), "o1")
	if !strings.Contains(got.ErrorMessage, "no executor") {
		t.Errorf("expected missing executor error, got %+v", got)
	}
}

// TestEmailExecutor_BadPayload tests malformed JSON.
func TestEmailExecutor_BadPayload(t *testing.T) {
	e := &EmailExecutor{Sender: emailAdapter.NewNoopSender()}
	if _, err := e.Execute(context.Background(), "{"); err == nil {
		t.Error("expected unmarshal error")
	}
}
