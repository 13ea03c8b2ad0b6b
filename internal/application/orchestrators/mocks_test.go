package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	playerStore "courtside/internal/adapters/storage/player"
	"courtside/internal/domain/account"
	"courtside/internal/domain/analysis"
	domainOutbox "courtside/internal/domain/outbox"
	"courtside/internal/domain/plan"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

var fixedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// sequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// mockPlayerStore implements the player store interfaces for testing.
type mockPlayerStore struct {
	players map[string]player.Player
	saveErr error
}

func newMockPlayerStore(ps ...player.Player) *mockPlayerStore {
	m := &mockPlayerStore{players: map[string]player.Player{}}
	for _, p := range ps {
		m.players[p.ID] = p
	}
	return m
}

func (m *mockPlayerStore) GetByID(_ context.Context, id string) (player.Player, error) {
	p, ok := m.players[id]
	if !ok {
		return player.Player{}, fmt.Errorf("player %s: %w", id, player.ErrNotFound)
	}
	return p, nil
}

func (m *mockPlayerStore) Save(_ context.Context, p player.Player) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.players[p.ID] = p
	return nil
}

func (m *mockPlayerStore) Delete(_ context.Context, id string) error {
	if _, ok := m.players[id]; !ok {
		return fmt.Errorf("player %s: %w", id, player.ErrNotFound)
	}
	delete(m.players, id)
	return nil
}

func (m *mockPlayerStore) Count(_ context.Context, _ playerStore.ListFilter) (int, error) {
	return len(m.players), nil
}

// mockSessionStore implements the session store interfaces for testing.
type mockSessionStore struct {
	sessions  []session.Session
	appendErr error
	appends   int
}

func (m *mockSessionStore) Append(_ context.Context, sessions []session.Session) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appends++
	m.sessions = append(m.sessions, sessions...)
	return nil
}

func (m *mockSessionStore) GetByID(_ context.Context, id string) (session.Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return session.Session{}, fmt.Errorf("session %s: %w", id, session.ErrNotFound)
}

func (m *mockSessionStore) UpdateStatus(_ context.Context, id, status string) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("session %s: %w", id, session.ErrNotFound)
}

func (m *mockSessionStore) CountScheduledForPlayer(_ context.Context, playerID string) (int, error) {
	n := 0
	for _, s := range m.sessions {
		if s.Status == session.StatusScheduled && s.HasPlayer(playerID) {
			n++
		}
	}
	return n, nil
}

// mockOutboxStore implements OutboxStore for testing.
type mockOutboxStore struct {
	entries map[string]domainOutbox.Entry
	order   []string
}

func newMockOutboxStore() *mockOutboxStore {
	return &mockOutboxStore{entries: map[string]domainOutbox.Entry{}}
}

func (m *mockOutboxStore) GetByID(_ context.Context, id string) (domainOutbox.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return domainOutbox.Entry{}, fmt.Errorf("outbox %s: not found", id)
	}
	return e, nil
}

func (m *mockOutboxStore) Save(_ context.Context, e domainOutbox.Entry) error {
	if _, ok := m.entries[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	var out []domainOutbox.Entry
	for _, id := range m.order {
		e := m.entries[id]
		if e.Status == domainOutbox.StatusPending || e.Status == domainOutbox.StatusRetrying {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockOutboxStore) list() []domainOutbox.Entry {
	var out []domainOutbox.Entry
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	return out
}

// mockAnalysisStore implements AnalysisStore for testing; safe for the runner's goroutines.
type mockAnalysisStore struct {
	mu       sync.Mutex
	analyses map[string]analysis.Analysis
}

func newMockAnalysisStore() *mockAnalysisStore {
	return &mockAnalysisStore{analyses: map[string]analysis.Analysis{}}
}

func (m *mockAnalysisStore) GetByID(_ context.Context, id string) (analysis.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.analyses[id]
	if !ok {
		return analysis.Analysis{}, fmt.Errorf("analysis %s: %w", id, analysis.ErrNotFound)
	}
	return a, nil
}

func (m *mockAnalysisStore) Save(_ context.Context, a analysis.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = a
	return nil
}

func (m *mockAnalysisStore) ListProcessingBefore(_ context.Context, cutoff time.Time) ([]analysis.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []analysis.Analysis
	for _, a := range m.analyses {
		if a.Status == analysis.StatusProcessing && a.CreatedAt.Before(cutoff) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// mockPlanStore implements PlanStore for testing.
type mockPlanStore struct {
	plans map[string]plan.TrainingPlan
}

func newMockPlanStore(ps ...plan.TrainingPlan) *mockPlanStore {
	m := &mockPlanStore{plans: map[string]plan.TrainingPlan{}}
	for _, p := range ps {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockPlanStore) GetByID(_ context.Context, id string) (plan.TrainingPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return plan.TrainingPlan{}, fmt.Errorf("plan %s: %w", id, plan.ErrNotFound)
	}
	return p, nil
}

func (m *mockPlanStore) Save(_ context.Context, p plan.TrainingPlan) error {
	m.plans[p.ID] = p
	return nil
}

// mockAccountStore implements the account store interfaces for testing.
type mockAccountStore struct {
	accounts map[string]account.Account
	saves    int
}

func newMockAccountStore(as ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: map[string]account.Account{}}
	for _, a := range as {
		m.accounts[a.Email] = a
	}
	return m
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return account.Account{}, fmt.Errorf("account %s: %w", email, account.ErrNotFound)
	}
	return a, nil
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account %s: %w", id, account.ErrNotFound)
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.saves++
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// recordingMetrics implements every metrics interface the orchestrators accept.
type recordingMetrics struct {
	mu         sync.Mutex
	booked     map[string]int
	rejected   map[string]int
	analyses   map[string]int
	plans      int
	deliveries map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		booked:     map[string]int{},
		rejected:   map[string]int{},
		analyses:   map[string]int{},
		deliveries: map[string]int{},
	}
}

func (r *recordingMetrics) RecordBooking(t string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.booked[t] += n
}

func (r *recordingMetrics) RecordBookingRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}

func (r *recordingMetrics) RecordAnalysis(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[status]++
}

func (r *recordingMetrics) RecordPlanGenerated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans++
}

func (r *recordingMetrics) RecordOutboxDelivery(action, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries[action+"/"+outcome]++
}

func (r *recordingMetrics) analysisCount(status string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.analyses[status]
}
