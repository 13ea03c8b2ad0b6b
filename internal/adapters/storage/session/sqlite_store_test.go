package session

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"courtside/internal/adapters/storage"
	"courtside/internal/domain/calendar"
	domain "courtside/internal/domain/session"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLiteStore(db)
}

func mk(id string, day int, start string, players ...string) domain.Session {
	return domain.Session{
		ID:        id,
		PlayerIDs: players,
		Date:      calendar.NewDate(2024, time.March, day),
		StartTime: start,
		EndTime:   "23:00",
		Type:      domain.TypeGroup,
		Status:    domain.StatusScheduled,
		CreatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func ids(sessions []domain.Session) []string {
	var out []string
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

// TestSQLiteStore_AppendAndGet tests round trip of all fields.
func TestSQLiteStore_AppendAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := mk("s1", 1, "10:00", "p2", "p1")
	in.Notes = "bring balls"
	if err := s.Append(ctx, []domain.Session{in}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual(got.PlayerIDs, []string{"p2", "p1"}) {
		t.Errorf("player order not kept: %v", got.PlayerIDs)
	}
	if got.Date != in.Date || got.StartTime != "10:00" || got.Notes != "bring balls" || !got.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("unexpected session %+v", got)
	}

	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestSQLiteStore_AppendIsAtomic tests that a duplicate id rolls back the whole batch.
func TestSQLiteStore_AppendIsAtomic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Append(ctx, []domain.Session{mk("s1", 1, "10:00", "p1")}); err != nil {
		t.Fatal(err)
	}
	err := s.Append(ctx, []domain.Session{mk("s2", 2, "10:00", "p1"), mk("s1", 3, "10:00", "p1")})
	if err == nil {
		t.Fatal("expected duplicate id to fail")
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids(all), []string{"s1"}) {
		t.Fatalf("batch must be all-or-nothing, got %v", ids(all))
	}
	if all[0].Date.Day != 1 {
		t.Fatal("existing session must not be overwritten")
	}
}

// TestSQLiteStore_ListByDateRange tests inclusive bounds and ordering.
func TestSQLiteStore_ListByDateRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Append(ctx, []domain.Session{
		mk("late", 2, "15:00", "p1"),
		mk("before", 1, "09:00", "p1"),
		mk("early", 2, "08:30", "p1"),
		mk("end", 4, "08:00", "p1"),
		mk("after", 5, "08:00", "p1"),
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListByDateRange(ctx, calendar.NewDate(2024, time.March, 2), calendar.NewDate(2024, time.March, 4))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"early", "late", "end"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

// TestSQLiteStore_PlayerQueries tests JSON membership lookups.
func TestSQLiteStore_PlayerQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	done := mk("done", 3, "10:00", "p1")
	done.Status = domain.StatusCompleted
	if err := s.Append(ctx, []domain.Session{
		mk("a", 1, "10:00", "p1", "p2"),
		mk("b", 2, "10:00", "p2"),
		mk("c", 2, "11:00", "p10"),
		done,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListByPlayer(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "done"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}

	n, err := s.CountScheduledForPlayer(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 scheduled session for p1, got %d", n)
	}
}

// TestSQLiteStore_UpdateStatus tests the status update and missing rows.
func TestSQLiteStore_UpdateStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Append(ctx, []domain.Session{mk("s1", 1, "10:00", "p1")}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateStatus(ctx, "s1", domain.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetByID(ctx, "s1")
	if got.Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if err := s.UpdateStatus(ctx, "nope", domain.StatusCancelled); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
