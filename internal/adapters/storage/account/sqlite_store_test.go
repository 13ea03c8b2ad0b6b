package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/account"
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

// TestSQLiteStore_RoundTrip tests save, lookups and lockout persistence.
func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	a := domain.Account{ID: "a1", Email: "Coach@Courtside.app", Name: "Coach", PasswordHash: "hash", Role: domain.RoleCoach, CreatedAt: now}
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.GetByEmail(ctx, "coach@courtside.app ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "a1" || got.Name != "Coach" || !got.LockedUntil.IsZero() {
		t.Fatalf("unexpected account %+v", got)
	}

	for i := 0; i < domain.MaxFailedLogins; i++ {
		got.RecordFailedLogin(now)
	}
	if err := s.Save(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := s.GetByID(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if !again.IsLocked(now) || again.FailedLogins != domain.MaxFailedLogins {
		t.Fatalf("lockout not persisted: %+v", again)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v", n, err)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
