package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/plan"
)

// dateLayout is fixed width so stored timestamps sort lexicographically.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, player_id, player_name, focus_area, drills, generated_at FROM training_plan`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new plan store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a plan by its ID.
// PRE: id is non-empty
// POST: Returns the plan or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.TrainingPlan, error) {
	p, err := scanPlan(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TrainingPlan{}, fmt.Errorf("plan %s: %w", id, domain.ErrNotFound)
	}
	return p, err
}

// Save persists a plan (insert or update).
// PRE: plan has been validated
func (s *SQLiteStore) Save(ctx context.Context, p domain.TrainingPlan) error {
	drills, err := json.Marshal(p.Drills)
	if err != nil {
		return fmt.Errorf("encode drills: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO training_plan (id, player_id, player_name, focus_area, drills, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   player_name=excluded.player_name, focus_area=excluded.focus_area, drills=excluded.drills`,
		p.ID, p.PlayerID, p.PlayerName, p.FocusArea, string(drills), p.GeneratedAt.UTC().Format(dateLayout))
	return err
}

// List returns the most recent plans first.
// PRE: limit > 0
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.TrainingPlan, error) {
	return s.query(ctx, selectColumns+` ORDER BY generated_at DESC LIMIT ?`, limit)
}

// ListByPlayerID returns a player's plans, newest first.
func (s *SQLiteStore) ListByPlayerID(ctx context.Context, playerID string) ([]domain.TrainingPlan, error) {
	return s.query(ctx, selectColumns+` WHERE player_id = ? ORDER BY generated_at DESC`, playerID)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.TrainingPlan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.TrainingPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (domain.TrainingPlan, error) {
	var p domain.TrainingPlan
	var drills, generatedAt string
	if err := row.Scan(&p.ID, &p.PlayerID, &p.PlayerName, &p.FocusArea, &drills, &generatedAt); err != nil {
		return domain.TrainingPlan{}, err
	}
	if err := json.Unmarshal([]byte(drills), &p.Drills); err != nil {
		return domain.TrainingPlan{}, fmt.Errorf("decode drills for plan %s: %w", p.ID, err)
	}
	p.GeneratedAt, _ = time.Parse(dateLayout, generatedAt)
	return p, nil
}
