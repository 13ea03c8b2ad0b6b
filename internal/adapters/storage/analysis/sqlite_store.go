package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/analysis"
)

// dateLayout is fixed width so stored timestamps sort lexicographically.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, player_id, video_uri, video_type, thumbnail_url, status,
	speed, technique_score, feedback, error_message, created_at, completed_at FROM analysis`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new analysis store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Analysis by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Analysis, error) {
	a, err := scanAnalysis(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Analysis{}, fmt.Errorf("analysis %s: %w", id, domain.ErrNotFound)
	}
	return a, err
}

// Save persists an Analysis (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted; result columns are NULL while there is no result
func (s *SQLiteStore) Save(ctx context.Context, a domain.Analysis) error {
	var speed, score any
	feedback := "[]"
	if a.Result != nil {
		speed = a.Result.Speed
		score = a.Result.TechniqueScore
		b, err := json.Marshal(a.Result.Feedback)
		if err != nil {
			return fmt.Errorf("encode feedback: %w", err)
		}
		feedback = string(b)
	}
	completedAt := ""
	if !a.CompletedAt.IsZero() {
		completedAt = a.CompletedAt.UTC().Format(dateLayout)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis (id, player_id, video_uri, video_type, thumbnail_url, status,
		   speed, technique_score, feedback, error_message, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, speed=excluded.speed, technique_score=excluded.technique_score,
		   feedback=excluded.feedback, error_message=excluded.error_message,
		   thumbnail_url=excluded.thumbnail_url, completed_at=excluded.completed_at`,
		a.ID, a.PlayerID, a.VideoURI, a.VideoType, a.ThumbnailURL, a.Status,
		speed, score, feedback, a.ErrorMessage, a.CreatedAt.UTC().Format(dateLayout), completedAt)
	return err
}

// List returns the most recent analyses first.
// PRE: limit > 0
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Analysis, error) {
	return s.query(ctx, selectColumns+` ORDER BY created_at DESC LIMIT ?`, limit)
}

// ListByPlayerID returns a player's analyses, newest first.
func (s *SQLiteStore) ListByPlayerID(ctx context.Context, playerID string) ([]domain.Analysis, error) {
	return s.query(ctx, selectColumns+` WHERE player_id = ? ORDER BY created_at DESC`, playerID)
}

// ListProcessingBefore returns analyses still processing that were created before cutoff.
func (s *SQLiteStore) ListProcessingBefore(ctx context.Context, cutoff time.Time) ([]domain.Analysis, error) {
	return s.query(ctx, selectColumns+` WHERE status = ? AND created_at < ? ORDER BY created_at ASC`,
		domain.StatusProcessing, cutoff.UTC().Format(dateLayout))
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (domain.Analysis, error) {
	var a domain.Analysis
	var speed sql.NullInt64
	var score sql.NullFloat64
	var feedback, createdAt, completedAt string
	if err := row.Scan(&a.ID, &a.PlayerID, &a.VideoURI, &a.VideoType, &a.ThumbnailURL, &a.Status,
		&speed, &score, &feedback, &a.ErrorMessage, &createdAt, &completedAt); err != nil {
		return domain.Analysis{}, err
	}
	if speed.Valid || score.Valid {
		r := domain.Result{Speed: int(speed.Int64), TechniqueScore: score.Float64}
		if err := json.Unmarshal([]byte(feedback), &r.Feedback); err != nil {
			return domain.Analysis{}, fmt.Errorf("decode feedback for analysis %s: %w", a.ID, err)
		}
		a.Result = &r
	}
	a.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	if completedAt != "" {
		a.CompletedAt, _ = time.Parse(dateLayout, completedAt)
	}
	return a, nil
}
