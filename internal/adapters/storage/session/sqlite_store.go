package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courtside/internal/adapters/storage"
	"courtside/internal/domain/calendar"
	domain "courtside/internal/domain/session"
)

// dateLayout is fixed width so stored timestamps sort lexicographically.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, player_ids, date, start_time, end_time, type, status, notes, created_at FROM training_session`

const orderByDateTime = ` ORDER BY date ASC, start_time ASC, created_at ASC`

// SQLiteStore implements Store using SQLite. Player IDs are stored as a JSON
// array so the order chosen at booking time is preserved.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append inserts sessions in a single transaction. Existing rows are never
// touched: a duplicate ID fails the whole batch.
// PRE: every session has been validated
// POST: either all sessions are stored or none are
func (s *SQLiteStore) Append(ctx context.Context, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO training_session (id, player_ids, date, start_time, end_time, type, status, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sess := range sessions {
		players, err := json.Marshal(sess.PlayerIDs)
		if err != nil {
			return fmt.Errorf("encode players for session %s: %w", sess.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			sess.ID, string(players), sess.Date.String(), sess.StartTime, sess.EndTime,
			sess.Type, sess.Status, sess.Notes, sess.CreatedAt.UTC().Format(dateLayout),
		); err != nil {
			return fmt.Errorf("insert session %s: %w", sess.ID, err)
		}
	}
	return tx.Commit()
}

// GetByID retrieves a session by its ID.
// PRE: id is non-empty
// POST: Returns the session or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return sess, err
}

// List returns every session ordered by date then start time.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Session, error) {
	return s.query(ctx, selectColumns+orderByDateTime)
}

// ListByDateRange returns sessions with from <= date <= to, ordered by date then start time.
// PRE: from is not after to
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to calendar.Date) ([]domain.Session, error) {
	return s.query(ctx, selectColumns+` WHERE date >= ? AND date <= ?`+orderByDateTime, from.String(), to.String())
}

// ListByPlayer returns every session the player is booked on.
func (s *SQLiteStore) ListByPlayer(ctx context.Context, playerID string) ([]domain.Session, error) {
	return s.query(ctx, selectColumns+
		` WHERE EXISTS (SELECT 1 FROM json_each(training_session.player_ids) WHERE json_each.value = ?)`+
		orderByDateTime, playerID)
}

// CountScheduledForPlayer returns how many still-scheduled sessions include the player.
func (s *SQLiteStore) CountScheduledForPlayer(ctx context.Context, playerID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM training_session
		 WHERE status = ? AND EXISTS (SELECT 1 FROM json_each(training_session.player_ids) WHERE json_each.value = ?)`,
		domain.StatusScheduled, playerID).Scan(&n)
	return n, err
}

// UpdateStatus sets the status of one session.
// PRE: status is valid and the transition has been checked by the caller
// POST: error wrapping domain.ErrNotFound if the session does not exist
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE training_session SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.Session, error) {
	var sess domain.Session
	var players, date, createdAt string
	if err := row.Scan(&sess.ID, &players, &date, &sess.StartTime, &sess.EndTime,
		&sess.Type, &sess.Status, &sess.Notes, &createdAt); err != nil {
		return domain.Session{}, err
	}
	if err := json.Unmarshal([]byte(players), &sess.PlayerIDs); err != nil {
		return domain.Session{}, fmt.Errorf("decode players for session %s: %w", sess.ID, err)
	}
	d, err := calendar.ParseDate(date)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: %w", sess.ID, err)
	}
	sess.Date = d
	sess.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	return sess, nil
}
