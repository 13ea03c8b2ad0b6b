package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"courtside/internal/adapters/storage"
	domain "courtside/internal/domain/player"
)

// dateLayout is fixed width so stored timestamps sort lexicographically.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = "SELECT id, name, email, phone, level, image_url, created_at FROM player"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new player store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Player by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Player, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Player{}, fmt.Errorf("player %s: %w", id, domain.ErrNotFound)
	}
	return p, err
}

// Save persists a Player to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Player) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player (id, name, email, phone, level, image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, phone=excluded.phone,
		   level=excluded.level, image_url=excluded.image_url`,
		p.ID, p.Name, p.Email, p.Phone, p.Level, p.ImageURL, p.CreatedAt.UTC().Format(dateLayout))
	return err
}

// Delete removes a Player. Analyses and plans cascade.
// PRE: id is non-empty
// POST: Row removed; error wrapping domain.ErrNotFound if it did not exist
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM player WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("player %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns players newest first, filtered by level and search text.
// PRE: none
// POST: Returns at most filter.Limit players when Limit > 0
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Player, error) {
	where, args := filterClause(filter)
	query := selectColumns + where + " ORDER BY created_at DESC, name ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Count returns the number of players matching filter (Limit/Offset ignored).
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM player"+where, args...).Scan(&n)
	return n, err
}

// CountByLevel returns the number of players at each level. Every valid
// level is present in the result, including those with zero players.
func (s *SQLiteStore) CountByLevel(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(domain.ValidLevels))
	for _, l := range domain.ValidLevels {
		counts[l] = 0
	}

	rows, err := s.db.QueryContext(ctx, "SELECT level, COUNT(*) FROM player GROUP BY level")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, rows.Err()
}

func filterClause(filter ListFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Level != "" {
		conds = append(conds, "level = ?")
		args = append(args, filter.Level)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)")
		args = append(args, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (domain.Player, error) {
	var p domain.Player
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Level, &p.ImageURL, &createdAt); err != nil {
		return domain.Player{}, err
	}
	p.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	return p, nil
}
