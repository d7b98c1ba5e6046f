package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/factcheck/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
// History entries live in their own table; newest first is ORDER BY id DESC.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt = now
	if user.History == nil {
		user.History = []domain.HistoryEntry{}
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM users WHERE username = ?`, username,
	).Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}

	history, err := r.GetHistory(ctx, username)
	if err != nil {
		return nil, err
	}
	user.History = history
	return user, nil
}

// AppendHistory inserts the entry only if the user exists, in one statement.
func (r *UserRepository) AppendHistory(ctx context.Context, username string, entry domain.HistoryEntry) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO history_entries (username, date, type, input, response)
		 SELECT ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM users WHERE username = ?)`,
		username, entry.Date.Format(domain.HistoryDateLayout), entry.Type, entry.Input, entry.Response, username,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("append history for %q: %w", username, domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) GetHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, type, input, response FROM history_entries
		 WHERE username = ? ORDER BY id DESC`, username,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var (
			e    domain.HistoryEntry
			date string
		)
		if err := rows.Scan(&date, &e.Type, &e.Input, &e.Response); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Date, err = time.ParseInLocation(domain.HistoryDateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse history date %q: %w", date, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// isUniqueConstraintError checks if the error is a SQLite unique or primary key violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
