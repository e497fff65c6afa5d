package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"report_card_portal/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the store needs
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps sessions in the portal_sessions table
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a PostgresStore
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save upserts the session row
func (s *PostgresStore) Save(ctx context.Context, sess *model.Session) error {
	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	sql := `INSERT INTO portal_sessions (id, token, user_data, created_at, expires_at)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, user_data = EXCLUDED.user_data, expires_at = EXCLUDED.expires_at`
	if _, err := s.db.Exec(ctx, sql, sess.ID, sess.Token, userData, sess.CreatedAt, sess.ExpiresAt); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Find retrieves a session by its id
func (s *PostgresStore) Find(ctx context.Context, id string) (*model.Session, error) {
	sess := &model.Session{ID: id}
	var userData []byte
	sql := `SELECT token, user_data, created_at, expires_at FROM portal_sessions WHERE id = $1`
	err := s.db.QueryRow(ctx, sql, id).Scan(&sess.Token, &userData, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if err := json.Unmarshal(userData, &sess.User); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	return sess, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM portal_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM portal_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
