package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/fondfolio-backend/internal/domain"
)

// sessionRepository implements domain.SessionRepository
type sessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) domain.SessionRepository {
	return &sessionRepository{db: db}
}

// Get retrieves a session by key
func (r *sessionRepository) Get(ctx context.Context, key uuid.UUID) (*domain.Session, error) {
	query := `SELECT key, user_id, created FROM sessions WHERE key = $1`

	var session domain.Session
	err := r.db.QueryRowContext(ctx, query, key).Scan(&session.Key, &session.UserID, &session.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// Replace deletes every session of the user and stores the new one atomically
func (r *sessionRepository) Replace(ctx context.Context, session *domain.Session) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, session.UserID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO sessions (key, user_id, created) VALUES ($1, $2, $3)`,
		session.Key, session.UserID, session.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes the session with the given key; unknown keys are not an error
func (r *sessionRepository) Delete(ctx context.Context, key uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
