package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

// SessionRepository stores login sessions. Sessions are hard-deleted on logout or expiry.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session
func (r *SessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (token_hash, user_id, user_agent, created_at, expires_at) VALUES (?, ?, ?, ?, ?)
	`, session.TokenHash(), session.UserID(), session.UserAgent(), session.CreatedAt().UTC(), session.ExpiresAt().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by token hash. Expired sessions are still returned; callers check [models.Session.Expired].
func (r *SessionRepository) Get(tokenHash string) (*models.Session, error) {
	var (
		userID    string
		userAgent string
		createdAt time.Time
		expiresAt time.Time
	)

	err := r.db.QueryRow(`
		SELECT user_id, user_agent, created_at, expires_at
		FROM sessions
		WHERE token_hash = ?
	`, tokenHash).Scan(&userID, &userAgent, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return models.RestoreSession(tokenHash, userID, userAgent, createdAt, expiresAt), nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *SessionRepository) Delete(tokenHash string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE token_hash = ?", tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired before now and reports how many went.
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}
