package repositories

import (
	"context"
	"fmt"
	"pc-store/models"
	"time"

	"github.com/google/uuid"
)

type SessionRepository struct {
	db DBPool
}

func NewSessionRepository(db DBPool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, userID *int, now time.Time, ttl time.Duration) (*models.Session, error) {
	s := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.UserID, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sessions.Create: %w", translate(err))
	}
	return s, nil
}

// FindActive returns ErrNotFound for unknown, malformed or expired tokens.
func (r *SessionRepository) FindActive(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("sessions.FindActive: %w", ErrNotFound)
	}

	var s models.Session
	err := r.db.QueryRow(ctx,
		`SELECT id::text, user_id, created_at, expires_at FROM sessions WHERE id = $1 AND expires_at > $2`,
		id, now,
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("sessions.FindActive: %w", translate(err))
	}
	return &s, nil
}

func (r *SessionRepository) AttachUser(ctx context.Context, id string, userID int) error {
	_, err := r.db.Exec(ctx, `UPDATE sessions SET user_id = $1 WHERE id = $2 AND user_id IS NULL`, userID, id)
	if err != nil {
		return fmt.Errorf("sessions.AttachUser: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry together with their cart lines.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM sessions s
		WHERE s.expires_at <= $1
		  AND NOT EXISTS (SELECT 1 FROM orders o WHERE o.session_id = s.id)
	`, now)
	if err != nil {
		return 0, fmt.Errorf("sessions.DeleteExpired: %w", err)
	}
	return tag.RowsAffected(), nil
}
