package repository

import (
	"context"
	"database/sql"
	"errors"

	"conference-badge-api/core/database"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/session/entity"

	"github.com/google/uuid"
)

type SessionRepository struct {
	db database.IDatabase
}

func NewSessionRepository(db database.IDatabase) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, session_data, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	data, err := session.SessionData.Value()
	if err != nil {
		return err
	}
	if err := r.db.ExecContext(ctx, query, session.ID, data, session.ExpiresAt, session.CreatedAt); err != nil {
		logger.Error("SessionRepository:Create:Error", "session_id", session.ID, "error", err)
		return err
	}
	return nil
}

// GetByID returns nil without error when the session does not exist.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, session_data, expires_at, waiver_id, created_at
		FROM sessions
		WHERE id = $1
	`
	var session entity.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SessionRepository:GetByID:Error", "session_id", id, "error", err)
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) LinkWaiver(ctx context.Context, id string, waiverID uuid.UUID) error {
	query := `UPDATE sessions SET waiver_id = $2 WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id, waiverID); err != nil {
		logger.Error("SessionRepository:LinkWaiver:Error", "session_id", id, "waiver_id", waiverID, "error", err)
		return err
	}
	return nil
}
