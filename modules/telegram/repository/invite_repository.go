package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"conference-badge-api/core/database"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/telegram/entity"

	"github.com/google/uuid"
)

type InviteRepository struct {
	db database.IDatabase
}

func NewInviteRepository(db database.IDatabase) *InviteRepository {
	return &InviteRepository{db: db}
}

// FindOpen returns the newest unused invite for the pair that expires after now, or nil.
func (r *InviteRepository) FindOpen(ctx context.Context, eventID uuid.UUID, sessionID string, now time.Time) (*entity.TelegramInvite, error) {
	query := `
		SELECT id, event_id, session_id, invite_link, expires_at, used_at, created_at
		FROM telegram_invites
		WHERE event_id = $1 AND session_id = $2 AND used_at IS NULL AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	var invite entity.TelegramInvite
	if err := r.db.GetContext(ctx, &invite, query, eventID, sessionID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("InviteRepository:FindOpen:Error", "event_id", eventID, "session_id", sessionID, "error", err)
		return nil, err
	}
	return &invite, nil
}

func (r *InviteRepository) Create(ctx context.Context, invite *entity.TelegramInvite) error {
	query := `
		INSERT INTO telegram_invites (event_id, session_id, invite_link, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	row := r.db.QueryRowContext(ctx, query,
		invite.EventID,
		invite.SessionID,
		invite.InviteLink,
		invite.ExpiresAt,
		invite.CreatedAt,
	)
	if err := row.Scan(&invite.ID); err != nil {
		logger.Error("InviteRepository:Create:Error", "session_id", invite.SessionID, "error", err)
		return err
	}
	return nil
}

// MarkUsed sets used_at on an open invite and reports whether a row changed.
func (r *InviteRepository) MarkUsed(ctx context.Context, inviteLink string, usedAt time.Time) (bool, error) {
	query := `
		UPDATE telegram_invites
		SET used_at = $2
		WHERE invite_link = $1 AND used_at IS NULL
		RETURNING id
	`
	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, query, inviteLink, usedAt).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		logger.Error("InviteRepository:MarkUsed:Error", "error", err)
		return false, err
	}
	return true, nil
}
