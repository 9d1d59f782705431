package repository

import (
	"context"
	"database/sql"
	"errors"

	"conference-badge-api/core/database"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/badge/entity"

	"github.com/google/uuid"
)

type BadgeRepository struct {
	db database.IDatabase
}

func NewBadgeRepository(db database.IDatabase) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) Create(ctx context.Context, badge *entity.Badge) error {
	query := `
		INSERT INTO badges (
			id, event_id, session_id, waiver_id, badge_name, email, social_media_handles,
			original_image_url, cropped_image_url, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	err := r.db.ExecContext(ctx, query,
		badge.ID, badge.EventID, badge.SessionID, badge.WaiverID, badge.BadgeName, badge.Email,
		badge.SocialMediaHandles, badge.OriginalImageURL, badge.CroppedImageURL, badge.Status,
		badge.CreatedAt, badge.UpdatedAt,
	)
	if err != nil {
		logger.Error("BadgeRepository:Create:Error", "badge_id", badge.ID, "error", err)
		return err
	}
	return nil
}

// GetWithEvent returns nil without error when the badge does not exist.
func (r *BadgeRepository) GetWithEvent(ctx context.Context, id uuid.UUID) (*entity.BadgeWithEvent, error) {
	query := `
		SELECT b.id, b.event_id, b.session_id, b.waiver_id, b.badge_name, b.email,
		       b.social_media_handles, b.original_image_url, b.cropped_image_url, b.status,
		       b.created_at, b.updated_at,
		       e.slug AS event_slug, e.name AS event_name, e.template_id AS event_template_id
		FROM badges b
		JOIN events e ON e.id = b.event_id
		WHERE b.id = $1
	`
	var badge entity.BadgeWithEvent
	if err := r.db.GetContext(ctx, &badge, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("BadgeRepository:GetWithEvent:Error", "badge_id", id, "error", err)
		return nil, err
	}
	return &badge, nil
}
