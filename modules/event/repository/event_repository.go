package repository

import (
	"context"
	"database/sql"
	"errors"

	"conference-badge-api/core/database"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/event/entity"
)

type EventRepository struct {
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{db: db}
}

// GetActiveBySlug returns nil without error when no active event has the slug.
func (r *EventRepository) GetActiveBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	query := `
		SELECT id, slug, name, is_active, template_id, telegram_config, created_at, updated_at
		FROM events
		WHERE slug = $1 AND is_active = TRUE
	`
	var event entity.Event
	if err := r.db.GetContext(ctx, &event, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetActiveBySlug:Error", "slug", slug, "error", err)
		return nil, err
	}
	return &event, nil
}
