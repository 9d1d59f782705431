package service

import (
	"context"
	"strings"

	"conference-badge-api/core/cache"
	"conference-badge-api/core/constants"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/event/entity"
)

type EventRepository interface {
	GetActiveBySlug(ctx context.Context, slug string) (*entity.Event, error)
}

type EventService interface {
	GetBySlug(ctx context.Context, slug string) (*entity.Event, *errors.AppError)
}

type eventService struct {
	repo  EventRepository
	cache cache.Cache
}

// NewEventService wires cache-aside lookups. cache may be nil.
func NewEventService(repo EventRepository, c cache.Cache) EventService {
	return &eventService{repo: repo, cache: c}
}

func cacheKey(slug string) string {
	return constants.RedisKeyEventBySlug + slug
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*entity.Event, *errors.AppError) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event slug is required", nil)
	}

	if s.cache != nil {
		var cached entity.Event
		found, err := s.cache.GetJSON(ctx, cacheKey(slug), &cached)
		if err != nil {
			logger.Warn("EventService:GetBySlug:CacheReadFailed", "slug", slug, "error", err)
		} else if found {
			return sanitize(&cached), nil
		}
	}

	event, err := s.repo.GetActiveBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey(slug), event, constants.EventCacheTTL); err != nil {
			logger.Warn("EventService:GetBySlug:CacheWriteFailed", "slug", slug, "error", err)
		}
	}
	return sanitize(event), nil
}

// sanitize disables a telegram config that fails validation instead of trusting its shape downstream.
func sanitize(event *entity.Event) *entity.Event {
	if err := event.TelegramConfig.Validate(); err != nil {
		logger.Warn("EventService:sanitize:InvalidTelegramConfig", "slug", event.Slug, "error", err)
		cfg := *event.TelegramConfig
		cfg.Enabled = false
		event.TelegramConfig = &cfg
	}
	return event
}
