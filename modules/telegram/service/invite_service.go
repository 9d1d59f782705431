package service

import (
	"context"
	"strings"
	"time"

	"conference-badge-api/core/cache"
	"conference-badge-api/core/constants"
	"conference-badge-api/core/database"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	eventEntity "conference-badge-api/modules/event/entity"
	sessionEntity "conference-badge-api/modules/session/entity"
	"conference-badge-api/modules/telegram/dto"
	"conference-badge-api/modules/telegram/entity"
	"conference-badge-api/modules/telegram/gateway"
	"conference-badge-api/modules/telegram/mapper"

	"github.com/google/uuid"
)

type EventLookup interface {
	GetBySlug(ctx context.Context, slug string) (*eventEntity.Event, *errors.AppError)
}

// SessionLookup resolves live sessions; absent or expired ones are reported as ErrNotFound.
type SessionLookup interface {
	Get(ctx context.Context, id string) (*sessionEntity.Session, *errors.AppError)
}

type InviteRepository interface {
	FindOpen(ctx context.Context, eventID uuid.UUID, sessionID string, now time.Time) (*entity.TelegramInvite, error)
	Create(ctx context.Context, invite *entity.TelegramInvite) error
	MarkUsed(ctx context.Context, inviteLink string, usedAt time.Time) (bool, error)
}

type GatewayProvider interface {
	For(token string) (gateway.Client, error)
}

type InviteService interface {
	IsAvailable(ctx context.Context, eventSlug string) bool
	GetGroupInfo(ctx context.Context, eventSlug, sessionID string) (*dto.GroupInfo, *errors.AppError)
	GeneratePrivateInvite(ctx context.Context, eventSlug, sessionID string) (*entity.TelegramInvite, *errors.AppError)
	HasEventInvite(ctx context.Context, eventSlug string) bool
	GetEventInviteLink(ctx context.Context, eventSlug string) string
	GetEventInviteWithMetadata(ctx context.Context, eventSlug string) (*dto.EventInvite, *errors.AppError)
	MarkInviteUsed(ctx context.Context, inviteLink string) (bool, *errors.AppError)
	Status(ctx context.Context, eventSlug string) (*dto.StatusResponse, *errors.AppError)
}

type Options struct {
	DefaultBotToken string
	InviteExpiry    time.Duration
	LockTTL         time.Duration
	LockWait        time.Duration
	LockPoll        time.Duration
	Now             func() time.Time
}

type inviteService struct {
	events   EventLookup
	sessions SessionLookup
	invites  InviteRepository
	gateways GatewayProvider
	cache    cache.Cache
	opts     Options
}

// NewInviteService builds the issuance service. c may be nil, in which case no lock is taken.
func NewInviteService(events EventLookup, sessions SessionLookup, invites InviteRepository, gateways GatewayProvider, c cache.Cache, opts Options) InviteService {
	if opts.InviteExpiry <= 0 {
		opts.InviteExpiry = constants.InviteExpiry
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = constants.InviteLockTTL
	}
	if opts.LockWait <= 0 {
		opts.LockWait = constants.InviteLockWait
	}
	if opts.LockPoll <= 0 {
		opts.LockPoll = constants.InviteLockPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &inviteService{events: events, sessions: sessions, invites: invites, gateways: gateways, cache: c, opts: opts}
}

func (s *inviteService) botToken(event *eventEntity.Event) string {
	if event != nil && event.TelegramConfig != nil && event.TelegramConfig.BotToken != "" {
		return event.TelegramConfig.BotToken
	}
	return s.opts.DefaultBotToken
}

func (s *inviteService) IsAvailable(ctx context.Context, eventSlug string) bool {
	if strings.TrimSpace(eventSlug) == "" {
		return s.opts.DefaultBotToken != ""
	}
	event, appErr := s.events.GetBySlug(ctx, eventSlug)
	if appErr != nil {
		return false
	}
	return event.TelegramConfig != nil && event.TelegramConfig.Enabled && s.botToken(event) != ""
}

func (s *inviteService) GetGroupInfo(ctx context.Context, eventSlug, sessionID string) (*dto.GroupInfo, *errors.AppError) {
	event, appErr := s.events.GetBySlug(ctx, eventSlug)
	if appErr != nil {
		return nil, appErr
	}
	cfg := event.TelegramConfig
	if cfg == nil || !cfg.Enabled {
		return nil, errors.NewAppError(errors.ErrNotFound, "telegram is not configured for this event", nil)
	}

	info := &dto.GroupInfo{
		PublicChannelURL: cfg.PublicChannelURL,
		HasPrivateGroup:  cfg.PrivateGroupID != "",
	}
	if sessionID == "" || !info.HasPrivateGroup {
		return info, nil
	}

	now := s.opts.Now()
	existing, err := s.invites.FindOpen(ctx, event.ID, sessionID, now)
	if err != nil {
		logger.Warn("InviteService:GetGroupInfo:LookupFailed", "event_slug", eventSlug, "error", err)
		return info, nil
	}
	if existing.IsReusable(now) {
		info.ExistingInvite = mapper.ToInviteResponse(existing)
	}
	return info, nil
}

func (s *inviteService) GeneratePrivateInvite(ctx context.Context, eventSlug, sessionID string) (*entity.TelegramInvite, *errors.AppError) {
	eventSlug = strings.TrimSpace(eventSlug)
	sessionID = strings.TrimSpace(sessionID)
	if eventSlug == "" || sessionID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "eventSlug and sessionId are required", nil)
	}

	event, appErr := s.events.GetBySlug(ctx, eventSlug)
	if appErr != nil {
		logger.Warn("InviteService:GeneratePrivateInvite:EventLookupFailed", "event_slug", eventSlug, "error", appErr)
		return nil, appErr
	}
	if !event.TelegramEnabled() {
		logger.Info("InviteService:GeneratePrivateInvite:Disabled", "event_slug", eventSlug)
		return nil, errors.NewAppError(errors.ErrServiceUnavailable, "telegram integration is not enabled for this event", nil)
	}

	if _, appErr := s.sessions.Get(ctx, sessionID); appErr != nil {
		logger.Warn("InviteService:GeneratePrivateInvite:SessionLookupFailed", "event_slug", eventSlug, "session_id", sessionID, "error", appErr)
		return nil, appErr
	}

	client, err := s.gateways.For(s.botToken(event))
	if err != nil {
		logger.Warn("InviteService:GeneratePrivateInvite:NoGateway", "event_slug", eventSlug, "error", err)
		return nil, errors.NewAppError(errors.ErrServiceUnavailable, "telegram bot is not configured", err)
	}

	if s.cache != nil {
		key := constants.RedisKeyInviteLockPrefix + event.ID.String() + ":" + sessionID
		token, acquired, err := s.cache.AcquireLock(ctx, key, s.opts.LockTTL)
		switch {
		case err != nil:
			logger.Warn("InviteService:GeneratePrivateInvite:LockUnavailable", "session_id", sessionID, "error", err)
		case !acquired:
			return s.awaitConcurrentInvite(ctx, event, sessionID)
		default:
			defer func() {
				if err := s.cache.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
					logger.Warn("InviteService:GeneratePrivateInvite:ReleaseFailed", "session_id", sessionID, "error", err)
				}
			}()
		}
	}

	now := s.opts.Now()
	existing, err := s.invites.FindOpen(ctx, event.ID, sessionID, now)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to look up existing invite", err)
	}
	if existing.IsReusable(now) {
		logger.Info("InviteService:GeneratePrivateInvite:Reused", "event_slug", eventSlug, "session_id", sessionID)
		return existing, nil
	}

	expireAt := now.Add(s.opts.InviteExpiry).Unix()
	link, err := client.CreateInviteLink(ctx,
		event.TelegramConfig.PrivateGroupID,
		InviteName(sessionID, event.Slug, now),
		expireAt,
		constants.InviteMemberLimit,
		false,
	)
	if err != nil {
		logger.Error("InviteService:GeneratePrivateInvite:GatewayFailed", "event_slug", eventSlug, "session_id", sessionID, "error", err)
		return nil, errors.NewAppError(errors.ErrGateway, "failed to create telegram invite", err)
	}

	invite := &entity.TelegramInvite{
		EventID:    event.ID,
		SessionID:  sessionID,
		InviteLink: link.InviteLink,
		ExpiresAt:  time.Unix(expireAt, 0).UTC(),
		CreatedAt:  now.UTC(),
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		logger.Error("InviteService:GeneratePrivateInvite:PersistFailed", "event_slug", eventSlug, "session_id", sessionID, "error", err)
		if database.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrConflict, "telegram invite link already recorded", err)
		}
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save telegram invite", err)
	}

	logger.Info("InviteService:GeneratePrivateInvite:Created", "event_slug", eventSlug, "session_id", sessionID, "expires_at", invite.ExpiresAt)
	return invite, nil
}

// awaitConcurrentInvite polls for the invite another request is creating for the same session.
func (s *inviteService) awaitConcurrentInvite(ctx context.Context, event *eventEntity.Event, sessionID string) (*entity.TelegramInvite, *errors.AppError) {
	deadline := time.NewTimer(s.opts.LockWait)
	defer deadline.Stop()
	ticker := time.NewTicker(s.opts.LockPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, errors.NewAppError(errors.ErrConflict, "invite generation cancelled", ctx.Err())
		case <-deadline.C:
			logger.Warn("InviteService:awaitConcurrentInvite:TimedOut", "session_id", sessionID)
			return nil, errors.NewAppError(errors.ErrConflict, "invite generation already in progress for this session", nil)
		case <-ticker.C:
			now := s.opts.Now()
			existing, err := s.invites.FindOpen(ctx, event.ID, sessionID, now)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrPersistence, "failed to look up existing invite", err)
			}
			if existing.IsReusable(now) {
				return existing, nil
			}
		}
	}
}

func (s *inviteService) HasEventInvite(ctx context.Context, eventSlug string) bool {
	invite, _ := s.GetEventInviteWithMetadata(ctx, eventSlug)
	return invite != nil
}

func (s *inviteService) GetEventInviteLink(ctx context.Context, eventSlug string) string {
	invite, _ := s.GetEventInviteWithMetadata(ctx, eventSlug)
	if invite == nil {
		return ""
	}
	return invite.InviteLink
}

func (s *inviteService) GetEventInviteWithMetadata(ctx context.Context, eventSlug string) (*dto.EventInvite, *errors.AppError) {
	event, appErr := s.events.GetBySlug(ctx, eventSlug)
	if appErr != nil {
		return nil, appErr
	}
	cfg := event.TelegramConfig
	if cfg == nil || !cfg.Enabled {
		return nil, errors.NewAppError(errors.ErrServiceUnavailable, "telegram is not enabled for this event", nil)
	}
	if cfg.InviteLink == "" {
		return nil, errors.NewAppError(errors.ErrNotFound, "no event invite configured", nil)
	}
	if cfg.InviteLinkExpiresAt != nil && !cfg.InviteLinkExpiresAt.After(s.opts.Now()) {
		return nil, errors.NewAppError(errors.ErrNotFound, "event invite has expired", nil)
	}
	return &dto.EventInvite{
		InviteLink: cfg.InviteLink,
		ExpiresAt:  cfg.InviteLinkExpiresAt,
		CreatedAt:  cfg.InviteLinkCreatedAt,
	}, nil
}

func (s *inviteService) MarkInviteUsed(ctx context.Context, inviteLink string) (bool, *errors.AppError) {
	if inviteLink == "" {
		return false, errors.NewAppError(errors.ErrInvalidInput, "invite link is required", nil)
	}
	updated, err := s.invites.MarkUsed(ctx, inviteLink, s.opts.Now().UTC())
	if err != nil {
		return false, errors.NewAppError(errors.ErrPersistence, "failed to mark invite used", err)
	}
	return updated, nil
}

func (s *inviteService) Status(ctx context.Context, eventSlug string) (*dto.StatusResponse, *errors.AppError) {
	status := &dto.StatusResponse{EventSlug: eventSlug}

	var event *eventEntity.Event
	if eventSlug != "" {
		var appErr *errors.AppError
		event, appErr = s.events.GetBySlug(ctx, eventSlug)
		if appErr != nil {
			return nil, appErr
		}
		status.Enabled = event.TelegramEnabled()
	}

	client, err := s.gateways.For(s.botToken(event))
	if err != nil {
		return status, nil
	}
	status.Connected = client.TestConnection(ctx)

	if status.Connected && event.TelegramEnabled() {
		info, err := client.GetChatInfo(ctx, event.TelegramConfig.PrivateGroupID)
		if err != nil {
			status.ChatError = err.Error()
		} else {
			status.Chat = mapper.ToChatStatus(info)
		}
	}
	return status, nil
}
