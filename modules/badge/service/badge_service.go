package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/database"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/storage"
	"conference-badge-api/core/utils"
	"conference-badge-api/modules/badge/dto"
	"conference-badge-api/modules/badge/entity"
	"conference-badge-api/modules/badge/mapper"
	eventEntity "conference-badge-api/modules/event/entity"
	notificationDto "conference-badge-api/modules/notification/dto"
	sessionEntity "conference-badge-api/modules/session/entity"
	telegramEntity "conference-badge-api/modules/telegram/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type BadgeRepository interface {
	Create(ctx context.Context, badge *entity.Badge) error
	GetWithEvent(ctx context.Context, id uuid.UUID) (*entity.BadgeWithEvent, error)
}

type EventLookup interface {
	GetBySlug(ctx context.Context, slug string) (*eventEntity.Event, *errors.AppError)
}

type SessionProvider interface {
	Ensure(ctx context.Context, id string) (*sessionEntity.Session, *errors.AppError)
}

type InviteIssuer interface {
	GeneratePrivateInvite(ctx context.Context, eventSlug, sessionID string) (*telegramEntity.TelegramInvite, *errors.AppError)
}

type Notifier interface {
	SendBadgeConfirmationEmail(ctx context.Context, in notificationDto.BadgeConfirmation) *notificationDto.EmailResult
}

type BadgeService interface {
	Create(ctx context.Context, req dto.CreateBadgeRequest) (*dto.CreateBadgeResponse, *errors.AppError)
	Get(ctx context.Context, id string) (*dto.BadgeResponse, *errors.AppError)
	LoadBadgeConfirmation(ctx context.Context, badgeID string) (*notificationDto.BadgeConfirmation, *errors.AppError)
}

type badgeService struct {
	repo     BadgeRepository
	events   EventLookup
	sessions SessionProvider
	invites  InviteIssuer
	notifier Notifier
	store    storage.BlobStore
	bucket   string
	now      func() time.Time
}

// NewBadgeService wires the badge flow. invites and notifier may be nil.
func NewBadgeService(
	repo BadgeRepository,
	events EventLookup,
	sessions SessionProvider,
	invites InviteIssuer,
	notifier Notifier,
	store storage.BlobStore,
	bucket string,
) BadgeService {
	if bucket == "" {
		bucket = constants.BucketBadgeImages
	}
	return &badgeService{
		repo:     repo,
		events:   events,
		sessions: sessions,
		invites:  invites,
		notifier: notifier,
		store:    store,
		bucket:   bucket,
		now:      time.Now,
	}
}

func (s *badgeService) Create(ctx context.Context, req dto.CreateBadgeRequest) (*dto.CreateBadgeResponse, *errors.AppError) {
	event, appErr := s.events.GetBySlug(ctx, req.EventSlug)
	if appErr != nil {
		return nil, appErr
	}
	session, appErr := s.sessions.Ensure(ctx, req.SessionID)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now().UTC()
	badge := &entity.Badge{
		EventID:            event.ID,
		SessionID:          session.ID,
		BadgeName:          strings.TrimSpace(req.BadgeName),
		Email:              strings.TrimSpace(req.Email),
		SocialMediaHandles: toHandles(req.SocialMediaHandles),
		Status:             constants.BadgeStatusSubmitted,
	}
	badge.ID = uuid.New()
	badge.CreatedAt = now
	badge.UpdatedAt = now
	if req.WaiverID != "" {
		waiverID, err := uuid.Parse(req.WaiverID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "waiverId must be a valid UUID", err)
		}
		badge.WaiverID = &waiverID
	} else if session.WaiverID != nil {
		badge.WaiverID = session.WaiverID
	}

	var uploaded []string
	for _, img := range []struct {
		kind string
		data string
		dest **string
	}{
		{"original", req.OriginalImage, &badge.OriginalImageURL},
		{"cropped", req.CroppedImage, &badge.CroppedImageURL},
	} {
		if img.data == "" {
			continue
		}
		url, key, appErr := s.uploadImage(ctx, event.Slug, session.ID, img.kind, img.data, now)
		if appErr != nil {
			s.removeImages(ctx, uploaded)
			return nil, appErr
		}
		uploaded = append(uploaded, key)
		*img.dest = &url
	}

	if err := s.repo.Create(ctx, badge); err != nil {
		s.removeImages(ctx, uploaded)
		switch {
		case database.IsForeignKeyViolation(err):
			return nil, errors.NewAppError(errors.ErrInvalidInput, "waiverId does not reference a known waiver", err)
		case database.IsCheckViolation(err):
			return nil, errors.NewAppError(errors.ErrInvalidInput, "badge violates a data constraint", err)
		}
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save badge", err)
	}
	logger.Info("BadgeService:Create:Persisted", "badge_id", badge.ID, "event_slug", event.Slug, "session_id", session.ID)

	resp := &dto.CreateBadgeResponse{
		Badge:     mapper.ToBadgeResponse(badge),
		SessionID: session.ID,
	}

	inviteLink := ""
	if invite := s.issueInvite(ctx, event, session.ID); invite != nil {
		inviteLink = invite.InviteLink
		resp.TelegramInvite = &dto.TelegramInvite{InviteLink: invite.InviteLink, ExpiresAt: invite.ExpiresAt}
	}

	if s.notifier != nil {
		confirmation := mapper.ToBadgeConfirmation(&entity.BadgeWithEvent{
			Badge:           *badge,
			EventSlug:       event.Slug,
			EventName:       event.Name,
			EventTemplateID: event.TemplateID,
		}, inviteLink)
		result := s.notifier.SendBadgeConfirmationEmail(ctx, *confirmation)
		if result != nil && result.Success {
			resp.EmailSent = true
		} else if result != nil {
			logger.Warn("BadgeService:Create:EmailNotSent", "badge_id", badge.ID, "reason", result.Error)
		}
	}

	return resp, nil
}

// issueInvite never fails the badge flow; any error yields nil.
func (s *badgeService) issueInvite(ctx context.Context, event *eventEntity.Event, sessionID string) *telegramEntity.TelegramInvite {
	if s.invites == nil || !event.TelegramEnabled() {
		return nil
	}
	invite, appErr := s.invites.GeneratePrivateInvite(ctx, event.Slug, sessionID)
	if appErr != nil {
		logger.Warn("BadgeService:IssueInvite:Failed", "event_slug", event.Slug, "session_id", sessionID, "error", appErr)
		return nil
	}
	return invite
}

func (s *badgeService) uploadImage(ctx context.Context, eventSlug, sessionID, kind, data string, now time.Time) (string, string, *errors.AppError) {
	img, err := utils.DecodeImage(data)
	if err != nil {
		return "", "", errors.NewAppError(errors.ErrInvalidInput, kind+" image is not a valid image", err)
	}
	key := fmt.Sprintf("badges/%s/%s/%d-%s.%s", slug.Make(eventSlug), sessionID, now.UnixMilli(), kind, img.Extension())
	if err := s.store.Upload(ctx, s.bucket, key, img.Data, img.ContentType); err != nil {
		logger.Error("BadgeService:UploadImage:Error", "key", key, "error", err)
		return "", "", errors.NewAppError(errors.ErrPersistence, "failed to store badge image", err)
	}
	url, err := storage.ResolveURL(ctx, s.store, s.bucket, key, constants.MaxSignedURLExpiry)
	if err != nil {
		_ = s.store.Delete(context.WithoutCancel(ctx), s.bucket, key)
		return "", "", errors.NewAppError(errors.ErrPersistence, "failed to resolve badge image url", err)
	}
	return url, key, nil
}

func (s *badgeService) removeImages(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.store.Delete(ctx, s.bucket, key); err != nil {
			logger.Warn("BadgeService:RemoveImages:Error", "key", key, "error", err)
		}
	}
}

func (s *badgeService) load(ctx context.Context, id string) (*entity.BadgeWithEvent, *errors.AppError) {
	badgeID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "badgeId must be a valid UUID", err)
	}
	badge, err := s.repo.GetWithEvent(ctx, badgeID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load badge", err)
	}
	if badge == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "badge not found", nil)
	}
	return badge, nil
}

func (s *badgeService) Get(ctx context.Context, id string) (*dto.BadgeResponse, *errors.AppError) {
	badge, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToBadgeResponse(&badge.Badge), nil
}

func (s *badgeService) LoadBadgeConfirmation(ctx context.Context, badgeID string) (*notificationDto.BadgeConfirmation, *errors.AppError) {
	badge, appErr := s.load(ctx, badgeID)
	if appErr != nil {
		return nil, appErr
	}
	inviteLink := ""
	if event, appErr := s.events.GetBySlug(ctx, badge.EventSlug); appErr == nil {
		if invite := s.issueInvite(ctx, event, badge.SessionID); invite != nil {
			inviteLink = invite.InviteLink
		}
	}
	return mapper.ToBadgeConfirmation(badge, inviteLink), nil
}

func toHandles(in []dto.SocialHandle) entity.SocialMediaHandles {
	out := make(entity.SocialMediaHandles, 0, len(in))
	for _, h := range in {
		out = append(out, entity.SocialMediaHandle{
			Platform: strings.ToLower(strings.TrimSpace(h.Platform)),
			Handle:   strings.TrimSpace(h.Handle),
		})
	}
	return out
}
