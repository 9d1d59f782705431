package service

import (
	"context"
	"strings"
	"time"

	"conference-badge-api/core/constants"
	coreEntity "conference-badge-api/core/entity"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/session/entity"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	LinkWaiver(ctx context.Context, id string, waiverID uuid.UUID) error
}

type SessionService interface {
	Create(ctx context.Context, data map[string]any) (*entity.Session, *errors.AppError)
	Get(ctx context.Context, id string) (*entity.Session, *errors.AppError)
	// Ensure returns the live session for id, or a fresh one when id is empty.
	Ensure(ctx context.Context, id string) (*entity.Session, *errors.AppError)
	LinkWaiver(ctx context.Context, id string, waiverID uuid.UUID) *errors.AppError
}

type sessionService struct {
	repo SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionService(repo SessionRepository, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = constants.SessionTTL
	}
	return &sessionService{repo: repo, ttl: ttl, now: time.Now}
}

func (s *sessionService) Create(ctx context.Context, data map[string]any) (*entity.Session, *errors.AppError) {
	now := s.now().UTC()
	session := &entity.Session{
		ID:          uuid.NewString(),
		SessionData: coreEntity.JSONB(data),
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
	}
	if session.SessionData == nil {
		session.SessionData = coreEntity.JSONB{}
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to create session", err)
	}
	logger.Info("SessionService:Create:Success", "session_id", session.ID, "expires_at", session.ExpiresAt)
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*entity.Session, *errors.AppError) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "session id is required", nil)
	}
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load session", err)
	}
	if session == nil || session.Expired(s.now()) {
		return nil, errors.NewAppError(errors.ErrNotFound, "session not found or expired", nil)
	}
	return session, nil
}

func (s *sessionService) Ensure(ctx context.Context, id string) (*entity.Session, *errors.AppError) {
	if strings.TrimSpace(id) == "" {
		return s.Create(ctx, nil)
	}
	return s.Get(ctx, id)
}

func (s *sessionService) LinkWaiver(ctx context.Context, id string, waiverID uuid.UUID) *errors.AppError {
	if err := s.repo.LinkWaiver(ctx, id, waiverID); err != nil {
		return errors.NewAppError(errors.ErrPersistence, "failed to link waiver to session", err)
	}
	return nil
}
