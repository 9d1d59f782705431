package service

import (
	"context"
	"strings"
	"time"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/queue"
	notificationDto "conference-badge-api/modules/notification/dto"
	"conference-badge-api/modules/waiver/document"
	"conference-badge-api/modules/waiver/dto"
	"conference-badge-api/modules/waiver/entity"
	"conference-badge-api/modules/waiver/mapper"
	"conference-badge-api/modules/waiver/validator"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type WaiverRepository interface {
	Create(ctx context.Context, waiver *entity.Waiver) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Waiver, error)
}

type SessionLinker interface {
	LinkWaiver(ctx context.Context, id string, waiverID uuid.UUID) *errors.AppError
}

type Notifier interface {
	SendWaiverConfirmationEmail(ctx context.Context, in notificationDto.WaiverConfirmation) *notificationDto.EmailResult
}

type WaiverService interface {
	Submit(ctx context.Context, req dto.SubmitWaiverRequest, meta dto.RequestMeta) (*dto.SubmitWaiverResponse, *errors.AppError)
	Get(ctx context.Context, id string) (*dto.WaiverResponse, *errors.AppError)
	DocumentURL(ctx context.Context, id string, expiresIn time.Duration) (*dto.DocumentURLResponse, *errors.AppError)
	CleanupDocument(ctx context.Context, path string) error
	LoadWaiverConfirmation(ctx context.Context, id string) (*notificationDto.WaiverConfirmation, *errors.AppError)
}

type Options struct {
	DefaultVersion string
	Now            func() time.Time
}

type waiverService struct {
	repo     WaiverRepository
	pipeline document.Pipeline
	sessions SessionLinker
	notifier Notifier
	tasks    queue.Enqueuer
	version  string
	now      func() time.Time
}

// NewWaiverService wires the submission flow. sessions, notifier and tasks may be nil.
func NewWaiverService(
	repo WaiverRepository,
	pipeline document.Pipeline,
	sessions SessionLinker,
	notifier Notifier,
	tasks queue.Enqueuer,
	opts Options,
) WaiverService {
	if opts.DefaultVersion == "" {
		opts.DefaultVersion = constants.DefaultWaiverVersion
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &waiverService{
		repo:     repo,
		pipeline: pipeline,
		sessions: sessions,
		notifier: notifier,
		tasks:    tasks,
		version:  opts.DefaultVersion,
		now:      opts.Now,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *waiverService) Submit(ctx context.Context, req dto.SubmitWaiverRequest, meta dto.RequestMeta) (*dto.SubmitWaiverResponse, *errors.AppError) {
	now := s.now().UTC()

	dob, err := time.Parse(validator.DateLayout, strings.TrimSpace(req.DateOfBirth))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "dateOfBirth must be formatted as YYYY-MM-DD", err)
	}
	signedAt := now
	if req.SignedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, req.SignedAt); err == nil {
			signedAt = parsed.UTC()
		}
	}
	version := strings.TrimSpace(req.WaiverVersion)
	if version == "" {
		version = s.version
	}
	fullName := strings.Join(strings.Fields(req.FullName), " ")
	email := strings.TrimSpace(req.Email)
	userAgent := validator.TruncateUserAgent(meta.UserAgent)

	result, appErr := s.pipeline.Generate(ctx, document.Data{
		FullName:                 fullName,
		Email:                    email,
		DateOfBirth:              dob.Format(validator.DateLayout),
		EmergencyContact:         strings.TrimSpace(req.EmergencyContact),
		EmergencyPhone:           strings.TrimSpace(req.EmergencyPhone),
		DietaryRestrictions:      req.DietaryRestrictions,
		DietaryRestrictionsOther: req.DietaryRestrictionsOther,
		VolunteeringInterests:    req.VolunteeringInterests,
		AdditionalNotes:          req.AdditionalNotes,
		Signature:                req.SignatureImage,
		WaiverVersion:            version,
		SignedAt:                 signedAt,
		IPAddress:                meta.IPAddress,
		UserAgent:                userAgent,
	})
	if appErr != nil {
		logger.Error("WaiverService:Submit:DocumentFailed", "email", email, "error", appErr)
		return nil, appErr
	}

	first, last := entity.SplitName(fullName)
	generatedAt := result.GeneratedAt.UTC()
	waiver := &entity.Waiver{
		ID:                       uuid.New(),
		FirstName:                first,
		LastName:                 last,
		Email:                    email,
		DateOfBirth:              dob,
		EmergencyContact:         strings.TrimSpace(req.EmergencyContact),
		EmergencyPhone:           strings.TrimSpace(req.EmergencyPhone),
		DietaryRestrictions:      nonNil(req.DietaryRestrictions),
		DietaryRestrictionsOther: req.DietaryRestrictionsOther,
		VolunteeringInterests:    nonNil(req.VolunteeringInterests),
		AdditionalNotes:          req.AdditionalNotes,
		SignatureData: entity.SignatureData{
			Image:      req.SignatureImage,
			DocumentID: result.DocumentID,
			SignedAt:   signedAt,
		},
		WaiverVersion:  version,
		SignedAt:       signedAt,
		IPAddress:      optional(meta.IPAddress),
		UserAgent:      optional(userAgent),
		PDFURL:         &result.URL,
		PDFPath:        &result.Path,
		PDFGeneratedAt: &generatedAt,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, waiver); err != nil {
		s.discardDocument(ctx, result.Path)
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to save waiver", err)
	}
	logger.Info("WaiverService:Submit:Persisted", "waiver_id", waiver.ID, "document_id", result.DocumentID)

	if req.SessionID != "" && s.sessions != nil {
		if appErr := s.sessions.LinkWaiver(ctx, req.SessionID, waiver.ID); appErr != nil {
			logger.Warn("WaiverService:Submit:SessionLinkFailed", "session_id", req.SessionID, "waiver_id", waiver.ID, "error", appErr)
		}
	}

	resp := &dto.SubmitWaiverResponse{
		Success:    true,
		PDFURL:     result.URL,
		WaiverID:   waiver.ID.String(),
		DocumentID: result.DocumentID,
	}

	if s.notifier != nil {
		sent := s.notifier.SendWaiverConfirmationEmail(ctx, notificationDto.WaiverConfirmation{
			FullName: fullName,
			Email:    email,
			WaiverID: waiver.ID.String(),
			PDFURL:   result.URL,
			SignedAt: signedAt,
		})
		if sent != nil && sent.Success {
			resp.EmailSent = true
			resp.EmailMessageID = sent.MessageID
		} else if sent != nil {
			logger.Warn("WaiverService:Submit:EmailNotSent", "waiver_id", waiver.ID, "reason", sent.Error)
		}
	}

	return resp, nil
}

// discardDocument removes a document whose waiver row could not be saved. When the
// delete fails the removal is handed to the background queue.
func (s *waiverService) discardDocument(ctx context.Context, path string) {
	ctx = context.WithoutCancel(ctx)
	err := s.pipeline.Remove(ctx, path)
	if err == nil {
		logger.Info("WaiverService:DiscardDocument:Removed", "path", path)
		return
	}
	logger.Warn("WaiverService:DiscardDocument:RemoveFailed", "path", path, "error", err)

	if s.tasks == nil {
		logger.Error("WaiverService:DiscardDocument:Orphaned", "path", path)
		return
	}
	if err := s.tasks.Enqueue(ctx, constants.TaskWaiverDocumentCleanup, dto.CleanupPayload{Path: path},
		asynq.MaxRetry(constants.TaskMaxRetry)); err != nil {
		logger.Error("WaiverService:DiscardDocument:Orphaned", "path", path, "error", err)
	}
}

func (s *waiverService) CleanupDocument(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := s.pipeline.Remove(ctx, path); err != nil {
		logger.Warn("WaiverService:CleanupDocument:Error", "path", path, "error", err)
		return err
	}
	logger.Info("WaiverService:CleanupDocument:Removed", "path", path)
	return nil
}

func (s *waiverService) load(ctx context.Context, id string) (*entity.Waiver, *errors.AppError) {
	waiverID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "waiverId must be a valid UUID", err)
	}
	waiver, err := s.repo.GetByID(ctx, waiverID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrPersistence, "failed to load waiver", err)
	}
	if waiver == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "waiver not found", nil)
	}
	return waiver, nil
}

func (s *waiverService) Get(ctx context.Context, id string) (*dto.WaiverResponse, *errors.AppError) {
	waiver, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToWaiverResponse(waiver), nil
}

func (s *waiverService) DocumentURL(ctx context.Context, id string, expiresIn time.Duration) (*dto.DocumentURLResponse, *errors.AppError) {
	waiver, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	path := ""
	if waiver.PDFPath != nil {
		path = *waiver.PDFPath
	}
	if expiresIn <= 0 {
		expiresIn = constants.SignedURLExpiry
	}
	if expiresIn > constants.MaxSignedURLExpiry {
		expiresIn = constants.MaxSignedURLExpiry
	}
	url, appErr := s.pipeline.SignedURL(ctx, path, expiresIn)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.DocumentURLResponse{URL: url, ExpiresAt: s.now().UTC().Add(expiresIn)}, nil
}

// LoadWaiverConfirmation rebuilds the confirmation email context from the stored waiver.
// The document link is freshly signed from the stored path.
func (s *waiverService) LoadWaiverConfirmation(ctx context.Context, id string) (*notificationDto.WaiverConfirmation, *errors.AppError) {
	waiver, appErr := s.load(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	conf := &notificationDto.WaiverConfirmation{
		FullName: waiver.FullName(),
		Email:    waiver.Email,
		WaiverID: waiver.ID.String(),
		SignedAt: waiver.SignedAt,
	}
	if waiver.PDFPath != nil && *waiver.PDFPath != "" {
		url, appErr := s.pipeline.SignedURL(ctx, *waiver.PDFPath, constants.SignedURLExpiry)
		if appErr != nil {
			logger.Warn("WaiverService:LoadWaiverConfirmation:SignFailed", "waiver_id", waiver.ID, "error", appErr)
		} else {
			conf.PDFURL = url
		}
	}
	return conf, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
