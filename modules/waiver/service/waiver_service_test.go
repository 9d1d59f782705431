package service

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "conference-badge-api/core/errors"
	notificationDto "conference-badge-api/modules/notification/dto"
	"conference-badge-api/modules/waiver/document"
	"conference-badge-api/modules/waiver/dto"
	"conference-badge-api/modules/waiver/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/matryer/is"
)

const pngSignature = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakePipeline struct {
	generateErr *appErrors.AppError
	removeErr   error
	generated   []document.Data
	removed     []string
	signedPath  string
	signedFor   time.Duration
}

func (f *fakePipeline) Generate(_ context.Context, data document.Data) (*document.Result, *appErrors.AppError) {
	f.generated = append(f.generated, data)
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &document.Result{
		DocumentID:  "WAIVER-TEST",
		URL:         "https://cdn.example.com/waiver-documents/waivers/doc.pdf",
		Path:        "waivers/doc.pdf",
		GeneratedAt: fixedNow,
	}, nil
}

func (f *fakePipeline) SignedURL(_ context.Context, path string, expiry time.Duration) (string, *appErrors.AppError) {
	if path == "" {
		return "", appErrors.NewAppError(appErrors.ErrNotFound, "waiver has no stored document", nil)
	}
	f.signedPath, f.signedFor = path, expiry
	return "https://signed.example.com/" + path, nil
}

func (f *fakePipeline) Remove(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	return f.removeErr
}

type fakeRepo struct {
	createErr error
	created   []*entity.Waiver
	byID      map[uuid.UUID]*entity.Waiver
}

func (f *fakeRepo) Create(_ context.Context, w *entity.Waiver) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, w)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Waiver, error) {
	return f.byID[id], nil
}

type fakeSessions struct {
	linked map[string]uuid.UUID
}

func (f *fakeSessions) LinkWaiver(_ context.Context, id string, waiverID uuid.UUID) *appErrors.AppError {
	if f.linked == nil {
		f.linked = map[string]uuid.UUID{}
	}
	f.linked[id] = waiverID
	return nil
}

type fakeNotifier struct {
	result *notificationDto.EmailResult
	sent   []notificationDto.WaiverConfirmation
}

func (f *fakeNotifier) SendWaiverConfirmationEmail(_ context.Context, in notificationDto.WaiverConfirmation) *notificationDto.EmailResult {
	f.sent = append(f.sent, in)
	return f.result
}

type fakeTasks struct {
	types    []string
	payloads []any
}

func (f *fakeTasks) Enqueue(_ context.Context, taskType string, payload any, _ ...asynq.Option) error {
	f.types = append(f.types, taskType)
	f.payloads = append(f.payloads, payload)
	return nil
}

type fixture struct {
	pipeline *fakePipeline
	repo     *fakeRepo
	sessions *fakeSessions
	notifier *fakeNotifier
	tasks    *fakeTasks
	svc      WaiverService
}

func newFixture() *fixture {
	f := &fixture{
		pipeline: &fakePipeline{},
		repo:     &fakeRepo{},
		sessions: &fakeSessions{},
		notifier: &fakeNotifier{result: &notificationDto.EmailResult{Success: true, MessageID: "msg-1"}},
		tasks:    &fakeTasks{},
	}
	f.svc = NewWaiverService(f.repo, f.pipeline, f.sessions, f.notifier, f.tasks, Options{
		DefaultVersion: "2025.1",
		Now:            func() time.Time { return fixedNow },
	})
	return f
}

func scenarioRequest() dto.SubmitWaiverRequest {
	return dto.SubmitWaiverRequest{
		FullName:         "John Doe",
		Email:            "john@example.com",
		DateOfBirth:      "1990-01-01",
		EmergencyContact: "Jane Doe",
		EmergencyPhone:   "+1234567890",
		SignatureImage:   pngSignature,
		SessionID:        "session-1",
	}
}

func TestSubmitPersistsLinksAndEmails(t *testing.T) {
	is := is.New(t)
	f := newFixture()

	resp, appErr := f.svc.Submit(context.Background(), scenarioRequest(), dto.RequestMeta{IPAddress: "203.0.113.7", UserAgent: "test"})
	is.True(appErr == nil)
	is.True(resp.Success)
	is.True(resp.PDFURL != "")
	_, err := uuid.Parse(resp.WaiverID)
	is.NoErr(err)
	is.True(resp.EmailSent)
	is.Equal(resp.EmailMessageID, "msg-1")

	is.Equal(len(f.pipeline.generated), 1)
	is.Equal(f.pipeline.generated[0].WaiverVersion, "2025.1")

	is.Equal(len(f.repo.created), 1)
	saved := f.repo.created[0]
	is.Equal(saved.FirstName, "John")
	is.Equal(saved.LastName, "Doe")
	is.Equal(*saved.PDFURL, resp.PDFURL)
	is.Equal(*saved.PDFPath, "waivers/doc.pdf")
	is.True(saved.PDFGeneratedAt != nil)
	is.Equal(saved.SignatureData.DocumentID, "WAIVER-TEST")
	is.Equal(*saved.IPAddress, "203.0.113.7")

	is.Equal(f.sessions.linked["session-1"], saved.ID)
	is.Equal(len(f.notifier.sent), 1)
	is.Equal(f.notifier.sent[0].PDFURL, resp.PDFURL)
}

func TestSubmitDocumentFailureIsFatal(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	f.pipeline.generateErr = appErrors.NewAppError(appErrors.ErrPDFGeneration, "failed to render waiver document", errors.New("chrome crashed"))

	resp, appErr := f.svc.Submit(context.Background(), scenarioRequest(), dto.RequestMeta{})
	is.True(resp == nil)
	is.Equal(appErr.Code, appErrors.ErrPDFGeneration)
	is.Equal(len(f.repo.created), 0)
	is.Equal(len(f.notifier.sent), 0)
	is.Equal(len(f.sessions.linked), 0)
}

func TestSubmitWithoutEmailProviderStillSucceeds(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	f.notifier.result = &notificationDto.EmailResult{Success: false, Error: "not configured", Code: appErrors.ErrServiceUnavailable}

	resp, appErr := f.svc.Submit(context.Background(), scenarioRequest(), dto.RequestMeta{})
	is.True(appErr == nil)
	is.True(resp.Success)
	is.True(!resp.EmailSent)
	is.Equal(resp.EmailMessageID, "")
}

func TestSubmitWithNilNotifier(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	svc := NewWaiverService(f.repo, f.pipeline, nil, nil, nil, Options{Now: func() time.Time { return fixedNow }})

	resp, appErr := svc.Submit(context.Background(), scenarioRequest(), dto.RequestMeta{})
	is.True(appErr == nil)
	is.True(!resp.EmailSent)
	is.Equal(f.repo.created[0].WaiverVersion, "1.0")
}

func TestSubmitPersistenceFailureRemovesDocument(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	f.repo.createErr = errors.New("connection reset")

	resp, appErr := f.svc.Submit(context.Background(), scenarioRequest(), dto.RequestMeta{})
	is.True(resp == nil)
	is.Equal(appErr.Code, appErrors.ErrPersistence)
	is.Equal(f.pipeline.removed, []string{"waivers/doc.pdf"})
	is.Equal(len(f.tasks.types), 0)
	is.Equal(len(f.notifier.sent), 0)
}

func TestSubmitPersistenceFailureQueuesCleanupWhenRemoveFails(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	f.repo.createErr = errors.New("connection reset")
	f.pipeline.removeErr = errors.New("storage unavailable")

	_, appErr := f.svc.Submit(context.Background(), scenarioRequest(), dto.RequestMeta{})
	is.Equal(appErr.Code, appErrors.ErrPersistence)
	is.Equal(f.tasks.types, []string{"waiver:document:cleanup"})
	is.Equal(f.tasks.payloads[0], dto.CleanupPayload{Path: "waivers/doc.pdf"})
}

func TestGetAndDocumentURL(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	path := "waivers/doc.pdf"
	id := uuid.New()
	f.repo.byID = map[uuid.UUID]*entity.Waiver{
		id: {ID: id, FirstName: "John", LastName: "Doe", PDFPath: &path},
	}

	got, appErr := f.svc.Get(context.Background(), id.String())
	is.True(appErr == nil)
	is.Equal(got.FirstName, "John")

	_, appErr = f.svc.Get(context.Background(), uuid.NewString())
	is.Equal(appErr.Code, appErrors.ErrNotFound)

	_, appErr = f.svc.Get(context.Background(), "not-a-uuid")
	is.Equal(appErr.Code, appErrors.ErrInvalidInput)

	url, appErr := f.svc.DocumentURL(context.Background(), id.String(), 30*24*time.Hour)
	is.True(appErr == nil)
	is.Equal(url.URL, "https://signed.example.com/waivers/doc.pdf")
	is.Equal(f.pipeline.signedFor, 7*24*time.Hour)
	is.Equal(url.ExpiresAt, fixedNow.Add(7*24*time.Hour))
}

func TestLoadWaiverConfirmationUsesStoredRecord(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	path := "waivers/doc.pdf"
	id := uuid.New()
	signedAt := fixedNow.Add(-time.Hour)
	f.repo.byID = map[uuid.UUID]*entity.Waiver{
		id: {ID: id, FirstName: "John", LastName: "Doe", Email: "john@example.com", SignedAt: signedAt, PDFPath: &path},
	}

	conf, appErr := f.svc.LoadWaiverConfirmation(context.Background(), id.String())
	is.True(appErr == nil)
	is.Equal(conf.FullName, "John Doe")
	is.Equal(conf.Email, "john@example.com")
	is.Equal(conf.WaiverID, id.String())
	is.Equal(conf.SignedAt, signedAt)
	is.Equal(conf.PDFURL, "https://signed.example.com/waivers/doc.pdf")
	is.Equal(f.pipeline.signedFor, 24*time.Hour)

	_, appErr = f.svc.LoadWaiverConfirmation(context.Background(), uuid.NewString())
	is.Equal(appErr.Code, appErrors.ErrNotFound)
}

func TestLoadWaiverConfirmationWithoutDocument(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	id := uuid.New()
	f.repo.byID = map[uuid.UUID]*entity.Waiver{
		id: {ID: id, FirstName: "John", LastName: "Doe", Email: "john@example.com"},
	}

	conf, appErr := f.svc.LoadWaiverConfirmation(context.Background(), id.String())
	is.True(appErr == nil)
	is.Equal(conf.PDFURL, "")
}

func TestCleanupDocument(t *testing.T) {
	is := is.New(t)
	f := newFixture()

	is.NoErr(f.svc.CleanupDocument(context.Background(), "waivers/doc.pdf"))
	is.Equal(f.pipeline.removed, []string{"waivers/doc.pdf"})

	f.pipeline.removeErr = errors.New("still down")
	is.True(f.svc.CleanupDocument(context.Background(), "waivers/doc.pdf") != nil)
}

func TestCleanupHandler(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	handler := NewCleanupHandler(f.svc)

	err := handler(context.Background(), asynq.NewTask("waiver:document:cleanup", []byte(`{"path":"waivers/doc.pdf"}`)))
	is.NoErr(err)
	is.Equal(f.pipeline.removed, []string{"waivers/doc.pdf"})

	err = handler(context.Background(), asynq.NewTask("waiver:document:cleanup", []byte(`{`)))
	is.True(errors.Is(err, asynq.SkipRetry))
}
