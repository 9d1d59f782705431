package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	coreController "conference-badge-api/core/controller"
	appErrors "conference-badge-api/core/errors"
	notificationDto "conference-badge-api/modules/notification/dto"
	"conference-badge-api/modules/waiver/dto"

	"github.com/labstack/echo/v4"
	"github.com/matryer/is"
)

type fakeWaiverService struct {
	submit    func(req dto.SubmitWaiverRequest, meta dto.RequestMeta) (*dto.SubmitWaiverResponse, *appErrors.AppError)
	calls     int
	expiresIn time.Duration
}

func (f *fakeWaiverService) Submit(_ context.Context, req dto.SubmitWaiverRequest, meta dto.RequestMeta) (*dto.SubmitWaiverResponse, *appErrors.AppError) {
	f.calls++
	return f.submit(req, meta)
}

func (f *fakeWaiverService) Get(_ context.Context, id string) (*dto.WaiverResponse, *appErrors.AppError) {
	if id != "11111111-1111-1111-1111-111111111111" {
		return nil, appErrors.NewAppError(appErrors.ErrNotFound, "waiver not found", nil)
	}
	return &dto.WaiverResponse{ID: id, FirstName: "John"}, nil
}

func (f *fakeWaiverService) DocumentURL(_ context.Context, id string, expiresIn time.Duration) (*dto.DocumentURLResponse, *appErrors.AppError) {
	f.expiresIn = expiresIn
	return &dto.DocumentURLResponse{URL: "https://signed.example.com/" + id}, nil
}

func (f *fakeWaiverService) CleanupDocument(context.Context, string) error { return nil }
func (f *fakeWaiverService) LoadWaiverConfirmation(context.Context, string) (*notificationDto.WaiverConfirmation, *appErrors.AppError) {
	return nil, appErrors.NewAppError(appErrors.ErrNotFound, "waiver not found", nil)
}

func serve(method, path, target, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = coreController.HTTPErrorHandler
	e.Add(method, path, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "waiver-test")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const scenarioBody = `{
	"fullName": "John Doe",
	"email": "john@example.com",
	"dateOfBirth": "1990-01-01",
	"emergencyContact": "Jane Doe",
	"emergencyPhone": "+1234567890",
	"signatureImage": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
}`

func TestSubmitScenario(t *testing.T) {
	is := is.New(t)
	svc := &fakeWaiverService{submit: func(req dto.SubmitWaiverRequest, meta dto.RequestMeta) (*dto.SubmitWaiverResponse, *appErrors.AppError) {
		is.Equal(req.FullName, "John Doe")
		is.Equal(meta.UserAgent, "waiver-test")
		return &dto.SubmitWaiverResponse{
			Success:  true,
			PDFURL:   "https://cdn.example.com/doc.pdf",
			WaiverID: "11111111-1111-1111-1111-111111111111",
		}, nil
	}}

	rec := serve(http.MethodPost, "/waiver-pdf", "/waiver-pdf", scenarioBody, NewWaiverController(svc).Submit)
	is.Equal(rec.Code, http.StatusCreated)

	var body struct {
		Data dto.SubmitWaiverResponse `json:"data"`
	}
	is.NoErr(json.Unmarshal(rec.Body.Bytes(), &body))
	is.True(body.Data.Success)
	is.Equal(body.Data.PDFURL, "https://cdn.example.com/doc.pdf")
	is.True(!body.Data.EmailSent)
}

func TestSubmitMissingFieldsIs400(t *testing.T) {
	is := is.New(t)
	svc := &fakeWaiverService{}

	rec := serve(http.MethodPost, "/waiver-pdf", "/waiver-pdf", `{"fullName":"John Doe"}`, NewWaiverController(svc).Submit)
	is.Equal(rec.Code, http.StatusBadRequest)
	is.Equal(svc.calls, 0)

	var body coreController.ErrorResponse
	is.NoErr(json.Unmarshal(rec.Body.Bytes(), &body))
	is.Equal(body.Code, appErrors.ErrInvalidRequestData)
}

func TestSubmitPipelineFailureIs500(t *testing.T) {
	is := is.New(t)
	svc := &fakeWaiverService{submit: func(dto.SubmitWaiverRequest, dto.RequestMeta) (*dto.SubmitWaiverResponse, *appErrors.AppError) {
		return nil, appErrors.NewAppError(appErrors.ErrPDFGeneration, "failed to render waiver document", nil)
	}}

	rec := serve(http.MethodPost, "/waiver-pdf", "/waiver-pdf", scenarioBody, NewWaiverController(svc).Submit)
	is.Equal(rec.Code, http.StatusInternalServerError)
}

func TestGetWaiver(t *testing.T) {
	is := is.New(t)
	ctrl := NewWaiverController(&fakeWaiverService{})

	rec := serve(http.MethodGet, "/waiver-pdf", "/waiver-pdf?waiverId=11111111-1111-1111-1111-111111111111", "", ctrl.Get)
	is.Equal(rec.Code, http.StatusOK)

	rec = serve(http.MethodGet, "/waiver-pdf", "/waiver-pdf?waiverId=22222222-2222-2222-2222-222222222222", "", ctrl.Get)
	is.Equal(rec.Code, http.StatusNotFound)

	rec = serve(http.MethodGet, "/waiver-pdf", "/waiver-pdf", "", ctrl.Get)
	is.Equal(rec.Code, http.StatusBadRequest)
}

func TestDocumentURLExpiresIn(t *testing.T) {
	is := is.New(t)
	svc := &fakeWaiverService{}
	ctrl := NewWaiverController(svc)

	rec := serve(http.MethodGet, "/waivers/:id/document-url", "/waivers/abc/document-url?expiresIn=600", "", ctrl.DocumentURL)
	is.Equal(rec.Code, http.StatusOK)
	is.Equal(svc.expiresIn, 10*time.Minute)

	rec = serve(http.MethodGet, "/waivers/:id/document-url", "/waivers/abc/document-url?expiresIn=-5", "", ctrl.DocumentURL)
	is.Equal(rec.Code, http.StatusBadRequest)
}
