package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"conference-badge-api/core/config"
	appErrors "conference-badge-api/core/errors"
	"conference-badge-api/modules/notification/dto"

	"github.com/matryer/is"
)

type sentMail struct {
	Subject          string `json:"subject"`
	TemplateID       string `json:"template_id"`
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
		DynamicTemplateData map[string]any `json:"dynamic_template_data"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	Attachments []struct {
		Content  string `json:"content"`
		Filename string `json:"filename"`
		Type     string `json:"type"`
	} `json:"attachments"`
}

type fakeSendGrid struct {
	mu      sync.Mutex
	sent    []sentMail
	auth    string
	status  int
	account int
}

func (f *fakeSendGrid) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/mail/send", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var m sentMail
		_ = json.Unmarshal(body, &m)
		f.mu.Lock()
		f.sent = append(f.sent, m)
		f.auth = r.Header.Get("Authorization")
		status := f.status
		f.mu.Unlock()
		if status == 0 {
			status = http.StatusAccepted
		}
		w.Header().Set("X-Message-Id", "msg-123")
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = w.Write([]byte(`{"errors":[{"message":"The from address does not match a verified Sender Identity."}]}`))
		}
	})
	mux.HandleFunc("/v3/user/account", func(w http.ResponseWriter, r *http.Request) {
		status := f.account
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"type":"paid","reputation":100}`))
	})
	mux.HandleFunc("/docs/waiver.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 signed"))
	})
	mux.HandleFunc("/docs/missing.pdf", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newService(srv *httptest.Server, key string) EmailService {
	return NewEmailService(config.EmailConfig{
		SendGridAPIKey:  key,
		Host:            srv.URL,
		FromAddress:     "badges@devconf.example",
		FromName:        "DevConf Badges",
		BadgeTemplateID: "d-default",
	}, &http.Client{Timeout: 2 * time.Second})
}

func waiverInput(pdfURL string) dto.WaiverConfirmation {
	return dto.WaiverConfirmation{
		FullName: "John Doe",
		Email:    "john@example.com",
		WaiverID: "abc-123",
		PDFURL:   pdfURL,
		SignedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestNotConfiguredNeverRaises(t *testing.T) {
	is := is.New(t)
	fake := &fakeSendGrid{}
	svc := newService(fake.server(t), "")

	res := svc.SendWaiverConfirmationEmail(context.Background(), waiverInput(""))
	is.True(!res.Success)
	is.Equal(res.Error, "not configured")
	is.Equal(res.Code, appErrors.ErrServiceUnavailable)
	is.True(!svc.VerifyEmailConfiguration(context.Background()))
	is.Equal(len(fake.sent), 0)
}

func TestWaiverConfirmationAttachesDocument(t *testing.T) {
	is := is.New(t)
	fake := &fakeSendGrid{}
	srv := fake.server(t)
	svc := newService(srv, "SG.key")

	res := svc.SendWaiverConfirmationEmail(context.Background(), waiverInput(srv.URL+"/docs/waiver.pdf"))
	is.True(res.Success)
	is.Equal(res.MessageID, "msg-123")
	is.Equal(fake.auth, "Bearer SG.key")

	is.Equal(len(fake.sent), 1)
	m := fake.sent[0]
	is.Equal(m.Personalizations[0].To[0].Email, "john@example.com")
	is.Equal(len(m.Content), 2)
	is.Equal(m.Content[0].Type, "text/plain")
	is.Equal(m.Content[1].Type, "text/html")
	is.Equal(len(m.Attachments), 1)
	is.Equal(m.Attachments[0].Filename, "waiver-abc-123.pdf")
	is.Equal(m.Attachments[0].Type, "application/pdf")

	decoded, err := base64.StdEncoding.DecodeString(m.Attachments[0].Content)
	is.NoErr(err)
	is.Equal(string(decoded), "%PDF-1.7 signed")
}

func TestWaiverConfirmationSendsWithoutAttachmentWhenDownloadFails(t *testing.T) {
	is := is.New(t)
	fake := &fakeSendGrid{}
	srv := fake.server(t)
	svc := newService(srv, "SG.key")

	res := svc.SendWaiverConfirmationEmail(context.Background(), waiverInput(srv.URL+"/docs/missing.pdf"))
	is.True(res.Success)
	is.Equal(len(fake.sent), 1)
	is.Equal(len(fake.sent[0].Attachments), 0)
}

func TestProviderRejectionIsReported(t *testing.T) {
	is := is.New(t)
	fake := &fakeSendGrid{status: http.StatusForbidden}
	svc := newService(fake.server(t), "SG.key")

	res := svc.SendWaiverConfirmationEmail(context.Background(), waiverInput(""))
	is.True(!res.Success)
	is.Equal(res.Code, appErrors.ErrNotification)
	is.True(res.Error != "")
}

func TestSendEmailValidatesEnvelope(t *testing.T) {
	is := is.New(t)
	fake := &fakeSendGrid{}
	svc := newService(fake.server(t), "SG.key")

	res := svc.SendEmail(context.Background(), dto.GenericEmail{Subject: "Hi", Text: "x"})
	is.Equal(res.Code, appErrors.ErrInvalidInput)

	res = svc.SendEmail(context.Background(), dto.GenericEmail{To: []string{"a@example.com"}, Subject: "Hi", HTML: "<p>Hello</p>"})
	is.True(res.Success)
	is.Equal(fake.sent[0].Subject, "Hi")
}

func TestBadgeConfirmationUsesTemplate(t *testing.T) {
	is := is.New(t)
	fake := &fakeSendGrid{}
	svc := newService(fake.server(t), "SG.key")

	res := svc.SendBadgeConfirmationEmail(context.Background(), dto.BadgeConfirmation{
		BadgeID:   "b-1",
		BadgeName: "Johnny",
		Email:     "john@example.com",
		EventName: "DevConf",
		EventSlug: "devconf",
	})
	is.True(res.Success)
	m := fake.sent[0]
	is.Equal(m.TemplateID, "d-default")
	is.Equal(len(m.Content), 0)
	is.Equal(m.Personalizations[0].DynamicTemplateData["badgeName"], "Johnny")

	res = svc.SendBadgeConfirmationEmail(context.Background(), dto.BadgeConfirmation{BadgeID: "b-2", Email: "x@example.com", TemplateID: "d-event"})
	is.True(res.Success)
	is.Equal(fake.sent[1].TemplateID, "d-event")
}

func TestVerifyEmailConfiguration(t *testing.T) {
	is := is.New(t)

	ok := &fakeSendGrid{}
	is.True(newService(ok.server(t), "SG.key").VerifyEmailConfiguration(context.Background()))

	bad := &fakeSendGrid{account: http.StatusUnauthorized}
	is.True(!newService(bad.server(t), "SG.bad").VerifyEmailConfiguration(context.Background()))
}
