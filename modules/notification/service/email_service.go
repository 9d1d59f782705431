package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"conference-badge-api/core/config"
	"conference-badge-api/core/constants"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/notification/content"
	"conference-badge-api/modules/notification/dto"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	mailSendEndpoint = "/v3/mail/send"
	accountEndpoint  = "/v3/user/account"
	notConfigured    = "not configured"
)

type EmailService interface {
	IsConfigured() bool
	SendEmail(ctx context.Context, email dto.GenericEmail) *dto.EmailResult
	SendWaiverConfirmationEmail(ctx context.Context, in dto.WaiverConfirmation) *dto.EmailResult
	SendBadgeConfirmationEmail(ctx context.Context, in dto.BadgeConfirmation) *dto.EmailResult
	VerifyEmailConfiguration(ctx context.Context) bool
}

type emailService struct {
	cfg        config.EmailConfig
	rest       *rest.Client
	downloader *http.Client
}

// NewEmailService builds the SendGrid dispatcher. httpClient may be nil.
func NewEmailService(cfg config.EmailConfig, httpClient *http.Client) EmailService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.AttachmentDownloadTimeout}
	}
	return &emailService{
		cfg:        cfg,
		rest:       &rest.Client{HTTPClient: httpClient},
		downloader: httpClient,
	}
}

func (s *emailService) IsConfigured() bool {
	return s.cfg.SendGridAPIKey != "" && s.cfg.FromAddress != ""
}

func failure(code errors.ErrorCode, msg string) *dto.EmailResult {
	return &dto.EmailResult{Success: false, Error: msg, Code: code}
}

func (s *emailService) request(method rest.Method, endpoint string) rest.Request {
	req := sendgrid.GetRequest(s.cfg.SendGridAPIKey, endpoint, s.cfg.Host)
	req.Method = method
	return req
}

func (s *emailService) send(ctx context.Context, m *mail.SGMailV3, kind string) *dto.EmailResult {
	req := s.request(rest.Post, mailSendEndpoint)
	req.Body = mail.GetRequestBody(m)

	resp, err := s.rest.SendWithContext(ctx, req)
	if err != nil {
		logger.Error("EmailService:send:TransportError", "kind", kind, "error", err)
		return failure(errors.ErrNotification, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("EmailService:send:ProviderRejected", "kind", kind, "status", resp.StatusCode, "body", resp.Body)
		return failure(errors.ErrNotification, fmt.Sprintf("email provider returned %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body)))
	}

	messageID := ""
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	logger.Info("EmailService:send:Success", "kind", kind, "message_id", messageID)
	return &dto.EmailResult{Success: true, MessageID: messageID}
}

func (s *emailService) from() *mail.Email {
	return mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
}

func (s *emailService) SendEmail(ctx context.Context, email dto.GenericEmail) *dto.EmailResult {
	if !s.IsConfigured() {
		return failure(errors.ErrServiceUnavailable, notConfigured)
	}
	if len(email.To) == 0 || strings.TrimSpace(email.Subject) == "" {
		return failure(errors.ErrInvalidInput, "recipient and subject are required")
	}
	if email.HTML == "" && email.Text == "" {
		return failure(errors.ErrInvalidInput, "html or text body is required")
	}

	m := mail.NewV3Mail()
	m.SetFrom(s.from())
	m.Subject = email.Subject
	p := mail.NewPersonalization()
	for _, to := range email.To {
		p.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(p)
	if email.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", email.ReplyTo))
	}
	// SendGrid requires text/plain before text/html.
	if email.Text != "" {
		m.AddContent(mail.NewContent("text/plain", email.Text))
	}
	if email.HTML != "" {
		m.AddContent(mail.NewContent("text/html", email.HTML))
	}
	for _, a := range email.Attachments {
		m.AddAttachment(mail.NewAttachment().
			SetContent(a.Content).
			SetType(a.Type).
			SetFilename(a.Filename).
			SetDisposition("attachment"))
	}
	return s.send(ctx, m, dto.EmailTypeGeneric)
}

func (s *emailService) SendWaiverConfirmationEmail(ctx context.Context, in dto.WaiverConfirmation) *dto.EmailResult {
	if !s.IsConfigured() {
		logger.Info("EmailService:SendWaiverConfirmationEmail:NotConfigured", "waiver_id", in.WaiverID)
		return failure(errors.ErrServiceUnavailable, notConfigured)
	}

	var attachment *mail.Attachment
	if in.PDFURL != "" {
		pdf, err := s.download(ctx, in.PDFURL)
		if err != nil {
			logger.Warn("EmailService:SendWaiverConfirmationEmail:AttachmentSkipped", "waiver_id", in.WaiverID, "error", err)
		} else {
			attachment = mail.NewAttachment().
				SetContent(base64.StdEncoding.EncodeToString(pdf)).
				SetType(constants.DocumentContentType).
				SetFilename(fmt.Sprintf("waiver-%s.pdf", in.WaiverID)).
				SetDisposition("attachment")
		}
	}

	body := content.NewWaiverEmail(in, attachment != nil)
	html, text, err := body.Render()
	if err != nil {
		return failure(errors.ErrNotification, "failed to compose email")
	}

	m := mail.NewV3Mail()
	m.SetFrom(s.from())
	m.Subject = body.Subject
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(in.FullName, in.Email))
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", text), mail.NewContent("text/html", html))
	if attachment != nil {
		m.AddAttachment(attachment)
	}
	m.SetCustomArg("waiver_id", in.WaiverID)

	return s.send(ctx, m, dto.EmailTypeWaiverConfirmation)
}

func (s *emailService) SendBadgeConfirmationEmail(ctx context.Context, in dto.BadgeConfirmation) *dto.EmailResult {
	if !s.IsConfigured() {
		return failure(errors.ErrServiceUnavailable, notConfigured)
	}
	templateID := in.TemplateID
	if templateID == "" {
		templateID = s.cfg.BadgeTemplateID
	}
	if templateID == "" {
		logger.Warn("EmailService:SendBadgeConfirmationEmail:NoTemplate", "badge_id", in.BadgeID)
		return failure(errors.ErrServiceUnavailable, "badge email template not configured")
	}

	m := mail.NewV3Mail()
	m.SetFrom(s.from())
	m.SetTemplateID(templateID)
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(in.BadgeName, in.Email))
	p.SetDynamicTemplateData("badgeId", in.BadgeID)
	p.SetDynamicTemplateData("badgeName", in.BadgeName)
	p.SetDynamicTemplateData("eventName", in.EventName)
	p.SetDynamicTemplateData("eventSlug", in.EventSlug)
	p.SetDynamicTemplateData("imageUrl", in.ImageURL)
	p.SetDynamicTemplateData("socialMediaHandles", in.SocialMediaHandles)
	p.SetDynamicTemplateData("telegramInviteLink", in.TelegramInviteLink)
	m.AddPersonalizations(p)
	m.SetCustomArg("badge_id", in.BadgeID)

	return s.send(ctx, m, dto.EmailTypeBadgeConfirmation)
}

func (s *emailService) VerifyEmailConfiguration(ctx context.Context) bool {
	if !s.IsConfigured() {
		return false
	}
	resp, err := s.rest.SendWithContext(ctx, s.request(rest.Get, accountEndpoint))
	if err != nil {
		logger.Warn("EmailService:VerifyEmailConfiguration:Error", "error", err)
		return false
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn("EmailService:VerifyEmailConfiguration:Rejected", "status", resp.StatusCode)
		return false
	}
	return true
}

func (s *emailService) download(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.AttachmentDownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.downloader.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxAttachmentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > constants.MaxAttachmentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", constants.MaxAttachmentBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	return data, nil
}
