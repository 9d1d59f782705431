package dto

import (
	"encoding/json"
	"time"

	"conference-badge-api/core/errors"
)

const (
	EmailTypeWaiverConfirmation = "waiver-confirmation"
	EmailTypeGeneric            = "generic"
	EmailTypeBadgeConfirmation  = "badge-confirmation"
)

// EmailResult is returned by every dispatch; failures are reported, never raised.
type EmailResult struct {
	Success   bool             `json:"success"`
	MessageID string           `json:"messageId,omitempty"`
	Error     string           `json:"error,omitempty"`
	Code      errors.ErrorCode `json:"-"`
}

type Attachment struct {
	Content  string `json:"content"` // base64
	Filename string `json:"filename"`
	Type     string `json:"type"`
}

type GenericEmail struct {
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Text        string       `json:"text"`
	ReplyTo     string       `json:"replyTo,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type WaiverConfirmation struct {
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	WaiverID string    `json:"waiverId"`
	PDFURL   string    `json:"pdfUrl"`
	SignedAt time.Time `json:"signedAt"`
}

type SocialHandle struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

type BadgeConfirmation struct {
	BadgeID            string         `json:"badgeId"`
	BadgeName          string         `json:"badgeName"`
	Email              string         `json:"email"`
	EventName          string         `json:"eventName"`
	EventSlug          string         `json:"eventSlug"`
	TemplateID         string         `json:"templateId,omitempty"`
	ImageURL           string         `json:"imageUrl,omitempty"`
	SocialMediaHandles []SocialHandle `json:"socialMediaHandles,omitempty"`
	TelegramInviteLink string         `json:"telegramInviteLink,omitempty"`
}

type SendEmailRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type WaiverEmailRequest struct {
	WaiverID string `json:"waiverId"`
}

type BadgeEmailRequest struct {
	BadgeID string `json:"badgeId"`
}

type VerifyResponse struct {
	Configured bool `json:"configured"`
	Valid      bool `json:"valid"`
}
