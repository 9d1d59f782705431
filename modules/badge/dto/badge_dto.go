package dto

import "time"

type SocialHandle struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

type CreateBadgeRequest struct {
	EventSlug          string         `json:"eventSlug"`
	SessionID          string         `json:"sessionId"`
	WaiverID           string         `json:"waiverId"`
	BadgeName          string         `json:"badgeName"`
	Email              string         `json:"email"`
	SocialMediaHandles []SocialHandle `json:"socialMediaHandles"`
	OriginalImage      string         `json:"originalImage"`
	CroppedImage       string         `json:"croppedImage"`
}

type BadgeResponse struct {
	ID                 string         `json:"id"`
	EventID            string         `json:"eventId"`
	SessionID          string         `json:"sessionId"`
	WaiverID           string         `json:"waiverId,omitempty"`
	BadgeName          string         `json:"badgeName"`
	Email              string         `json:"email"`
	SocialMediaHandles []SocialHandle `json:"socialMediaHandles"`
	OriginalImageURL   string         `json:"originalImageUrl,omitempty"`
	CroppedImageURL    string         `json:"croppedImageUrl,omitempty"`
	Status             string         `json:"status"`
	CreatedAt          time.Time      `json:"createdAt"`
}

type TelegramInvite struct {
	InviteLink string    `json:"inviteLink"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type CreateBadgeResponse struct {
	Badge          *BadgeResponse  `json:"badge"`
	SessionID      string          `json:"sessionId"`
	TelegramInvite *TelegramInvite `json:"telegramInvite"`
	EmailSent      bool            `json:"emailSent"`
}
