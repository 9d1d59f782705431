package dto

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type GenerateInviteRequest struct {
	EventSlug string `json:"eventSlug"`
	SessionID string `json:"sessionId"`
}

type InviteResponse struct {
	InviteLink string    `json:"inviteLink"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

type GenerateInviteResponse struct {
	Invite *InviteResponse `json:"invite"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type GroupInfo struct {
	PublicChannelURL string          `json:"publicChannelUrl,omitempty"`
	HasPrivateGroup  bool            `json:"hasPrivateGroup"`
	ExistingInvite   *InviteResponse `json:"existingInvite,omitempty"`
}

type EventInvite struct {
	InviteLink string     `json:"inviteLink"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

type ChatStatus struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

type StatusResponse struct {
	EventSlug string      `json:"eventSlug,omitempty"`
	Enabled   bool        `json:"enabled"`
	Connected bool        `json:"connected"`
	Chat      *ChatStatus `json:"chat,omitempty"`
	ChatError string      `json:"chatError,omitempty"`
}

// WebhookUpdate is the subset of a Bot API update the webhook consumes.
type WebhookUpdate struct {
	UpdateID   int               `json:"update_id"`
	ChatMember *ChatMemberUpdate `json:"chat_member,omitempty"`
}

type ChatMemberUpdate struct {
	Chat          tgbotapi.Chat   `json:"chat"`
	From          tgbotapi.User   `json:"from"`
	Date          int64           `json:"date"`
	NewChatMember ChatMember      `json:"new_chat_member"`
	InviteLink    *ChatInviteLink `json:"invite_link,omitempty"`
}

type ChatMember struct {
	User   tgbotapi.User `json:"user"`
	Status string        `json:"status"`
}

type ChatInviteLink struct {
	InviteLink string `json:"invite_link"`
	Name       string `json:"name,omitempty"`
}

// Joined reports whether the update is a member entering the chat through an invite link.
func (u *ChatMemberUpdate) Joined() bool {
	if u == nil || u.InviteLink == nil || u.InviteLink.InviteLink == "" {
		return false
	}
	switch u.NewChatMember.Status {
	case "member", "administrator", "restricted":
		return true
	}
	return false
}
