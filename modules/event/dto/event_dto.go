package dto

import (
	"time"

	"github.com/google/uuid"
)

// EventResponse is the public view of an event; the bot credential never leaves the server.
type EventResponse struct {
	ID                uuid.UUID  `json:"id"`
	Slug              string     `json:"slug"`
	Name              string     `json:"name"`
	TelegramEnabled   bool       `json:"telegramEnabled"`
	PublicChannelURL  string     `json:"publicChannelUrl,omitempty"`
	EventInviteLink   string     `json:"eventInviteLink,omitempty"`
	EventInviteExpiry *time.Time `json:"eventInviteExpiresAt,omitempty"`
}
