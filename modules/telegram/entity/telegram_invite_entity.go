package entity

import (
	"time"

	"github.com/google/uuid"
)

type TelegramInvite struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	EventID    uuid.UUID  `db:"event_id" json:"event_id"`
	SessionID  string     `db:"session_id" json:"session_id"`
	InviteLink string     `db:"invite_link" json:"invite_link"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	UsedAt     *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// IsReusable reports whether the invite is unused and strictly unexpired at now.
func (i *TelegramInvite) IsReusable(now time.Time) bool {
	return i != nil && i.UsedAt == nil && i.ExpiresAt.After(now)
}
