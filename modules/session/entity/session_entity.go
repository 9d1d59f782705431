package entity

import (
	"time"

	coreEntity "conference-badge-api/core/entity"

	"github.com/google/uuid"
)

type Session struct {
	ID          string           `db:"id" json:"id"`
	SessionData coreEntity.JSONB `db:"session_data" json:"session_data"`
	ExpiresAt   time.Time        `db:"expires_at" json:"expires_at"`
	WaiverID    *uuid.UUID       `db:"waiver_id" json:"waiver_id,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
