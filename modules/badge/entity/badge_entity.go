package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	coreEntity "conference-badge-api/core/entity"

	"github.com/google/uuid"
)

type SocialMediaHandle struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

// SocialMediaHandles is stored as a jsonb array.
type SocialMediaHandles []SocialMediaHandle

func (h SocialMediaHandles) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

func (h *SocialMediaHandles) Scan(value any) error {
	if value == nil {
		*h = SocialMediaHandles{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, h)
}

type Badge struct {
	coreEntity.BaseEntity
	EventID            uuid.UUID          `db:"event_id" json:"event_id"`
	SessionID          string             `db:"session_id" json:"session_id"`
	WaiverID           *uuid.UUID         `db:"waiver_id" json:"waiver_id,omitempty"`
	BadgeName          string             `db:"badge_name" json:"badge_name"`
	Email              string             `db:"email" json:"email"`
	SocialMediaHandles SocialMediaHandles `db:"social_media_handles" json:"social_media_handles"`
	OriginalImageURL   *string            `db:"original_image_url" json:"original_image_url,omitempty"`
	CroppedImageURL    *string            `db:"cropped_image_url" json:"cropped_image_url,omitempty"`
	Status             string             `db:"status" json:"status"`
}

// BadgeWithEvent is a badge joined with the event fields the confirmation email needs.
type BadgeWithEvent struct {
	Badge
	EventSlug       string  `db:"event_slug"`
	EventName       string  `db:"event_name"`
	EventTemplateID *string `db:"event_template_id"`
}

// ImageURL prefers the cropped image.
func (b *Badge) ImageURL() string {
	switch {
	case b.CroppedImageURL != nil && *b.CroppedImageURL != "":
		return *b.CroppedImageURL
	case b.OriginalImageURL != nil:
		return *b.OriginalImageURL
	}
	return ""
}
