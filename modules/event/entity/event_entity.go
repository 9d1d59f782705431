package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var chatIDPattern = regexp.MustCompile(`^(-?\d+|@[A-Za-z][A-Za-z0-9_]{3,})$`)

// TelegramConfig is the typed form of events.telegram_config.
type TelegramConfig struct {
	Enabled             bool       `json:"enabled"`
	BotToken            string     `json:"bot_token,omitempty"`
	PrivateGroupID      string     `json:"private_group_id,omitempty"`
	PublicChannelURL    string     `json:"public_channel_url,omitempty"`
	InviteLink          string     `json:"invite_link,omitempty"`
	InviteLinkExpiresAt *time.Time `json:"invite_link_expires_at,omitempty"`
	InviteLinkCreatedAt *time.Time `json:"invite_link_created_at,omitempty"`
}

func (t TelegramConfig) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TelegramConfig) Scan(value any) error {
	if value == nil {
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
	return json.Unmarshal(b, t)
}

// Validate checks the shape of an enabled config. A disabled config is always valid.
func (t *TelegramConfig) Validate() error {
	if t == nil || !t.Enabled {
		return nil
	}
	if t.PrivateGroupID != "" && !chatIDPattern.MatchString(t.PrivateGroupID) {
		return fmt.Errorf("private_group_id %q is not a chat id or @username", t.PrivateGroupID)
	}
	for field, raw := range map[string]string{"public_channel_url": t.PublicChannelURL, "invite_link": t.InviteLink} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http" && u.Scheme != "tg") {
			return fmt.Errorf("%s %q is not a valid link", field, raw)
		}
	}
	if t.BotToken != "" && !strings.Contains(t.BotToken, ":") {
		return errors.New("bot_token is malformed")
	}
	return nil
}

type Event struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Slug           string          `db:"slug" json:"slug"`
	Name           string          `db:"name" json:"name"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	TemplateID     *string         `db:"template_id" json:"template_id,omitempty"`
	TelegramConfig *TelegramConfig `db:"telegram_config" json:"telegram_config,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// TelegramEnabled reports whether per-session invites can be issued for the event.
func (e *Event) TelegramEnabled() bool {
	return e != nil && e.TelegramConfig != nil && e.TelegramConfig.Enabled && e.TelegramConfig.PrivateGroupID != ""
}

func (e *Event) Template() string {
	if e == nil || e.TemplateID == nil {
		return ""
	}
	return *e.TemplateID
}
