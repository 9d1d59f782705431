package mapper

import (
	"time"

	"conference-badge-api/modules/event/dto"
	"conference-badge-api/modules/event/entity"
)

func ToEventResponse(event *entity.Event, now time.Time) *dto.EventResponse {
	if event == nil {
		return nil
	}
	resp := &dto.EventResponse{
		ID:              event.ID,
		Slug:            event.Slug,
		Name:            event.Name,
		TelegramEnabled: event.TelegramEnabled(),
	}
	if cfg := event.TelegramConfig; cfg != nil && cfg.Enabled {
		resp.PublicChannelURL = cfg.PublicChannelURL
		if cfg.InviteLink != "" && (cfg.InviteLinkExpiresAt == nil || cfg.InviteLinkExpiresAt.After(now)) {
			resp.EventInviteLink = cfg.InviteLink
			resp.EventInviteExpiry = cfg.InviteLinkExpiresAt
		}
	}
	return resp
}
