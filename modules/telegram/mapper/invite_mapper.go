package mapper

import (
	"conference-badge-api/modules/telegram/dto"
	"conference-badge-api/modules/telegram/entity"
	"conference-badge-api/modules/telegram/gateway"
)

func ToInviteResponse(invite *entity.TelegramInvite) *dto.InviteResponse {
	if invite == nil {
		return nil
	}
	return &dto.InviteResponse{
		InviteLink: invite.InviteLink,
		ExpiresAt:  invite.ExpiresAt,
		CreatedAt:  invite.CreatedAt,
	}
}

func ToChatStatus(info *gateway.ChatInfo) *dto.ChatStatus {
	if info == nil {
		return nil
	}
	return &dto.ChatStatus{
		ID:       info.ID,
		Type:     info.Type,
		Title:    info.Title,
		Username: info.Username,
	}
}
