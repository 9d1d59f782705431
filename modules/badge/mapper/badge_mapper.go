package mapper

import (
	"conference-badge-api/modules/badge/dto"
	"conference-badge-api/modules/badge/entity"
	notificationDto "conference-badge-api/modules/notification/dto"
)

func ToBadgeResponse(b *entity.Badge) *dto.BadgeResponse {
	if b == nil {
		return nil
	}
	resp := &dto.BadgeResponse{
		ID:                 b.ID.String(),
		EventID:            b.EventID.String(),
		SessionID:          b.SessionID,
		BadgeName:          b.BadgeName,
		Email:              b.Email,
		SocialMediaHandles: make([]dto.SocialHandle, 0, len(b.SocialMediaHandles)),
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
	}
	if b.WaiverID != nil {
		resp.WaiverID = b.WaiverID.String()
	}
	if b.OriginalImageURL != nil {
		resp.OriginalImageURL = *b.OriginalImageURL
	}
	if b.CroppedImageURL != nil {
		resp.CroppedImageURL = *b.CroppedImageURL
	}
	for _, h := range b.SocialMediaHandles {
		resp.SocialMediaHandles = append(resp.SocialMediaHandles, dto.SocialHandle{Platform: h.Platform, Handle: h.Handle})
	}
	return resp
}

// ToBadgeConfirmation builds the email template context for a stored badge.
func ToBadgeConfirmation(b *entity.BadgeWithEvent, inviteLink string) *notificationDto.BadgeConfirmation {
	out := &notificationDto.BadgeConfirmation{
		BadgeID:            b.ID.String(),
		BadgeName:          b.BadgeName,
		Email:              b.Email,
		EventName:          b.EventName,
		EventSlug:          b.EventSlug,
		ImageURL:           b.ImageURL(),
		TelegramInviteLink: inviteLink,
	}
	if b.EventTemplateID != nil {
		out.TemplateID = *b.EventTemplateID
	}
	for _, h := range b.SocialMediaHandles {
		out.SocialMediaHandles = append(out.SocialMediaHandles, notificationDto.SocialHandle{Platform: h.Platform, Handle: h.Handle})
	}
	return out
}
