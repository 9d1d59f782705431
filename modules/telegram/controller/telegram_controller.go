package controller

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/controller"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/telegram/dto"
	"conference-badge-api/modules/telegram/mapper"
	"conference-badge-api/modules/telegram/service"

	"github.com/labstack/echo/v4"
)

type TelegramController struct {
	controller.BaseController
	service       service.InviteService
	webhookSecret string
}

func NewTelegramController(service service.InviteService, webhookSecret string) *TelegramController {
	return &TelegramController{
		BaseController: controller.NewBaseController(),
		service:        service,
		webhookSecret:  webhookSecret,
	}
}

func (c *TelegramController) GenerateInvite(ctx echo.Context) error {
	var req dto.GenerateInviteRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	if strings.TrimSpace(req.EventSlug) == "" || strings.TrimSpace(req.SessionID) == "" {
		return c.BadRequest(errors.ErrInvalidInput, "eventSlug and sessionId are required")
	}

	invite, appErr := c.service.GeneratePrivateInvite(ctx.Request().Context(), req.EventSlug, req.SessionID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.GenerateInviteResponse{Invite: mapper.ToInviteResponse(invite)}, "Invite generated")
}

func (c *TelegramController) Availability(ctx echo.Context) error {
	available := c.service.IsAvailable(ctx.Request().Context(), ctx.QueryParam("eventSlug"))
	return c.SuccessResponse(ctx, dto.AvailabilityResponse{Available: available}, "")
}

func (c *TelegramController) GroupInfo(ctx echo.Context) error {
	eventSlug := ctx.QueryParam("eventSlug")
	if eventSlug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "eventSlug is required")
	}
	info, appErr := c.service.GetGroupInfo(ctx.Request().Context(), eventSlug, ctx.QueryParam("sessionId"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, info, "Group info retrieved")
}

func (c *TelegramController) EventInvite(ctx echo.Context) error {
	eventSlug := ctx.QueryParam("eventSlug")
	if eventSlug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "eventSlug is required")
	}
	invite, appErr := c.service.GetEventInviteWithMetadata(ctx.Request().Context(), eventSlug)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, invite, "Event invite retrieved")
}

func (c *TelegramController) Status(ctx echo.Context) error {
	status, appErr := c.service.Status(ctx.Request().Context(), ctx.QueryParam("eventSlug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, status, "Telegram status")
}

// Webhook records invite consumption from chat_member updates. Other updates are acknowledged and ignored.
// Without a configured secret every update is refused.
func (c *TelegramController) Webhook(ctx echo.Context) error {
	if c.webhookSecret == "" {
		logger.Warn("TelegramController:Webhook:SecretNotConfigured")
		return c.ServiceUnavailable(errors.ErrServiceUnavailable, "telegram webhook is not configured")
	}
	got := ctx.Request().Header.Get(constants.WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(c.webhookSecret)) != 1 {
		return c.Unauthorized(errors.ErrUnauthorized, "invalid webhook secret")
	}

	var update dto.WebhookUpdate
	if err := ctx.Bind(&update); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid update payload")
	}

	if update.ChatMember.Joined() {
		link := update.ChatMember.InviteLink.InviteLink
		updated, appErr := c.service.MarkInviteUsed(ctx.Request().Context(), link)
		if appErr != nil {
			// Acknowledge anyway; the Bot API would otherwise redeliver indefinitely.
			logger.Error("TelegramController:Webhook:MarkUsedFailed", "update_id", update.UpdateID, "error", appErr)
		} else {
			logger.Info("TelegramController:Webhook:InviteConsumed", "update_id", update.UpdateID, "chat_id", update.ChatMember.Chat.ID, "updated", updated)
		}
	}
	return ctx.NoContent(http.StatusOK)
}
