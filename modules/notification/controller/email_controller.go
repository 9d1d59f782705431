package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"conference-badge-api/core/controller"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/middleware"
	"conference-badge-api/core/validator"
	"conference-badge-api/modules/notification/dto"
	"conference-badge-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// BadgeLoader assembles the template context for a stored badge.
type BadgeLoader interface {
	LoadBadgeConfirmation(ctx context.Context, badgeID string) (*dto.BadgeConfirmation, *errors.AppError)
}

// WaiverLoader assembles the template context for a stored waiver.
type WaiverLoader interface {
	LoadWaiverConfirmation(ctx context.Context, waiverID string) (*dto.WaiverConfirmation, *errors.AppError)
}

type EmailController struct {
	controller.BaseController
	service service.EmailService
	badges  BadgeLoader
	waivers WaiverLoader
}

func NewEmailController(service service.EmailService, badges BadgeLoader, waivers WaiverLoader) *EmailController {
	return &EmailController{
		BaseController: controller.NewBaseController(),
		service:        service,
		badges:         badges,
		waivers:        waivers,
	}
}

func (c *EmailController) respond(ctx echo.Context, result *dto.EmailResult) error {
	if result.Success {
		return c.SuccessResponse(ctx, result, "Email sent")
	}
	status := errors.HTTPStatus(result.Code)
	if result.Code == "" {
		status = http.StatusInternalServerError
	}
	return ctx.JSON(status, controller.NewErrorBody(result.Code, result.Error, result))
}

func (c *EmailController) Send(ctx echo.Context) error {
	var req dto.SendEmailRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	if len(req.Data) == 0 {
		return c.BadRequest(errors.ErrInvalidInput, "data is required")
	}
	reqCtx := ctx.Request().Context()

	switch req.Type {
	case dto.EmailTypeWaiverConfirmation:
		var in dto.WaiverEmailRequest
		if err := json.Unmarshal(req.Data, &in); err != nil || strings.TrimSpace(in.WaiverID) == "" {
			return c.BadRequest(errors.ErrInvalidInput, "waiverId is required")
		}
		waiver, appErr := c.waivers.LoadWaiverConfirmation(reqCtx, in.WaiverID)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.respond(ctx, c.service.SendWaiverConfirmationEmail(reqCtx, *waiver))

	case dto.EmailTypeGeneric:
		if !middleware.IsAdmin(ctx) {
			return c.Forbidden(errors.ErrForbidden, "generic email requires an admin token")
		}
		var in dto.GenericEmail
		if err := json.Unmarshal(req.Data, &in); err != nil {
			return c.BadRequest(errors.ErrInvalidRequestData, "invalid email data")
		}
		v := validator.New()
		for _, to := range in.To {
			v.Email("to", to)
		}
		if v.HasError() {
			return c.ValidationFailed(ctx, v.Errors)
		}
		return c.respond(ctx, c.service.SendEmail(reqCtx, in))

	case dto.EmailTypeBadgeConfirmation:
		var in dto.BadgeEmailRequest
		if err := json.Unmarshal(req.Data, &in); err != nil || strings.TrimSpace(in.BadgeID) == "" {
			return c.BadRequest(errors.ErrInvalidInput, "badgeId is required")
		}
		badge, appErr := c.badges.LoadBadgeConfirmation(reqCtx, in.BadgeID)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.respond(ctx, c.service.SendBadgeConfirmationEmail(reqCtx, *badge))

	default:
		logger.Warn("EmailController:Send:UnknownType", "type", req.Type)
		return c.BadRequest(errors.ErrInvalidInput, "type must be one of waiver-confirmation, generic, badge-confirmation")
	}
}

func (c *EmailController) Verify(ctx echo.Context) error {
	resp := dto.VerifyResponse{Configured: c.service.IsConfigured()}
	if resp.Configured {
		resp.Valid = c.service.VerifyEmailConfiguration(ctx.Request().Context())
	}
	return c.SuccessResponse(ctx, resp, "Email configuration checked")
}
