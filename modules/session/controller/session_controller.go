package controller

import (
	"conference-badge-api/core/controller"
	"conference-badge-api/core/errors"
	"conference-badge-api/modules/session/dto"
	"conference-badge-api/modules/session/entity"
	"conference-badge-api/modules/session/service"

	"github.com/labstack/echo/v4"
)

type SessionController struct {
	controller.BaseController
	service service.SessionService
}

func NewSessionController(service service.SessionService) *SessionController {
	return &SessionController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func toResponse(s *entity.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		SessionID: s.ID,
		Data:      s.SessionData,
		ExpiresAt: s.ExpiresAt,
	}
	if s.WaiverID != nil {
		resp.WaiverID = s.WaiverID.String()
	}
	return resp
}

func (c *SessionController) Create(ctx echo.Context) error {
	var req dto.CreateSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	session, appErr := c.service.Create(ctx.Request().Context(), req.Data)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, toResponse(session), "Session created")
}

func (c *SessionController) Get(ctx echo.Context) error {
	session, appErr := c.service.Get(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, toResponse(session), "Session retrieved")
}
