package controller

import (
	"time"

	"conference-badge-api/core/controller"
	"conference-badge-api/core/logger"
	"conference-badge-api/modules/event/mapper"
	"conference-badge-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	service service.EventService
}

func NewEventController(service service.EventService) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *EventController) GetBySlug(ctx echo.Context) error {
	slug := ctx.Param("slug")
	event, appErr := c.service.GetBySlug(ctx.Request().Context(), slug)
	if appErr != nil {
		logger.Warn("EventController:GetBySlug:Failed", "slug", slug, "error", appErr)
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, mapper.ToEventResponse(event, time.Now()), "Event retrieved")
}
